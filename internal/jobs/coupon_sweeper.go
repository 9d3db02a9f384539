package jobs

import (
	"context"
	"fmt"
	"time"

	"freshmart/internal/store"
)

// CouponSweeper periodically disables coupons whose expiry has passed.
// The evaluator also deactivates expired coupons lazily when it reads them;
// the sweep catches coupons nobody tries to use.
type CouponSweeper struct {
	store    *store.Store
	interval time.Duration
}

func NewCouponSweeper(st *store.Store, interval time.Duration) *CouponSweeper {
	return &CouponSweeper{store: st, interval: interval}
}

// Run blocks, sweeping on every tick until the context is cancelled
func (s *CouponSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one expiration pass
func (s *CouponSweeper) Sweep(ctx context.Context) {
	count, err := s.store.DeactivateExpiredCoupons(ctx, time.Now())
	if err != nil {
		fmt.Printf("Error updating expired coupons: %v\n", err)
		return
	}

	if count > 0 {
		fmt.Printf("Disabled %d expired coupons\n", count)
	}
}
