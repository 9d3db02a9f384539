package checkout

import (
	"context"
	"sync"

	"freshmart/internal/models"
)

// fakeStore is an in-memory Store for exercising the managers without a
// database. InTx stages a copy of the mutable state and only publishes it on
// success, matching the all-or-nothing contract of the SQL implementation,
// and holds a mutex for the whole transaction so concurrent checkouts
// serialize the way row locks would.
type fakeStore struct {
	mu sync.Mutex

	users    map[int64]models.User
	coupons  map[string]*models.Coupon
	products map[string]models.Product
	orders   map[string]models.Order
	items    map[string][]models.OrderItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]models.User),
		coupons:  make(map[string]*models.Coupon),
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		items:    make(map[string][]models.OrderItem),
	}
}

func (f *fakeStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

// CouponByCode and DeactivateCoupon satisfy coupons.Store. They are not
// guarded by mu because the evaluator runs inside InTx while the lock is held.
func (f *fakeStore) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) DeactivateCoupon(ctx context.Context, id string) error {
	for _, c := range f.coupons {
		if c.ID == id {
			c.IsActive = false
		}
	}
	return nil
}

type txState struct {
	products map[string]models.Product
	orders   map[string]models.Order
	items    map[string][]models.OrderItem
}

func (f *fakeStore) stage() *txState {
	s := &txState{
		products: make(map[string]models.Product, len(f.products)),
		orders:   make(map[string]models.Order, len(f.orders)),
		items:    make(map[string][]models.OrderItem, len(f.items)),
	}
	for id, p := range f.products {
		s.products[id] = p
	}
	for id, o := range f.orders {
		s.orders[id] = o
	}
	for id, items := range f.items {
		s.items[id] = append([]models.OrderItem(nil), items...)
	}
	return s
}

func (f *fakeStore) InTx(ctx context.Context, fn func(Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	staged := f.stage()
	if err := fn(&fakeTx{state: staged}); err != nil {
		return err
	}

	f.products = staged.products
	f.orders = staged.orders
	f.items = staged.items
	return nil
}

// stockOf reads committed stock outside any transaction
func (f *fakeStore) stockOf(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeStore) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeTx struct {
	state *txState
}

func (t *fakeTx) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := t.state.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (t *fakeTx) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	p, ok := t.state.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	t.state.products[productID] = p
	return true, nil
}

func (t *fakeTx) IncrementStock(ctx context.Context, productID string, qty int) error {
	p := t.state.products[productID]
	p.Stock += qty
	t.state.products[productID] = p
	return nil
}

func (t *fakeTx) InsertOrder(ctx context.Context, o *models.Order) error {
	t.state.orders[o.ID] = *o
	return nil
}

func (t *fakeTx) InsertOrderItem(ctx context.Context, it *models.OrderItem) error {
	t.state.items[it.OrderID] = append(t.state.items[it.OrderID], *it)
	return nil
}

func (t *fakeTx) OrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	return t.OrderWithItems(ctx, id)
}

func (t *fakeTx) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	o, ok := t.state.orders[id]
	if !ok {
		return models.ErrNotFound
	}
	o.Status = status
	t.state.orders[id] = o
	return nil
}

func (t *fakeTx) OrderWithItems(ctx context.Context, id string) (*models.Order, error) {
	o, ok := t.state.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	o.Items = nil
	for _, it := range t.state.items[id] {
		if p, ok := t.state.products[it.ProductID]; ok {
			copied := p
			it.Product = &copied
		}
		o.Items = append(o.Items, it)
	}
	return &o, nil
}
