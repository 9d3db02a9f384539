package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"freshmart/internal/config"
	"freshmart/internal/database"
	"freshmart/internal/jobs"
	"freshmart/internal/server"
	"freshmart/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Freshmart server",
	Long: `Start the Freshmart server which provides:
- REST API for the product catalog, coupons, and orders
- JWT-authenticated admin endpoints with audit logging
- Background expiration of coupons past their expiry date`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Freshmart Starting...")

	// .env is optional; viper picks the variables up afterwards
	_ = godotenv.Load()

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database connected successfully")

	fmt.Println("⏰ Starting coupon expiration sweep...")
	sweeper := jobs.NewCouponSweeper(store.New(db), cfg.Jobs.CouponSweepInterval)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go sweeper.Run(ctx)

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(db, cfg.Auth)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
