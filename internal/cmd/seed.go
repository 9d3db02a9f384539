package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"freshmart/internal/config"
	"freshmart/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample data",
	Long: `Loads sample users, products, and coupons so the storefront can be
exercised locally. Run after 'freshmart setup'.`,
	RunE: seedData,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedData(cmd *cobra.Command, args []string) error {
	fmt.Println("🌱 Seeding database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("   👥 Creating users...")
	if err := seedUsers(db); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	fmt.Println("   📦 Creating products...")
	if err := seedProducts(db); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	fmt.Println("   🏷️  Creating coupons...")
	if err := seedCoupons(db); err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}

	fmt.Println("✅ Seeding complete!")
	return nil
}

func seedUsers(db *database.DB) error {
	password, err := bcrypt.GenerateFromPassword([]byte("testpass"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []struct {
		email, firstName, lastName, phone, address string
		isAdmin, isActive                          bool
	}{
		{"john.doe@example.com", "John", "Doe", "555-0123", "123 Main St, Anytown, ST 12345", false, true},
		{"jane.smith@example.com", "Jane", "Smith", "555-0456", "456 Oak Ave, Somewhere, ST 67890", false, false},
		{"admin@example.com", "Admin", "User", "555-0789", "789 Admin Blvd, AdminCity, ST 11111", true, true},
	}

	for _, u := range users {
		_, err := db.Exec(`
			INSERT INTO users (email, password, first_name, last_name, phone, address, is_admin, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, u.email, password, u.firstName, u.lastName, u.phone, u.address, u.isAdmin, u.isActive)
		if err != nil {
			return err
		}
	}

	return nil
}

func seedProducts(db *database.DB) error {
	products := []struct {
		name, description, productType, icon string
		price                                float64
		stock                                int
	}{
		{"Broccoli", "Fresh green broccoli", "VEGETABLE", "broccoli", 5.20, 15},
		{"Oranges", "Juicy sweet oranges", "FRUIT", "orange", 9.95, 25},
		{"Steaks", "Premium beef steaks", "MEAT", "steak", 8.32, 8},
		{"Carrots", "Crunchy orange carrots", "VEGETABLE", "carrot", 3.45, 40},
		{"Apples", "Crisp red apples", "FRUIT", "apple", 6.80, 30},
	}

	for _, p := range products {
		_, err := db.Exec(`
			INSERT INTO products (id, name, description, type, icon, price, stock, is_active, is_featured)
			VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, FALSE)
		`, uuid.NewString(), p.name, p.description, p.productType, p.icon, p.price, p.stock)
		if err != nil {
			return err
		}
	}

	return nil
}

func seedCoupons(db *database.DB) error {
	coupons := []struct {
		code, couponType, description string
		value, minOrder               float64
		maxDiscount                   *float64
	}{
		{"SAVE10", "PERCENTAGE", "10% off order", 10, 0, nil},
		{"FIVEOFF", "FIXED", "$5 off any order over $25", 5, 25, nil},
	}

	for _, c := range coupons {
		_, err := db.Exec(`
			INSERT INTO coupons (id, code, type, value, description, min_order, max_discount, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, TRUE)
		`, uuid.NewString(), c.code, c.couponType, c.value, c.description, c.minOrder, c.maxDiscount)
		if err != nil {
			return err
		}
	}

	return nil
}
