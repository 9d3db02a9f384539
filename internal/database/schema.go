package database

// SetupSchema creates the storefront tables
func (db *DB) SetupSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
		    id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    email VARCHAR(255) NOT NULL,
		    password VARCHAR(255) NOT NULL,
		    first_name VARCHAR(100) NOT NULL,
		    last_name VARCHAR(100) NOT NULL,
		    phone VARCHAR(32),
		    address VARCHAR(500),
		    is_admin BOOLEAN DEFAULT FALSE,
		    is_active BOOLEAN DEFAULT TRUE,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		    UNIQUE KEY uk_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS products (
		    id CHAR(36) PRIMARY KEY,
		    name VARCHAR(255) NOT NULL,
		    description TEXT,
		    type VARCHAR(50) NOT NULL,
		    icon VARCHAR(100) NOT NULL DEFAULT 'spoon-and-fork',
		    price DECIMAL(10,2) NOT NULL,
		    stock INT NOT NULL DEFAULT 0,
		    is_active BOOLEAN DEFAULT TRUE,
		    is_featured BOOLEAN DEFAULT FALSE,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		    UNIQUE KEY uk_name (name),
		    INDEX idx_is_active (is_active),
		    CHECK (stock >= 0)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS coupons (
		    id CHAR(36) PRIMARY KEY,
		    code VARCHAR(64) NOT NULL,
		    type ENUM('PERCENTAGE', 'FIXED') NOT NULL,
		    value DECIMAL(10,2) NOT NULL,
		    description VARCHAR(500),
		    min_order DECIMAL(10,2) NOT NULL DEFAULT 0,
		    max_discount DECIMAL(10,2) NULL,
		    expires_at TIMESTAMP NULL,
		    is_active BOOLEAN DEFAULT TRUE,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		    UNIQUE KEY uk_code (code),
		    INDEX idx_active_expires (is_active, expires_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS orders (
		    id CHAR(36) PRIMARY KEY,
		    user_id BIGINT NULL,
		    subtotal DECIMAL(10,2) NOT NULL,
		    discount DECIMAL(10,2) NULL,
		    total DECIMAL(10,2) NOT NULL,
		    status ENUM('PENDING', 'SHIPPED', 'DELIVERED', 'CANCELLED') DEFAULT 'PENDING',
		    coupon_code VARCHAR(64) NULL,
		    coupon_type VARCHAR(20) NULL,
		    coupon_value DECIMAL(10,2) NULL,
		    coupon_discount DECIMAL(10,2) NULL,
		    coupon_description VARCHAR(500) NULL,
		    customer_name VARCHAR(255) NOT NULL,
		    customer_email VARCHAR(255) NOT NULL,
		    customer_phone VARCHAR(32) NULL,
		    customer_address VARCHAR(500) NOT NULL,
		    notes TEXT,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		    FOREIGN KEY (user_id) REFERENCES users(id),
		    INDEX idx_user_id (user_id),
		    INDEX idx_customer_email (customer_email),
		    INDEX idx_status (status),
		    INDEX idx_created_at (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS order_items (
		    id CHAR(36) PRIMARY KEY,
		    order_id CHAR(36) NOT NULL,
		    product_id CHAR(36) NOT NULL,
		    quantity INT NOT NULL,
		    price DECIMAL(10,2) NOT NULL,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    FOREIGN KEY (order_id) REFERENCES orders(id),
		    FOREIGN KEY (product_id) REFERENCES products(id),
		    INDEX idx_order_id (order_id),
		    INDEX idx_product_id (product_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS admin_actions (
		    id BIGINT PRIMARY KEY AUTO_INCREMENT,
		    admin_id BIGINT NOT NULL,
		    action VARCHAR(100) NOT NULL,
		    entity_type VARCHAR(50) NOT NULL,
		    entity_id VARCHAR(64) NOT NULL,
		    details JSON NULL,
		    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		    FOREIGN KEY (admin_id) REFERENCES users(id),
		    INDEX idx_admin_id (admin_id),
		    INDEX idx_created_at (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// CleanupData removes all rows (but keeps schema)
func (db *DB) CleanupData() error {
	queries := []string{
		"DELETE FROM admin_actions",
		"DELETE FROM order_items",
		"DELETE FROM orders",
		"DELETE FROM coupons",
		"DELETE FROM products",
		"DELETE FROM users",
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// DropSchema removes all storefront tables
func (db *DB) DropSchema() error {
	queries := []string{
		"DROP TABLE IF EXISTS admin_actions",
		"DROP TABLE IF EXISTS order_items",
		"DROP TABLE IF EXISTS orders",
		"DROP TABLE IF EXISTS coupons",
		"DROP TABLE IF EXISTS products",
		"DROP TABLE IF EXISTS users",
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
