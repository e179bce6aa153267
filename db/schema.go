package db

// Tables are created in dependency order so foreign keys resolve.
var schema = []struct {
	table string
	ddl   string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id INT PRIMARY KEY AUTO_INCREMENT,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		role ENUM('admin', 'farmer') NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_role (role)
	)`},
	{"products", `CREATE TABLE IF NOT EXISTS products (
		id INT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		category ENUM('Seeds', 'Fertilizers', 'Pesticides') NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		image_url TEXT,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_category (category)
	)`},
	{"orders", `CREATE TABLE IF NOT EXISTS orders (
		id INT PRIMARY KEY AUTO_INCREMENT,
		user_id INT NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		status ENUM('pending', 'processing', 'completed', 'cancelled') NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT,
		INDEX idx_user_id (user_id),
		INDEX idx_status (status)
	)`},
	{"order_items", `CREATE TABLE IF NOT EXISTS order_items (
		id INT PRIMARY KEY AUTO_INCREMENT,
		order_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		price_per_unit DECIMAL(10,2) NOT NULL,
		total_price DECIMAL(10,2) NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT,
		INDEX idx_order_id (order_id),
		INDEX idx_product_id (product_id)
	)`},
	{"loans", `CREATE TABLE IF NOT EXISTS loans (
		id INT PRIMARY KEY AUTO_INCREMENT,
		user_id INT NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		interest_rate DECIMAL(5,2) NOT NULL,
		term_months INT NOT NULL,
		status ENUM('pending', 'approved', 'rejected', 'paid') NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT,
		INDEX idx_user_id (user_id),
		INDEX idx_status (status)
	)`},
	{"weather_alerts", `CREATE TABLE IF NOT EXISTS weather_alerts (
		id INT PRIMARY KEY AUTO_INCREMENT,
		type VARCHAR(100) NOT NULL,
		severity ENUM('low', 'medium', 'high') NOT NULL,
		description TEXT NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_severity (severity),
		INDEX idx_date_range (start_date, end_date)
	)`},
}
