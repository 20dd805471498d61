package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/selamkitchen/restaurant-backend/internal/address"
	"github.com/selamkitchen/restaurant-backend/internal/banner"
	"github.com/selamkitchen/restaurant-backend/internal/cart"
	"github.com/selamkitchen/restaurant-backend/internal/category"
	"github.com/selamkitchen/restaurant-backend/internal/config"
	"github.com/selamkitchen/restaurant-backend/internal/dashboard"
	"github.com/selamkitchen/restaurant-backend/internal/favorite"
	"github.com/selamkitchen/restaurant-backend/internal/featured"
	"github.com/selamkitchen/restaurant-backend/internal/location"
	"github.com/selamkitchen/restaurant-backend/internal/menu"
	"github.com/selamkitchen/restaurant-backend/internal/order"
	"github.com/selamkitchen/restaurant-backend/internal/owner"
	"github.com/selamkitchen/restaurant-backend/internal/user"
)

func main() {
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	menuService := menu.NewService(menu.NewPostgresRepository(db))
	menuHandler := menu.NewHandler(menuService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), menuService)
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(order.NewPostgresRepository(db))
	orderHandler := order.NewHandler(orderService)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cartService, cfg.JWTSecret)

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))
	bannerHandler := banner.NewHandler(banner.NewService(banner.NewPostgresRepository(db)))
	featuredHandler := featured.NewHandler(featured.NewService(featured.NewPostgresRepository(db)))
	locationHandler := location.NewHandler(location.NewService(location.NewPostgresRepository(db)))
	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))
	favoriteHandler := favorite.NewHandler(favorite.NewService(favorite.NewPostgresRepository(db)))
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(dashboard.NewPostgresRepository(db)))

	// public surface: browsing and account creation need no identity at all
	ownerHandler := owner.NewHandler()
	ownerHandler.RegisterPublicRoutes(app)
	userHandler.RegisterPublicRoutes(app)
	menuHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	bannerHandler.RegisterPublicRoutes(app)
	featuredHandler.RegisterPublicRoutes(app)
	locationHandler.RegisterPublicRoutes(app)

	// cart and checkout accept either a logged-in user or an anonymous
	// session id, so they sit behind the optional parser rather than the
	// mandatory JWT middleware
	app.Use(user.OptionalAuth(cfg.JWTSecret))
	cartHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app)

	// everything below requires a valid token
	app.Use(jwtware.New(jwtware.Config{SigningKey: []byte(cfg.JWTSecret)}))
	userHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	favoriteHandler.RegisterProtectedRoutes(app)

	admin := app.Group("/api/v1/admin", user.RequireAdmin())
	menuHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	bannerHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	userHandler.RegisterAdminRoutes(admin)
	dashboardHandler.RegisterAdminRoutes(admin)

	log.Fatal(app.Listen(cfg.Addr))
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Printf("%s %s -> %d (%s)", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// ensureSchema provisions every table the repositories expect. Statements are
// idempotent so restarting against an existing database is safe.
func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'customer',
			main_address_id INT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			sort_order INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10,2) NOT NULL,
			category_id INT REFERENCES categories(id) ON DELETE SET NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			image TEXT,
			featured_score INT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS menu_item_variants (
			id SERIAL PRIMARY KEY,
			menu_item_id INT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			surcharge NUMERIC(10,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
			id SERIAL PRIMARY KEY,
			owner_key TEXT NOT NULL,
			menu_item_id INT NOT NULL,
			variant TEXT,
			variant_key TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(10,2) NOT NULL,
			instructions TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		// the conflict target for concurrent adds of the same (item, variant)
		`CREATE UNIQUE INDEX IF NOT EXISTS cart_lines_owner_item_variant
			ON cart_lines (owner_key, menu_item_id, variant_key)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			owner_key TEXT NOT NULL,
			user_id INT REFERENCES users(id) ON DELETE SET NULL,
			total NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			order_type TEXT NOT NULL DEFAULT 'pickup',
			scheduled_at TIMESTAMPTZ,
			instructions TEXT,
			address_id INT,
			idempotency_key TEXT,
			estimated_ready_at TIMESTAMPTZ,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS orders_owner_idempotency_key
			ON orders (owner_key, idempotency_key) WHERE idempotency_key IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id INT NOT NULL,
			quantity INT NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			variant TEXT,
			instructions TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			label TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			menu_item_id INT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			UNIQUE (user_id, menu_item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS banners (
			id SERIAL PRIMARY KEY,
			image_url TEXT,
			link TEXT,
			alt TEXT,
			sort_order INT
		)`,
		`CREATE TABLE IF NOT EXISTS locations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			phone TEXT,
			hours TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
