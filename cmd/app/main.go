package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"

	"github.com/odontools/shop-backend/internal/cart"
	"github.com/odontools/shop-backend/internal/config"
	"github.com/odontools/shop-backend/internal/database"
	"github.com/odontools/shop-backend/internal/export"
	"github.com/odontools/shop-backend/internal/notify"
	"github.com/odontools/shop-backend/internal/product"
	"github.com/odontools/shop-backend/internal/sale"
	"github.com/odontools/shop-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.MailTimeout)
	dispatcher := notify.NewDispatcher(mailer, cfg.AdminEmail)
	go dispatcher.Run(ctx)

	userService := user.NewService(user.NewPostgresRepository(db))
	productService := product.NewService(product.NewPostgresRepository(db))
	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	saleService := sale.NewService(sale.NewPostgresRepository(db), productService, cartService, userService, dispatcher)

	userHandler := user.NewHandler(userService, cfg.JWTSecret)
	productHandler := product.NewHandler(productService)
	cartHandler := cart.NewHandler(cartService)
	saleHandler := sale.NewHandler(saleService)
	exportHandler := export.NewHandler(saleService, userService, productService)

	app := newRouter(cfg.JWTSecret, userHandler, productHandler, cartHandler, saleHandler, exportHandler)

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

func newRouter(jwtSecret string, users *user.Handler, products *product.Handler,
	carts *cart.Handler, sales *sale.Handler, exports *export.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.New())

	users.RegisterPublicRoutes(app)
	products.RegisterPublicRoutes(app)
	app.Static("/uploads", "./uploads")

	app.Use(cookieToHeader)
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(jwtSecret),
	}))

	users.RegisterProtectedRoutes(app)
	products.RegisterProtectedRoutes(app)
	carts.RegisterProtectedRoutes(app)
	// export routes first so /sales/csv-export is not swallowed by /sales/:id
	exports.RegisterProtectedRoutes(app)
	sales.RegisterProtectedRoutes(app)
	return app
}

// cookieToHeader lets browser clients authenticate with the HttpOnly
// cookie set at login while API clients keep sending a bearer header.
func cookieToHeader(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		if tok := c.Cookies("token"); tok != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}
	return c.Next()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
