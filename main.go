// file: main.go
package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"hostelku_backend/internals/configs"
	paymentService "hostelku_backend/internals/features/payment/payments/service"
	helper "hostelku_backend/internals/helpers"
	"hostelku_backend/internals/middlewares"
	"hostelku_backend/internals/route"

	database "hostelku_backend/internals/databases"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		AppName:      "hostelku-backend",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal server error"

			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				msg = fe.Message
			}
			// 5xx details stay in the log, never in the response body
			if code >= 500 {
				log.Printf("[ERROR] %s %s -> %v", c.Method(), c.Path(), err)
				msg = "Internal server error"
			}
			return helper.JsonError(c, code, msg)
		},
	})

	app.Use(requestid.New())
	app.Use(compress.New())
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	if configs.GetEnv("DB_AUTOMIGRATE", "true") == "true" {
		database.MigrateAll()
	}
	database.WarmUpQueries()

	gateway := paymentService.NewRazorpayGateway(configs.RazorpayKeyID, configs.RazorpayKeySecret)

	route.SetupRoutes(app, database.DB, gateway)

	// graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("[INFO] Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("[ERROR] Shutdown: %v", err)
		}
	}()

	port := configs.GetEnv("PORT", "8080")
	log.Printf("[INFO] Listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("[ERROR] Server stopped: %v", err)
	}
	log.Println("[INFO] Server exited cleanly")
}
