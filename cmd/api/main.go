package main

import (
	"log"
	"time"

	config "github.com/skillup-app/skillup_backend/configs"
	"github.com/skillup-app/skillup_backend/database"
	"github.com/skillup-app/skillup_backend/jobs"
	"github.com/skillup-app/skillup_backend/notifications"
	"github.com/skillup-app/skillup_backend/routes"
	"github.com/skillup-app/skillup_backend/rtc"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 Migration failed: %v", err)
	}
	database.SeedAdmin(db)
	notifications.InitEmailService()

	tokens, err := rtc.NewAgoraProvider(config.Config("AGORA_APP_ID"), config.Config("AGORA_APP_CERTIFICATE"))
	if err != nil {
		log.Fatalf("🔥 Agora credentials missing: %v", err)
	}

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.DeactivateEndedContests(db))
	c.AddFunc("*/10 * * * *", jobs.ExpireStalePendingRequests(db))
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "SkillUp",
		CaseSensitive:     true,
		StrictRouting:     false,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"data":    nil,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Welcome to SkillUp API",
		})
	})

	routes.AuthRoutes(app, db)
	routes.TutorRoutes(app, db)
	routes.ContestRoutes(app, db)
	routes.CounselorRoutes(app, db, tokens)
	routes.MeetingRoutes(app, db, tokens)
	routes.CourseRoutes(app, db)
	routes.ResourceRoutes(app, db)
	routes.UploadRoutes(app, db)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
