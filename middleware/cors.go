package middleware

import (
	"contacts-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// InitCors lets the dashboard origins in CORS_ALLOW_ORIGINS (comma separated)
// call the contacts API with their session cookies.
func InitCors(app *fiber.App) {
	app.Use(cors.New(corsConfig()))
}

func corsConfig() cors.Config {
	return cors.Config{
		AllowOrigins:     config.GetEnvOr("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, Cookie",
		AllowCredentials: true,
		MaxAge:           config.GetEnvInt("CORS_MAX_AGE", 600),
	}
}
