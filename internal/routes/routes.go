package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Copay-Africa/copay-server-sub001/internal/config"
	"github.com/Copay-Africa/copay-server-sub001/internal/handlers"
	"github.com/Copay-Africa/copay-server-sub001/internal/middleware"
	"github.com/Copay-Africa/copay-server-sub001/internal/ussd"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg config.Config, engine *ussd.Engine) {
	ussdHandler := handlers.NewUSSDHandler(engine)

	// USSD aggregator callback - token-validated outside development
	if cfg.Environment == "development" || cfg.AggregatorToken == "" {
		app.Post("/ussd", ussdHandler.HandleUSSD)
	} else {
		app.Post("/ussd", middleware.ValidateAggregatorToken(cfg.AggregatorToken), ussdHandler.HandleUSSD)
	}

	// Aggregator-side liveness probe
	app.Post("/ussd/health", ussdHandler.HandleHealth)
}
