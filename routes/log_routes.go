package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/gofiber/fiber/v2"
)

func SetupLogRoutes(api fiber.Router, controller *controllers.LogController, guards ...fiber.Handler) {
	group := api.Group("/logs", guards...)

	group.Get("/sessions", controller.GetSessions)
	group.Get("/sessions/:sessionID", controller.GetSession)
}
