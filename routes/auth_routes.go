package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router, controller *controllers.AuthController, authenticated fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/login", controller.Login)
	group.Get("/me", authenticated, controller.Me)
}
