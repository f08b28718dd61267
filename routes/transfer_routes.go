package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/gofiber/fiber/v2"
)

func SetupTransferRoutes(api fiber.Router, controller *controllers.TransferController, guards ...fiber.Handler) {
	group := api.Group("/transfers", guards...)

	group.Get("/", controller.GetTransfers)
	group.Post("/", controller.CreateTransfer)
	group.Post("/:transferID/cancel", controller.CancelTransfer)
	group.Post("/:transferID/complete", controller.CompleteTransfer)
}
