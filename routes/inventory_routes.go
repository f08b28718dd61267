package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/Zmley/warehouse-admin-sub001/middleware"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRoutes(api fiber.Router, controller *controllers.InventoryController, authenticated fiber.Handler) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	group := api.Group("/inventories", authenticated)

	group.Get("/", controller.GetInventories)
	group.Get("/export", adminOnly, controller.ExportInventories)
	group.Post("/", adminOnly, controller.AddInventory)
	group.Post("/upload", adminOnly, controller.UploadInventories)
	group.Put("/:inventoryID", adminOnly, controller.UpdateInventory)
	group.Delete("/:inventoryID", adminOnly, controller.DeleteInventory)
}
