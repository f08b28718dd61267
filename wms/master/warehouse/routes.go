package warehouse

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupWarehouseRoutes mounts /warehouses on api behind guards.
func SetupWarehouseRoutes(api fiber.Router, db *gorm.DB, guards ...fiber.Handler) {
	handler := NewWarehouseHandler(db)
	group := api.Group("/warehouses", guards...)

	group.Get("/", handler.GetAllWarehouses)
	group.Post("/", handler.CreateWarehouse)
	group.Get("/:warehouseID", handler.GetWarehouseByID)
	group.Put("/:warehouseID", handler.UpdateWarehouse)
	group.Delete("/:warehouseID", handler.DeleteWarehouse)
}
