package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/Zmley/warehouse-admin-sub001/middleware"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/gofiber/fiber/v2"
)

func SetupProductRoutes(api fiber.Router, controller *controllers.ProductController, authenticated fiber.Handler) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	group := api.Group("/products", authenticated)

	group.Get("/", controller.GetProducts)
	group.Get("/code/:productCode", controller.GetProductByCode)
	group.Post("/", adminOnly, controller.CreateProduct)
	group.Post("/upload", adminOnly, controller.UploadProducts)
	group.Put("/:productID", adminOnly, controller.UpdateProduct)
	group.Delete("/:productID", adminOnly, controller.DeleteProduct)
}
