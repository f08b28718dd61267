package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/Zmley/warehouse-admin-sub001/middleware"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/gofiber/fiber/v2"
)

func SetupBinRoutes(api fiber.Router, controller *controllers.BinController, authenticated fiber.Handler) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	group := api.Group("/bins", authenticated)

	// Static paths before /:binCode
	group.Get("/", controller.GetBinCodes)
	group.Get("/all", controller.GetBins)
	group.Get("/code/:productCode", controller.GetBinCodesByProduct)
	group.Get("/:binCode", controller.GetBinByCode)

	group.Post("/", adminOnly, controller.CreateBin)
	group.Post("/upload", adminOnly, controller.UploadBins)
	group.Put("/:binID/defaultProducts", adminOnly, controller.UpdateDefaultProducts)
	group.Delete("/:binID", adminOnly, controller.DeleteBin)
}
