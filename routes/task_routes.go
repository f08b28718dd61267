package routes

import (
	"github.com/Zmley/warehouse-admin-sub001/controllers"
	"github.com/Zmley/warehouse-admin-sub001/middleware"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(api fiber.Router, controller *controllers.TaskController, authenticated fiber.Handler) {
	group := api.Group("/tasks", authenticated)

	group.Post("/createAsAdmin", middleware.RequireRole(models.RoleAdmin), controller.CreateAsAdmin)
	group.Post("/createAsPicker", middleware.RequireRole(models.RolePicker, models.RoleAdmin), controller.CreateAsPicker)
	group.Post("/getTasks", controller.GetTasks)
	group.Post("/cancelTask/:taskID", middleware.RequireRole(models.RoleAdmin, models.RolePicker), controller.CancelTask)

	worker := middleware.RequireRole(models.RoleTransportWorker, models.RoleAdmin)
	group.Post("/acceptTask/:taskID", worker, controller.AcceptTask)
	group.Post("/completeTask/:taskID", worker, controller.CompleteTask)
}
