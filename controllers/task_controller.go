package controllers

import (
	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

type adminTaskInput struct {
	SourceBinCode      string `json:"sourceBinCode" validate:"required"`
	DestinationBinCode string `json:"destinationBinCode" validate:"required"`
	ProductCode        string `json:"productCode" validate:"required"`
	Quantity           int    `json:"quantity" validate:"min=0"`
}

// pickerTaskInput leaves the source open: any INVENTORY bin holding the
// product may feed the task.
type pickerTaskInput struct {
	SourceBinCode      string `json:"sourceBinCode"`
	DestinationBinCode string `json:"destinationBinCode" validate:"required"`
	ProductCode        string `json:"productCode" validate:"required"`
	Quantity           int    `json:"quantity" validate:"min=0"`
}

type getTasksInput struct {
	Status []models.TaskStatus `json:"status"`
}

func (c *TaskController) CreateAsAdmin(ctx *fiber.Ctx) error {
	var input adminTaskInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	return c.create(ctx, services.CreateTaskInput{
		SourceBinCode:      input.SourceBinCode,
		DestinationBinCode: input.DestinationBinCode,
		ProductCode:        input.ProductCode,
		Quantity:           input.Quantity,
	})
}

func (c *TaskController) CreateAsPicker(ctx *fiber.Ctx) error {
	var input pickerTaskInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	return c.create(ctx, services.CreateTaskInput{
		SourceBinCode:      input.SourceBinCode,
		DestinationBinCode: input.DestinationBinCode,
		ProductCode:        input.ProductCode,
		Quantity:           input.Quantity,
	})
}

func (c *TaskController) create(ctx *fiber.Ctx, in services.CreateTaskInput) error {
	principal, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	in.WarehouseID = warehouseID
	in.CreatorID = principal.AccountID

	task, err := c.tasks.CreateTask(ctx.UserContext(), in)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(task)
}

func (c *TaskController) GetTasks(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	var input getTasksInput
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&input); err != nil {
			return apperror.Validation("Invalid request body")
		}
	}
	for _, status := range input.Status {
		if !status.Valid() {
			return apperror.Validation("Invalid task status %s", status)
		}
	}

	tasks, err := c.tasks.GetTasksForWarehouse(ctx.UserContext(), warehouseID, input.Status...)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"message": "Tasks retrieved successfully",
		"tasks":   tasks,
	})
}

func (c *TaskController) CancelTask(ctx *fiber.Ctx) error {
	_, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	taskID, err := paramID(ctx, "taskID")
	if err != nil {
		return err
	}
	task, err := c.tasks.CancelTask(ctx.UserContext(), warehouseID, taskID)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Task canceled successfully", "task": task})
}

func (c *TaskController) AcceptTask(ctx *fiber.Ctx) error {
	principal, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return err
	}
	taskID, err := paramID(ctx, "taskID")
	if err != nil {
		return err
	}
	task, err := c.tasks.AcceptTask(ctx.UserContext(), warehouseID, taskID, principal.AccountID)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Task accepted successfully", "task": task})
}

func (c *TaskController) CompleteTask(ctx *fiber.Ctx) error {
	act, err := actor(ctx)
	if err != nil {
		return err
	}
	taskID, err := paramID(ctx, "taskID")
	if err != nil {
		return err
	}
	task, err := c.tasks.CompleteTask(ctx.UserContext(), act, taskID)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Task completed successfully", "task": task})
}
