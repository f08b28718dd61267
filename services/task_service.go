package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

// MsgBinCommitted is the message of the Conflict returned when the source bin
// already feeds an IN_PROCESS task.
const MsgBinCommitted = "source bin already committed to an active task"

type CreateTaskInput struct {
	WarehouseID types.SnowflakeID
	CreatorID   types.SnowflakeID
	// SourceBinCode is optional; empty means any INVENTORY bin holding the product.
	SourceBinCode      string
	DestinationBinCode string
	ProductCode        string
	// Quantity 0 moves everything available.
	Quantity int
}

// TaskView is a task with the bins it reads from resolved to codes.
type TaskView struct {
	models.Task
	SourceBins         []repositories.BinStock `json:"sourceBins"`
	DestinationBinCode string                  `json:"destinationBinCode"`
}

type TaskService struct {
	db      *gorm.DB
	logs    *LogService
	metrics *metrics.Metrics
}

func NewTaskService(db *gorm.DB, logs *LogService, m *metrics.Metrics) *TaskService {
	return &TaskService{db: db, logs: logs, metrics: m}
}

// CreateTask resolves both bins and inserts a PENDING task. The source bin
// row is locked before the IN_PROCESS check, so two callers racing for the
// same bin are serialized by the database.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	if err := requireWarehouse(in.WarehouseID); err != nil {
		return nil, err
	}
	productCode := strings.TrimSpace(in.ProductCode)
	if productCode == "" {
		return nil, apperror.Validation("productCode is required")
	}
	if in.Quantity < 0 {
		return nil, apperror.Validation("quantity must not be negative")
	}

	task := &models.Task{
		WarehouseID: in.WarehouseID,
		ProductCode: productCode,
		Quantity:    in.Quantity,
		Status:      models.TaskPending,
		CreatorID:   in.CreatorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bins := repositories.NewBinRepository(tx)

		destination, err := resolveBin(ctx, bins, in.WarehouseID, in.DestinationBinCode)
		if err != nil {
			return err
		}
		task.DestinationBinID = destination.BinID
		task.DestinationBin = destination

		if strings.TrimSpace(in.SourceBinCode) == "" {
			return repositories.NewTaskRepository(tx).Create(ctx, task)
		}

		source, err := resolveBin(ctx, bins, in.WarehouseID, in.SourceBinCode)
		if err != nil {
			return err
		}
		if source.BinID == destination.BinID {
			return apperror.Validation("source and destination bin must differ")
		}
		task.SourceBinID = source.BinID.Ptr()
		task.SourceBin = source

		if err := bins.Lock(ctx, source.BinID); err != nil {
			return err
		}
		if err := ensureBinFree(ctx, tx, source.BinID, 0); err != nil {
			return err
		}
		return repositories.NewTaskRepository(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TaskTransition(string(models.TaskPending))
	return task, nil
}

// ensureBinFree fails with Conflict when a task other than excludeID is
// IN_PROCESS on the bin. The caller holds the bin lock.
func ensureBinFree(ctx context.Context, tx *gorm.DB, binID, excludeID types.SnowflakeID) error {
	_, err := repositories.NewTaskRepository(tx).FindActiveForSourceBin(ctx, binID, excludeID)
	if err == nil {
		return apperror.Conflict(MsgBinCommitted)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// AcceptTask moves a PENDING task to IN_PROCESS for accepterID.
func (s *TaskService) AcceptTask(ctx context.Context, warehouseID, taskID, accepterID types.SnowflakeID) (*models.Task, error) {
	task, err := s.transition(ctx, warehouseID, taskID, models.TaskInProcess, func(tx *gorm.DB, task *models.Task) error {
		if task.SourceBinID != nil {
			if err := repositories.NewBinRepository(tx).Lock(ctx, *task.SourceBinID); err != nil {
				return err
			}
			if err := ensureBinFree(ctx, tx, *task.SourceBinID, task.TaskID); err != nil {
				return err
			}
		}
		task.AccepterID = accepterID.Ptr()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CancelTask cancels a task whatever its status and clears the accepter.
// Cancelling a COMPLETED task does not reverse its stock movement.
func (s *TaskService) CancelTask(ctx context.Context, warehouseID, taskID types.SnowflakeID) (*models.Task, error) {
	return s.transition(ctx, warehouseID, taskID, models.TaskCanceled, func(tx *gorm.DB, task *models.Task) error {
		task.AccepterID = nil
		return nil
	})
}

// CompleteTask finishes an IN_PROCESS task and moves its stock into the
// destination bin.
func (s *TaskService) CompleteTask(ctx context.Context, actor Actor, taskID types.SnowflakeID) (*models.Task, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	moved := 0
	task, err := s.transition(ctx, actor.WarehouseID, taskID, models.TaskCompleted, func(tx *gorm.DB, task *models.Task) error {
		movements, err := s.moveStock(ctx, tx, task)
		if err != nil {
			return err
		}
		for _, m := range movements {
			moved += m.Quantity
		}
		return s.logs.Record(ctx, tx, actor, movements...)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.StockMoved(string(models.LogTaskComplete), moved)
	return task, nil
}

// transition loads the task, checks the move against the transition table,
// lets apply adjust the task and persists it, all in one transaction.
func (s *TaskService) transition(ctx context.Context, warehouseID, taskID types.SnowflakeID, to models.TaskStatus, apply func(tx *gorm.DB, task *models.Task) error) (*models.Task, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}

	var task *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewTaskRepository(tx)
		var err error
		task, err = repo.GetByID(ctx, warehouseID, taskID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Task not found")
		}
		if err != nil {
			return err
		}

		from := task.Status
		if !models.CanTransition(from, to) {
			return apperror.Conflict("cannot move task from %s to %s", from, to)
		}
		if err := apply(tx, task); err != nil {
			return err
		}

		task.Status = to
		updated, err := repo.UpdateState(ctx, task, from)
		if err != nil {
			return err
		}
		if !updated {
			return apperror.Conflict("task was changed by another request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TaskTransition(string(to))
	return task, nil
}

// moveStock takes the task's quantity out of its source bin, or out of the
// fullest INVENTORY bins when it has none, and puts it in the destination.
func (s *TaskService) moveStock(ctx context.Context, tx *gorm.DB, task *models.Task) ([]Movement, error) {
	var sources []repositories.BinStock
	if task.SourceBinID != nil {
		current, err := repositories.NewInventoryRepository(tx).GetByBinAndProduct(ctx, *task.SourceBinID, task.ProductCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil {
			sources = append(sources, repositories.BinStock{BinID: *task.SourceBinID, Quantity: current.Quantity})
		}
	} else {
		stock, err := repositories.NewBinRepository(tx).StockForProduct(ctx, task.WarehouseID, task.ProductCode, models.BinTypeInventory)
		if err != nil {
			return nil, err
		}
		for _, st := range stock {
			if st.BinID != task.DestinationBinID {
				sources = append(sources, st)
			}
		}
	}

	available := 0
	for _, st := range sources {
		available += st.Quantity
	}
	need := task.Quantity
	if need == 0 {
		need = available
	}
	if need == 0 {
		return nil, apperror.Validation("no stock of %s to move", task.ProductCode)
	}
	if available < need {
		return nil, apperror.Validation("insufficient stock of %s: need %d, have %d", task.ProductCode, need, available)
	}

	var movements []Movement
	remaining := need
	for _, st := range sources {
		if remaining == 0 {
			break
		}
		take := min(st.Quantity, remaining)
		if _, err := upsertQuantity(ctx, tx, st.BinID, task.ProductCode, -take); err != nil {
			return nil, err
		}
		if _, err := upsertQuantity(ctx, tx, task.DestinationBinID, task.ProductCode, take); err != nil {
			return nil, err
		}
		remaining -= take
		movements = append(movements, Movement{
			Action:           models.LogTaskComplete,
			ProductCode:      task.ProductCode,
			Quantity:         take,
			SourceBinID:      st.BinID.Ptr(),
			DestinationBinID: task.DestinationBinID.Ptr(),
			TaskID:           task.TaskID.Ptr(),
		})
	}
	return movements, nil
}

// GetTasksForWarehouse lists tasks with their source bins: the assigned bin
// when there is one, otherwise every INVENTORY bin holding the product.
func (s *TaskService) GetTasksForWarehouse(ctx context.Context, warehouseID types.SnowflakeID, statuses ...models.TaskStatus) ([]TaskView, error) {
	if err := requireWarehouse(warehouseID); err != nil {
		return nil, err
	}
	for _, st := range statuses {
		if !st.Valid() {
			return nil, apperror.Validation("unknown task status %s", st)
		}
	}

	tasks, err := repositories.NewTaskRepository(s.db).GetTasks(ctx, warehouseID, statuses...)
	if err != nil {
		return nil, err
	}

	bins := repositories.NewBinRepository(s.db)
	inventories := repositories.NewInventoryRepository(s.db)
	candidates := map[string][]repositories.BinStock{}

	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		view := TaskView{Task: task, SourceBins: []repositories.BinStock{}}
		if task.DestinationBin != nil {
			view.DestinationBinCode = task.DestinationBin.BinCode
		}

		if task.SourceBin != nil {
			st := repositories.BinStock{BinID: task.SourceBin.BinID, BinCode: task.SourceBin.BinCode}
			inv, err := inventories.GetByBinAndProduct(ctx, task.SourceBin.BinID, task.ProductCode)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if err == nil {
				st.Quantity = inv.Quantity
			}
			view.SourceBins = append(view.SourceBins, st)
		} else {
			stock, ok := candidates[task.ProductCode]
			if !ok {
				stock, err = bins.StockForProduct(ctx, warehouseID, task.ProductCode, models.BinTypeInventory)
				if err != nil {
					return nil, err
				}
				candidates[task.ProductCode] = stock
			}
			view.SourceBins = append(view.SourceBins, stock...)
		}
		views = append(views, view)
	}
	return views, nil
}
