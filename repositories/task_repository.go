package repositories

import (
	"context"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("SourceBin", "DestinationBin").Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, warehouseID, taskID types.SnowflakeID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("SourceBin").
		Preload("DestinationBin").
		Where("task_id = ? AND warehouse_id = ?", taskID, warehouseID).
		First(&task).Error
	return &task, err
}

// GetTasks lists a warehouse's tasks, newest first, optionally filtered by status.
func (r *TaskRepository) GetTasks(ctx context.Context, warehouseID types.SnowflakeID, statuses ...models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	q := r.db.WithContext(ctx).
		Preload("SourceBin").
		Preload("DestinationBin").
		Where("warehouse_id = ?", warehouseID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Order("created_at DESC").Order("task_id DESC").Find(&tasks).Error
	return tasks, err
}

// FindActiveForSourceBin returns the IN_PROCESS task holding the bin, other than excludeID.
func (r *TaskRepository) FindActiveForSourceBin(ctx context.Context, binID, excludeID types.SnowflakeID) (*models.Task, error) {
	var task models.Task
	q := r.db.WithContext(ctx).
		Where("source_bin_id = ? AND status = ?", binID, models.TaskInProcess)
	if !excludeID.IsZero() {
		q = q.Where("task_id <> ?", excludeID)
	}
	err := q.First(&task).Error
	return &task, err
}

// UpdateState moves a task from status from to its current status and
// accepter. It reports false when the task was no longer in status from.
func (r *TaskRepository) UpdateState(ctx context.Context, task *models.Task, from models.TaskStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("task_id = ? AND status = ?", task.TaskID, from).
		Updates(map[string]interface{}{
			"status":      task.Status,
			"accepter_id": task.AccepterID,
		})
	return res.RowsAffected > 0, res.Error
}
