package models

import (
	"time"

	"github.com/Zmley/warehouse-admin-sub001/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskInProcess TaskStatus = "IN_PROCESS"
	TaskCompleted TaskStatus = "COMPLETED"
	TaskCanceled  TaskStatus = "CANCELED"
)

var TaskStatuses = []TaskStatus{TaskPending, TaskInProcess, TaskCompleted, TaskCanceled}

func (s TaskStatus) Valid() bool {
	return slices.Contains(TaskStatuses, s)
}

// taskTransitions lists, per status, the statuses a task may move to.
// Cancel is accepted from every status, including COMPLETED; cancelling a
// completed task does not reverse its inventory movement.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:   {TaskInProcess, TaskCanceled},
	TaskInProcess: {TaskCompleted, TaskCanceled},
	TaskCompleted: {TaskCanceled},
	TaskCanceled:  {TaskCanceled},
}

// CanTransition reports whether a task in status from may move to status to.
func CanTransition(from, to TaskStatus) bool {
	return slices.Contains(taskTransitions[from], to)
}

type Task struct {
	TaskID           types.SnowflakeID  `json:"taskID" gorm:"primaryKey;autoIncrement:false"`
	WarehouseID      types.SnowflakeID  `json:"warehouseID" gorm:"not null;index"`
	SourceBinID      *types.SnowflakeID `json:"sourceBinID" gorm:"index:idx_task_source_status,priority:1"`
	DestinationBinID types.SnowflakeID  `json:"destinationBinID" gorm:"not null;index"`
	ProductCode      string             `json:"productCode" gorm:"size:64;not null"`
	// Quantity 0 means everything available.
	Quantity   int                `json:"quantity" gorm:"not null;default:0"`
	Status     TaskStatus         `json:"status" gorm:"size:20;not null;default:'PENDING';index:idx_task_source_status,priority:2"`
	CreatorID  types.SnowflakeID  `json:"creatorID" gorm:"not null"`
	AccepterID *types.SnowflakeID `json:"accepterID"`

	SourceBin      *Bin `json:"sourceBin,omitempty" gorm:"foreignKey:SourceBinID;references:BinID"`
	DestinationBin *Bin `json:"destinationBin,omitempty" gorm:"foreignKey:DestinationBinID;references:BinID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Task) TableName() string { return "task" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.TaskID)
	return nil
}
