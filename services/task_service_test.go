package services

import (
	"sync"
	"testing"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// warehouse W: bin A1 (INVENTORY) holding SKU1 x10 and bin P1 (PICK_UP).
func newTaskFixture(t *testing.T) (*fixture, *models.Bin, *models.Bin) {
	f := newFixture(t)
	a1 := f.bin("A1", models.BinTypeInventory)
	p1 := f.bin("P1", models.BinTypePickUp)
	f.stock(a1, "SKU1", 10)
	return f, a1, p1
}

func TestCreateTask_Pending(t *testing.T) {
	f, a1, p1 := newTaskFixture(t)

	task, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
	require.NotNil(t, task.SourceBinID)
	assert.Equal(t, a1.BinID, *task.SourceBinID)
	assert.Equal(t, p1.BinID, task.DestinationBinID)
	assert.Equal(t, f.admin.AccountID, task.CreatorID)
	assert.Nil(t, task.AccepterID)
	assert.False(t, task.TaskID.IsZero())
}

func TestCreateTask_PendingTasksDoNotConflict(t *testing.T) {
	f, _, _ := newTaskFixture(t)

	_, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)
	_, err = f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.countTasks())
}

func TestCreateTask_InProcessTaskConflicts(t *testing.T) {
	f, _, _ := newTaskFixture(t)

	first, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)
	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), first.TaskID, f.picker.AccountID)
	require.NoError(t, err)

	_, err = f.createTask("A1", "P1", "SKU1")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.EqualError(t, err, MsgBinCommitted)
	assert.Equal(t, int64(1), f.countTasks())

	// another source bin is still free
	a2 := f.bin("A2", models.BinTypeInventory)
	f.stock(a2, "SKU1", 1)
	_, err = f.createTask("A2", "P1", "SKU1")
	assert.NoError(t, err)
}

func TestCreateTask_UnknownBin(t *testing.T) {
	f, _, _ := newTaskFixture(t)

	for _, codes := range [][2]string{{"ZZ", "P1"}, {"A1", "ZZ"}} {
		_, err := f.createTask(codes[0], codes[1], "SKU1")
		assert.True(t, apperror.Is(err, apperror.KindNotFound), codes)
	}
	assert.Equal(t, int64(0), f.countTasks())
}

func TestCreateTask_Validation(t *testing.T) {
	f, _, _ := newTaskFixture(t)

	_, err := f.tasks.CreateTask(f.ctx, CreateTaskInput{DestinationBinCode: "P1", ProductCode: "SKU1"})
	assert.EqualError(t, err, "warehouseID is required")

	_, err = f.createTask("A1", "P1", "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.createTask("A1", "A1", "SKU1")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCreateTask_WithoutSourceBin(t *testing.T) {
	f, _, p1 := newTaskFixture(t)

	task, err := f.createTask("", "P1", "SKU1")
	require.NoError(t, err)
	assert.Nil(t, task.SourceBinID)
	assert.Equal(t, p1.BinID, task.DestinationBinID)
}

func TestCancelTask_FromEveryStatus(t *testing.T) {
	for _, status := range models.TaskStatuses {
		t.Run(string(status), func(t *testing.T) {
			f, _, _ := newTaskFixture(t)
			task, err := f.createTask("A1", "P1", "SKU1")
			require.NoError(t, err)
			require.NoError(t, f.db.Model(&models.Task{}).Where("task_id = ?", task.TaskID).
				Updates(map[string]interface{}{"status": status, "accepter_id": f.picker.AccountID}).Error)

			canceled, err := f.tasks.CancelTask(f.ctx, f.wid(), task.TaskID)
			require.NoError(t, err)
			assert.Equal(t, models.TaskCanceled, canceled.Status)
			assert.Nil(t, canceled.AccepterID)

			stored, err := repositories.NewTaskRepository(f.db).GetByID(f.ctx, f.wid(), task.TaskID)
			require.NoError(t, err)
			assert.Equal(t, models.TaskCanceled, stored.Status)
			assert.Nil(t, stored.AccepterID)
		})
	}
}

func TestCancelTask_NotFound(t *testing.T) {
	f, _, _ := newTaskFixture(t)
	_, err := f.tasks.CancelTask(f.ctx, f.wid(), 31337)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAcceptTask_Transitions(t *testing.T) {
	f, _, _ := newTaskFixture(t)
	task, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)

	accepted, err := f.tasks.AcceptTask(f.ctx, f.wid(), task.TaskID, f.picker.AccountID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProcess, accepted.Status)
	require.NotNil(t, accepted.AccepterID)
	assert.Equal(t, f.picker.AccountID, *accepted.AccepterID)

	// IN_PROCESS -> IN_PROCESS is not in the table
	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), task.TaskID, f.picker.AccountID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = f.tasks.CancelTask(f.ctx, f.wid(), task.TaskID)
	require.NoError(t, err)
	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), task.TaskID, f.picker.AccountID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestAcceptTask_SecondTaskOnSameBinConflicts(t *testing.T) {
	f, _, _ := newTaskFixture(t)
	first, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)
	second, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)

	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), first.TaskID, f.picker.AccountID)
	require.NoError(t, err)
	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), second.TaskID, f.picker.AccountID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestAcceptTask_ConcurrentAcceptsOnlyOneWins(t *testing.T) {
	f, _, _ := newTaskFixture(t)
	var ids []types.SnowflakeID
	for i := 0; i < 4; i++ {
		task, err := f.createTask("A1", "P1", "SKU1")
		require.NoError(t, err)
		ids = append(ids, task.TaskID)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id types.SnowflakeID) {
			defer wg.Done()
			_, errs[i] = f.tasks.AcceptTask(f.ctx, f.wid(), id, f.picker.AccountID)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperror.Is(err, apperror.KindConflict), err)
	}
	assert.Equal(t, 1, succeeded)

	var inProcess int64
	require.NoError(t, f.db.Model(&models.Task{}).Where("status = ?", models.TaskInProcess).Count(&inProcess).Error)
	assert.Equal(t, int64(1), inProcess)
}

func TestCompleteTask_MovesStockFromSourceBin(t *testing.T) {
	f, a1, p1 := newTaskFixture(t)
	task, err := f.tasks.CreateTask(f.ctx, CreateTaskInput{
		WarehouseID: f.wid(), CreatorID: f.admin.AccountID,
		SourceBinCode: "A1", DestinationBinCode: "P1", ProductCode: "SKU1", Quantity: 4,
	})
	require.NoError(t, err)

	// PENDING -> COMPLETED is not allowed
	_, err = f.tasks.CompleteTask(f.ctx, f.actor(), task.TaskID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), task.TaskID, f.picker.AccountID)
	require.NoError(t, err)

	picker := Actor{AccountID: f.picker.AccountID, WarehouseID: f.wid()}
	done, err := f.tasks.CompleteTask(f.ctx, picker, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, done.Status)
	assert.Equal(t, 6, f.quantity(a1, "SKU1"))
	assert.Equal(t, 4, f.quantity(p1, "SKU1"))

	sessions, err := f.logs.ListSessions(f.ctx, f.wid(), repositories.SessionFilter{AccountID: f.picker.AccountID.Ptr()})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	session, err := f.logs.GetSession(f.ctx, f.wid(), sessions[0].SessionID)
	require.NoError(t, err)
	require.Len(t, session.Logs, 1)
	assert.Equal(t, models.LogTaskComplete, session.Logs[0].Action)
	assert.Equal(t, 4, session.Logs[0].Quantity)
	assert.Equal(t, task.TaskID, *session.Logs[0].TaskID)

	// the bin is free again once the task is done
	_, err = f.createTask("A1", "P1", "SKU1")
	assert.NoError(t, err)
}

func TestCompleteTask_ZeroQuantityMovesEverything(t *testing.T) {
	f, a1, p1 := newTaskFixture(t)
	task, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)
	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), task.TaskID, f.picker.AccountID)
	require.NoError(t, err)

	_, err = f.tasks.CompleteTask(f.ctx, f.actor(), task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.quantity(a1, "SKU1"))
	assert.Equal(t, 10, f.quantity(p1, "SKU1"))
}

func TestCompleteTask_WithoutSourcePullsFromFullestBins(t *testing.T) {
	f, a1, p1 := newTaskFixture(t)
	a2 := f.bin("A2", models.BinTypeInventory)
	f.stock(a2, "SKU1", 3)
	cart := f.bin("C1", models.BinTypeCart)
	f.stock(cart, "SKU1", 50)

	task, err := f.tasks.CreateTask(f.ctx, CreateTaskInput{
		WarehouseID: f.wid(), CreatorID: f.admin.AccountID,
		DestinationBinCode: "P1", ProductCode: "SKU1", Quantity: 12,
	})
	require.NoError(t, err)
	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), task.TaskID, f.picker.AccountID)
	require.NoError(t, err)

	_, err = f.tasks.CompleteTask(f.ctx, f.actor(), task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.quantity(a1, "SKU1"))
	assert.Equal(t, 1, f.quantity(a2, "SKU1"))
	assert.Equal(t, 50, f.quantity(cart, "SKU1"), "only INVENTORY bins are drawn from")
	assert.Equal(t, 12, f.quantity(p1, "SKU1"))
}

func TestCompleteTask_InsufficientStockRollsBack(t *testing.T) {
	f, a1, p1 := newTaskFixture(t)
	task, err := f.tasks.CreateTask(f.ctx, CreateTaskInput{
		WarehouseID: f.wid(), CreatorID: f.admin.AccountID,
		SourceBinCode: "A1", DestinationBinCode: "P1", ProductCode: "SKU1", Quantity: 11,
	})
	require.NoError(t, err)
	_, err = f.tasks.AcceptTask(f.ctx, f.wid(), task.TaskID, f.picker.AccountID)
	require.NoError(t, err)

	_, err = f.tasks.CompleteTask(f.ctx, f.actor(), task.TaskID)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stored, err := repositories.NewTaskRepository(f.db).GetByID(f.ctx, f.wid(), task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProcess, stored.Status)
	assert.Equal(t, 10, f.quantity(a1, "SKU1"))
	assert.Equal(t, 0, f.quantity(p1, "SKU1"))
}

func TestGetTasksForWarehouse(t *testing.T) {
	f, a1, _ := newTaskFixture(t)
	a2 := f.bin("A2", models.BinTypeInventory)
	f.stock(a2, "SKU1", 20)
	pick := f.bin("P2", models.BinTypePickUp)
	f.stock(pick, "SKU1", 99)

	direct, err := f.createTask("A1", "P1", "SKU1")
	require.NoError(t, err)
	open, err := f.createTask("", "P1", "SKU1")
	require.NoError(t, err)

	views, err := f.tasks.GetTasksForWarehouse(f.ctx, f.wid())
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[types.SnowflakeID]TaskView{}
	for _, v := range views {
		byID[v.TaskID] = v
		assert.Equal(t, "P1", v.DestinationBinCode)
	}

	require.Len(t, byID[direct.TaskID].SourceBins, 1)
	assert.Equal(t, repositories.BinStock{BinID: a1.BinID, BinCode: "A1", Quantity: 10}, byID[direct.TaskID].SourceBins[0])

	candidates := byID[open.TaskID].SourceBins
	require.Len(t, candidates, 2, "pick-up bins are not candidates")
	assert.Equal(t, "A2", candidates[0].BinCode)
	assert.Equal(t, "A1", candidates[1].BinCode)

	pending, err := f.tasks.GetTasksForWarehouse(f.ctx, f.wid(), models.TaskCompleted)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.tasks.GetTasksForWarehouse(f.ctx, f.wid(), models.TaskStatus("DONE"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
