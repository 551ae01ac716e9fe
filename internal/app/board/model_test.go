package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns() ColumnList {
	return ColumnList{
		{ID: uuid.New(), Name: "To Do", Order: 0, TaskIDs: []uuid.UUID{}},
		{ID: uuid.New(), Name: "In Progress", Order: 1, TaskIDs: []uuid.UUID{}},
		{ID: uuid.New(), Name: "Done", Order: 2, TaskIDs: []uuid.UUID{}},
	}
}

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()

	require.Len(t, cols, 3)
	assert.Equal(t, "To Do", cols[0].Name)
	assert.Equal(t, "In Progress", cols[1].Name)
	assert.Equal(t, "Done", cols[2].Name)
	for i, col := range cols {
		assert.NotEqual(t, uuid.Nil, col.ID)
		assert.Equal(t, i, col.Order)
		assert.NotNil(t, col.TaskIDs)
	}
}

func TestColumnListFind(t *testing.T) {
	cols := testColumns()

	found := cols.Find(cols[1].ID)
	require.NotNil(t, found)
	assert.Equal(t, "In Progress", found.Name)

	assert.Nil(t, cols.Find(uuid.New()))
}

func TestInsertTaskAtPosition(t *testing.T) {
	cols := testColumns()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	pos, err := cols.InsertTask(cols[0].ID, a, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = cols.InsertTask(cols[0].ID, b, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	// Insert in the middle shifts what follows.
	pos, err = cols.InsertTask(cols[0].ID, c, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, []uuid.UUID{a, c, b}, cols[0].TaskIDs)
}

func TestInsertTaskClampsPosition(t *testing.T) {
	cols := testColumns()
	a, b := uuid.New(), uuid.New()

	_, err := cols.InsertTask(cols[0].ID, a, 0)
	require.NoError(t, err)

	// A position past the end appends instead of failing.
	pos, err := cols.InsertTask(cols[0].ID, b, 99)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, []uuid.UUID{a, b}, cols[0].TaskIDs)
}

func TestInsertTaskUnknownColumn(t *testing.T) {
	cols := testColumns()

	_, err := cols.InsertTask(uuid.New(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestRemoveTaskSweepsEveryColumn(t *testing.T) {
	cols := testColumns()
	taskID := uuid.New()

	// Simulate a corrupted board where the task appears twice.
	cols[0].TaskIDs = []uuid.UUID{taskID, uuid.New()}
	cols[2].TaskIDs = []uuid.UUID{uuid.New(), taskID}

	removed := cols.RemoveTask(taskID)
	assert.True(t, removed)
	assert.Nil(t, cols.ColumnOf(taskID))
	assert.Len(t, cols[0].TaskIDs, 1)
	assert.Len(t, cols[2].TaskIDs, 1)
}

func TestRemoveTaskMissing(t *testing.T) {
	cols := testColumns()
	assert.False(t, cols.RemoveTask(uuid.New()))
}

func TestMovePreservesSingleMembership(t *testing.T) {
	cols := testColumns()
	taskID := uuid.New()

	_, err := cols.InsertTask(cols[0].ID, taskID, -1)
	require.NoError(t, err)

	// The remove-then-insert sequence used by a move keeps the task in
	// exactly one column.
	cols.RemoveTask(taskID)
	_, err = cols.InsertTask(cols[1].ID, taskID, 0)
	require.NoError(t, err)

	owner := cols.ColumnOf(taskID)
	require.NotNil(t, owner)
	assert.Equal(t, cols[1].ID, owner.ID)
	assert.Empty(t, cols[0].TaskIDs)
}

func TestNormalize(t *testing.T) {
	cols := ColumnList{
		{Name: "A", Order: 7},
		{ID: uuid.New(), Name: "B", Order: 3, TaskIDs: []uuid.UUID{uuid.New()}},
	}

	cols.Normalize()

	assert.NotEqual(t, uuid.Nil, cols[0].ID)
	assert.NotNil(t, cols[0].TaskIDs)
	assert.Equal(t, 0, cols[0].Order)
	assert.Equal(t, 1, cols[1].Order)
	assert.Len(t, cols[1].TaskIDs, 1)
}
