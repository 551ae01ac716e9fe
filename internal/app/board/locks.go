package board

import (
	"sync"

	"github.com/google/uuid"
)

// lockTable hands out one mutex per board so concurrent column-document
// mutations (two near-simultaneous moves touching the same column) are
// serialized instead of racing read-modify-write against the same row.
type lockTable struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (t *lockTable) get(boardID uuid.UUID) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[boardID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[boardID] = l
	}
	return l
}
