package task

// Server-to-client event vocabulary for task mutations. One namespaced name
// per mutation kind; the payload shape is fixed here and nowhere else.
const (
	EventTaskCreated    = "task:created"
	EventTaskUpdated    = "task:updated"
	EventTaskDeleted    = "task:deleted"
	EventTaskMoved      = "task:moved"
	EventMoveFailed     = "move-failed"
	EventSubtaskCreated = "subtask:created"
)
