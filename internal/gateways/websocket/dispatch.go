package websocket

import (
	"context"
	"encoding/json"

	"flowboard/internal/app/board"
	"flowboard/internal/app/collection"
	"flowboard/internal/app/task"
	"flowboard/internal/auth"
	"flowboard/internal/utils"

	"github.com/google/uuid"
)

// Client-to-server message vocabulary.
const (
	MsgJoinBoard          = "join:board"
	MsgLeaveBoard         = "leave:board"
	MsgTaskCreate         = "task:create"
	MsgTaskUpdate         = "task:update"
	MsgTaskDelete         = "task:delete"
	MsgTaskMove           = "task:move"
	MsgSubtaskCreate      = "subtask:create"
	MsgCollectionCreate   = "collection:create"
	MsgCollectionUpdate   = "collection:update"
	MsgCollectionDelete   = "collection:delete"
	MsgCollectionReorder  = "collection:reorder"
	MsgBoardUpdateColumns = "board:update_columns"
	MsgStartTyping        = "user:start_typing"
	MsgStopTyping         = "user:stop_typing"
	MsgCursorMove         = "user:cursor_move"
)

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c *Client) actor() auth.Actor {
	return auth.Actor{Identity: c.ident, ClientID: c.ID}
}

func (c *Client) sendError(event, message string) {
	c.sendJSON(utils.Event{
		Name: EventError,
		Data: map[string]string{"event": event, "message": message},
	})
}

// handleMessage runs on the read pump goroutine. Anything that hits the
// database happens here; the hub loop only ever sees room bookkeeping.
func (c *Client) handleMessage(raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("", "malformed message")
		return
	}

	ctx := context.Background()

	switch msg.Event {
	case MsgJoinBoard:
		c.handleJoinBoard(msg)

	case MsgLeaveBoard:
		c.hub.leave <- c
		c.currentBoard = ""

	case MsgTaskCreate:
		var input task.CreateTaskInput
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.taskSvc.CreateTask(ctx, c.actor(), input); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgTaskUpdate:
		var payload struct {
			TaskID uuid.UUID `json:"taskId"`
			task.UpdateTaskInput
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.taskSvc.UpdateTask(ctx, c.actor(), payload.TaskID, payload.UpdateTaskInput); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgTaskDelete:
		var payload struct {
			TaskID uuid.UUID `json:"taskId"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if err := c.hub.taskSvc.DeleteTask(ctx, c.actor(), payload.TaskID); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgTaskMove:
		var req task.MoveRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.taskSvc.MoveTask(ctx, c.actor(), req); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgSubtaskCreate:
		var payload struct {
			ParentTaskID uuid.UUID `json:"parentTaskId"`
			task.CreateSubtaskInput
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.taskSvc.CreateSubtask(ctx, c.actor(), payload.ParentTaskID, payload.CreateSubtaskInput); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgCollectionCreate:
		var input collection.CreateCollectionInput
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.collectionSvc.CreateCollection(ctx, c.actor(), input); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgCollectionUpdate:
		var payload struct {
			CollectionID uuid.UUID `json:"collectionId"`
			collection.UpdateCollectionInput
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.collectionSvc.UpdateCollection(ctx, c.actor(), payload.CollectionID, payload.UpdateCollectionInput); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgCollectionDelete:
		var payload struct {
			CollectionID uuid.UUID  `json:"collectionId"`
			MoveTasksTo  *uuid.UUID `json:"moveTasksTo"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if err := c.hub.collectionSvc.DeleteCollection(ctx, c.actor(), payload.CollectionID, payload.MoveTasksTo); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgCollectionReorder:
		var input collection.ReorderInput
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.collectionSvc.Reorder(ctx, c.actor(), input); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgBoardUpdateColumns:
		var payload struct {
			BoardID uuid.UUID        `json:"boardId"`
			Columns board.ColumnList `json:"columns"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError(msg.Event, "malformed payload")
			return
		}
		if _, err := c.hub.boardSvc.UpdateColumns(ctx, c.actor(), payload.BoardID, payload.Columns); err != nil {
			c.sendError(msg.Event, err.Error())
		}

	case MsgStartTyping, MsgStopTyping, MsgCursorMove:
		c.relayPresence(msg)

	default:
		c.sendError(msg.Event, "unknown event")
	}
}

func (c *Client) handleJoinBoard(msg inboundMessage) {
	var payload struct {
		BoardID uuid.UUID `json:"boardId"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		c.sendError(msg.Event, "malformed payload")
		return
	}

	b, p, err := c.hub.boardSvc.Authorize(c.ident.UserID, payload.BoardID)
	if err != nil {
		c.sendError(msg.Event, err.Error())
		return
	}

	c.hub.join <- joinRequest{
		client:    c,
		boardID:   b.ID.String(),
		projectID: p.ID.String(),
	}
	c.currentBoard = b.ID.String()
}

// Outbound presence names differ from the inbound ones: the room hears what
// the user is doing, not what the client requested.
var presenceEvents = map[string]string{
	MsgStartTyping: "user:typing",
	MsgStopTyping:  "user:stop_typing",
	MsgCursorMove:  "user:cursor_moved",
}

// relayPresence fans ephemeral presence signals out to the current board
// room without touching the database.
func (c *Client) relayPresence(msg inboundMessage) {
	if c.currentBoard == "" {
		return
	}

	data := map[string]interface{}{}
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
	}
	data["userId"] = c.ident.UserID
	data["username"] = c.ident.Username

	c.hub.eventBus.Publish(utils.Event{
		Name:          presenceEvents[msg.Event],
		BoardID:       c.currentBoard,
		ExcludeClient: c.ID,
		Data:          data,
	})
}
