package websocket

import (
	"encoding/json"
	"testing"

	"flowboard/internal/app/board"
	"flowboard/internal/app/project"
	"flowboard/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBoardSvc struct {
	board.Service

	board   *board.Board
	project *project.Project
}

func (s *stubBoardSvc) Authorize(userID, boardID uuid.UUID) (*board.Board, *project.Project, error) {
	if s.board == nil || s.board.ID != boardID {
		return nil, nil, board.ErrBoardNotFound
	}
	if !s.project.HasAccess(userID) {
		return nil, nil, project.ErrAccessDenied
	}
	return s.board, s.project, nil
}

func marshalMsg(t *testing.T, event string, data interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	raw, err := json.Marshal(map[string]interface{}{"event": event, "data": json.RawMessage(payload)})
	require.NoError(t, err)
	return raw
}

func TestJoinBoardDeniedForNonMember(t *testing.T) {
	owner := uuid.New()
	proj := &project.Project{ID: uuid.New(), CreatedBy: owner}
	b := &board.Board{ID: uuid.New(), ProjectID: proj.ID}

	h := NewHub(&stubBoardSvc{board: b, project: proj}, nil, nil, utils.NewEventBus(), "test-secret", zap.NewNop())
	stranger := newTestClient(h, "c-stranger", "stranger")

	stranger.handleMessage(marshalMsg(t, MsgJoinBoard, map[string]string{
		"boardId": b.ID.String(),
	}))

	// The join never reaches the hub; only the joiner hears about it.
	assert.Empty(t, h.rooms)
	assert.Empty(t, stranger.currentBoard)

	e := recvEvent(t, stranger)
	assert.Equal(t, EventError, e.Name)
}

func TestMalformedMessageAnswersWithError(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "c-1", "alice")

	c.handleMessage([]byte("not json"))

	e := recvEvent(t, c)
	assert.Equal(t, EventError, e.Name)
}

func TestUnknownEventAnswersWithError(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "c-1", "alice")

	c.handleMessage(marshalMsg(t, "task:explode", map[string]string{}))

	e := recvEvent(t, c)
	assert.Equal(t, EventError, e.Name)
}

func TestPresenceRelayRenamesEvent(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "c-1", "alice")
	c.currentBoard = uuid.NewString()

	c.handleMessage(marshalMsg(t, MsgStartTyping, map[string]string{"taskId": uuid.NewString()}))

	select {
	case e := <-h.eventBus.SubscribeCh():
		assert.Equal(t, "user:typing", e.Name)
		assert.Equal(t, c.currentBoard, e.BoardID)
		assert.Equal(t, "c-1", e.ExcludeClient)
	default:
		t.Fatal("expected a presence event on the bus")
	}
}

func TestPresenceRelayIgnoredOutsideRoom(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "c-1", "alice")

	c.handleMessage(marshalMsg(t, MsgCursorMove, map[string]float64{"x": 10, "y": 20}))

	select {
	case e := <-h.eventBus.SubscribeCh():
		t.Fatalf("unexpected event published: %s", e.Name)
	default:
	}
}
