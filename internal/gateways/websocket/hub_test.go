package websocket

import (
	"encoding/json"
	"testing"

	"flowboard/internal/auth"
	"flowboard/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The room bookkeeping methods run on the hub loop; calling them directly
// keeps these tests synchronous.
func newTestHub() *Hub {
	return NewHub(nil, nil, nil, utils.NewEventBus(), "test-secret", zap.NewNop())
}

func newTestClient(h *Hub, id, username string) *Client {
	c := &Client{
		hub:   h,
		send:  make(chan []byte, 8),
		ID:    id,
		ident: auth.Identity{UserID: uuid.New(), Username: username},
	}
	h.clients[c] = true
	return c
}

func recvEvent(t *testing.T, c *Client) utils.Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var e utils.Event
		require.NoError(t, json.Unmarshal(raw, &e))
		return e
	default:
		t.Fatal("expected a queued event")
		return utils.Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected event queued: %s", raw)
	default:
	}
}

func TestJoinRoomAnnouncesToOthers(t *testing.T) {
	h := newTestHub()
	boardID := uuid.NewString()
	projectID := uuid.NewString()

	alice := newTestClient(h, "c-alice", "alice")
	bob := newTestClient(h, "c-bob", "bob")

	h.joinRoom(joinRequest{client: alice, boardID: boardID, projectID: projectID})
	h.joinRoom(joinRequest{client: bob, boardID: boardID, projectID: projectID})

	require.Len(t, h.rooms[boardID], 2)
	require.Len(t, h.projectRooms[projectID], 2)

	// Alice hears bob join; bob does not hear his own join.
	e := recvEvent(t, alice)
	assert.Equal(t, EventUserJoined, e.Name)
	payload, ok := e.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, boardID, payload["boardId"])
	assert.NotEmpty(t, payload["timestamp"])
	assertNoEvent(t, bob)
}

func TestJoinRoomIsIdempotent(t *testing.T) {
	h := newTestHub()
	boardID := uuid.NewString()
	projectID := uuid.NewString()

	alice := newTestClient(h, "c-alice", "alice")
	h.joinRoom(joinRequest{client: alice, boardID: boardID, projectID: projectID})
	h.joinRoom(joinRequest{client: alice, boardID: boardID, projectID: projectID})

	assert.Len(t, h.rooms[boardID], 1)
	assertNoEvent(t, alice)
}

func TestJoinSecondBoardLeavesFirst(t *testing.T) {
	h := newTestHub()
	boardA := uuid.NewString()
	boardB := uuid.NewString()
	projectID := uuid.NewString()

	alice := newTestClient(h, "c-alice", "alice")
	bob := newTestClient(h, "c-bob", "bob")

	h.joinRoom(joinRequest{client: bob, boardID: boardA, projectID: projectID})
	h.joinRoom(joinRequest{client: alice, boardID: boardA, projectID: projectID})
	recvEvent(t, bob) // alice's user:joined

	h.joinRoom(joinRequest{client: alice, boardID: boardB, projectID: projectID})

	// A client is in at most one board room at a time.
	assert.NotContains(t, h.rooms[boardA], alice)
	assert.Contains(t, h.rooms[boardB], alice)

	e := recvEvent(t, bob)
	assert.Equal(t, EventUserLeft, e.Name)
	payload, ok := e.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, boardA, payload["boardId"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestLeaveRoomIsIdempotent(t *testing.T) {
	h := newTestHub()
	boardID := uuid.NewString()

	alice := newTestClient(h, "c-alice", "alice")
	h.joinRoom(joinRequest{client: alice, boardID: boardID, projectID: uuid.NewString()})

	h.leaveRoom(alice)
	h.leaveRoom(alice)

	assert.Empty(t, h.rooms)
	assert.Empty(t, h.projectRooms)
	assert.Empty(t, h.clientRoom)
}

func TestRouteEventExcludesInitiator(t *testing.T) {
	h := newTestHub()
	boardID := uuid.NewString()
	projectID := uuid.NewString()

	alice := newTestClient(h, "c-alice", "alice")
	bob := newTestClient(h, "c-bob", "bob")
	h.joinRoom(joinRequest{client: alice, boardID: boardID, projectID: projectID})
	h.joinRoom(joinRequest{client: bob, boardID: boardID, projectID: projectID})
	recvEvent(t, alice) // bob's user:joined

	h.routeEvent(utils.Event{
		Name:          "task:moved",
		BoardID:       boardID,
		ExcludeClient: "c-bob",
		Data:          map[string]string{"taskId": uuid.NewString()},
	})

	e := recvEvent(t, alice)
	assert.Equal(t, "task:moved", e.Name)
	assertNoEvent(t, bob)
}

func TestRouteEventByProject(t *testing.T) {
	h := newTestHub()
	projectID := uuid.NewString()

	// Two clients viewing different boards of the same project both hear
	// project-scoped events.
	alice := newTestClient(h, "c-alice", "alice")
	bob := newTestClient(h, "c-bob", "bob")
	h.joinRoom(joinRequest{client: alice, boardID: uuid.NewString(), projectID: projectID})
	h.joinRoom(joinRequest{client: bob, boardID: uuid.NewString(), projectID: projectID})

	h.routeEvent(utils.Event{
		Name:      "collection:created",
		ProjectID: projectID,
		Data:      map[string]string{"name": "Sprint 1"},
	})

	assert.Equal(t, "collection:created", recvEvent(t, alice).Name)
	assert.Equal(t, "collection:created", recvEvent(t, bob).Name)
}

func TestRouteEventToEmptyRoom(t *testing.T) {
	h := newTestHub()

	// No members, no panic.
	h.routeEvent(utils.Event{Name: "task:created", BoardID: uuid.NewString()})
}

func TestBroadcastEvictsSlowConsumer(t *testing.T) {
	h := newTestHub()
	boardID := uuid.NewString()
	projectID := uuid.NewString()

	slow := &Client{
		hub:   h,
		send:  make(chan []byte), // unbuffered and never read
		ID:    "c-slow",
		ident: auth.Identity{UserID: uuid.New(), Username: "slow"},
	}
	h.clients[slow] = true
	h.joinRoom(joinRequest{client: slow, boardID: boardID, projectID: projectID})

	h.routeEvent(utils.Event{Name: "task:created", BoardID: boardID})

	assert.NotContains(t, h.clients, slow)
	assert.Empty(t, h.rooms)
}

func TestSendToEvictedClientIsNoop(t *testing.T) {
	h := newTestHub()
	boardID := uuid.NewString()

	slow := &Client{
		hub:   h,
		send:  make(chan []byte), // unbuffered and never read
		ID:    "c-slow",
		ident: auth.Identity{UserID: uuid.New(), Username: "slow"},
	}
	h.clients[slow] = true
	h.joinRoom(joinRequest{client: slow, boardID: boardID, projectID: uuid.NewString()})

	h.routeEvent(utils.Event{Name: "task:created", BoardID: boardID})
	require.NotContains(t, h.clients, slow)

	// The read pump may still be dispatching a message when the hub evicts
	// the client; a send after eviction must be dropped, not panic.
	slow.sendError("task:create", "denied")
	assert.False(t, slow.queue([]byte("late")))
}
