package websocket

import (
	"encoding/json"
	"time"

	"flowboard/internal/app/board"
	"flowboard/internal/app/collection"
	"flowboard/internal/app/task"
	"flowboard/internal/utils"

	"go.uber.org/zap"
)

const (
	EventUserJoined = "user:joined"
	EventUserLeft   = "user:left"
	EventError      = "error"
)

type joinRequest struct {
	client    *Client
	boardID   string
	projectID string
}

// Hub owns every room map. All mutation of rooms happens on the Run loop;
// other goroutines talk to it through channels only.
type Hub struct {
	clients map[*Client]bool

	// rooms index clients by board; projectRooms mirror board membership at
	// project granularity so project-scoped events reach every open board of
	// that project.
	rooms        map[string]map[*Client]bool
	projectRooms map[string]map[*Client]bool
	clientRoom   map[*Client]joinRequest

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	leave      chan *Client

	boardSvc      board.Service
	taskSvc       task.Service
	collectionSvc collection.Service

	eventBus  *utils.EventBus
	jwtSecret string
	logger    *zap.SugaredLogger
}

func NewHub(boardSvc board.Service, taskSvc task.Service, collectionSvc collection.Service, eventBus *utils.EventBus, jwtSecret string, logger *zap.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		rooms:         make(map[string]map[*Client]bool),
		projectRooms:  make(map[string]map[*Client]bool),
		clientRoom:    make(map[*Client]joinRequest),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		join:          make(chan joinRequest),
		leave:         make(chan *Client),
		boardSvc:      boardSvc,
		taskSvc:       taskSvc,
		collectionSvc: collectionSvc,
		eventBus:      eventBus,
		jwtSecret:     jwtSecret,
		logger:        logger.Sugar(),
	}
}

func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")

	events := h.eventBus.SubscribeCh()
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"user_id", client.ident.UserID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.leaveRoom(client)
				delete(h.clients, client)
				client.closeSend()
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case req := <-h.join:
			h.joinRoom(req)

		case client := <-h.leave:
			h.leaveRoom(client)

		case event := <-events:
			h.routeEvent(event)
		}
	}
}

// joinRoom moves the client into a board room. A client views one board at a
// time, so joining implies leaving the previous room first.
func (h *Hub) joinRoom(req joinRequest) {
	if current, ok := h.clientRoom[req.client]; ok {
		if current.boardID == req.boardID {
			return
		}
		h.leaveRoom(req.client)
	}

	if h.rooms[req.boardID] == nil {
		h.rooms[req.boardID] = make(map[*Client]bool)
	}
	h.rooms[req.boardID][req.client] = true

	if h.projectRooms[req.projectID] == nil {
		h.projectRooms[req.projectID] = make(map[*Client]bool)
	}
	h.projectRooms[req.projectID][req.client] = true

	h.clientRoom[req.client] = req

	h.broadcastToRoom(h.rooms[req.boardID], utils.Event{
		Name:    EventUserJoined,
		BoardID: req.boardID,
		Data: map[string]interface{}{
			"userId":    req.client.ident.UserID,
			"username":  req.client.ident.Username,
			"boardId":   req.boardID,
			"timestamp": time.Now().UTC(),
		},
	}, req.client.ID)

	h.logger.Debugw("Client joined board room",
		"client_id", req.client.ID,
		"board_id", req.boardID,
		"room_size", len(h.rooms[req.boardID]),
	)
}

// leaveRoom is idempotent; leaving while not in a room is a no-op.
func (h *Hub) leaveRoom(client *Client) {
	req, ok := h.clientRoom[client]
	if !ok {
		return
	}
	delete(h.clientRoom, client)

	if room := h.rooms[req.boardID]; room != nil {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, req.boardID)
		} else {
			h.broadcastToRoom(room, utils.Event{
				Name:    EventUserLeft,
				BoardID: req.boardID,
				Data: map[string]interface{}{
					"userId":    client.ident.UserID,
					"username":  client.ident.Username,
					"boardId":   req.boardID,
					"timestamp": time.Now().UTC(),
				},
			}, "")
		}
	}

	if room := h.projectRooms[req.projectID]; room != nil {
		delete(room, client)
		if len(room) == 0 {
			delete(h.projectRooms, req.projectID)
		}
	}
}

// routeEvent fans a bus event out to the room its IDs select. Board-scoped
// events win over project-scoped ones when both are set.
func (h *Hub) routeEvent(event utils.Event) {
	switch {
	case event.BoardID != "":
		h.broadcastToRoom(h.rooms[event.BoardID], event, event.ExcludeClient)
	case event.ProjectID != "":
		h.broadcastToRoom(h.projectRooms[event.ProjectID], event, event.ExcludeClient)
	default:
		h.logger.Warnw("Dropping event without a room", "event", event.Name)
	}
}

func (h *Hub) broadcastToRoom(room map[*Client]bool, event utils.Event, excludeClient string) {
	if len(room) == 0 {
		return
	}

	raw, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("Failed to marshal event", "event", event.Name, "error", err)
		return
	}

	for client := range room {
		if excludeClient != "" && client.ID == excludeClient {
			continue
		}
		if !client.queue(raw) {
			// Slow consumer; drop the connection rather than block the hub.
			h.leaveRoom(client)
			delete(h.clients, client)
			client.closeSend()
		}
	}
}
