package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor-server/game/engine"
	"github.com/wricardo/quoridor-server/game/service"
	"github.com/wricardo/quoridor-server/game/session"
)

// Event names sent to clients
const (
	EventGameUpdate     = "game_update"
	EventGameOver       = "game_over"
	EventTimerTick      = "timer_tick"
	EventActionRejected = "action_rejected"
)

const broadcastBuffer = 256

// Message is the envelope for every server to client event
type Message struct {
	Event     string           `json:"event"`
	Code      string           `json:"code"`
	State     *engine.Snapshot `json:"state,omitempty"`
	Winner    *int             `json:"winner,omitempty"`
	Remaining *int             `json:"remaining,omitempty"`
}

// Actions is the part of the game service a connection drives
type Actions interface {
	SubmitMove(ctx context.Context, code string, seat, x, y int) (*service.ActionResult, error)
	SubmitWall(ctx context.Context, code string, seat, x, y int, orientation string) (*service.ActionResult, error)
	GetState(ctx context.Context, code string) (*engine.Snapshot, error)
}

type unicast struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients per room and fans out room
// events. The room map is owned by the Run goroutine.
type Hub struct {
	// Registered clients by room code
	rooms map[string]map[*Client]bool

	// Room events waiting to be fanned out
	broadcast chan *Message

	// Messages for a single client
	direct chan unicast

	// Unregister requests from clients
	unregister chan *Client

	// Functions run on the hub goroutine
	queries chan func()

	done     chan struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

var _ session.Notifier = (*Hub)(nil)

// NewHub creates a new WebSocket hub. allowOrigin decides which browser
// origins may connect; nil allows all.
func NewHub(logger *zap.Logger, allowOrigin func(origin string) bool) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if allowOrigin == nil {
		allowOrigin = func(string) bool { return true }
	}

	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		direct:     make(chan unicast, broadcastBuffer),
		unregister: make(chan *Client),
		queries:    make(chan func()),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowOrigin(r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// Run starts the hub's event loop and blocks until ctx is cancelled.
// Every client is disconnected on return.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for code, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, code)
			}
			return nil

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case u := <-h.direct:
			h.sendDirect(u)

		case fn := <-h.queries:
			fn()
		}
	}
}

// ServeWS upgrades the request and attaches the connection to a room.
// seat is the seat the connection's token resolved to.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, code string, seat int, actions Actions) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	code = session.NormalizeCode(code)
	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, broadcastBuffer),
		code:    code,
		seat:    seat,
		actions: actions,
	}

	// Register and read the first snapshot in one hub step, so no room
	// event can fall between the two
	attach := func() {
		h.registerClient(client)
		snap, err := actions.GetState(context.Background(), code)
		if err != nil {
			return
		}
		if data, err := json.Marshal(&Message{Event: EventGameUpdate, Code: code, State: snap}); err == nil {
			client.send <- data
		}
	}

	select {
	case h.queries <- attach:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastState implements session.Notifier
func (h *Hub) BroadcastState(code string, snap *engine.Snapshot) {
	h.enqueue(&Message{Event: EventGameUpdate, Code: code, State: snap})
}

// BroadcastGameOver implements session.Notifier
func (h *Hub) BroadcastGameOver(code string, winner int) {
	h.enqueue(&Message{Event: EventGameOver, Code: code, Winner: &winner})
}

// BroadcastTick implements session.Notifier
func (h *Hub) BroadcastTick(code string, remaining int) {
	h.enqueue(&Message{Event: EventTimerTick, Code: code, Remaining: &remaining})
}

// ClientCount returns the number of connections attached to a room
func (h *Hub) ClientCount(code string) int {
	result := make(chan int, 1)
	fn := func() { result <- len(h.rooms[code]) }

	select {
	case h.queries <- fn:
		return <-result
	case <-h.done:
		return 0
	}
}

// enqueue never blocks: it is called with a room lock held
func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast queue full, dropping event",
			zap.String("code", message.Code), zap.String("event", message.Event))
	}
}

// reject tells a single client its action was refused
func (h *Hub) reject(client *Client) {
	data, err := json.Marshal(&Message{Event: EventActionRejected, Code: client.code})
	if err != nil {
		return
	}
	select {
	case h.direct <- unicast{client: client, data: data}:
	case <-h.done:
	}
}

// registerClient adds a client to a room
func (h *Hub) registerClient(client *Client) {
	if h.rooms[client.code] == nil {
		h.rooms[client.code] = make(map[*Client]bool)
	}
	h.rooms[client.code][client] = true

	h.logger.Debug("client registered",
		zap.String("code", client.code),
		zap.Int("seat", client.seat),
		zap.Int("clients", len(h.rooms[client.code])))
}

// unregisterClient removes a client from a room
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.rooms[client.code]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.code)
	}

	h.logger.Debug("client unregistered",
		zap.String("code", client.code),
		zap.Int("seat", client.seat),
		zap.Int("clients", len(clients)))
}

// broadcastMessage sends a message to all clients in a room
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.rooms[message.Code]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", zap.Error(err))
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) sendDirect(u unicast) {
	if !h.rooms[u.client.code][u.client] {
		return
	}
	select {
	case u.client.send <- u.data:
	default:
		h.unregisterClient(u.client)
	}
}
