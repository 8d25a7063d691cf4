package realtime

import (
    "context"
    "encoding/json"
    "log"
    "net/http"

    "github.com/go-redis/redis/v8"
    "github.com/gorilla/websocket"
)

// channelName is the Redis channel that fans events out across API
// instances; each instance delivers to its own connected sockets.
const channelName = "realtime:events"

var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool {
        // Configure origin checking in production
        return true
    },
}

// Event is a per-user message pushed over the socket: refreshed scores,
// comfort level changes, availability transitions.
type Event struct {
    Type   string      `json:"type"`
    UserID int64       `json:"user_id"`
    Data   interface{} `json:"data"`
}

type Hub struct {
    clients    map[int64]*Client
    broadcast  chan Event
    register   chan *Client
    unregister chan *Client
    redis      *redis.Client
}

type Client struct {
    hub    *Hub
    conn   *websocket.Conn
    send   chan Event
    userID int64
}

// NewHub creates a hub. When a Redis client is given, published events
// reach users connected to any instance, not just this one.
func NewHub(redisClient *redis.Client) *Hub {
    return &Hub{
        clients:    make(map[int64]*Client),
        broadcast:  make(chan Event),
        register:   make(chan *Client),
        unregister: make(chan *Client),
        redis:      redisClient,
    }
}

func (h *Hub) Run(ctx context.Context) {
    if h.redis != nil {
        go h.subscribe(ctx)
    }

    for {
        select {
        case client := <-h.register:
            if old, ok := h.clients[client.userID]; ok {
                close(old.send)
            }
            h.clients[client.userID] = client
            log.Printf("User %d connected", client.userID)

        case client := <-h.unregister:
            // A stale connection must not evict the one that replaced it.
            if current, ok := h.clients[client.userID]; ok && current == client {
                delete(h.clients, client.userID)
                close(client.send)
                log.Printf("User %d disconnected", client.userID)
            }

        case event := <-h.broadcast:
            h.deliver(event)

        case <-ctx.Done():
            return
        }
    }
}

func (h *Hub) deliver(event Event) {
    if client, ok := h.clients[event.UserID]; ok {
        select {
        case client.send <- event:
        default:
            close(client.send)
            delete(h.clients, client.userID)
        }
    }
}

// Publish pushes an event toward one user. With Redis it goes through the
// shared channel so the instance holding the socket sees it; without Redis
// it is delivered locally.
func (h *Hub) Publish(userID int64, eventType string, data interface{}) {
    event := Event{Type: eventType, UserID: userID, Data: data}

    if h.redis != nil {
        raw, err := json.Marshal(event)
        if err != nil {
            log.Printf("Failed to encode realtime event: %v", err)
            return
        }
        if err := h.redis.Publish(context.Background(), channelName, raw).Err(); err != nil {
            log.Printf("Failed to publish realtime event: %v", err)
        }
        return
    }

    h.broadcast <- event
}

func (h *Hub) subscribe(ctx context.Context) {
    pubsub := h.redis.Subscribe(ctx, channelName)
    defer pubsub.Close()

    for {
        select {
        case msg, ok := <-pubsub.Channel():
            if !ok {
                return
            }
            var event Event
            if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
                log.Printf("Failed to decode realtime event: %v", err)
                continue
            }
            h.broadcast <- event
        case <-ctx.Done():
            return
        }
    }
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Println(err)
        return
    }

    client := &Client{
        hub:    h,
        conn:   conn,
        send:   make(chan Event, 256),
        userID: userID,
    }

    client.hub.register <- client

    go client.writePump()
    go client.readPump()
}

func (c *Client) readPump() {
    defer func() {
        c.hub.unregister <- c
        c.conn.Close()
    }()

    for {
        if _, _, err := c.conn.ReadMessage(); err != nil {
            break
        }
    }
}

func (c *Client) writePump() {
    defer c.conn.Close()

    for event := range c.send {
        if err := c.conn.WriteJSON(event); err != nil {
            return
        }
    }
    c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
