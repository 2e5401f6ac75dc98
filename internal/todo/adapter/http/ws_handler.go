package http

import (
	"context"
	"time"

	sessionmodel "todo-mbaas/internal/session/domain/model"
	"todo-mbaas/internal/shared/eventbus"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/todo/domain/model"
	"todo-mbaas/internal/todo/endpoint"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	categoryChangeFeed  = "Change Feed"
	readTimeout         = 60 * time.Second
	writeTimeout        = 10 * time.Second
	defaultSessionCheck = 30 * time.Second
)

// SessionAuthorizer runs the session stages of the action pipeline and
// rechecks a session without sliding its TTL.
type SessionAuthorizer interface {
	Authorize(ctx context.Context, req endpoint.Request, category string) (context.Context, sessionmodel.Session, *response.Envelope)
	SessionActive(ctx context.Context, sessionID string) (bool, error)
}

// ChangeMessage is one frame of the change feed.
type ChangeMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ChangeFeedHandler streams ToDo change events over WebSocket. Admin sessions
// see every change, User sessions only changes to ToDos assigned to them or
// moved away from them. The session is rechecked every sessionCheck and the
// socket closes once it is gone.
type ChangeFeedHandler struct {
	bus          eventbus.Bus
	sessions     SessionAuthorizer
	path         string
	bufferSize   int
	sessionCheck time.Duration
	log          logger.Logger
}

func NewChangeFeedHandler(bus eventbus.Bus, sessions SessionAuthorizer, path string, bufferSize int, sessionCheck time.Duration, log logger.Logger) *ChangeFeedHandler {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	if sessionCheck <= 0 {
		sessionCheck = defaultSessionCheck
	}
	return &ChangeFeedHandler{
		bus:          bus,
		sessions:     sessions,
		path:         path,
		bufferSize:   bufferSize,
		sessionCheck: sessionCheck,
		log:          log.WithComponent("change_feed"),
	}
}

// RegisterRoutes registers the WebSocket endpoint at the configured path.
func (h *ChangeFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Use(h.path, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get(h.path, websocket.New(h.handleConnection))
}

func (h *ChangeFeedHandler) handleConnection(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriberID := uuid.NewString()
	log := h.log.WithFields(map[string]interface{}{"subscriber_id": subscriberID})

	sessionID := conn.Query("sessionId")
	req := endpoint.Request{"request": map[string]interface{}{
		"header": map[string]interface{}{"sessionId": sessionID},
	}}
	ctx, session, fail := h.sessions.Authorize(ctx, req, categoryChangeFeed)
	if fail != nil {
		log.Warn("change feed rejected: invalid session")
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		_ = conn.WriteJSON(fail)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid session"))
		return
	}

	send := make(chan ChangeMessage, h.bufferSize)
	ids := make([]eventbus.SubscriptionID, 0, len(model.ToDoEventTypes))
	for _, eventType := range model.ToDoEventTypes {
		ids = append(ids, h.bus.Subscribe(eventType, h.forward(session, send, log)))
	}
	defer func() {
		for _, id := range ids {
			h.bus.Unsubscribe(id)
		}
		log.Info("change feed closed")
	}()
	log.WithContext(ctx).Infof("change feed opened for role %s", session.Role())

	go func() {
		defer cancel()
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Errorf("change feed read error: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.sessionCheck)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active, err := h.sessions.SessionActive(ctx, sessionID)
			if err != nil {
				log.Errorf("change feed session check failed: %v", err)
				continue
			}
			if !active {
				log.Info("change feed session ended")
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session ended"))
				return
			}
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				log.Errorf("change feed write error: %v", err)
				return
			}
		}
	}
}

// forward returns the bus handler for one connection. Events are dropped
// when the connection's buffer is full.
func (h *ChangeFeedHandler) forward(session sessionmodel.Session, send chan<- ChangeMessage, log logger.Logger) eventbus.Handler {
	return func(_ context.Context, event eventbus.Event) error {
		change, ok := event.Data().(model.ToDoChange)
		if !ok || !visibleTo(session, change) {
			return nil
		}
		select {
		case send <- ChangeMessage{Type: event.Type(), Data: change}:
		default:
			log.Warnf("change feed buffer full, dropping %s for %s", event.Type(), change.ToDoID)
		}
		return nil
	}
}

func visibleTo(session sessionmodel.Session, change model.ToDoChange) bool {
	if session.Role() == model.RoleAdmin {
		return true
	}
	userID := session.UserID()
	return change.AssignedTo == userID || change.PreviousAssignee == userID
}
