package http

import (
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/todo/endpoint"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// ActionRegistry resolves action names to handlers.
type ActionRegistry interface {
	Handler(action string) (endpoint.Handler, bool)
	Actions() []string
}

// CloudHandler exposes the client actions under /cloud/<action>.
type CloudHandler struct {
	actions ActionRegistry
	log     logger.Logger
}

func NewCloudHandler(actions ActionRegistry, log logger.Logger) *CloudHandler {
	return &CloudHandler{actions: actions, log: log.WithComponent("cloud_handler")}
}

func (h *CloudHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/cloud/:action", h.Invoke)
}

// Invoke decodes the body and runs the named action.
func (h *CloudHandler) Invoke(c *fiber.Ctx) error {
	action := c.Params("action")
	handler, ok := h.actions.Handler(action)
	if !ok {
		env := response.NewError(response.StatusBadInput, categoryRequest, "Unknown Action", "No action named "+action+".")
		return c.Status(fiber.StatusNotFound).JSON(env)
	}

	var req endpoint.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil || req == nil {
		h.log.WithContext(c.UserContext()).Warnf("malformed body for %s: %v", action, err)
		return writeEnvelope(c, malformedRequest())
	}

	return writeEnvelope(c, handler(c.UserContext(), req))
}
