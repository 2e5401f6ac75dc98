package http

import (
	"context"
	"sort"
	"time"

	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"

	"github.com/gofiber/fiber/v2"
)

// HealthCheckFunc reports the health of one component.
type HealthCheckFunc func(ctx context.Context) error

// SysHandler serves the platform routes under /sys.
type SysHandler struct {
	actions ActionRegistry
	checks  map[string]HealthCheckFunc
	reset   func(ctx context.Context) error
	log     logger.Logger
}

// NewSysHandler builds the /sys routes. reset may be nil, in which case
// POST /sys/reset is not registered.
func NewSysHandler(actions ActionRegistry, checks map[string]HealthCheckFunc, reset func(ctx context.Context) error, log logger.Logger) *SysHandler {
	return &SysHandler{actions: actions, checks: checks, reset: reset, log: log.WithComponent("sys_handler")}
}

func (h *SysHandler) RegisterRoutes(router fiber.Router) {
	sys := router.Group("/sys")
	sys.Get("/info/ping", h.Ping)
	sys.Get("/info/health", h.Health)
	sys.Get("/info/endpoints", h.Endpoints)
	if h.reset != nil {
		sys.Post("/reset", h.Reset)
	}
}

func (h *SysHandler) Ping(c *fiber.Ctx) error {
	return c.JSON("OK")
}

// Health runs every component check. Any failure turns the answer into a 503.
func (h *SysHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := fiber.StatusOK
	components := fiber.Map{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.WithContext(ctx).Errorf("health check %s failed: %v", name, err)
			components[name] = "error: " + err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":     overall,
		"components": components,
		"timestamp":  time.Now().UTC(),
	})
}

func (h *SysHandler) Endpoints(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"endpoints": h.actions.Actions()})
}

// Reset wipes and reseeds the master data.
func (h *SysHandler) Reset(c *fiber.Ctx) error {
	if err := h.reset(c.UserContext()); err != nil {
		h.log.WithContext(c.UserContext()).Errorf("master data reset failed: %v", err)
		return writeEnvelope(c, response.FromError(err, "Reset", "Operation Failed"))
	}
	return writeEnvelope(c, response.NewSuccess("reset", "Master data reset."))
}
