package http

import (
	"context"
	"errors"

	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/todo/datasync"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// DatasetHandler runs sync calls against one dataset.
type DatasetHandler interface {
	Handle(ctx context.Context, req datasync.Request) (interface{}, error)
}

// SyncHandler exposes the sync datasets under /mbaas/sync/<dataset>.
type SyncHandler struct {
	datasets map[string]DatasetHandler
	log      logger.Logger
}

func NewSyncHandler(toDo DatasetHandler, log logger.Logger) *SyncHandler {
	return &SyncHandler{
		datasets: map[string]DatasetHandler{datasync.DatasetToDo: toDo},
		log:      log.WithComponent("sync_handler"),
	}
}

func (h *SyncHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/mbaas/sync/:dataset", h.Sync)
}

func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	name := c.Params("dataset")
	dataset, ok := h.datasets[name]
	if !ok {
		env := response.NewError(response.StatusBadInput, categoryRequest, "Unknown Dataset", "No dataset named "+name+".")
		return c.Status(fiber.StatusNotFound).JSON(env)
	}

	var req datasync.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return writeEnvelope(c, malformedRequest())
	}

	out, err := dataset.Handle(c.UserContext(), req)
	if err != nil {
		var failure *datasync.Failure
		if errors.As(err, &failure) {
			return writeEnvelope(c, failure.Envelope)
		}
		h.log.WithContext(c.UserContext()).Errorf("sync %s/%s failed: %v", name, req.Fn, err)
		return writeEnvelope(c, response.FromError(err, "Sync", "Operation Failed"))
	}
	if env, ok := out.(*response.Envelope); ok {
		return writeEnvelope(c, env)
	}
	return c.JSON(out)
}
