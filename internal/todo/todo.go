// Package todo wires the ToDo application: data access, the client actions,
// the sync dataset and their HTTP routes.
package todo

import (
	"context"
	"errors"

	"todo-mbaas/internal/config"
	"todo-mbaas/internal/session/usecase"
	"todo-mbaas/internal/shared/eventbus"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/policy"
	httpadapter "todo-mbaas/internal/todo/adapter/http"
	"todo-mbaas/internal/todo/dao"
	"todo-mbaas/internal/todo/datasync"
	"todo-mbaas/internal/todo/domain/repository"
	"todo-mbaas/internal/todo/endpoint"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the backends built by the caller.
type Dependencies struct {
	Store       repository.DocumentStore
	Collisions  repository.CollisionStore
	Sessions    usecase.SessionManager
	SessionPing func(ctx context.Context) error
	Bus         eventbus.Bus
}

// ToDoModule holds the wired application.
type ToDoModule struct {
	Config     *config.AppConfig
	Store      repository.DocumentStore
	Bus        eventbus.Bus
	ToDos      *dao.ToDoDAO
	Users      *dao.UserDAO
	MasterData *dao.MasterDataDAO
	Endpoints  *endpoint.Service
	Sync       *datasync.Handler
	Logger     logger.Logger

	sessions    usecase.SessionManager
	sessionPing func(ctx context.Context) error
}

// NewToDoModule builds the DAOs, the endpoint service and the sync dataset.
func NewToDoModule(cfg *config.AppConfig, deps Dependencies, log logger.Logger) (*ToDoModule, error) {
	if deps.Store == nil || deps.Collisions == nil || deps.Sessions == nil {
		return nil, errors.New("todo module requires a document store, a collision store and a session manager")
	}
	if deps.Bus == nil {
		deps.Bus = eventbus.NewEventBus(log)
	}

	encoder, err := dao.NewPasswordEncoder(cfg.Security.PasswordEncoding)
	if err != nil {
		return nil, err
	}
	access, err := policy.NewCELAccessPolicy(cfg.Security.AccessRule)
	if err != nil {
		return nil, err
	}

	users := dao.NewUserDAO(deps.Store, encoder, access, log)
	todos := dao.NewToDoDAO(deps.Store, deps.Bus, log, dao.WithFetchConcurrency(cfg.Data.FetchConcurrency))
	service := endpoint.NewService(deps.Sessions, todos, users, log)

	log.Info("ToDo module initialized")
	return &ToDoModule{
		Config:      cfg,
		Store:       deps.Store,
		Bus:         deps.Bus,
		ToDos:       todos,
		Users:       users,
		MasterData:  dao.NewMasterDataDAO(deps.Store, users, encoder, cfg.Data.SeedConcurrency, log),
		Endpoints:   service,
		Sync:        datasync.NewHandler(service, todos, deps.Collisions, log),
		Logger:      log,
		sessions:    deps.Sessions,
		sessionPing: deps.SessionPing,
	}, nil
}

// SeedMasterData inserts the roles, default users and sample ToDos that are
// missing.
func (m *ToDoModule) SeedMasterData(ctx context.Context) error {
	return m.MasterData.CreateRoleMasterData(ctx)
}

// ResetMasterData wipes the master data collections and seeds them again.
func (m *ToDoModule) ResetMasterData(ctx context.Context) error {
	if err := m.MasterData.DeleteMasterData(ctx); err != nil {
		return err
	}
	return m.MasterData.CreateRoleMasterData(ctx)
}

// HealthCheck pings the document store and the session store.
func (m *ToDoModule) HealthCheck(ctx context.Context) error {
	for _, check := range m.healthChecks() {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *ToDoModule) healthChecks() map[string]httpadapter.HealthCheckFunc {
	checks := map[string]httpadapter.HealthCheckFunc{
		"documentStore": m.Store.Ping,
	}
	if m.sessionPing != nil {
		checks["sessionStore"] = m.sessionPing
	}
	return checks
}

// RegisterRoutes mounts /cloud, /mbaas/sync, /sys and the change feed.
// POST /sys/reset is only available outside production.
func (m *ToDoModule) RegisterRoutes(router fiber.Router) {
	var reset func(ctx context.Context) error
	if !m.Config.IsProduction() {
		reset = m.ResetMasterData
	}

	httpadapter.NewChangeFeedHandler(m.Bus, m.Endpoints, m.Config.Realtime.WebSocketPath,
		m.Config.Realtime.ClientSendChannelBuffer, m.Config.Realtime.SessionCheckInterval, m.Logger).RegisterRoutes(router)
	httpadapter.NewCloudHandler(m.Endpoints, m.Logger).RegisterRoutes(router)
	httpadapter.NewSyncHandler(m.Sync, m.Logger).RegisterRoutes(router)
	httpadapter.NewSysHandler(m.Endpoints, m.healthChecks(), reset, m.Logger).RegisterRoutes(router)
}
