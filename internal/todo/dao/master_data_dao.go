package dao

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/todo/domain/model"
	"todo-mbaas/internal/todo/domain/repository"
)

// DefaultSeedConcurrency bounds the per-user ToDo builders during seeding.
const DefaultSeedConcurrency = 2

// Sample ToDo coordinates.
const (
	seedLatitude  = 12.4235
	seedLongitude = 13.2445
)

var seedRoles = []model.Role{
	{
		Type:          model.RoleAdmin,
		Name:          "System Administrator",
		Desc:          "Super user of the entire system. He has access to all.",
		AccessDetails: model.AccessDetails{Portal: []string{}, App: []string{}},
	},
	{
		Type:          model.RoleUser,
		Name:          "User",
		Desc:          "Performs TODO assigned by Admin or other users.",
		AccessDetails: model.AccessDetails{Portal: []string{}, App: []string{}},
	},
}

// MasterDataDAO seeds and wipes the role, user and toDo collections.
type MasterDataDAO struct {
	store       repository.DocumentStore
	users       *UserDAO
	encoder     PasswordEncoder
	concurrency int
	now         func() time.Time
	logger      logger.Logger
}

// NewMasterDataDAO creates a MasterDataDAO. concurrency <= 0 selects
// DefaultSeedConcurrency.
func NewMasterDataDAO(store repository.DocumentStore, users *UserDAO, encoder PasswordEncoder, concurrency int, log logger.Logger) *MasterDataDAO {
	if concurrency <= 0 {
		concurrency = DefaultSeedConcurrency
	}
	return &MasterDataDAO{
		store:       store,
		users:       users,
		encoder:     encoder,
		concurrency: concurrency,
		now:         time.Now,
		logger:      log.WithComponent("master_data_dao"),
	}
}

// CreateRoleMasterData inserts missing roles, then the default users when the
// user collection is empty, then the sample ToDos when the toDo collection is
// empty. It is safe to run on every start.
func (d *MasterDataDAO) CreateRoleMasterData(ctx context.Context) error {
	if err := d.insertRoles(ctx); err != nil {
		return err
	}
	if err := d.insertUsers(ctx); err != nil {
		return err
	}
	return d.insertToDos(ctx)
}

// DeleteMasterData empties the role, user and toDo collections.
func (d *MasterDataDAO) DeleteMasterData(ctx context.Context) error {
	for _, name := range []string{model.RoleCollection, model.UserCollection, model.ToDoCollection} {
		n, err := d.store.DeleteAll(ctx, name)
		if err != nil {
			return apperrors.WrapError(err, "failed to delete "+name+" master data")
		}
		d.logger.WithContext(ctx).Infof("Deleted %d records from %s collection", n, name)
	}
	return nil
}

func (d *MasterDataDAO) insertRoles(ctx context.Context) error {
	for _, role := range seedRoles {
		res, err := d.store.List(ctx, model.RoleCollection, repository.ListQuery{
			Eq: map[string]interface{}{"type": role.Type},
		})
		if err != nil {
			return apperrors.WrapError(err, MsgReadRole)
		}
		if res.Count > 0 {
			continue
		}
		fields, err := model.EncodeFields(role)
		if err != nil {
			return apperrors.NewInternalError("failed to encode role").WithCause(err)
		}
		rec, err := d.store.Create(ctx, model.RoleCollection, fields)
		if err != nil {
			return apperrors.WrapError(err, "failed to insert "+role.Type+" role")
		}
		d.logger.WithContext(ctx).Infof("%s role inserted with guid %s", role.Type, rec.GUID)
	}
	return nil
}

func (d *MasterDataDAO) insertUsers(ctx context.Context) error {
	empty, err := d.isEmpty(ctx, model.UserCollection)
	if err != nil || !empty {
		return err
	}

	adminRoleID, err := d.users.RoleID(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	userRoleID, err := d.users.RoleID(ctx, model.RoleUser)
	if err != nil {
		return err
	}

	entries := make([]map[string]interface{}, 0, len(model.DefaultUsers)+1)
	admin, err := d.newUser(model.DefaultAdminUserName, model.DefaultAdminPassword, adminRoleID)
	if err != nil {
		return err
	}
	entries = append(entries, admin)
	for _, name := range model.DefaultUsers {
		user, err := d.newUser(name, model.DefaultUserPassword, userRoleID)
		if err != nil {
			return err
		}
		entries = append(entries, user)
	}

	recs, err := d.store.CreateMany(ctx, model.UserCollection, entries)
	if err != nil {
		return apperrors.WrapError(err, "failed to insert default users")
	}
	d.logger.WithContext(ctx).Infof("Inserted %d default users", len(recs))
	return nil
}

func (d *MasterDataDAO) newUser(name, password, roleID string) (map[string]interface{}, error) {
	encoded, err := d.encoder.Encode(password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode password").WithCause(err)
	}
	user := model.User{
		BasicInfo: model.BasicInfo{FirstName: name},
		AccountInfo: model.AccountInfo{
			UserName: name,
			Password: encoded,
			RoleID:   roleID,
		},
	}
	fields, err := model.EncodeFields(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode user").WithCause(err)
	}
	return fields, nil
}

func (d *MasterDataDAO) insertToDos(ctx context.Context) error {
	empty, err := d.isEmpty(ctx, model.ToDoCollection)
	if err != nil || !empty {
		return err
	}

	res, err := d.store.List(ctx, model.UserCollection, repository.ListQuery{})
	if err != nil {
		return apperrors.WrapError(err, MsgReadUser)
	}

	now := model.FormatTimestamp(d.now())
	var mu sync.Mutex
	var entries []map[string]interface{}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, rec := range res.List {
		rec := rec
		g.Go(func() error {
			var user model.User
			if err := model.DecodeFields(rec.Fields, &user); err != nil {
				return err
			}
			name := user.AccountInfo.UserName
			if name == model.DefaultAdminUserName || name == model.DefaultUserZeddemore {
				return nil
			}
			built, err := sampleToDos(name, rec.GUID, now)
			if err != nil {
				return err
			}
			mu.Lock()
			entries = append(entries, built...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperrors.NewInternalError("failed to build sample ToDos").WithCause(err)
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return fmt.Sprint(entries[i]["title"]) < fmt.Sprint(entries[j]["title"])
	})
	recs, err := d.store.CreateMany(ctx, model.ToDoCollection, entries)
	if err != nil {
		return apperrors.WrapError(err, MsgInsertToDo)
	}
	d.logger.WithContext(ctx).Infof("Inserted %d sample ToDos", len(recs))
	return nil
}

func (d *MasterDataDAO) isEmpty(ctx context.Context, collection string) (bool, error) {
	res, err := d.store.List(ctx, collection, repository.ListQuery{})
	if err != nil {
		return false, apperrors.WrapError(err, "failed to read "+collection+" collection")
	}
	return res.Count == 0, nil
}

var sampleStatuses = []string{
	model.StatusNew, model.StatusNew, model.StatusNew,
	model.StatusInProgress, model.StatusInProgress,
	model.StatusRejected,
	model.StatusCompleted, model.StatusCompleted,
}

// sampleToDos builds the eight demo ToDos of one user.
func sampleToDos(userName, userID, now string) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(sampleStatuses))
	for i, status := range sampleStatuses {
		n := i + 1
		todo := model.ToDo{
			Title:       fmt.Sprintf("%s's ToDo %d", userName, n),
			Description: fmt.Sprintf("description %d", n),
			CreatedOn:   now,
			Deadline:    now,
			CreatedBy:   userID,
			AssignedTo:  userID,
			Status:      status,
			Location:    model.NewLocation(seedLatitude, seedLongitude),
		}
		switch n {
		case 7:
			todo.Location = model.NewLocation(22.4235, 14.2445)
			todo.CompletedDetails = model.CompletedDetails{
				Note:        "Completed ToDo 7",
				CompletedOn: now,
				Photo:       "bhdfenosodnchddbddwjbugewjcbjgejvambcsygjbcjbjslskajsdgwmbcgcbhcvjehuhbvv",
				Location:    model.NewLocation(12.5533, 18.1234),
			}
		case 8:
			todo.CompletedDetails = model.CompletedDetails{
				Note:        "Completed ToDo 8",
				CompletedOn: now,
				Photo:       "gucegug3hbmowjhcwnhdechhceknheheebugewnjvbewgwbechcbejchwijcnchhcjlwjbgwe",
				Location:    model.NewLocation(23.5533, 24.1234),
			}
		}
		fields, err := model.EncodeFields(todo)
		if err != nil {
			return nil, err
		}
		out = append(out, fields)
	}
	return out, nil
}
