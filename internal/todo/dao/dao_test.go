package dao

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/eventbus"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/policy"
	"todo-mbaas/internal/todo/adapter/persistence/memory"
	"todo-mbaas/internal/todo/domain/model"
	"todo-mbaas/internal/todo/domain/repository"
	"todo-mbaas/internal/todo/validation"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) PublishAndForget(ctx context.Context, e eventbus.Event) {
	_ = p.Publish(ctx, e)
}

func (p *recordingPublisher) last() model.ToDoChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return model.ToDoChange{}
	}
	change, _ := p.events[len(p.events)-1].Data().(model.ToDoChange)
	return change
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type()
	}
	return out
}

type fixture struct {
	store     *memory.DocumentStore
	todos     *ToDoDAO
	users     *UserDAO
	master    *MasterDataDAO
	publisher *recordingPublisher
}

func newFixture(t *testing.T, encoder PasswordEncoder) *fixture {
	t.Helper()
	store := memory.NewDocumentStore()
	access, err := policy.NewCELAccessPolicy("")
	require.NoError(t, err)
	log := logger.NewNopLogger()
	pub := &recordingPublisher{}
	users := NewUserDAO(store, encoder, access, log)
	return &fixture{
		store:     store,
		todos:     NewToDoDAO(store, pub, log, WithFetchConcurrency(5)),
		users:     users,
		master:    NewMasterDataDAO(store, users, encoder, 2, log),
		publisher: pub,
	}
}

func seeded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, Base64Encoder{})
	require.NoError(t, f.master.CreateRoleMasterData(context.Background()))
	return f
}

func (f *fixture) login(t *testing.T, appType, name, password string) *model.UserProfile {
	t.Helper()
	profile, err := f.users.FetchUser(context.Background(), Credentials{AppType: appType, UserName: name, Password: password})
	require.NoError(t, err)
	return profile
}

func TestMasterData_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	f := seeded(t)
	require.NoError(t, f.master.CreateRoleMasterData(ctx))

	count := func(name string) int {
		res, err := f.store.List(ctx, name, repository.ListQuery{})
		require.NoError(t, err)
		return res.Count
	}
	assert.Equal(t, 2, count(model.RoleCollection))
	assert.Equal(t, 5, count(model.UserCollection))
	assert.Equal(t, 24, count(model.ToDoCollection))
}

func TestMasterData_SampleToDos(t *testing.T) {
	ctx := context.Background()
	f := seeded(t)
	stantz := f.login(t, model.AppTypeClient, model.DefaultUserStantz, model.DefaultUserPassword)

	res, err := f.store.List(ctx, model.ToDoCollection, repository.ListQuery{
		Eq: map[string]interface{}{"assignedTo": stantz.UserID},
	})
	require.NoError(t, err)
	require.Equal(t, 8, res.Count)

	byTitle := map[string]model.ToDo{}
	for i := range res.List {
		todo, err := decodeToDo(&res.List[i])
		require.NoError(t, err)
		byTitle[todo.Title] = *todo
	}
	seventh := byTitle["Stantz's ToDo 7"]
	assert.Equal(t, model.StatusCompleted, seventh.Status)
	assert.Equal(t, "Completed ToDo 7", seventh.CompletedDetails.Note)
	assert.Equal(t, 22.4235, *seventh.Location.Latitude)
	assert.Equal(t, 18.1234, *seventh.CompletedDetails.Location.Longitude)

	first := byTitle["Stantz's ToDo 1"]
	assert.Equal(t, "description 1", first.Description)
	assert.Equal(t, model.StatusNew, first.Status)
	assert.Nil(t, first.CompletedDetails.Location.Latitude)
	assert.Equal(t, model.StatusRejected, byTitle["Stantz's ToDo 6"].Status)
}

func TestMasterData_Delete(t *testing.T) {
	ctx := context.Background()
	f := seeded(t)

	require.NoError(t, f.master.DeleteMasterData(ctx))

	for _, name := range []string{model.RoleCollection, model.UserCollection, model.ToDoCollection} {
		res, err := f.store.List(ctx, name, repository.ListQuery{})
		require.NoError(t, err)
		assert.Zero(t, res.Count, name)
	}
}

func TestUserDAO_FetchUser(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	t.Run("client user", func(t *testing.T) {
		profile := f.login(t, model.AppTypeClient, "Spengler", "TheKeymaster")
		assert.Equal(t, "Spengler", profile.FirstName)
		assert.Equal(t, model.RoleUser, profile.Role)
		assert.NotEmpty(t, profile.UserID)
	})

	t.Run("portal admin", func(t *testing.T) {
		profile := f.login(t, model.AppTypePortal, "Janine", "Firehouse")
		assert.Equal(t, model.RoleAdmin, profile.Role)
	})

	tests := []struct {
		name    string
		creds   Credentials
		message string
	}{
		{"wrong password", Credentials{model.AppTypeClient, "Spengler", "nope"}, validation.MsgInvalidCredentials},
		{"unknown user", Credentials{model.AppTypeClient, "Egon", "TheKeymaster"}, validation.MsgInvalidCredentials},
		{"user on portal", Credentials{model.AppTypePortal, "Spengler", "TheKeymaster"}, MsgAccessDenied},
		{"admin on client", Credentials{model.AppTypeClient, "Janine", "Firehouse"}, MsgAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.FetchUser(ctx, tt.creds)
			require.Error(t, err)
			assert.True(t, apperrors.IsAuthFailure(err))
			assert.Equal(t, tt.message, apperrors.MessageOf(err))
		})
	}
}

func TestUserDAO_FetchUser_DuplicateUserName(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	_, err := f.store.Create(ctx, model.UserCollection, map[string]interface{}{
		"accountInfo": map[string]interface{}{"userName": "Venkman", "password": "VGhlS2V5bWFzdGVy"},
	})
	require.NoError(t, err)

	_, err = f.users.FetchUser(ctx, Credentials{model.AppTypeClient, "Venkman", "TheKeymaster"})

	assert.Equal(t, validation.MsgDuplicateUser, apperrors.MessageOf(err))
}

func TestUserDAO_FetchUser_MissingRole(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	_, err := f.store.Create(ctx, model.UserCollection, map[string]interface{}{
		"accountInfo": map[string]interface{}{"userName": "Ray", "password": "cGFzcw==", "roleId": "gone"},
	})
	require.NoError(t, err)

	_, err = f.users.FetchUser(ctx, Credentials{model.AppTypeClient, "Ray", "pass"})

	assert.Equal(t, MsgRoleNotFound, apperrors.MessageOf(err))
}

func TestUserDAO_Bcrypt(t *testing.T) {
	f := newFixture(t, BcryptEncoder{Cost: 4})
	require.NoError(t, f.master.CreateRoleMasterData(context.Background()))

	profile := f.login(t, model.AppTypeClient, "Venkman", "TheKeymaster")
	assert.Equal(t, "Venkman", profile.FirstName)

	_, err := f.users.FetchUser(context.Background(), Credentials{model.AppTypeClient, "Venkman", "wrong"})
	assert.Equal(t, validation.MsgInvalidCredentials, apperrors.MessageOf(err))
}

func TestUserDAO_FetchUserList(t *testing.T) {
	f := seeded(t)

	users, err := f.users.FetchUserList(context.Background())

	require.NoError(t, err)
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.UserName
		assert.NotEmpty(t, u.UserID)
	}
	assert.ElementsMatch(t, []string{"Spengler", "Venkman", "Stantz", "Zeddemore"}, names)
}

func TestUserDAO_FetchUserList_NoRoles(t *testing.T) {
	f := newFixture(t, Base64Encoder{})

	_, err := f.users.FetchUserList(context.Background())

	assert.Equal(t, validation.MsgRoleNotFound, apperrors.MessageOf(err))
}

func TestToDoDAO_FetchToDos_Scoping(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	spengler := f.login(t, model.AppTypeClient, "Spengler", "TheKeymaster")
	janine := f.login(t, model.AppTypePortal, "Janine", "Firehouse")

	mine, err := f.todos.FetchToDos(ctx, spengler.UserID, spengler.Role)
	require.NoError(t, err)
	require.Len(t, mine, 6)
	for _, v := range mine {
		assert.Equal(t, spengler.UserID, v.AssignedTo.UserID)
		assert.Equal(t, "Spengler", v.AssignedTo.UserName)
		assert.NotEqual(t, model.StatusCompleted, v.Status)
		assert.Len(t, v.Deadline, len("2006-01-02"))
		assert.Nil(t, v.CompletedDetails)
	}

	all, err := f.todos.FetchToDos(ctx, janine.UserID, janine.Role)
	require.NoError(t, err)
	assert.Len(t, all, 18)

	detailed, err := f.todos.FetchToDosWithDetails(ctx, spengler.UserID, spengler.Role)
	require.NoError(t, err)
	require.NotEmpty(t, detailed)
	assert.NotNil(t, detailed[0].CompletedDetails)
}

func TestToDoDAO_FetchToDos_EmptyList(t *testing.T) {
	f := seeded(t)
	zeddemore := f.login(t, model.AppTypeClient, "Zeddemore", "TheKeymaster")

	_, err := f.todos.FetchToDos(context.Background(), zeddemore.UserID, zeddemore.Role)

	assert.Equal(t, validation.MsgNoToDoList, apperrors.MessageOf(err))
}

func TestToDoDAO_FetchToDos_SortedRegardlessOfStorageOrder(t *testing.T) {
	ctx := context.Background()
	f := seeded(t)
	require.NoError(t, f.master.DeleteMasterData(ctx))
	require.NoError(t, f.master.insertRoles(ctx))
	require.NoError(t, f.master.insertUsers(ctx))
	venkman := f.login(t, model.AppTypeClient, "Venkman", "TheKeymaster")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days := rand.New(rand.NewSource(42)).Perm(40)
	for _, d := range days {
		_, err := f.todos.CreateToDo(ctx, CreateToDoParams{
			UserID:      venkman.UserID,
			Title:       fmt.Sprintf("day %d", d),
			Description: "d",
			Deadline:    model.FormatTimestamp(base.AddDate(0, 0, d)),
			AssignedTo:  venkman.UserID,
			Latitude:    1.0,
			Longitude:   2.0,
		})
		require.NoError(t, err)
	}

	views, err := f.todos.FetchToDos(ctx, venkman.UserID, venkman.Role)
	require.NoError(t, err)
	require.Len(t, views, 40)
	for i, v := range views {
		assert.Equal(t, fmt.Sprintf("day %d", i), v.Title)
		assert.Equal(t, base.AddDate(0, 0, i).Format("2006-01-02"), v.Deadline)
	}
}

func TestToDoDAO_FetchCompletedToDos(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	stantz := f.login(t, model.AppTypeClient, "Stantz", "TheKeymaster")
	janine := f.login(t, model.AppTypePortal, "Janine", "Firehouse")

	mine, err := f.todos.FetchCompletedToDos(ctx, stantz.UserID, stantz.Role)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, v := range mine {
		assert.Equal(t, "Stantz", v.CompletedBy)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, v.CompletedOn)
		require.NotNil(t, v.WhereCompleted.Latitude)
	}
	assert.ElementsMatch(t, []string{"Completed ToDo 7", "Completed ToDo 8"}, []string{mine[0].Note, mine[1].Note})

	spengler := f.login(t, model.AppTypeClient, "Spengler", "TheKeymaster")
	theirs, err := f.todos.FetchCompletedToDos(ctx, spengler.UserID, spengler.Role)
	require.NoError(t, err)
	for _, v := range theirs {
		assert.Equal(t, "Spengler", v.CompletedBy, "a User never sees another user's completed ToDos")
	}

	all, err := f.todos.FetchCompletedToDos(ctx, janine.UserID, janine.Role)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestToDoDAO_CreateToDo(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	f.todos.now = func() time.Time { return now }

	id, err := f.todos.CreateToDo(ctx, CreateToDoParams{
		UserID:      "admin",
		Title:       "Trap the ghost",
		Description: "Library",
		Deadline:    "2024-04-01",
		AssignedTo:  "u1",
		Latitude:    "40.7536",
		Longitude:   -73.9832,
	})
	require.NoError(t, err)

	todo, err := f.todos.ReadToDo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04T05:06:07.000Z", todo.CreatedOn)
	assert.Equal(t, "2024-04-01T00:00:00.000Z", todo.Deadline)
	assert.Equal(t, model.StatusNew, todo.Status)
	assert.Equal(t, "admin", todo.CreatedBy)
	assert.Equal(t, 40.7536, *todo.Location.Latitude)
	assert.Equal(t, -73.9832, *todo.Location.Longitude)
	assert.Empty(t, todo.Note)
	assert.Nil(t, todo.CompletedDetails.Location.Latitude)
	assert.Contains(t, f.publisher.types(), model.EventToDoCreated)
}

func TestToDoDAO_CreateToDo_BadInput(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	_, err := f.todos.CreateToDo(ctx, CreateToDoParams{Deadline: "not a date", Latitude: 1.0, Longitude: 1.0})
	assert.True(t, apperrors.IsBadInput(err))

	_, err = f.todos.CreateToDo(ctx, CreateToDoParams{Deadline: "2024-01-01", Latitude: "north", Longitude: 1.0})
	assert.True(t, apperrors.IsBadInput(err))
	assert.Equal(t, MsgInvalidCoord+"north", apperrors.MessageOf(err))
}

func firstToDo(t *testing.T, f *fixture, userName string) (*model.UserProfile, model.ToDoView) {
	t.Helper()
	profile := f.login(t, model.AppTypeClient, userName, "TheKeymaster")
	views, err := f.todos.FetchToDos(context.Background(), profile.UserID, profile.Role)
	require.NoError(t, err)
	require.NotEmpty(t, views)
	return profile, views[0]
}

func TestToDoDAO_UpdateToDo(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	user, view := firstToDo(t, f, "Spengler")

	err := f.todos.UpdateToDo(ctx, UpdateToDoParams{
		UserID:      user.UserID,
		ToDoID:      view.ToDoID,
		Description: "new description",
		Deadline:    "2030-01-02T10:00:00Z",
		Latitude:    1.5,
		Longitude:   2.5,
		Status:      model.StatusInProgress,
		Note:        "on it",
	})
	require.NoError(t, err)

	todo, err := f.todos.ReadToDo(ctx, view.ToDoID)
	require.NoError(t, err)
	assert.Equal(t, "new description", todo.Description)
	assert.Equal(t, "2030-01-02T10:00:00.000Z", todo.Deadline)
	assert.Equal(t, model.StatusInProgress, todo.Status)
	assert.Equal(t, "on it", todo.Note)
	assert.Equal(t, 1.5, *todo.Location.Latitude)
	assert.Equal(t, view.Title, todo.Title)
	assert.Contains(t, f.publisher.types(), model.EventToDoUpdated)
}

func TestToDoDAO_UpdateToDo_Errors(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	err := f.todos.UpdateToDo(ctx, UpdateToDoParams{ToDoID: "missing", Deadline: "2030-01-01", Latitude: 1.0, Longitude: 1.0, Status: model.StatusNew})
	assert.Equal(t, MsgReadToDo, apperrors.MessageOf(err))

	err = f.todos.UpdateToDo(ctx, UpdateToDoParams{ToDoID: "missing", Deadline: "2030-01-01", Latitude: 1.0, Longitude: 1.0, Status: "Done"})
	assert.True(t, apperrors.IsBadInput(err))
}

func TestToDoDAO_CompleteToDo(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	user, view := firstToDo(t, f, "Spengler")

	err := f.todos.CompleteToDo(ctx, CompleteToDoParams{
		UserID:      user.UserID,
		ToDoID:      view.ToDoID,
		Note:        "busted",
		CompletedOn: "2024-06-01T12:34:56.789Z",
		Latitude:    10.0,
		Longitude:   "20.5",
		Photo:       "base64photo",
	})
	require.NoError(t, err)

	todo, err := f.todos.ReadToDo(ctx, view.ToDoID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, todo.Status)
	assert.Equal(t, "busted", todo.CompletedDetails.Note)
	assert.Equal(t, "2024-06-01T12:34:56.789Z", todo.CompletedDetails.CompletedOn)
	assert.Equal(t, 20.5, *todo.CompletedDetails.Location.Longitude)
	assert.Equal(t, "base64photo", todo.CompletedDetails.Photo)

	completed, err := f.todos.FetchCompletedToDos(ctx, user.UserID, user.Role)
	require.NoError(t, err)
	require.Len(t, completed, 3)
	assert.Equal(t, "2024-06-01 12:34", completed[0].CompletedOn)
	assert.Equal(t, view.ToDoID, completed[0].ToDoID)
	assert.Contains(t, f.publisher.types(), model.EventToDoCompleted)
}

func TestToDoDAO_ChangeToDo(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	spengler, view := firstToDo(t, f, "Spengler")
	venkman := f.login(t, model.AppTypeClient, "Venkman", "TheKeymaster")

	err := f.todos.ChangeToDo(ctx, ChangeToDoParams{
		UserID:      "admin",
		ToDoID:      view.ToDoID,
		Title:       "Reassigned",
		Description: "to Venkman",
		Deadline:    "2031-05-05",
		AssignedTo:  venkman.UserID,
		Latitude:    3.0,
		Longitude:   4.0,
	})
	require.NoError(t, err)

	todo, err := f.todos.ReadToDo(ctx, view.ToDoID)
	require.NoError(t, err)
	assert.Equal(t, "Reassigned", todo.Title)
	assert.Equal(t, venkman.UserID, todo.AssignedTo)
	assert.Equal(t, view.Status, todo.Status)

	change := f.publisher.last()
	assert.Equal(t, venkman.UserID, change.AssignedTo)
	assert.Equal(t, spengler.UserID, change.PreviousAssignee)
	assert.Equal(t, "admin", change.ChangedBy)

	todo.Note = "same assignee"
	require.NoError(t, f.todos.ReplaceToDo(ctx, todo, "admin"))
	assert.Empty(t, f.publisher.last().PreviousAssignee)

	err = f.todos.ChangeToDo(ctx, ChangeToDoParams{ToDoID: "missing", Deadline: "2031-05-05", Latitude: 3.0, Longitude: 4.0})
	assert.Equal(t, MsgReadToDo, apperrors.MessageOf(err))
}

func TestToDoDAO_DeleteToDo(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	user, view := firstToDo(t, f, "Spengler")

	require.NoError(t, f.todos.DeleteToDo(ctx, view.ToDoID, user.UserID))

	_, err := f.todos.ReadToDo(ctx, view.ToDoID)
	assert.True(t, apperrors.IsNotFound(err))

	err = f.todos.DeleteToDo(ctx, view.ToDoID, user.UserID)
	assert.Equal(t, MsgDeleteToDo, apperrors.MessageOf(err))
	assert.Contains(t, f.publisher.types(), model.EventToDoDeleted)
}

type failingUpdateStore struct {
	*memory.DocumentStore
}

func (failingUpdateStore) Update(context.Context, string, string, map[string]interface{}) (*repository.Record, error) {
	return nil, errors.New("write refused")
}

func TestToDoDAO_WriteFailureMessages(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	_, view := firstToDo(t, f, "Spengler")
	todos := NewToDoDAO(failingUpdateStore{f.store}, nil, logger.NewNopLogger())

	err := todos.ChangeToDo(ctx, ChangeToDoParams{ToDoID: view.ToDoID, Deadline: "2031-05-05", Latitude: 3.0, Longitude: 4.0})
	assert.Equal(t, MsgChangeToDo, apperrors.MessageOf(err))

	err = todos.UpdateToDo(ctx, UpdateToDoParams{ToDoID: view.ToDoID, Deadline: "2031-05-05", Latitude: 3.0, Longitude: 4.0, Status: model.StatusNew})
	assert.Equal(t, MsgUpdateToDo, apperrors.MessageOf(err))
	assert.True(t, apperrors.IsStore(err))
}

type failingUserReadStore struct {
	*memory.DocumentStore
}

func (s failingUserReadStore) Read(ctx context.Context, collection, guid string) (*repository.Record, error) {
	if collection == model.UserCollection {
		return nil, errors.New("user read refused")
	}
	return s.DocumentStore.Read(ctx, collection, guid)
}

func TestToDoDAO_EnrichmentFailure(t *testing.T) {
	f := seeded(t)
	spengler := f.login(t, model.AppTypeClient, "Spengler", "TheKeymaster")
	todos := NewToDoDAO(failingUserReadStore{f.store}, nil, logger.NewNopLogger())

	_, err := todos.FetchToDos(context.Background(), spengler.UserID, spengler.Role)

	assert.Equal(t, MsgReadToDo, apperrors.MessageOf(err))
}

func TestToDoDAO_FetchToDos_SkipsUnknownAssignee(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	janine := f.login(t, model.AppTypePortal, "Janine", "Firehouse")
	venkman := f.login(t, model.AppTypeClient, "Venkman", "TheKeymaster")

	orphan, err := f.todos.CreateToDo(ctx, CreateToDoParams{
		UserID:      janine.UserID,
		Title:       "Nobody's ToDo",
		Description: "d",
		Deadline:    "2030-01-01",
		AssignedTo:  "42",
		Latitude:    1.0,
		Longitude:   2.0,
	})
	require.NoError(t, err)

	all, err := f.todos.FetchToDos(ctx, janine.UserID, janine.Role)
	require.NoError(t, err)
	assert.Len(t, all, 18)
	for _, v := range all {
		assert.NotEqual(t, orphan, v.ToDoID)
	}

	_, err = f.store.Delete(ctx, model.UserCollection, venkman.UserID)
	require.NoError(t, err)

	all, err = f.todos.FetchToDos(ctx, janine.UserID, janine.Role)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	completed, err := f.todos.FetchCompletedToDos(ctx, janine.UserID, janine.Role)
	require.NoError(t, err)
	assert.Len(t, completed, 4)
}

func TestPasswordEncoders(t *testing.T) {
	enc, err := NewPasswordEncoder("base64")
	require.NoError(t, err)
	encoded, err := enc.Encode("TheKeymaster")
	require.NoError(t, err)
	assert.Equal(t, "VGhlS2V5bWFzdGVy", encoded)
	assert.True(t, enc.Matches(encoded, "TheKeymaster"))
	assert.True(t, enc.Deterministic())

	bc := BcryptEncoder{Cost: 4}
	hash, err := bc.Encode("Firehouse")
	require.NoError(t, err)
	assert.True(t, bc.Matches(hash, "Firehouse"))
	assert.False(t, bc.Matches(hash, "firehouse"))
	assert.False(t, bc.Deterministic())

	_, err = NewPasswordEncoder("rot13")
	assert.Error(t, err)
}
