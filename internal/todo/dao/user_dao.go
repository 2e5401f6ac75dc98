package dao

import (
	"context"

	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/policy"
	"todo-mbaas/internal/todo/domain/model"
	"todo-mbaas/internal/todo/domain/repository"
	"todo-mbaas/internal/todo/validation"
)

// UserDAO reads the user and role collections.
type UserDAO struct {
	store   repository.DocumentStore
	encoder PasswordEncoder
	policy  policy.AccessPolicy
	logger  logger.Logger
}

// NewUserDAO creates a UserDAO. access decides which role may sign in from
// which application type.
func NewUserDAO(store repository.DocumentStore, encoder PasswordEncoder, access policy.AccessPolicy, log logger.Logger) *UserDAO {
	return &UserDAO{
		store:   store,
		encoder: encoder,
		policy:  access,
		logger:  log.WithComponent("user_dao"),
	}
}

// FetchUser checks credentials and the access rule and returns the profile
// of the matching user.
func (d *UserDAO) FetchUser(ctx context.Context, c Credentials) (*model.UserProfile, error) {
	log := d.logger.WithContext(ctx)
	log.Infof("Fetching user %s from DB.", c.UserName)

	res, err := d.findByCredentials(ctx, c)
	if err != nil {
		log.Errorf("Error reading data from User collection - %v", err)
		return nil, apperrors.NewAuthFailureError(MsgAuthFailed).WithCause(err)
	}
	if err := validation.ValidateAuthenticatedUser(res); err != nil {
		return nil, err
	}

	rec := res.List[0]
	var user model.User
	if err := model.DecodeFields(rec.Fields, &user); err != nil {
		return nil, apperrors.NewAuthFailureError(MsgAuthFailed).WithCause(err)
	}

	roleRec, err := d.store.Read(ctx, model.RoleCollection, user.AccountInfo.RoleID)
	if err != nil {
		log.Errorf("Error reading data from Role collection - %v", err)
		return nil, apperrors.NewAuthFailureError(MsgRoleNotFound).WithCause(err)
	}
	var role model.Role
	if err := model.DecodeFields(roleRec.Fields, &role); err != nil {
		return nil, apperrors.NewAuthFailureError(MsgRoleNotFound).WithCause(err)
	}

	allowed, err := d.policy.Allow(ctx, policy.AccessRequest{
		AppType:  c.AppType,
		Role:     role.Type,
		UserName: c.UserName,
	})
	if err != nil || !allowed {
		log.Errorf("Authentication Failure.Access is denied - appType %s, role %s", c.AppType, role.Type)
		e := apperrors.NewAuthFailureError(MsgAccessDenied).WithCause(apperrors.ErrAccessDenied)
		if err != nil {
			e = e.WithDetail("policy_error", err.Error())
		}
		return nil, e
	}

	return &model.UserProfile{
		UserID:    rec.GUID,
		FirstName: user.BasicInfo.FirstName,
		LastName:  user.BasicInfo.LastName,
		Email:     user.BasicInfo.Email,
		Role:      role.Type,
	}, nil
}

// findByCredentials returns the users matching c. With a deterministic
// encoder the password is part of the query; otherwise candidates are
// fetched by user name and checked one by one.
func (d *UserDAO) findByCredentials(ctx context.Context, c Credentials) (*repository.ListResult, error) {
	eq := map[string]interface{}{"accountInfo.userName": c.UserName}
	if d.encoder.Deterministic() {
		encoded, err := d.encoder.Encode(c.Password)
		if err != nil {
			return nil, err
		}
		eq["accountInfo.password"] = encoded
		return d.store.List(ctx, model.UserCollection, repository.ListQuery{Eq: eq})
	}

	res, err := d.store.List(ctx, model.UserCollection, repository.ListQuery{Eq: eq})
	if err != nil {
		return nil, err
	}
	matched := &repository.ListResult{List: []repository.Record{}}
	for _, rec := range res.List {
		var user model.User
		if err := model.DecodeFields(rec.Fields, &user); err != nil {
			continue
		}
		if d.encoder.Matches(user.AccountInfo.Password, c.Password) {
			matched.List = append(matched.List, rec)
		}
	}
	matched.Count = len(matched.List)
	return matched, nil
}

// FetchUserList returns every user holding the User role.
func (d *UserDAO) FetchUserList(ctx context.Context) ([]model.UserSummary, error) {
	log := d.logger.WithContext(ctx)

	roleID, err := d.RoleID(ctx, model.RoleUser)
	if err != nil {
		return nil, err
	}

	res, err := d.store.List(ctx, model.UserCollection, repository.ListQuery{
		Eq: map[string]interface{}{"accountInfo.roleId": roleID},
	})
	if err != nil {
		log.Errorf("Error reading data from User collection - %v", err)
		return nil, apperrors.NewStoreError(MsgReadUser).WithCause(err)
	}
	if err := validation.ValidateUserList(res); err != nil {
		return nil, err
	}

	users := make([]model.UserSummary, 0, len(res.List))
	for _, rec := range res.List {
		var user model.User
		if err := model.DecodeFields(rec.Fields, &user); err != nil {
			return nil, apperrors.NewStoreError(MsgReadUser).WithCause(err)
		}
		users = append(users, model.UserSummary{UserID: rec.GUID, UserName: user.BasicInfo.FirstName})
	}
	return users, nil
}

// RoleID returns the guid of the single role of the given type.
func (d *UserDAO) RoleID(ctx context.Context, roleType string) (string, error) {
	res, err := d.store.List(ctx, model.RoleCollection, repository.ListQuery{
		Eq: map[string]interface{}{"type": roleType},
	})
	if err != nil {
		d.logger.WithContext(ctx).Errorf("Error reading data from Role collection - %v", err)
		return "", apperrors.NewStoreError(MsgReadRole).WithCause(err)
	}
	if err := validation.ValidateRole(res); err != nil {
		return "", err
	}
	return res.List[0].GUID, nil
}
