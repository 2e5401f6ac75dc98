package endpoint

import (
	"context"
	"strings"

	sessionmodel "todo-mbaas/internal/session/domain/model"
	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/shared/utils"
	"todo-mbaas/internal/todo/dao"
	"todo-mbaas/internal/todo/validation"
)

const (
	categoryAuthentication = "Authentication"
	titleAuthentication    = "Authentication Failed"
	categoryLogout         = "Logout"
)

// Authenticate checks credentials, opens a session and returns its id in
// response.header.sessionId together with the user profile.
func (s *Service) Authenticate(ctx context.Context, req Request) *response.Envelope {
	ctx = utils.WithOperation(ctx, ActionAuthenticate)
	log := s.logger.WithContext(ctx)

	if res := validation.ValidateAuthenticationRequest(req); !res.Valid {
		return response.NewError(response.StatusBadInput, categoryAuthentication, titleAuthentication, res.Message)
	}

	creds := dao.Credentials{
		AppType:  stringAt(req, pathAppType),
		UserName: strings.TrimSpace(stringAt(req, "request.payload.login.userName")),
		Password: strings.TrimSpace(stringAt(req, "request.payload.login.password")),
	}

	profile, err := s.users.FetchUser(ctx, creds)
	if err != nil {
		log.Warnf("authentication of %s failed: %v", creds.UserName, err)
		return response.NewError(response.StatusAuthFailed, categoryAuthentication, titleAuthentication, apperrors.MessageOf(err))
	}

	sessionID, err := s.initializeSession(ctx, map[string]interface{}{
		sessionmodel.AttrEmail:  profile.Email,
		sessionmodel.AttrUserID: profile.UserID,
		sessionmodel.AttrRole:   profile.Role,
	})
	if err != nil {
		log.Errorf("failed to initialize session: %v", err)
		return response.NewError(response.StatusServerError, categoryAuthentication, titleAuthentication,
			"Failed to initialize session - "+apperrors.MessageOf(err))
	}

	log.WithFields(map[string]interface{}{"session_id": sessionID, "user_id": profile.UserID}).Info("user authenticated")

	env := response.NewSuccess("login", "Authentication Success")
	env.SetHeader("sessionId", sessionID)
	env.Set("login", "userProfile", map[string]interface{}{
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"role":      profile.Role,
	})
	return env
}

func (s *Service) initializeSession(ctx context.Context, attrs map[string]interface{}) (string, error) {
	sessionID, err := s.sessions.CreateSession(ctx)
	if err != nil {
		return "", err
	}
	ok, err := s.sessions.SetSessionAttributes(ctx, sessionID, attrs)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.NewNotFoundError("Session does not exist for sessionId: " + sessionID)
	}
	return sessionID, nil
}

// Logout destroys the session named in the request header. It always
// reports success: an unknown, expired or missing session is treated as
// already logged out.
func (s *Service) Logout(ctx context.Context, req Request) *response.Envelope {
	ctx = utils.WithOperation(ctx, ActionLogout)
	log := s.logger.WithContext(ctx)

	sessionID := stringAt(req, pathSessionID)
	if strings.TrimSpace(sessionID) != "" {
		if _, err := s.sessions.DestroySession(ctx, sessionID); err != nil {
			log.Warnf("logout of session %s: %v", sessionID, err)
		}
	}
	return response.NewSuccess("logout", "User logged out.")
}
