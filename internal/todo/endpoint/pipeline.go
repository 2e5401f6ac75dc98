package endpoint

import (
	"context"

	"todo-mbaas/internal/session/domain/model"
	apperrors "todo-mbaas/internal/shared/errors"
	"todo-mbaas/internal/shared/jsonpath"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/shared/utils"
	"todo-mbaas/internal/todo/validation"
)

const titleOperationFailed = "Operation Failed"

// authorizedRequest is the state carried from the session stages into the
// action specific stages.
type authorizedRequest struct {
	ctx       context.Context
	sessionID string
	session   model.Session
}

func (a *authorizedRequest) userID() string { return a.session.UserID() }
func (a *authorizedRequest) role() string   { return a.session.Role() }

// authorize runs the session stages. It returns either the authorized
// request or the envelope that ends the pipeline.
func (s *Service) authorize(ctx context.Context, req Request, category string) (*authorizedRequest, *response.Envelope) {
	log := s.logger.WithContext(ctx)

	sessionID, _ := jsonpath.GetString(req, pathSessionID)
	if jsonpath.IsBlank(sessionID) {
		log.Warnf("%s: sessionId not specified", category)
		return nil, response.NewAuthFailure("")
	}
	ctx = utils.WithSessionID(ctx, sessionID)
	log = s.logger.WithContext(ctx)

	valid, err := s.sessions.IsValidSession(ctx, sessionID)
	if err != nil || !valid {
		if err != nil {
			log.Errorf("%s: session check failed: %v", category, err)
		} else {
			log.Warnf("%s: invalid session", category)
		}
		return nil, response.NewAuthFailure(sessionID)
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil || len(session) == 0 {
		log.Errorf("%s: unable to retrieve session parameters: %v", category, err)
		return nil, response.NewAuthFailure(sessionID)
	}

	if res := validation.ValidateSessionParameters(session); !res.Valid {
		log.Errorf("%s: invalid session parameters: %s", category, res.Message)
		return nil, response.NewError(response.StatusAuthFailed, category, titleOperationFailed, res.Message)
	}

	ctx = utils.WithUserID(ctx, session.UserID())
	ctx = utils.WithRole(ctx, session.Role())
	return &authorizedRequest{ctx: ctx, sessionID: sessionID, session: session}, nil
}

// validateRequest runs an action's request validator and turns a failure
// into an ERR_400 envelope.
func validateRequest(req Request, category string, validate func(map[string]interface{}) validation.Result) *response.Envelope {
	if res := validate(req); !res.Valid {
		return response.NewError(response.StatusBadInput, category, titleOperationFailed, res.Message)
	}
	return nil
}

// dataFailure wraps a data-layer error in an ERR_400 envelope carrying its
// client facing message.
func (s *Service) dataFailure(ctx context.Context, category string, err error) *response.Envelope {
	s.logger.WithContext(ctx).Errorf("%s failed: %v", category, err)
	return response.NewError(response.StatusBadInput, category, titleOperationFailed, apperrors.MessageOf(err))
}

func stringAt(req Request, path string) string {
	v, _ := jsonpath.GetString(req, path)
	return v
}

// Authorize runs the session stages for callers outside the action table and
// returns the enriched context with the loaded session.
func (s *Service) Authorize(ctx context.Context, req Request, category string) (context.Context, model.Session, *response.Envelope) {
	auth, fail := s.authorize(ctx, req, category)
	if fail != nil {
		return ctx, nil, fail
	}
	return auth.ctx, auth.session, nil
}

// SessionActive reports whether sessionID still names a live session without
// restarting its TTL.
func (s *Service) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	return s.sessions.SessionExists(ctx, sessionID)
}
