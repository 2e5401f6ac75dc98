package http

import (
	"errors"
	"net/http"
	"time"

	"todo-mbaas/internal/shared/contextkeys"
	"todo-mbaas/internal/shared/logger"
	"todo-mbaas/internal/shared/response"
	"todo-mbaas/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

const categoryRequest = "Request"

// RequestID assigns X-Request-ID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RequestContext moves the request id stored by RequestID into the user
// context.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(string(contextkeys.RequestIDKey)).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// RateLimiter limits each client IP to max requests per minute. A
// non-positive max disables limiting.
func RateLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get(fiber.HeaderXForwardedFor, c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			env := response.NewError(response.StatusBadInput, categoryRequest, "Rate Limit Exceeded", "Too many requests. Please try again later.")
			return c.Status(fiber.StatusTooManyRequests).JSON(env)
		},
	})
}

// NewAccessLogger returns the zap logger used for access logs.
func NewAccessLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// AccessLog writes one line per request.
func AccessLog(z *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		requestID, _ := c.Locals(string(contextkeys.RequestIDKey)).(string)
		z.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

// ErrorHandler renders errors that escape a handler as error envelopes.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		code := response.StatusServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			if status < fiber.StatusInternalServerError {
				code = response.StatusBadInput
			}
		}
		if status >= fiber.StatusInternalServerError {
			log.WithContext(c.UserContext()).Errorf("HTTP error on %s %s: %v", c.Method(), c.Path(), err)
		}
		env := response.NewError(code, categoryRequest, http.StatusText(status), err.Error())
		return c.Status(status).JSON(env)
	}
}

// writeEnvelope answers with env and the HTTP status matching its code.
func writeEnvelope(c *fiber.Ctx, env *response.Envelope) error {
	return c.Status(response.HTTPStatus(env.Code())).JSON(env)
}

func malformedRequest() *response.Envelope {
	return response.NewError(response.StatusBadInput, categoryRequest, "Malformed Request", "Request body must be a JSON object.")
}
