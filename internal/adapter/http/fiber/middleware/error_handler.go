package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
)

var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:      fiber.StatusBadRequest,
	domain.KindForbidden:       fiber.StatusForbidden,
	domain.KindNotFound:        fiber.StatusNotFound,
	domain.KindExternalService: fiber.StatusServiceUnavailable,
	domain.KindInternal:        fiber.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return kindStatus[domain.KindOf(err)]
}

// ErrorBody builds the failure envelope returned for err.
func ErrorBody(err error) fiber.Map {
	body := fiber.Map{"success": false}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		body["failureKind"] = kindForStatus(fe.Code).String()
		body["message"] = fe.Message
		body["error"] = fe.Message
		return body
	}

	appErr, ok := domain.AsError(err)
	if !ok {
		body["failureKind"] = domain.KindInternal.String()
		body["message"] = "Internal server error"
		body["error"] = "Internal server error"
		return body
	}

	body["failureKind"] = appErr.Kind.String()
	body["message"] = appErr.Message
	body["error"] = appErr.Error()
	if appErr.Kind == domain.KindExternalService {
		body["sourceService"] = appErr.Service
		body["code"] = appErr.Code
	}
	return body
}

func kindForStatus(status int) domain.ErrorKind {
	switch {
	case status == fiber.StatusNotFound:
		return domain.KindNotFound
	case status == fiber.StatusForbidden || status == fiber.StatusUnauthorized:
		return domain.KindForbidden
	case status >= 400 && status < 500:
		return domain.KindValidation
	case status == fiber.StatusServiceUnavailable:
		return domain.KindExternalService
	default:
		return domain.KindInternal
	}
}

// ErrorHandler renders every error returned by a handler as a failure envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)

		switch {
		case code >= fiber.StatusInternalServerError && code != fiber.StatusServiceUnavailable:
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		case code == fiber.StatusServiceUnavailable:
			log.Warn("External service failure", zap.Error(err), zap.String("path", c.Path()))
		default:
			log.Debug("Request rejected", zap.Int("status", code), zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(ErrorBody(err))
	}
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success":     false,
		"failureKind": domain.KindNotFound.String(),
		"error":       "Route not found",
		"message":     "Cannot " + c.Method() + " " + c.Path(),
	})
}
