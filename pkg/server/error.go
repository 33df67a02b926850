package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/c3g/chord-project-service/pkg/contract"
)

func toContractError(err error) *contract.Error {
	var cErr *contract.Error
	if errors.As(err, &cErr) {
		return cErr
	}

	code := contract.ErrorCodeInternalError

	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		switch fErr.Code {
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = contract.ErrorCodeBadRequest
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			code = contract.ErrorCodeEndpointNotFound
		case fiber.StatusServiceUnavailable:
			code = contract.ErrorCodeServiceUnavailable
		}
	}

	return contract.NewErrorWith(code, err.Error(), err)
}

// newErrorHandler answers with a bare status code. Conflicts and missing projects
// share 400 with validation failures unless strict status codes are enabled.
func newErrorHandler(logger *logrus.Logger, strict bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		cErr := toContractError(err)

		status := cErr.CompatStatusCode()
		if strict {
			status = cErr.StatusCode()
		}

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"error_code": cErr.Code,
		})

		switch cErr.StatusCode() {
		case fiber.StatusBadRequest, fiber.StatusConflict:
			entry.Info(cErr.Message)
		case fiber.StatusNotFound:
			entry.Debug(cErr.Message)
		case fiber.StatusServiceUnavailable:
			entry.Warn(cErr.Message)
		default:
			entry.WithError(cErr.Inner).Error(cErr.Message)
		}

		c.Status(status)
		c.Response().ResetBody()

		return nil
	}
}
