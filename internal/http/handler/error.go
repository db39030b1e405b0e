package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"scopedocs/internal/docerr"
	"scopedocs/internal/http/middleware"
	"scopedocs/internal/model"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// listErrorPayload is returned by listing endpoints so clients can keep
// rendering an empty list next to the message.
type listErrorPayload struct {
	RequestID string                  `json:"request_id"`
	Error     errorEnvelope           `json:"error"`
	Data      []model.DocumentSummary `json:"data"`
}

// writeError writes a standardized JSON error response.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// writeDocError maps a docerr error to its status and envelope. Errors outside
// the taxonomy are reported without their text.
func writeDocError(c *fiber.Ctx, err error) error {
	status, code, message := describe(err)
	return writeError(c, status, code, message)
}

func writeListError(c *fiber.Ctx, err error) error {
	status, code, message := describe(err)
	return c.Status(status).JSON(listErrorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message},
		Data:      []model.DocumentSummary{},
	})
}

func describe(err error) (int, string, string) {
	code := docerr.Code(err)
	switch code {
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest, code, docerr.Message(err)
	case "NOT_FOUND":
		return fiber.StatusNotFound, code, docerr.Message(err)
	case "STORAGE_UNAVAILABLE":
		return fiber.StatusServiceUnavailable, code, docerr.Message(err)
	case "STORAGE_FAILURE":
		return fiber.StatusInternalServerError, code, docerr.Message(err)
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var de *docerr.Error
		if errors.As(err, &de) {
			return writeDocError(c, err)
		}

		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
