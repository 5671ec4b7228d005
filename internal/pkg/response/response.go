package response

import "github.com/gofiber/fiber/v3"

// The API speaks flat JSON bodies: {"message": ...} for acknowledgements
// and failures, bare payloads everywhere else.

type MessageBody struct {
	Message string `json:"message"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageConflict            = "conflict"
	MessageNotFound            = "not found"
	MessageInternalServerError = "internal server error"
)

func JSON(c fiber.Ctx, status int, payload any) error {
	return c.Status(normalizeStatus(status)).JSON(payload)
}

func Message(c fiber.Ctx, status int, message string) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(MessageBody{Message: normalizeMessage(message, st)})
}

func Error(c fiber.Ctx, status int, message string, cause error) error {
	st := normalizeStatus(status)
	body := ErrorBody{Message: normalizeMessage(message, st)}
	if cause != nil {
		body.Error = cause.Error()
	}
	return c.Status(st).JSON(body)
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func normalizeMessage(message string, status int) string {
	if message != "" {
		return message
	}
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusNotFound:
		return MessageNotFound
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageOK
	}
}
