package Controllers

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type deviceTokenRequest struct {
	Token   string `json:"token" validate:"required"`
	ModelID string `json:"modelId" validate:"omitempty,max=128"`
}

// RegisterDeviceToken keeps the backend's token row for this device current.
func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	var req deviceTokenRequest
	if problem := h.bind(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	model := req.ModelID
	if model == "" {
		model = h.opts.DeviceModel
	}

	s := current(c)
	outcome, err := h.tokens.Reconcile(c.UserContext(), s.AccountID, model, req.Token)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.sessions.SetPushToken(req.Token); err != nil {
		log.WithError(err).Warn("Push token not remembered")
	}
	return c.JSON(fiber.Map{"outcome": outcome, "modelId": model})
}
