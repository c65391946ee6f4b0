package Controllers

import (
	"MagicPlanner/Materials"
	"MagicPlanner/Models"

	"github.com/gofiber/fiber/v2"
)

func sessionAccount(c *fiber.Ctx) Models.Account {
	s := current(c)
	return Models.Account{ID: s.AccountID, Email: s.Email}
}

// ChatHistory lists the conversation with the supervisor, newest first.
func (h *Handler) ChatHistory(c *fiber.Ctx) error {
	if h.chat == nil {
		return unavailable(c, "Chat")
	}
	msgs, err := h.chat.History(c.UserContext(), sessionAccount(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

type chatRequest struct {
	Text string `json:"text" validate:"required"`
}

// SendChat posts a message to the supervisor.
func (h *Handler) SendChat(c *fiber.Ctx) error {
	if h.chat == nil {
		return unavailable(c, "Chat")
	}
	var req chatRequest
	if problem := h.bind(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}
	msg, err := h.chat.Send(c.UserContext(), sessionAccount(c), req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// Materials lists instructional materials, optionally of one ?kind.
func (h *Handler) Materials(c *fiber.Ctx) error {
	if h.materials == nil {
		return unavailable(c, "Materials")
	}
	kind := c.Query("kind")
	if !Materials.ValidKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be image, video or document"})
	}
	items, err := Materials.Browse(c.UserContext(), h.materials, kind)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}
