package Controllers

import (
	"time"

	"MagicPlanner/Planner"
	"MagicPlanner/middleware"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type loginRequest struct {
	Code string `json:"code" validate:"required"`
}

// Login signs the device in with a scanned QR code.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if problem := h.bind(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}

	account, err := h.sessions.LoginWithCode(c.UserContext(), req.Code)
	if err != nil {
		return fail(c, err)
	}

	token, expires, err := middleware.IssueToken(h.opts.JWTSecret, account.ID, h.opts.TokenTTL)
	if err != nil {
		return fail(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
	})

	h.tracker.Reset()
	if err := h.tracker.Refresh(c.UserContext(), h.backend, account.ID); err != nil {
		log.WithError(err).WithField("account_id", account.ID).Warn("Initial refresh incomplete")
	}
	if h.watcher != nil {
		if err := h.watcher.Start(account); err != nil {
			log.WithError(err).WithField("account_id", account.ID).Warn("Chat listener not started")
		}
	}

	return c.JSON(fiber.Map{
		"account":  account,
		"greeting": Planner.Greeting(account),
	})
}

// Logout releases the push token, forgets the session and clears the cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	prev, err := h.sessions.Logout()
	if err != nil {
		return fail(c, err)
	}
	if prev.PushToken != "" {
		if err := h.tokens.Release(c.UserContext(), prev.AccountID, prev.PushToken); err != nil {
			log.WithError(err).WithField("account_id", prev.AccountID).Warn("Push token not released")
		}
	}
	h.tracker.Reset()
	if h.watcher != nil {
		h.watcher.Stop()
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Account returns the child account with its greeting.
func (h *Handler) Account(c *fiber.Ctx) error {
	s := current(c)
	account, err := h.backend.FetchAccount(c.UserContext(), s.AccountID)
	if err != nil {
		if s.Profile.ID == 0 {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{
			"account":  s.Profile,
			"greeting": Planner.Greeting(s.Profile),
			"offline":  true,
		})
	}
	account.Password = ""
	return c.JSON(fiber.Map{
		"account":  account,
		"greeting": Planner.Greeting(*account),
		"offline":  false,
	})
}

// Settings returns the presentation settings of the account.
func (h *Handler) Settings(c *fiber.Ctx) error {
	settings, err := h.backend.FetchSettings(c.UserContext(), current(c).AccountID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(settings)
}
