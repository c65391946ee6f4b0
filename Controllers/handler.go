package Controllers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"MagicPlanner/Chat"
	"MagicPlanner/Materials"
	"MagicPlanner/Models"
	"MagicPlanner/Photos"
	"MagicPlanner/Planner"
	"MagicPlanner/Session"
	"MagicPlanner/Tokens"
	"MagicPlanner/Tracker"
	"MagicPlanner/middleware"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Backend is the read side of the REST backend used by the handlers.
type Backend interface {
	Tracker.Source
	FetchAccount(ctx context.Context, accountID int64) (*Models.Account, error)
	FetchSettings(ctx context.Context, accountID int64) (*Models.Settings, error)
}

// Sessions is the device login used by the handlers.
type Sessions interface {
	middleware.Sessions
	LoginWithCode(ctx context.Context, code string) (Models.Account, error)
	SetPushToken(token string) error
	Logout() (Session.Session, error)
}

// Refresher runs the scheduled refresh on demand.
type Refresher interface {
	RunNow() error
	LastRun() (time.Time, error)
}

// Options are the settings the handlers read from the configuration.
type Options struct {
	JWTSecret   string
	TokenTTL    time.Duration
	DeviceModel string
}

// Handler serves the local API of the planner.
type Handler struct {
	opts      Options
	backend   Backend
	sessions  Sessions
	tracker   *Tracker.Tracker
	tokens    *Tokens.Reconciler
	pipeline  *Photos.Pipeline
	chat      *Chat.Service
	materials Materials.Catalogue
	refresher Refresher
	watcher   *Chat.Watcher
	validate  *validator.Validate
	trans     ut.Translator
}

func NewHandler(opts Options, backend Backend, sessions Sessions, tracker *Tracker.Tracker, tokens *Tokens.Reconciler) *Handler {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * 24 * time.Hour
	}
	validate, trans := newValidator()
	return &Handler{
		opts:     opts,
		backend:  backend,
		sessions: sessions,
		tracker:  tracker,
		tokens:   tokens,
		validate: validate,
		trans:    trans,
	}
}

// newValidator reports fields by their JSON names with English messages.
func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.WithError(err).Warn("Validation messages not translated")
	}
	return validate, trans
}

// WithPhotos enables photo proofs.
func (h *Handler) WithPhotos(p *Photos.Pipeline) *Handler {
	h.pipeline = p
	return h
}

// WithChat enables the supervisor chat.
func (h *Handler) WithChat(c *Chat.Service) *Handler {
	h.chat = c
	return h
}

// WithChatWatcher follows the conversation of whoever logs in.
func (h *Handler) WithChatWatcher(w *Chat.Watcher) *Handler {
	h.watcher = w
	return h
}

// WithMaterials enables the materials browser.
func (h *Handler) WithMaterials(m Materials.Catalogue) *Handler {
	h.materials = m
	return h
}

// WithRefresher sends manual refreshes through the scheduled refresher so the
// two never overlap.
func (h *Handler) WithRefresher(r Refresher) *Handler {
	h.refresher = r
	return h
}

// Refresh reloads the tracker for the logged-in account. It is what the
// scheduled refresh runs.
func (h *Handler) Refresh(ctx context.Context) error {
	s, err := h.sessions.Current()
	if err != nil {
		return nil
	}
	return h.tracker.Refresh(ctx, h.backend, s.AccountID)
}

func current(c *fiber.Ctx) Session.Session {
	s, _ := c.Locals(middleware.SessionKey).(Session.Session)
	return s
}

// bind parses and validates the JSON body into dst. It returns the response
// body to send when the request is rejected.
func (h *Handler) bind(c *fiber.Ctx, dst interface{}) fiber.Map {
	if err := c.BodyParser(dst); err != nil {
		return fiber.Map{"error": "Invalid request body"}
	}
	if err := h.validate.Struct(dst); err != nil {
		fields := []string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Translate(h.trans))
			}
		}
		return fiber.Map{"error": "Validation failed", "fields": fields}
	}
	return nil
}

// fail maps domain errors to responses.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, Tracker.ErrUnknownTask), errors.Is(err, Tracker.ErrUnknownSubTask):
		status = fiber.StatusNotFound
	case errors.Is(err, Tracker.ErrTaskNotStarted), errors.Is(err, Tracker.ErrTaskFinished),
		errors.Is(err, Tracker.ErrTaskStarted), errors.Is(err, Tracker.ErrInvalidTransition),
		errors.Is(err, Tracker.ErrUploadInProgress):
		status = fiber.StatusConflict
	case errors.Is(err, Tracker.ErrPhotoRequired), errors.Is(err, Tracker.ErrNoPhotoRequired),
		errors.Is(err, Chat.ErrEmptyMessage), errors.Is(err, Session.ErrEmptyCode):
		status = fiber.StatusBadRequest
	case errors.Is(err, Session.ErrUnknownCode), errors.Is(err, Session.ErrNotLoggedIn):
		status = fiber.StatusUnauthorized
	}

	body := fiber.Map{"error": err.Error()}
	if stage, ok := Photos.FailedStage(err); ok {
		status = fiber.StatusBadGateway
		if stage == Photos.StageDecode {
			status = fiber.StatusBadRequest
		}
		body["stage"] = stage
	}
	if status >= fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("Request failed")
	}
	return c.Status(status).JSON(body)
}

func unavailable(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": what + " is not configured",
	})
}

// Health is the liveness probe. It also reports the last task refresh.
func (h *Handler) Health(c *fiber.Ctx) error {
	_, err := h.sessions.Current()
	body := fiber.Map{
		"status":   "ok",
		"loggedIn": err == nil,
		"time":     time.Now().Format(Planner.DisplayLayout),
	}
	if h.refresher != nil {
		at, runErr := h.refresher.LastRun()
		refresh := fiber.Map{"ok": runErr == nil}
		if !at.IsZero() {
			refresh["at"] = at.Format(Planner.DisplayLayout)
		}
		if runErr != nil {
			refresh["error"] = runErr.Error()
		}
		body["refresh"] = refresh
	}
	return c.JSON(body)
}
