package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/gatherhub/gatherhub/internal/domain"
	authmw "github.com/gatherhub/gatherhub/internal/present/rest/middleware"
	"github.com/gatherhub/gatherhub/internal/present/rest/presenter"
	"github.com/gatherhub/gatherhub/internal/service"
	"github.com/gatherhub/gatherhub/internal/usecase"
)

type Handler struct {
	account       *usecase.AccountUsecase
	events        *usecase.EventUsecase
	categories    *usecase.CategoryUsecase
	registrations *usecase.RegistrationUsecase
	admin         *usecase.AdminUsecase
	signal        *service.SignalService
}

func NewHandler(
	account *usecase.AccountUsecase,
	events *usecase.EventUsecase,
	categories *usecase.CategoryUsecase,
	registrations *usecase.RegistrationUsecase,
	admin *usecase.AdminUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		account:       account,
		events:        events,
		categories:    categories,
		registrations: registrations,
		admin:         admin,
		signal:        signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *authmw.AuthMiddleware) {
	api := e.Group("/api", auth.IdentifyRequester)

	api.POST("/auth/register", h.handleRegisterAccount)
	api.POST("/auth/login", h.handleLogin)

	api.GET("/events", h.handleListEvents)
	api.GET("/events/:id", h.handleGetEvent)
	api.POST("/events", h.handleCreateEvent, auth.RequireAuth)
	api.PUT("/events/:id", h.handleUpdateEvent, auth.RequireAuth)
	api.DELETE("/events/:id", h.handleDeleteEvent, auth.RequireAuth)

	api.GET("/registrations", h.handleListRegistrations, auth.RequireAuth)
	api.POST("/registrations", h.handleCreateRegistration, auth.RequireAuth)
	api.DELETE("/registrations/:id", h.handleDeleteRegistration, auth.RequireAuth)

	api.GET("/categories", h.handleListCategories)
	api.GET("/categories/:id", h.handleGetCategory)
	api.POST("/categories", h.handleCreateCategory, auth.RequireAuth)
	api.PUT("/categories/:id", h.handleUpdateCategory, auth.RequireAuth)
	api.DELETE("/categories/:id", h.handleDeleteCategory, auth.RequireAuth)

	api.GET("/admin/stats", h.handleStats, auth.RequireAuth)

	api.GET("/realtime", h.handleRealtime)
}

// respondError maps domain errors to HTTP statuses. Consistency faults
// fall through to InternalError so the cause is logged but never
// explained to the caller.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return presenter.Forbidden(c)
	case errors.Is(err, domain.ErrUnauthorized):
		return presenter.Unauthorized(c)
	case errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDuplicate):
		return presenter.BadRequest(c, err)
	default:
		return presenter.InternalError(c, err)
	}
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// --- auth ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegisterAccount(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, err := h.account.Register(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.Created(c, echo.Map{"message": "account created", "user": user})
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, token, err := h.account.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"token": token, "user": user})
}

// --- events ---

func (h *Handler) handleListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	var filter domain.EventFilter

	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid categoryId parameter")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	if status := c.QueryParam("status"); status != "" {
		if !domain.ValidStatus(status) {
			return presenter.BadRequestMessage(c, "invalid status parameter")
		}
		filter.Status = status
	}

	if raw := c.QueryParam("dateFrom"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid dateFrom parameter")
		}
		filter.DateFrom = &parsed
	}

	if raw := c.QueryParam("dateTo"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid dateTo parameter")
		}
		filter.DateTo = &parsed
	}

	filter.Search = c.QueryParam("search")

	events, err := h.events.List(ctx, requester, filter)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, events)
}

type eventDetail struct {
	domain.Event
	Registrations []domain.Registration `json:"registrations"`
}

func (h *Handler) handleGetEvent(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	id, err := paramID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid event id")
	}

	event, regs, err := h.events.Get(ctx, requester, id)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, eventDetail{Event: event, Registrations: regs})
}

func (h *Handler) handleCreateEvent(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	var input usecase.EventInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	event, err := h.events.Create(ctx, requester, input)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.Created(c, event)
}

func (h *Handler) handleUpdateEvent(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	id, err := paramID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid event id")
	}

	var input usecase.EventInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	event, err := h.events.Update(ctx, requester, id, input)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, event)
}

func (h *Handler) handleDeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	id, err := paramID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid event id")
	}

	if err := h.events.Delete(ctx, requester, id); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"message": "event deleted"})
}

// --- registrations ---

func (h *Handler) handleListRegistrations(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	regs, err := h.registrations.List(ctx, requester)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, regs)
}

type createRegistrationRequest struct {
	EventID uint `json:"eventId"`
}

func (h *Handler) handleCreateRegistration(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	var req createRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.EventID == 0 {
		return presenter.BadRequestMessage(c, "eventId is required")
	}

	reg, err := h.registrations.Register(ctx, requester, req.EventID)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.Created(c, reg)
}

func (h *Handler) handleDeleteRegistration(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	id, err := paramID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid registration id")
	}

	if err := h.registrations.Cancel(ctx, requester, id); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"message": "registration cancelled"})
}

// --- categories ---

func (h *Handler) handleListCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, categories)
}

func (h *Handler) handleGetCategory(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid category id")
	}

	category, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, category)
}

func (h *Handler) handleCreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	category, err := h.categories.Create(ctx, requester, input)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.Created(c, category)
}

func (h *Handler) handleUpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	id, err := paramID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid category id")
	}

	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	category, err := h.categories.Update(ctx, requester, id, input)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, category)
}

func (h *Handler) handleDeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	id, err := paramID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid category id")
	}

	if err := h.categories.Delete(ctx, requester, id); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"message": "category deleted"})
}

// --- admin ---

func (h *Handler) handleStats(c echo.Context) error {
	ctx := c.Request().Context()
	requester := domain.RequesterFromContext(ctx)

	stats, err := h.admin.Stats(ctx, requester)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, stats)
}

// --- realtime ---

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type   string `json:"type"`
	Events []uint `json:"events"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []uint)
	defer close(input)
	output := make(chan domain.OccupancySignal)
	defer close(output)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "listen":
				input <- req.Events
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case signal := <-output:
			err := ws.WriteJSON(signal)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
