package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/kesuzuki/notably"
	"github.com/kesuzuki/notably/internal/domain"
	"github.com/kesuzuki/notably/internal/present/rest/middleware"
	"github.com/kesuzuki/notably/internal/present/rest/presenter"
	"github.com/kesuzuki/notably/internal/service"
	"github.com/kesuzuki/notably/internal/usecase"
)

type Handler struct {
	config  domain.Config
	account *usecase.AccountUsecase
	note    *usecase.NoteUsecase
	signal  *service.SignalService
}

func NewHandler(
	config domain.Config,
	account *usecase.AccountUsecase,
	note *usecase.NoteUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		config:  config,
		account: account,
		note:    note,
		signal:  signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	e.GET("/", h.handleStatus)
	e.POST("/user/register", h.handleRegister)
	e.POST("/user/login", h.handleLogin)
	e.POST("/user/logout", h.handleLogout, auth.RequireIdentity)
	e.GET("/notes", h.handleListNotes, auth.RequireIdentity)
	e.POST("/notes", h.handleCreateNote, auth.RequireIdentity)
	e.PUT("/notes/:noteId", h.handleUpdateNote, auth.RequireIdentity)
	e.DELETE("/notes/:noteId", h.handleDeleteNote, auth.RequireIdentity)
	e.GET("/realtime", h.handleRealtime, auth.RequireIdentity)
}

type registerRequest struct {
	FirstName string `json:"fName"`
	LastName  string `json:"lName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) handleStatus(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok", "domain": h.config.FQDN})
}

func (h *Handler) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	token, err := h.account.Register(ctx, usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrValidation) {
			return presenter.BadRequestMessage(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}

	return presenter.Created(c, echo.Map{"token": token})
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	token, user, err := h.account.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return presenter.BadRequestMessage(c, err.Error())
		case errors.Is(err, domain.ErrInvalidCredentials):
			return presenter.Unauthorized(c, "Invalid credentials")
		default:
			return presenter.InternalError(c, err)
		}
	}

	return presenter.OK(c, echo.Map{"token": token, "user": user})
}

func (h *Handler) handleLogout(c echo.Context) error {
	ctx := c.Request().Context()

	token, _ := ctx.Value(domain.RequesterTokenCtxKey).(string)
	expiresAt, _ := ctx.Value(domain.RequesterTokenExpCtxKey).(time.Time)

	err := h.account.Logout(ctx, token, expiresAt)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{"message": "Logged out successfully"})
}

func (h *Handler) handleListNotes(c echo.Context) error {
	ctx := c.Request().Context()
	requesterID, _ := ctx.Value(domain.RequesterIdCtxKey).(string)

	notes, err := h.note.List(ctx, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.Unauthorized(c, "Unauthorized")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{"notes": notes})
}

func (h *Handler) handleCreateNote(c echo.Context) error {
	ctx := c.Request().Context()
	requesterID, _ := ctx.Value(domain.RequesterIdCtxKey).(string)

	var req noteRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	note, err := h.note.Create(ctx, requesterID, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return presenter.BadRequestMessage(c, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			return presenter.NotFound(c, "User not found")
		default:
			return presenter.InternalError(c, err)
		}
	}

	return presenter.Created(c, echo.Map{
		"message": "Note created successfully",
		"note":    note,
	})
}

func (h *Handler) handleUpdateNote(c echo.Context) error {
	ctx := c.Request().Context()
	requesterID, _ := ctx.Value(domain.RequesterIdCtxKey).(string)

	var req noteRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	note, err := h.note.Update(ctx, requesterID, c.Param("noteId"), req.Title, req.Content)
	if err != nil {
		return h.noteError(c, err)
	}

	return presenter.OK(c, echo.Map{
		"message": "Note updated successfully",
		"note":    note,
	})
}

func (h *Handler) handleDeleteNote(c echo.Context) error {
	ctx := c.Request().Context()
	requesterID, _ := ctx.Value(domain.RequesterIdCtxKey).(string)

	err := h.note.Delete(ctx, requesterID, c.Param("noteId"))
	if err != nil {
		return h.noteError(c, err)
	}

	return presenter.OK(c, echo.Map{"message": "Note deleted successfully"})
}

// noteError maps a failed owner-scoped lookup: a vanished owner record is an
// auth problem, a missing note is a plain 404.
func (h *Handler) noteError(c echo.Context, err error) error {
	var nf domain.NotFoundError
	if errors.As(err, &nf) {
		if nf.Resource == "user" {
			return presenter.Unauthorized(c, "Unauthorized")
		}
		return presenter.NotFound(c, "Note not found")
	}
	return presenter.InternalError(c, err)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type string `json:"type"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	requesterID, _ := c.Request().Context().Value(domain.RequesterIdCtxKey).(string)

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

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan notably.Event)
	go h.signal.Realtime(ctx, notably.NoteChannel(requesterID), output)

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
		case event := <-output:
			err := ws.WriteJSON(event)
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
