package chat

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	resp "github.com/jayrweg/afya-plus/internal/lib/api/response"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
)

type Request struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required"`
}

type Response struct {
	resp.Response
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Action    string `json:"action,omitempty"`
	Lang      string `json:"lang,omitempty"`
}

// New handles one conversational turn over plain HTTP. The caller keeps
// the returned session_id and sends it back with the next message.
func New(log *slog.Logger, core Core) http.HandlerFunc {
	logger := log.With(sl.Module("handlers.chat"))

	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger.With(
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		err := render.DecodeJSON(r.Body, &req)
		if errors.Is(err, io.EOF) {
			logger.Error("request body is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("empty request"))
			return
		}
		if err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			logger.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("message is required"))
			return
		}

		sessionID, reply := core.HandleMessage(r.Context(), req.SessionID, req.Message)

		logger.Debug("chat turn",
			slog.String("session_id", sessionID),
			slog.String("action", string(reply.Action)),
		)

		render.JSON(w, r, Response{
			Response:  resp.OK(),
			SessionID: sessionID,
			Reply:     reply.Text,
			Action:    string(reply.Action),
			Lang:      string(reply.Lang),
		})
	}
}
