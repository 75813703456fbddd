package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/business-os/backend/api/transport"
	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/pkg/httpcontext"
)

// User-facing messages, verbatim from the product surface.
const (
	msgUnauthorized   = "No autorizado"
	msgBadCredentials = "Credenciales incorrectas"
	msgUserNotFound   = "Usuario no encontrado"
	msgTaskNotFound   = "Tarea no encontrada"
	msgTitleRequired  = "El título es requerido"
	msgInvalidPayload = "Solicitud inválida"
	msgInternal       = "Error interno del servidor"
	msgTaskDeleted    = "Tarea eliminada correctamente"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// respondError logs the failure with context and converts it to the fixed
// status/message pair. Internal detail never reaches the caller.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, message := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
	} else {
		h.logger.Warn("request rejected",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.ErrorResponse{Error: message})
}

// identity reads the caller stamped by the session middleware. A missing
// identity means the middleware did not run: reject before any persistence.
func (h baseHandler) identity(ctx *fasthttp.RequestCtx) (domain.Identity, bool) {
	id := domain.Identity{
		UserID: string(ctx.Request.Header.Peek("X-User-ID")),
		Email:  string(ctx.Request.Header.Peek("X-User-Email")),
		Role:   string(ctx.Request.Header.Peek("X-User-Role")),
	}
	if id.Email == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.ErrorResponse{Error: msgUnauthorized})
		return domain.Identity{}, false
	}
	return id, true
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgBadCredentials
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, msgUserNotFound
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, msgTaskNotFound
	case errors.Is(err, domain.ErrTitleRequired):
		return http.StatusBadRequest, msgTitleRequired
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, msgInvalidPayload
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
