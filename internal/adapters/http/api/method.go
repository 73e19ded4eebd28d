package api

import (
	"errors"
	"net/http"

	"github.com/okian/scoring/internal/domain/model"
	"github.com/okian/scoring/pkg/logger"
)

// MethodHandler serves the signed method endpoint.
type MethodHandler struct {
	deps    Dependencies
	maxBody int64
	logger  logger.Logger
}

// NewMethodHandler creates a new method handler.
func NewMethodHandler(deps Dependencies) *MethodHandler {
	return &MethodHandler{deps: deps, maxBody: DefaultMaxBodyBytes, logger: logger.Named("http")}
}

// HandleMethod handles POST /method requests.
func (h *MethodHandler) HandleMethod(w http.ResponseWriter, r *http.Request) {
	const op = "api.method"
	ctx := r.Context()
	rc := &model.Context{RequestID: logger.RequestIDFromContext(ctx)}

	body, err := model.Decode(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn(ctx, "request body too large", logger.Int("limit", int(h.maxBody)))
		}
		h.logger.Info(ctx, "malformed request",
			logger.String("path", r.URL.Path),
			logger.Error(WrapKind(op, ErrBadRequest, err)),
		)
		h.respond(w, r, rc, model.Fail(model.StatusBadRequest, ""))
		return
	}

	h.logger.Info(ctx, "request received",
		logger.String("path", r.URL.Path),
		logger.String("remote", r.RemoteAddr),
		logger.Any("body", body),
	)
	h.respond(w, r, rc, h.deps.Handle(ctx, body, rc))
}

func (h *MethodHandler) respond(w http.ResponseWriter, r *http.Request, rc *model.Context, res model.Result) {
	fields := []logger.Field{logger.Int("code", int(res.Code))}
	if len(rc.Has) > 0 {
		fields = append(fields, logger.Strings("has", rc.Has))
	}
	if rc.NClients > 0 {
		fields = append(fields, logger.Int("nclients", rc.NClients))
	}
	if res.Code == model.StatusOK {
		fields = append(fields, logger.Any("response", res.Response))
	} else if res.Error != "" {
		fields = append(fields, logger.String("reason", res.Error))
	}
	h.logger.Info(r.Context(), "request completed", fields...)
	writeResult(w, res)
}
