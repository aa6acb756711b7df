package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/donelist/backend/api/transport"
	"github.com/donelist/backend/internal/infrastructure/monitor"
	"github.com/donelist/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// Check reports the last store probe. A degraded store maps to 503 so load
// balancers stop routing traffic here.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()

	payload := transport.HealthResponse{
		Status:    "ok",
		Store:     "online",
		CheckedAt: status.LastCheck,
	}
	if !status.Store {
		payload.Status = "degraded"
		payload.Store = "offline"
		h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
		return
	}
	h.respondJSON(ctx, http.StatusOK, payload)
}
