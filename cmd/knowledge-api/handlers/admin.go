package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/pkg/engine"
)

// AdminHandler handles catalog management endpoints.
type AdminHandler struct {
	logger *observability.Logger
	engine *engine.Engine
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(logger *observability.Logger, eng *engine.Engine) *AdminHandler {
	return &AdminHandler{logger: logger, engine: eng}
}

// ReloadTenant handles POST /api/v1/tenants/{tenantID}/reload. The tenant's
// catalog partition is replaced from the database; other tenants are
// untouched.
func (h *AdminHandler) ReloadTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id", err.Error())
		return
	}

	if err := h.engine.ReloadTenant(ctx, tenantID); err != nil {
		h.logger.Error().
			Str("tenant_id", tenantID.String()).
			Err(err).
			Msg("Tenant reload failed")
		writeError(w, http.StatusInternalServerError, "reload failed", err.Error())
		return
	}

	h.logger.Info().
		Str("tenant_id", tenantID.String()).
		Msg("Tenant catalog reloaded")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "reloaded",
		"tenantId": tenantID.String(),
	})
}

// Health handles GET /health.
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"detail": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "knowledge-engine",
	})
}
