package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/internal/resolver"
	"github.com/rudud-ai/knowledge-engine/internal/retrieval"
	"github.com/rudud-ai/knowledge-engine/pkg/engine"
)

// ResolveHandler handles specific-product resolution requests.
type ResolveHandler struct {
	logger *observability.Logger
	engine *engine.Engine
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(logger *observability.Logger, eng *engine.Engine) *ResolveHandler {
	return &ResolveHandler{logger: logger, engine: eng}
}

// ResolveRequestDTO represents the API request for product resolution.
type ResolveRequestDTO struct {
	TenantID   string    `json:"tenantId,omitempty"`
	CustomerID string    `json:"customerId,omitempty"`
	Query      string    `json:"query"`
	Intent     string    `json:"intent,omitempty"`
	History    []TurnDTO `json:"history,omitempty"`
}

// TurnDTO is one prior conversation turn, most recent first.
type TurnDTO struct {
	CustomerMessage string `json:"customerMessage"`
	Response        string `json:"response,omitempty"`
	Timestamp       string `json:"timestamp,omitempty"`
}

// ResolveResponseDTO represents the resolution outcome.
type ResolveResponseDTO struct {
	IsSpecific bool        `json:"isSpecific"`
	Confidence float64     `json:"confidence"`
	Reasoning  string      `json:"reasoning,omitempty"`
	Product    *ProductDTO `json:"product,omitempty"`
}

// Resolve handles POST /api/v1/resolve-product.
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO ResolveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if reqDTO.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required", "")
		return
	}

	tenantID, ok := resolveTenant(ctx, reqDTO.TenantID)
	if !ok {
		writeError(w, http.StatusBadRequest, "tenantId is required", "")
		return
	}

	history := make([]resolver.ConversationTurn, 0, len(reqDTO.History))
	for _, t := range reqDTO.History {
		turn := resolver.ConversationTurn{
			CustomerMessage: t.CustomerMessage,
			Response:        t.Response,
		}
		if t.Timestamp != "" {
			if ts, err := time.Parse(time.RFC3339, t.Timestamp); err == nil {
				turn.Timestamp = ts
			}
		}
		history = append(history, turn)
	}

	intent := reqDTO.Intent
	if intent == "" {
		intent = string(retrieval.IntentProductInquiry)
	}

	resolution := h.engine.ResolveProduct(ctx, reqDTO.Query, retrieval.ParseIntent(intent), reqDTO.CustomerID, history, tenantID)

	respDTO := ResolveResponseDTO{
		IsSpecific: resolution.IsSpecific,
		Confidence: resolution.Confidence,
		Reasoning:  resolution.Reasoning,
	}
	if resolution.Product != nil && resolution.Product.Product != nil {
		respDTO.Product = toProductDTO(resolution.Product.Product)
	}

	writeJSON(w, http.StatusOK, respDTO)
}
