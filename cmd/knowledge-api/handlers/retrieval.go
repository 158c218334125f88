// Package handlers provides HTTP handlers for the knowledge API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/rudud-ai/knowledge-engine/cmd/knowledge-api/middleware"
	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/internal/retrieval"
	"github.com/rudud-ai/knowledge-engine/pkg/engine"
)

// RetrievalHandler handles knowledge retrieval requests.
type RetrievalHandler struct {
	logger *observability.Logger
	engine *engine.Engine
}

// NewRetrievalHandler creates a new retrieval handler.
func NewRetrievalHandler(logger *observability.Logger, eng *engine.Engine) *RetrievalHandler {
	return &RetrievalHandler{logger: logger, engine: eng}
}

// RetrieveRequestDTO represents the API request for retrieval.
type RetrieveRequestDTO struct {
	TenantID   string `json:"tenantId,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
	Query      string `json:"query"`
	Intent     string `json:"intent,omitempty"`
}

// RetrieveResponseDTO represents the API response.
type RetrieveResponseDTO struct {
	Intent  string     `json:"intent"`
	Results []EntryDTO `json:"results"`
}

// EntryDTO is one scored knowledge entry.
type EntryDTO struct {
	Key     string      `json:"key"`
	Kind    string      `json:"kind"`
	Score   float64     `json:"score"`
	Text    string      `json:"text"`
	Product *ProductDTO `json:"product,omitempty"`
	FAQ     *FAQDTO     `json:"faq,omitempty"`
	Policy  *PolicyDTO  `json:"policy,omitempty"`
	Order   *OrderDTO   `json:"order,omitempty"`
}

// ProductDTO is the structured product payload.
type ProductDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price"`
	Stock       int          `json:"stock"`
	Category    string       `json:"category,omitempty"`
	Images      []string     `json:"images"`
	ImageStatus string       `json:"imageStatus"`
	Variants    []VariantDTO `json:"variants,omitempty"`
}

// VariantDTO is one product variation.
type VariantDTO struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// FAQDTO is a question/answer pair.
type FAQDTO struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PolicyDTO is a policy document.
type PolicyDTO struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// OrderDTO is a customer order summary.
type OrderDTO struct {
	ID           string   `json:"id"`
	Status       string   `json:"status"`
	Total        float64  `json:"total"`
	ProductNames []string `json:"productNames"`
	CreatedAt    string   `json:"createdAt"`
}

// Retrieve handles POST /api/v1/retrieve.
func (h *RetrievalHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO RetrieveRequestDTO
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

	intent := retrieval.ParseIntent(reqDTO.Intent)
	results := h.engine.Retrieve(ctx, reqDTO.Query, intent, reqDTO.CustomerID, tenantID)

	respDTO := RetrieveResponseDTO{
		Intent:  string(intent),
		Results: make([]EntryDTO, 0, len(results)),
	}
	for _, res := range results {
		respDTO.Results = append(respDTO.Results, toEntryDTO(res.Entry, res.Score))
	}

	writeJSON(w, http.StatusOK, respDTO)
}

func toEntryDTO(e knowledge.Entry, score float64) EntryDTO {
	dto := EntryDTO{
		Key:   e.Key,
		Kind:  string(e.Kind),
		Score: score,
		Text:  e.Text,
	}

	switch {
	case e.Product != nil:
		dto.Product = toProductDTO(e.Product)
	case e.FAQ != nil:
		dto.FAQ = &FAQDTO{Question: e.FAQ.Question, Answer: e.FAQ.Answer}
	case e.Policy != nil:
		dto.Policy = &PolicyDTO{Title: e.Policy.Title, Body: e.Policy.Body}
	case e.Order != nil:
		dto.Order = &OrderDTO{
			ID:           e.Order.ID.String(),
			Status:       e.Order.Status,
			Total:        e.Order.Total,
			ProductNames: e.Order.ProductNames,
			CreatedAt:    e.Order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return dto
}

func toProductDTO(p *knowledge.ProductAttributes) *ProductDTO {
	dto := &ProductDTO{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Images:      p.Images,
		ImageStatus: string(p.ImageStatus),
	}
	for _, v := range p.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{
			Name:  v.Name,
			Type:  string(v.Type),
			Price: v.Price,
			Stock: v.Stock,
		})
	}
	return dto
}

// resolveTenant picks the tenant from the request body, falling back to
// the tenant middleware set on the context.
func resolveTenant(ctx context.Context, fromBody string) (uuid.UUID, bool) {
	if fromBody != "" {
		id, err := uuid.Parse(fromBody)
		return id, err == nil
	}
	id := middleware.TenantFromContext(ctx)
	return id, id != uuid.Nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}
