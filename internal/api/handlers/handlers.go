package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-insights/internal/api/middleware"
	"github.com/dvloznov/expense-insights/internal/auth"
	"github.com/dvloznov/expense-insights/internal/cache"
	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/records"
)

// RecordService is the slice of the records service the handlers need.
type RecordService interface {
	AddRecord(ctx context.Context, fields records.Fields) (*records.Created, error)
	GetRecords(ctx context.Context) ([]*domain.ExpenseRecord, error)
	GetAggregate(ctx context.Context) (*domain.Aggregate, error)
}

// RecordsHandler handles expense record endpoints.
type RecordsHandler struct {
	service RecordService
	cache   cache.Cache[[]*domain.ExpenseRecord]
	log     zerolog.Logger
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(service RecordService, recordCache cache.Cache[[]*domain.ExpenseRecord], log zerolog.Logger) *RecordsHandler {
	return &RecordsHandler{
		service: service,
		cache:   recordCache,
		log:     log,
	}
}

// CreateRecord handles POST /api/records
func (h *RecordsHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var fields records.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.AddRecord(r.Context(), fields)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create record")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"data": created,
	})
}

// ListRecords handles GET /api/records
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if userID := auth.UserIDFromContext(ctx); userID != "" {
		if cached, ok := h.cache.Get(userID); ok {
			middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"records": cached,
				"count":   len(cached),
			})
			return
		}
	}

	list, err := h.service.GetRecords(ctx)
	if err != nil {
		h.writeServiceError(w, err, "Failed to list records")
		return
	}

	if list == nil {
		list = []*domain.ExpenseRecord{}
	}
	if userID := auth.UserIDFromContext(ctx); userID != "" {
		h.cache.Set(userID, list)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": list,
		"count":   len(list),
	})
}

// GetSummary handles GET /api/records/summary
func (h *RecordsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	agg, err := h.service.GetAggregate(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "Failed to compute summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, agg)
}

func (h *RecordsHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case domain.IsValidationError(err):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		middleware.WriteError(w, http.StatusUnauthorized, "Authentication required")
	default:
		h.log.Error().Err(err).Msg(fallback)
		middleware.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// InsightService is the slice of the insight pipeline the handlers
// need. Both operations degrade to fixed payloads internally, so the
// handlers always answer 200.
type InsightService interface {
	GenerateInsights(ctx context.Context) []domain.Insight
	AnswerQuestion(ctx context.Context, question string) string
}

// InsightsHandler handles AI insight endpoints.
type InsightsHandler struct {
	service InsightService
	log     zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(service InsightService, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		service: service,
		log:     log,
	}
}

// GetInsights handles GET /api/insights
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	insights := h.service.GenerateInsights(r.Context())

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"insights": insights,
		"count":    len(insights),
	})
}

// AnswerQuestion handles POST /api/insights/answer
func (h *InsightsHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer := h.service.AnswerQuestion(r.Context(), req.Question)

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"answer": answer,
	})
}
