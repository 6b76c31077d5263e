package pricing

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/leadhub-crm/leadhub-crm/internal/platform/httpx"
	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

// BulkEnqueuer hands a bulk pricing run to the background worker.
// Implemented by the jobs package.
type BulkEnqueuer interface {
	EnqueueBulkGenerate(ctx context.Context, rateCardID string) error
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	enqueuer BulkEnqueuer
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, enqueuer BulkEnqueuer) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		enqueuer: enqueuer,
		validate: validator.New(),
	}
}

type listResponse[T any] struct {
	Items      []T               `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func parseFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	filters := ListFilters{Search: q.Get("search")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if active := q.Get("active"); active != "" {
		v := active == "true" || active == "1"
		filters.IsActive = &v
	}
	if productID := q.Get("product_id"); productID != "" {
		filters.ProductID = &productID
	}
	if rateCardID := q.Get("rate_card_id"); rateCardID != "" {
		filters.RateCardID = &rateCardID
	}
	if costType := q.Get("cost_type"); costType != "" {
		ct := CostType(costType)
		filters.CostType = &ct
	}
	return filters
}

// Rate cards

func (h *Handler) ListRateCards(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	cards, total, err := h.service.ListRateCards(r.Context(), filters)
	if err != nil {
		h.logger.Error("list rate cards failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[RateCardView]{
		Items:      cards,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) GetRateCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.service.GetRateCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}

func (h *Handler) CreateRateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateRateCardRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	card, err := h.service.CreateRateCard(r.Context(), req)
	if err != nil {
		h.logger.Error("create rate card failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, card)
}

func (h *Handler) UpdateRateCard(w http.ResponseWriter, r *http.Request) {
	var req UpdateRateCardRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	card, err := h.service.UpdateRateCard(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Error("update rate card failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteRateCard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRateCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GeneratePrices runs bulk price generation for a rate card. With ?async=1
// the run is enqueued for the worker and 202 is returned immediately.
func (h *Handler) GeneratePrices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("async") == "1" && h.enqueuer != nil {
		if _, err := h.service.GetRateCard(r.Context(), id); err != nil {
			httpx.RespondError(w, err)
			return
		}
		if err := h.enqueuer.EnqueueBulkGenerate(r.Context(), id); err != nil {
			h.logger.Error("enqueue bulk generation failed", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "could not enqueue bulk generation")
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "enqueued"})
		return
	}

	result, err := h.service.BulkGeneratePrices(r.Context(), id)
	if err != nil {
		h.logger.Error("bulk price generation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// Margins

func (h *Handler) ProductMargin(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ProductMargin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) CostMargin(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.CostMargin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// Costs

func (h *Handler) ListCosts(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	costs, total, err := h.service.ListCosts(r.Context(), filters)
	if err != nil {
		h.logger.Error("list costs failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[PurchaseCost]{
		Items:      costs,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) GetCost(w http.ResponseWriter, r *http.Request) {
	cost, err := h.service.GetCost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cost)
}

func (h *Handler) CreateCost(w http.ResponseWriter, r *http.Request) {
	var req CreateCostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cost, err := h.service.CreateCost(r.Context(), req)
	if err != nil {
		h.logger.Error("create cost failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cost)
}

func (h *Handler) UpdateCost(w http.ResponseWriter, r *http.Request) {
	var req UpdateCostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cost, err := h.service.UpdateCost(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Error("update cost failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cost)
}

func (h *Handler) DeleteCost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCost(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Prices

func (h *Handler) ListPrices(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	prices, total, err := h.service.ListPrices(r.Context(), filters)
	if err != nil {
		h.logger.Error("list prices failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[SalesPrice]{
		Items:      prices,
		Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.service.GetPrice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, price)
}

func (h *Handler) CreatePrice(w http.ResponseWriter, r *http.Request) {
	var req CreatePriceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	price, err := h.service.CreatePrice(r.Context(), req)
	if err != nil {
		h.logger.Error("create price failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, price)
}

func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	price, err := h.service.UpdatePrice(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Error("update price failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, price)
}

func (h *Handler) DeletePrice(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePrice(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
