package pricing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnqueuer struct {
	enqueued []string
	err      error
}

func (e *stubEnqueuer) EnqueueBulkGenerate(ctx context.Context, rateCardID string) error {
	if e.err != nil {
		return e.err
	}
	e.enqueued = append(e.enqueued, rateCardID)
	return nil
}

func newTestRouter(repo *mockRepository, products ProductSource, enqueuer BulkEnqueuer) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, newTestService(repo, products), enqueuer)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestHandlerCreateRateCard(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo, newMockProducts(), nil)

	body := `{"name":"Standard 2024","effective_from":"2024-01-01T00:00:00Z","effective_to":"2024-12-31T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/rate-cards", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var card RateCardView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &card))
	assert.Equal(t, "S2-2024", card.Code)
	assert.Equal(t, StatusActive, card.Status)
}

func TestHandlerCreateRateCardInvertedWindow(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo, newMockProducts(), nil)

	body := `{"name":"Standard 2024","effective_from":"2024-12-31T00:00:00Z","effective_to":"2024-01-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/rate-cards", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var problem struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	assert.Contains(t, problem.Fields, "effective_to")
}

func TestHandlerCreateRateCardDuplicate(t *testing.T) {
	repo := newMockRepository()
	seedCard(repo, "r1", "Standard 2024", TierStandard)
	router := newTestRouter(repo, newMockProducts(), nil)

	body := `{"name":"Other","code":"S2-2024","effective_from":"2024-01-01T00:00:00Z","effective_to":"2024-12-31T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/rate-cards", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandlerGetRateCardNotFound(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo, newMockProducts(), nil)

	req := httptest.NewRequest(http.MethodGet, "/rate-cards/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}

func TestHandlerGeneratePricesSync(t *testing.T) {
	repo := newMockRepository()
	seedCard(repo, "r1", "Standard 2024", TierStandard)
	seedStandardCost(repo, "c1", "p1", 100)
	router := newTestRouter(repo, newMockProducts("p1", "p2"), nil)

	req := httptest.NewRequest(http.MethodPost, "/rate-cards/r1/prices/generate", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result BulkResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestHandlerGeneratePricesAsync(t *testing.T) {
	repo := newMockRepository()
	seedCard(repo, "r1", "Standard 2024", TierStandard)
	enqueuer := &stubEnqueuer{}
	router := newTestRouter(repo, newMockProducts(), enqueuer)

	req := httptest.NewRequest(http.MethodPost, "/rate-cards/r1/prices/generate?async=1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{"r1"}, enqueuer.enqueued)

	// Nothing was written synchronously.
	prices, _, err := repo.ListPrices(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestHandlerGeneratePricesAsyncUnknownCard(t *testing.T) {
	repo := newMockRepository()
	enqueuer := &stubEnqueuer{}
	router := newTestRouter(repo, newMockProducts(), enqueuer)

	req := httptest.NewRequest(http.MethodPost, "/rate-cards/missing/prices/generate?async=1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, enqueuer.enqueued)
}

func TestHandlerProductMargin(t *testing.T) {
	repo := newMockRepository()
	seedCard(repo, "r1", "Standard 2024", TierStandard)
	seedStandardCost(repo, "c1", "p1", 100)
	repo.prices["s1"] = &SalesPrice{ID: "s1", RateCardID: "r1", ProductID: "p1", Amount: 150, PricingType: PricingOneTime, Active: true, EffectiveDate: fixedNow()}
	router := newTestRouter(repo, newMockProducts("p1"), nil)

	req := httptest.NewRequest(http.MethodGet, "/products/p1/margin", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var report MarginReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.True(t, report.Defined)
	assert.Equal(t, 50.0, report.Margin.Amount)
}

func TestHandlerListCostsFiltersByProduct(t *testing.T) {
	repo := newMockRepository()
	seedStandardCost(repo, "c1", "p1", 100)
	seedStandardCost(repo, "c2", "p2", 40)
	router := newTestRouter(repo, newMockProducts("p1", "p2"), nil)

	req := httptest.NewRequest(http.MethodGet, "/costs?product_id=p1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Items []PurchaseCost `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p1", resp.Items[0].ProductID)
}

func TestHandlerCreateCostBadJSON(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo, newMockProducts(), nil)

	req := httptest.NewRequest(http.MethodPost, "/costs", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerDeletePrice(t *testing.T) {
	repo := newMockRepository()
	repo.prices["s1"] = &SalesPrice{ID: "s1", RateCardID: "r1", ProductID: "p1", Amount: 150, PricingType: PricingOneTime, EffectiveDate: time.Now()}
	router := newTestRouter(repo, newMockProducts("p1"), nil)

	req := httptest.NewRequest(http.MethodDelete, "/prices/s1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/prices/s1", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
