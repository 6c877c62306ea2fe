package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/internal/api/handler/router"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/internal/usecases/adspending"
	adspendingmocks "github.com/vfg2006/profit-engine/internal/usecases/adspending/mocks"
	"github.com/vfg2006/profit-engine/internal/usecases/billing"
	"github.com/vfg2006/profit-engine/internal/usecases/insighting"
	"github.com/vfg2006/profit-engine/internal/usecases/processing"
	"github.com/vfg2006/profit-engine/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

type fakeProcessor struct {
	result  *processing.Result
	err     error
	payload string
}

func (f *fakeProcessor) ProcessOrderEvent(_ context.Context, _ string, rawPayload []byte) (*processing.Result, error) {
	f.payload = string(rawPayload)
	return f.result, f.err
}

type fakeReporter struct {
	filters domain.MetricsFilters
	err     error
}

func (f *fakeReporter) GetMetricsReport(_ context.Context, storeID string, filters domain.MetricsFilters) (*domain.MetricsReport, error) {
	f.filters = filters
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MetricsReport{StoreID: storeID, Channel: domain.ChannelTotal, Currency: "USD"}, nil
}

type fakeCronJob struct {
	mu        sync.Mutex
	triggered int
}

func (f *fakeCronJob) TriggerManualSync() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered++
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_enabled": true}
}

func serve(rt router.Router, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestProcessOrder(t *testing.T) {
	tests := []struct {
		name       string
		processor  *fakeProcessor
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Pedido novo",
			processor:  &fakeProcessor{result: &processing.Result{OrderID: "o-1", Created: true, NetProfit: decimal.RequireFromString("286.61")}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Reentrega do mesmo pedido",
			processor:  &fakeProcessor{result: &processing.Result{OrderID: "o-1"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Limite do plano",
			processor:  &fakeProcessor{err: errors.Wrap(billing.NewPlanLimitError("merchant-1", 100, 100, 1), "reserva")},
			wantStatus: http.StatusPaymentRequired,
			wantCode:   apiErrors.ErrPlanCapacityExceeded,
		},
		{
			name:       "Loja inexistente",
			processor:  &fakeProcessor{err: processing.NewProcessingError(processing.ErrStoreNotFound, apiErrors.ErrStoreNotFound, "store-1", "", "")},
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrStoreNotFound,
		},
		{
			name:       "Erro inesperado",
			processor:  &fakeProcessor{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := router.New(router.WithRoutes(Orders(tt.processor)...))

			rec := serve(rt, http.MethodPost, "/v1/stores/store-1/orders", `{"id":1001}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, `{"id":1001}`, tt.processor.payload)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
			}
		})
	}
}

func TestProcessOrder_DetalhesDoLimite(t *testing.T) {
	processor := &fakeProcessor{err: billing.NewPlanLimitError("merchant-1", 100, 100, 1)}
	rt := router.New(router.WithRoutes(Orders(processor)...))

	rec := serve(rt, http.MethodPost, "/v1/stores/store-1/orders", `{}`)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var body struct {
		Code    string           `json:"code"`
		Details map[string]int64 `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(100), body.Details["limit"])
	assert.Equal(t, int64(100), body.Details["usage"])
	assert.Equal(t, int64(1), body.Details["incoming"])
}

func TestRecordAdSpend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRecorder := adspendingmocks.NewMockAdSpendRecorder(ctrl)
	rt := router.New(router.WithRoutes(AdSpend(mockRecorder)...))

	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	t.Run("Registra o gasto", func(t *testing.T) {
		mockRecorder.EXPECT().RecordAdSpend(gomock.Any(), "store-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, input adspending.AdSpendInput) (*adspending.RecordResult, error) {
				assert.Equal(t, "meta", input.Provider)
				assert.Equal(t, "cmp-1", input.CampaignID)
				assert.Equal(t, day, input.Date)
				assert.True(t, input.Spend.Equal(decimal.RequireFromString("45.5")))
				assert.Equal(t, "BRL", input.Currency)
				return &adspending.RecordResult{StoreID: "store-1", Delta: decimal.RequireFromString("9.1")}, nil
			})

		rec := serve(rt, http.MethodPost, "/v1/stores/store-1/ad-spend",
			`{"provider":"meta","campaign_id":"cmp-1","date":"2024-05-02","spend":"45.5","currency":"BRL"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"delta":"9.1"`)
	})

	t.Run("Data inválida", func(t *testing.T) {
		rec := serve(rt, http.MethodPost, "/v1/stores/store-1/ad-spend", `{"provider":"meta","date":"02/05/2024","spend":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidFormat, decodeAPIError(t, rec).Code)
	})

	t.Run("Provedor desconhecido", func(t *testing.T) {
		mockRecorder.EXPECT().RecordAdSpend(gomock.Any(), "store-1", gomock.Any()).
			Return(nil, errors.Wrap(adspending.ErrUnknownProvider, "pinterest"))

		rec := serve(rt, http.MethodPost, "/v1/stores/store-1/ad-spend", `{"provider":"pinterest","date":"2024-05-02","spend":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
	})

	t.Run("Loja inexistente", func(t *testing.T) {
		mockRecorder.EXPECT().RecordAdSpend(gomock.Any(), "store-x", gomock.Any()).Return(nil, adspending.ErrStoreNotFound)

		rec := serve(rt, http.MethodPost, "/v1/stores/store-x/ad-spend", `{"provider":"meta","date":"2024-05-02","spend":1}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetMetricsReport(t *testing.T) {
	reporter := &fakeReporter{}
	rt := router.New(router.WithRoutes(Metrics(reporter)...))

	rec := serve(rt, http.MethodGet, "/v1/stores/store-1/metrics?start_date=2024-05-01&end_date=2024-05-31&sku=SKU-A&currency=BRL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), reporter.filters.StartDate)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), reporter.filters.EndDate)
	assert.Equal(t, "SKU-A", reporter.filters.SKU)
	assert.Equal(t, "BRL", reporter.filters.Currency)

	rec = serve(rt, http.MethodGet, "/v1/stores/store-1/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reporter.filters.StartDate.IsZero(), "sem datas o serviço aplica o intervalo padrão")

	rec = serve(rt, http.MethodGet, "/v1/stores/store-1/metrics?start_date=ontem", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	reporter.err = insighting.ErrSKURequired
	rec = serve(rt, http.MethodGet, "/v1/stores/store-1/metrics?channel=PRODUCT", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
}

func TestCronJobs(t *testing.T) {
	adSpend := &fakeCronJob{}
	purge := &fakeCronJob{}
	rt := router.New(router.WithRoutes(CronJobs(CronJobServices{
		AdSpendSyncService:    adSpend,
		RetentionPurgeService: purge,
	})...))

	rec := serve(rt, http.MethodPost, "/v1/cron/ad-spend", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, adSpend.triggered)

	rec = serve(rt, http.MethodPost, "/v1/cron/all", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 2, adSpend.triggered)
	assert.Equal(t, 1, purge.triggered)

	rec = serve(rt, http.MethodPost, "/v1/cron/overage-charge", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(rt, http.MethodPost, "/v1/cron/desconhecida", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(rt, http.MethodGet, "/v1/cron/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, status, CronJobTypeAdSpend)
	assert.Contains(t, status, CronJobTypeRetentionPurge)
	assert.NotContains(t, status, CronJobTypeOverageCharge)
}
