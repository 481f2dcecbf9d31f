package handler

import (
	"bytes"
	"context"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/importer"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting/mocks"
	"github.com/vfg2006/rfm-segmentation-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

const ordersCSV = "user_id,order_id,order_date,product_name,order_value,discount_given\n" +
	"U1,O1,2024-01-05,Pizza,250,0\n" +
	"U2,O2,2024-01-06,Burger,120,5\n"

func multipartBody(t *testing.T, field, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "orders.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestAnalyzeUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := mocks.NewMockAnalyzer(ctrl)
	reader := importer.NewCSVReader(0)

	tests := []struct {
		name     string
		request  func(t *testing.T) *http.Request
		maxBytes int64
		setup    func()
		validate func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "csv no corpo com data de análise",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis?snapshot_date=2024-02-01", strings.NewReader(ordersCSV))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			setup: func() {
				mockAnalyzer.EXPECT().
					Analyze(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, orders []domain.OrderRecord, snapshot *time.Time) (*domain.RFMAnalysis, error) {
						assert.Len(t, orders, 2)
						require.NotNil(t, snapshot)
						assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *snapshot)
						return &domain.RFMAnalysis{RunID: "run1", OrdersRead: len(orders)}, nil
					})
			},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				var analysis domain.RFMAnalysis
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
				assert.Equal(t, "run1", analysis.RunID)
				assert.Equal(t, 2, analysis.OrdersRead)
			},
		},
		{
			name: "multipart sem data usa padrão",
			request: func(t *testing.T) *http.Request {
				body, contentType := multipartBody(t, "file", ordersCSV)
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setup: func() {
				mockAnalyzer.EXPECT().
					Analyze(gomock.Any(), gomock.Len(2), gomock.Nil()).
					Return(&domain.RFMAnalysis{RunID: "run2"}, nil)
			},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), "run2")
			},
		},
		{
			name: "multipart sem o campo file",
			request: func(t *testing.T) *http.Request {
				body, contentType := multipartBody(t, "other", ordersCSV)
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setup: func() {},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, apiErrors.ErrMissingRequiredData, decodeAPIError(t, rec).Code)
			},
		},
		{
			name: "content type não suportado",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", strings.NewReader("{}"))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			setup: func() {},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
			},
		},
		{
			name: "data de análise inválida",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis?snapshot_date=01/02/2024", strings.NewReader(ordersCSV))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			setup: func() {},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, apiErrors.ErrInvalidFormat, decodeAPIError(t, rec).Code)
			},
		},
		{
			name: "csv sem colunas obrigatórias",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", strings.NewReader("user_id,order_id\nU1,O1\n"))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			setup: func() {},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, apiErrors.ErrInvalidFormat, decodeAPIError(t, rec).Code)
			},
		},
		{
			name:     "arquivo acima do limite",
			maxBytes: 16,
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", strings.NewReader(ordersCSV))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			setup: func() {},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
			},
		},
		{
			name: "clientes insuficientes vira 422",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", strings.NewReader(ordersCSV))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			setup: func() {
				mockAnalyzer.EXPECT().
					Analyze(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &segmenting.AnalysisError{Err: segmenting.ErrInsufficientData, Code: apiErrors.ErrInsufficientData})
			},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
				assert.Equal(t, apiErrors.ErrInsufficientData, decodeAPIError(t, rec).Code)
			},
		},
		{
			name: "receita zero devolve análise com erro reportado",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", strings.NewReader(ordersCSV))
				req.Header.Set("Content-Type", "text/csv; charset=utf-8")
				return req
			},
			setup: func() {
				analysis := &domain.RFMAnalysis{
					RunID:  "zero",
					Errors: []domain.AnalysisIssue{{Code: apiErrors.ErrDivisionByZero, Message: "total revenue is zero"}},
				}
				mockAnalyzer.EXPECT().
					Analyze(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(analysis, &segmenting.AnalysisError{Err: segmenting.ErrDivisionByZero, Code: apiErrors.ErrDivisionByZero})
			},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), apiErrors.ErrDivisionByZero)
			},
		},
		{
			name: "falha de serialização não envia 200 com corpo parcial",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", strings.NewReader(ordersCSV))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			setup: func() {
				analysis := &domain.RFMAnalysis{
					RunID: "nan",
					KPIs:  domain.KPISnapshot{TotalRevenue: math.NaN()},
				}
				mockAnalyzer.EXPECT().
					Analyze(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(analysis, nil)
			},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				assert.Equal(t, apiErrors.ErrInternalServer, decodeAPIError(t, rec).Code)
				assert.NotContains(t, rec.Body.String(), "run_id")
			},
		},
		{
			name: "erro inesperado vira 500",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/v1/rfm/analysis", strings.NewReader(ordersCSV))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			setup: func() {
				mockAnalyzer.EXPECT().
					Analyze(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("boom"))
			},
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				assert.Equal(t, apiErrors.ErrInternalServer, decodeAPIError(t, rec).Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			rec := httptest.NewRecorder()
			AnalyzeUpload(mockAnalyzer, reader, tt.maxBytes).ServeHTTP(rec, tt.request(t))
			tt.validate(t, rec)
		})
	}
}

func TestGetStoredAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := mocks.NewMockAnalyzer(ctrl)

	t.Run("base desabilitada", func(t *testing.T) {
		rec := httptest.NewRecorder()
		GetStoredAnalysis(mockAnalyzer, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rfm/analysis", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, apiErrors.ErrServiceDisabled, decodeAPIError(t, rec).Code)
	})

	t.Run("filtros repassados ao serviço", func(t *testing.T) {
		mockAnalyzer.EXPECT().
			AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filters *domain.OrderFilters, snapshot *time.Time) (*domain.RFMAnalysis, error) {
				require.NotNil(t, filters.StartDate)
				require.NotNil(t, filters.EndDate)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filters.StartDate)
				assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), *filters.EndDate)
				assert.Nil(t, snapshot)
				return &domain.RFMAnalysis{RunID: "stored"}, nil
			})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/rfm/analysis?start_date=2024-01-01&end_date=2024-03-31", nil)
		GetStoredAnalysis(mockAnalyzer, true).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "stored")
	})

	t.Run("período invertido", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/rfm/analysis?start_date=2024-03-01&end_date=2024-01-01", nil)
		GetStoredAnalysis(mockAnalyzer, true).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
	})

	t.Run("data de análise anterior ao último pedido", func(t *testing.T) {
		mockAnalyzer.EXPECT().
			AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &segmenting.AnalysisError{Err: segmenting.ErrInvalidSnapshot, Code: apiErrors.ErrInvalidSnapshot, CustomerID: "U9"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/rfm/analysis?snapshot_date=2020-01-01", nil)
		GetStoredAnalysis(mockAnalyzer, true).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidSnapshot, decodeAPIError(t, rec).Code)
	})
}

func TestGetSegmentRules(t *testing.T) {
	rec := httptest.NewRecorder()
	GetSegmentRules().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rfm/segments/rules", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var rules []SegmentRuleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rules))
	require.Len(t, rules, 5)
	assert.Equal(t, 1, rules[0].Priority)
	assert.Equal(t, domain.SegmentChampion, rules[0].Segment)
	assert.Equal(t, domain.SegmentChurned, rules[4].Segment)
}
