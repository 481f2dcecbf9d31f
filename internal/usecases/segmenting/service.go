package segmenting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/rfm-segmentation-api/infrastructure/repository"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/pkg/log"
	"github.com/vfg2006/rfm-segmentation-api/pkg/utils"
)

// Analyzer executa o pipeline RFM completo
type Analyzer interface {
	// Analyze calcula métricas, scores, segmentos e KPIs para os pedidos informados.
	// snapshot nulo usa a data do pedido mais recente.
	Analyze(ctx context.Context, orders []domain.OrderRecord, snapshot *time.Time) (*domain.RFMAnalysis, error)

	// AnalyzeStoredOrders executa a análise sobre os pedidos lidos da base de dados
	AnalyzeStoredOrders(ctx context.Context, filters *domain.OrderFilters, snapshot *time.Time) (*domain.RFMAnalysis, error)
}

type Service struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
	newRunID  func() (string, error)
}

func NewService(orderRepo repository.OrderRepository) Analyzer {
	return &Service{
		orderRepo: orderRepo,
		now:       time.Now,
		newRunID:  utils.GenerateRunID,
	}
}

func (s *Service) AnalyzeStoredOrders(ctx context.Context, filters *domain.OrderFilters, snapshot *time.Time) (*domain.RFMAnalysis, error) {
	if s.orderRepo == nil {
		return nil, errors.New("order repository is not configured")
	}

	orders, err := s.orderRepo.ListOrders(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pedidos: %w", err)
	}

	return s.Analyze(ctx, orders, snapshot)
}

func (s *Service) Analyze(ctx context.Context, orders []domain.OrderRecord, snapshot *time.Time) (*domain.RFMAnalysis, error) {
	runID, err := s.newRunID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar ID da análise: %w", err)
	}

	snapshotDate := LatestOrderDate(orders)
	if snapshot != nil {
		snapshotDate = *snapshot
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"run_id":       runID,
		"rfm_orders":   len(orders),
		"rfm_snapshot": snapshotDate.Format(time.DateOnly),
	})
	logger.Info("rfm: starting analysis")

	metrics, err := AggregateMetrics(orders, snapshotDate)
	if err != nil {
		logger.WithError(err).Warn("rfm: metric aggregation failed")
		return nil, err
	}

	scores, err := ScoreCustomers(metrics)
	if err != nil {
		logger.WithError(err).Warn("rfm: quantile scoring failed")
		return nil, err
	}

	customers := ClassifyCustomers(metrics, scores)

	analysis := &domain.RFMAnalysis{
		RunID:          runID,
		SnapshotDate:   snapshotDate,
		GeneratedAt:    s.now(),
		OrdersRead:     len(orders),
		Customers:      customers,
		MonthlyRevenue: MonthlyRevenueTrend(orders),
	}

	kpis, kpiErr := ComputeKPIs(customers)
	analysis.KPIs = kpis
	analysis.Recommendations = BuildRecommendations(kpis)

	if kpiErr != nil {
		// Reportado ao chamador junto com a análise: métricas e segmentos continuam válidos
		analysis.Errors = append(analysis.Errors, domain.AnalysisIssue{
			Code:    ErrorCode(kpiErr),
			Message: kpiErr.Error(),
		})
		logger.WithError(kpiErr).Warn("rfm: kpi ratios undefined")
		return analysis, kpiErr
	}

	logger.WithFields(log.Fields{
		"rfm_customers":     kpis.TotalCustomers,
		"rfm_total_revenue": kpis.TotalRevenue,
	}).Info("rfm: analysis completed")

	return analysis, nil
}

// LatestOrderDate retorna a data do pedido mais recente (zero se não houver pedidos)
func LatestOrderDate(orders []domain.OrderRecord) time.Time {
	var latest time.Time
	for _, order := range orders {
		if order.OrderDate.After(latest) {
			latest = order.OrderDate
		}
	}
	return latest
}

// IsReportedError indica se o erro foi reportado com a análise preenchida
func IsReportedError(err error) bool {
	return errors.Is(err, ErrDivisionByZero)
}
