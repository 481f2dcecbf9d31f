package segmenting

import (
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

const (
	// HighDependencyThreshold é a fração da receita vinda de Champions acima da qual há concentração
	HighDependencyThreshold = 0.50
	// HighRiskFactor é a fração da receita de Champions acima da qual a receita em risco é significativa
	HighRiskFactor = 0.5

	kpiRevenueDependency = "revenue_dependency"
)

// ComputeKPIs agrega a receita por segmento e calcula os indicadores globais.
// Quando a receita total é zero o snapshot é retornado preenchido, sem as
// razões, junto com um erro ErrDivisionByZero.
func ComputeKPIs(customers []domain.CustomerSegment) (domain.KPISnapshot, error) {
	rollups := make(map[domain.Segment]*domain.SegmentRollup, len(domain.Segments))
	for _, segment := range domain.Segments {
		rollups[segment] = &domain.SegmentRollup{Segment: segment}
	}

	kpis := domain.KPISnapshot{
		TotalCustomers: len(customers),
	}

	for _, customer := range customers {
		kpis.TotalRevenue += customer.Monetary

		rollup := rollups[customer.Segment]
		rollup.Customers++
		rollup.Revenue += customer.Monetary

		if customer.Segment == domain.SegmentChampion {
			kpis.ChampionRevenue += customer.Monetary
		}
		if customer.Segment.IsAtRisk() {
			kpis.AtRiskRevenue += customer.Monetary
		}
	}

	kpis.Segments = make([]domain.SegmentRollup, 0, len(domain.Segments))
	for _, segment := range domain.Segments {
		kpis.Segments = append(kpis.Segments, *rollups[segment])
	}

	// Comparação por multiplicação: funciona mesmo com receita de Champions zerada
	kpis.HighRisk = kpis.AtRiskRevenue > kpis.ChampionRevenue*HighRiskFactor

	if kpis.TotalRevenue == 0 {
		return kpis, newDivisionByZeroError(kpiRevenueDependency)
	}

	dependency := kpis.ChampionRevenue / kpis.TotalRevenue
	riskRatio := kpis.AtRiskRevenue / kpis.TotalRevenue
	kpis.RevenueDependency = &dependency
	kpis.RiskRatio = &riskRatio
	kpis.HighDependency = dependency > HighDependencyThreshold

	return kpis, nil
}
