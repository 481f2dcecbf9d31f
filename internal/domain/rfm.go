package domain

import "time"

// Segment é o rótulo de negócio atribuído a partir dos três scores
type Segment string

const (
	SegmentChampion    Segment = "Champion"
	SegmentLoyal       Segment = "Loyal"
	SegmentFenceSitter Segment = "Fence Sitter"
	SegmentAtRisk      Segment = "At Risk"
	SegmentChurned     Segment = "Churned"
)

// Segments lista todos os segmentos na ordem de exibição
var Segments = []Segment{
	SegmentChampion,
	SegmentLoyal,
	SegmentFenceSitter,
	SegmentAtRisk,
	SegmentChurned,
}

// IsAtRisk indica se o segmento entra no cálculo de receita em risco
func (s Segment) IsAtRisk() bool {
	return s == SegmentAtRisk || s == SegmentChurned
}

// CustomerMetrics contém as métricas brutas de um cliente
type CustomerMetrics struct {
	CustomerID    string    `json:"user_id"`
	Recency       int       `json:"recency"`
	Frequency     int       `json:"frequency"`
	Monetary      float64   `json:"monetary"`
	TotalDiscount float64   `json:"total_discount"` // Informativo, não é subtraído de Monetary
	LastOrderDate time.Time `json:"last_order_date"`
}

// CustomerScore contém os scores de 1 a 5 de um cliente
type CustomerScore struct {
	CustomerID string `json:"user_id"`
	RScore     int    `json:"r_score"`
	FScore     int    `json:"f_score"`
	MScore     int    `json:"m_score"`
	RFMScore   string `json:"rfm_score"` // Apenas para exibição (ex: "543")
}

// CustomerSegment é a linha final da análise: métricas, scores e segmento
type CustomerSegment struct {
	CustomerMetrics
	RScore   int     `json:"r_score"`
	FScore   int     `json:"f_score"`
	MScore   int     `json:"m_score"`
	RFMScore string  `json:"rfm_score"`
	Segment  Segment `json:"segment"`
}

// SegmentRollup agrega clientes e receita de um segmento
type SegmentRollup struct {
	Segment   Segment `json:"segment"`
	Customers int     `json:"customers"`
	Revenue   float64 `json:"revenue"`
}

// KPISnapshot contém os indicadores globais de uma execução.
// RevenueDependency e RiskRatio ficam nulos quando a receita total é zero.
type KPISnapshot struct {
	TotalCustomers    int             `json:"total_customers"`
	TotalRevenue      float64         `json:"total_revenue"`
	ChampionRevenue   float64         `json:"champion_revenue"`
	AtRiskRevenue     float64         `json:"at_risk_revenue"`
	RevenueDependency *float64        `json:"revenue_dependency"`
	RiskRatio         *float64        `json:"risk_ratio"`
	HighDependency    bool            `json:"high_dependency"`
	HighRisk          bool            `json:"high_risk"`
	Segments          []SegmentRollup `json:"segments"`
}

// Recommendation é uma mensagem de orientação gerencial derivada dos KPIs
type Recommendation struct {
	Level   string `json:"level"` // warning, success, error, info, action
	Message string `json:"message"`
}

// AnalysisIssue registra um erro reportado sem interromper a análise
type AnalysisIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RFMAnalysis é o resultado completo de uma execução
type RFMAnalysis struct {
	RunID           string            `json:"run_id"`
	SnapshotDate    time.Time         `json:"snapshot_date"`
	GeneratedAt     time.Time         `json:"generated_at"`
	OrdersRead      int               `json:"orders_read"`
	Customers       []CustomerSegment `json:"customers"`
	KPIs            KPISnapshot       `json:"kpis"`
	MonthlyRevenue  []MonthlyRevenue  `json:"monthly_revenue"`
	Recommendations []Recommendation  `json:"recommendations"`
	Errors          []AnalysisIssue   `json:"errors,omitempty"`
}
