package segmenting

import (
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

// SegmentRule associa um predicado sobre os scores a um segmento
type SegmentRule struct {
	Segment     domain.Segment                        `json:"segment"`
	Description string                                `json:"description"`
	Matches     func(score domain.CustomerScore) bool `json:"-"`
}

// SegmentRules é avaliada em ordem e a primeira regra satisfeita vence.
// A ordem importa: as regras não são comutativas.
var SegmentRules = []SegmentRule{
	{
		Segment:     domain.SegmentChampion,
		Description: "R >= 4 and F >= 4 and M >= 4",
		Matches: func(s domain.CustomerScore) bool {
			return s.RScore >= 4 && s.FScore >= 4 && s.MScore >= 4
		},
	},
	{
		Segment:     domain.SegmentLoyal,
		Description: "F >= 4 and R >= 3",
		Matches: func(s domain.CustomerScore) bool {
			return s.FScore >= 4 && s.RScore >= 3
		},
	},
	{
		Segment:     domain.SegmentFenceSitter,
		Description: "R >= 3",
		Matches: func(s domain.CustomerScore) bool {
			return s.RScore >= 3
		},
	},
	{
		// Igualdade, não faixa: R == 1 cai em Churned
		Segment:     domain.SegmentAtRisk,
		Description: "R == 2",
		Matches: func(s domain.CustomerScore) bool {
			return s.RScore == 2
		},
	},
	{
		Segment:     domain.SegmentChurned,
		Description: "otherwise",
		Matches: func(domain.CustomerScore) bool {
			return true
		},
	},
}

// Classify retorna o segmento da primeira regra satisfeita
func Classify(score domain.CustomerScore) domain.Segment {
	for _, rule := range SegmentRules {
		if rule.Matches(score) {
			return rule.Segment
		}
	}
	return domain.SegmentChurned
}

// ClassifyCustomers junta métricas e scores (mesma ordem) em linhas classificadas
func ClassifyCustomers(metrics []domain.CustomerMetrics, scores []domain.CustomerScore) []domain.CustomerSegment {
	customers := make([]domain.CustomerSegment, len(metrics))
	for i, m := range metrics {
		score := scores[i]
		customers[i] = domain.CustomerSegment{
			CustomerMetrics: m,
			RScore:          score.RScore,
			FScore:          score.FScore,
			MScore:          score.MScore,
			RFMScore:        score.RFMScore,
			Segment:         Classify(score),
		}
	}
	return customers
}
