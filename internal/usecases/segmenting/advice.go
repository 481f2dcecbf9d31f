package segmenting

import (
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

const (
	LevelWarning = "warning"
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
	LevelAction  = "action"
)

var strategicActions = []string{
	"Strengthen loyalty programs for Champions.",
	"Launch re-engagement campaigns for At Risk & Churned segments.",
	"Upsell Fence Sitters into Loyal category.",
	"Monitor Recency trend monthly.",
}

// BuildRecommendations traduz os alertas dos KPIs em mensagens gerenciais.
// São regras fixas e apenas informativas.
func BuildRecommendations(kpis domain.KPISnapshot) []domain.Recommendation {
	recommendations := make([]domain.Recommendation, 0, 2+len(strategicActions))

	switch {
	case kpis.RevenueDependency == nil:
		recommendations = append(recommendations, domain.Recommendation{
			Level:   LevelInfo,
			Message: "Revenue dependency is undefined: total revenue is zero.",
		})
	case kpis.HighDependency:
		recommendations = append(recommendations, domain.Recommendation{
			Level:   LevelWarning,
			Message: "High revenue dependency on Champions. Risk of revenue concentration.",
		})
	default:
		recommendations = append(recommendations, domain.Recommendation{
			Level:   LevelSuccess,
			Message: "Revenue distribution is balanced across segments.",
		})
	}

	if kpis.HighRisk {
		recommendations = append(recommendations, domain.Recommendation{
			Level:   LevelError,
			Message: "Significant revenue at risk. Immediate retention strategy required.",
		})
	} else {
		recommendations = append(recommendations, domain.Recommendation{
			Level:   LevelInfo,
			Message: "Revenue risk manageable.",
		})
	}

	for _, action := range strategicActions {
		recommendations = append(recommendations, domain.Recommendation{
			Level:   LevelAction,
			Message: action,
		})
	}

	return recommendations
}
