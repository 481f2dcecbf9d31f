package segmenting

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

// Quintiles é o número de faixas por métrica
const Quintiles = 5

const (
	MetricRecency   = "recency"
	MetricFrequency = "frequency"
	MetricMonetary  = "monetary"
)

// ScoreCustomers atribui R, F e M de 1 a 5 para cada cliente.
// Os scores são relativos à população: dependem das métricas de todos os clientes.
func ScoreCustomers(metrics []domain.CustomerMetrics) ([]domain.CustomerScore, error) {
	if len(metrics) < Quintiles {
		return nil, newInsufficientDataError(len(metrics))
	}

	recency := make([]int64, len(metrics))
	frequency := make([]int, len(metrics))
	monetary := make([]float64, len(metrics))
	for i, m := range metrics {
		recency[i] = int64(m.Recency)
		frequency[i] = m.Frequency
		monetary[i] = m.Monetary
	}

	// Recência é discretizada pelo valor bruto, sem desempate
	recencyBuckets, err := QuintileBuckets(recency, MetricRecency)
	if err != nil {
		return nil, err
	}

	frequencyBuckets, err := QuintileBuckets(toInt64(RankFirst(frequency)), MetricFrequency)
	if err != nil {
		return nil, err
	}

	monetaryBuckets, err := QuintileBuckets(toInt64(RankFirst(monetary)), MetricMonetary)
	if err != nil {
		return nil, err
	}

	scores := make([]domain.CustomerScore, len(metrics))
	for i, m := range metrics {
		score := domain.CustomerScore{
			CustomerID: m.CustomerID,
			RScore:     Quintiles + 1 - recencyBuckets[i], // Menor recência = melhor
			FScore:     frequencyBuckets[i],
			MScore:     monetaryBuckets[i],
		}
		score.RFMScore = fmt.Sprintf("%d%d%d", score.RScore, score.FScore, score.MScore)
		scores[i] = score
	}

	return scores, nil
}

// RankFirst retorna o rank (1..n) de cada valor em ordem crescente.
// Empates são resolvidos pela posição na entrada, produzindo uma ordem total.
func RankFirst[T cmp.Ordered](values []T) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	ranks := make([]int, len(values))
	for position, index := range order {
		ranks[index] = position + 1
	}
	return ranks
}

// QuintileBuckets distribui os valores em 5 faixas (1 = menores, 5 = maiores)
// usando pontos de corte por quantil com interpolação linear. A primeira faixa
// é fechada nos dois lados e as demais apenas à direita.
func QuintileBuckets(values []int64, metric string) ([]int, error) {
	if len(values) < Quintiles {
		return nil, newInsufficientDataError(len(values))
	}

	edges := quintileEdges(values)
	for k := 1; k <= Quintiles; k++ {
		if edges[k] <= edges[k-1] {
			return nil, newDegenerateError(metric, fmt.Sprintf(
				"quantile cut points %d and %d are equal (%.2f)",
				k-1, k, float64(edges[k])/Quintiles,
			))
		}
	}

	buckets := make([]int, len(values))
	sizes := make([]int, Quintiles+1)
	for i, v := range values {
		scaled := v * Quintiles
		bucket := Quintiles
		for k := 1; k <= Quintiles; k++ {
			if scaled <= edges[k] {
				bucket = k
				break
			}
		}
		buckets[i] = bucket
		sizes[bucket]++
	}

	for k := 1; k <= Quintiles; k++ {
		if sizes[k] == 0 {
			return nil, newDegenerateError(metric, fmt.Sprintf("bucket %d is empty", k))
		}
	}

	return buckets, nil
}

// quintileEdges retorna os 6 pontos de corte multiplicados por Quintiles,
// mantendo a interpolação em aritmética inteira.
func quintileEdges(values []int64) []int64 {
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	last := int64(len(sorted) - 1)
	edges := make([]int64, Quintiles+1)
	for k := int64(0); k <= Quintiles; k++ {
		position := k * last
		lower := position / Quintiles
		fraction := position % Quintiles

		edge := sorted[lower] * Quintiles
		if fraction > 0 {
			edge += fraction * (sorted[lower+1] - sorted[lower])
		}
		edges[k] = edge
	}
	return edges
}

func toInt64(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
