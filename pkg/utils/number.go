package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNonFiniteAmount indica NaN ou infinito em um campo monetário
var ErrNonFiniteAmount = errors.New("amount must be a finite number")

// Agrupamento de milhar com vírgula: 1,234 ou 12,345,678
var thousandsGrouping = regexp.MustCompile(`^[+-]?[1-9]\d{0,2}(,\d{3})+$`)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// ParseAmount converte valores monetários. Vírgula seguida de grupos de três
// dígitos é separador de milhar; nos demais casos sem ponto, é separador decimal.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	switch {
	case strings.Contains(raw, "."), thousandsGrouping.MatchString(raw):
		raw = strings.ReplaceAll(raw, ",", "")
	default:
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonFiniteAmount, raw)
	}

	return value, nil
}
