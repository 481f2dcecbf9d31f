package segmenting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/rfm-segmentation-api/pkg/apiErrors"
)

// Erros da análise RFM
var (
	ErrInvalidSnapshot        = errors.New("snapshot date precedes the latest order date")
	ErrInsufficientData       = errors.New("not enough customers to build quintiles")
	ErrDegenerateDistribution = errors.New("metric distribution cannot be split into 5 quantile buckets")
	ErrDivisionByZero         = errors.New("total revenue is zero")
)

// AnalysisError é um erro com contexto adicional para a análise RFM
type AnalysisError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	Metric     string // Métrica envolvida (quando aplicável)
	CustomerID string // Cliente envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AnalysisError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func newInvalidSnapshotError(customerID string, details string) *AnalysisError {
	return &AnalysisError{
		Err:        ErrInvalidSnapshot,
		Code:       apiErrors.ErrInvalidSnapshot,
		CustomerID: customerID,
		Details:    details,
	}
}

func newInsufficientDataError(customers int) *AnalysisError {
	return &AnalysisError{
		Err:     ErrInsufficientData,
		Code:    apiErrors.ErrInsufficientData,
		Details: fmt.Sprintf("%d customers found, at least %d required", customers, Quintiles),
	}
}

func newDegenerateError(metric string, details string) *AnalysisError {
	return &AnalysisError{
		Err:     ErrDegenerateDistribution,
		Code:    apiErrors.ErrDegenerateDistribution,
		Metric:  metric,
		Details: details,
	}
}

func newDivisionByZeroError(metric string) *AnalysisError {
	return &AnalysisError{
		Err:     ErrDivisionByZero,
		Code:    apiErrors.ErrDivisionByZero,
		Metric:  metric,
		Details: metric + " is undefined",
	}
}

// ErrorCode retorna o código de API associado ao erro, se houver
func ErrorCode(err error) string {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr.Code
	}
	return ""
}
