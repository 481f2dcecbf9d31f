package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação
	ErrInvalidCredentials    = "AUTH_001" // Credenciais inválidas
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrNotFound            = "VAL_004" // Rota não encontrada
	ErrMethodNotAllowed    = "VAL_005" // Método não permitido

	// Erros da análise RFM
	ErrInvalidSnapshot        = "RFM_001" // Data de análise anterior ao último pedido
	ErrInsufficientData       = "RFM_002" // Clientes insuficientes para quintis
	ErrDegenerateDistribution = "RFM_003" // Distribuição sem 5 faixas distintas
	ErrDivisionByZero         = "RFM_004" // Receita total zero

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrServiceDisabled   = "SRV_005" // Recurso desabilitado por configuração
)

var httpStatusMap = map[string]int{
	ErrInvalidCredentials:     http.StatusUnauthorized,
	ErrInvalidToken:           http.StatusUnauthorized,
	ErrInsufficientPrivilege:  http.StatusForbidden,
	ErrInvalidRequest:         http.StatusBadRequest,
	ErrMissingRequiredData:    http.StatusBadRequest,
	ErrInvalidFormat:          http.StatusBadRequest,
	ErrNotFound:               http.StatusNotFound,
	ErrMethodNotAllowed:       http.StatusMethodNotAllowed,
	ErrInvalidSnapshot:        http.StatusUnprocessableEntity,
	ErrInsufficientData:       http.StatusUnprocessableEntity,
	ErrDegenerateDistribution: http.StatusUnprocessableEntity,
	ErrDivisionByZero:         http.StatusUnprocessableEntity,
	ErrInternalServer:         http.StatusInternalServerError,
	ErrDatabaseOperation:      http.StatusInternalServerError,
	ErrServiceDisabled:        http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor retorna o status HTTP de um código de erro
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
