package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting"
	"github.com/vfg2006/rfm-segmentation-api/pkg/apiErrors"
	"github.com/vfg2006/rfm-segmentation-api/pkg/log"
	"github.com/vfg2006/rfm-segmentation-api/pkg/utils"
)

const uploadField = "file"

// OrderReader converte o arquivo enviado em pedidos
type OrderReader interface {
	ReadOrders(r io.Reader) ([]domain.OrderRecord, error)
}

type SegmentRuleResponse struct {
	Priority    int            `json:"priority"`
	Segment     domain.Segment `json:"segment"`
	Description string         `json:"description"`
}

// AnalyzeUpload executa a análise RFM sobre um CSV enviado no corpo ou no campo multipart "file"
func AnalyzeUpload(service segmenting.Analyzer, reader OrderReader, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := utils.ParseOptionalDate(r.URL.Query().Get("snapshot_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "snapshot_date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		if maxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		}

		source, closeSource, err := uploadedFile(r, maxUploadBytes)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		defer closeSource()

		orders, err := reader.ReadOrders(source)
		if err != nil {
			writeUploadError(w, err)
			return
		}

		analysis, err := service.Analyze(r.Context(), orders, snapshot)
		writeAnalysis(w, r, analysis, err)
	}
}

// GetStoredAnalysis executa a análise RFM sobre os pedidos da base configurada
func GetStoredAnalysis(service segmenting.Analyzer, databaseEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !databaseEnabled {
			apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Base de pedidos não configurada", nil)
			return
		}

		query := r.URL.Query()
		snapshot, err := utils.ParseOptionalDate(query.Get("snapshot_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "snapshot_date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		startDate, err := utils.ParseOptionalDate(query.Get("start_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseOptionalDate(query.Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date deve estar no formato YYYY-MM-DD", nil)
			return
		}

		if startDate != nil && endDate != nil && endDate.Before(*startDate) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "end_date deve ser posterior a start_date", nil)
			return
		}

		filters := &domain.OrderFilters{StartDate: startDate, EndDate: endDate}
		analysis, err := service.AnalyzeStoredOrders(r.Context(), filters, snapshot)
		writeAnalysis(w, r, analysis, err)
	}
}

// GetSegmentRules expõe a tabela de regras na ordem de avaliação
func GetSegmentRules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules := make([]SegmentRuleResponse, 0, len(segmenting.SegmentRules))
		for i, rule := range segmenting.SegmentRules {
			rules = append(rules, SegmentRuleResponse{
				Priority:    i + 1,
				Segment:     rule.Segment,
				Description: rule.Description,
			})
		}

		writeJSON(w, http.StatusOK, rules)
	}
}

func uploadedFile(r *http.Request, maxUploadBytes int64) (io.Reader, func(), error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, errUnsupportedContent
	}

	switch mediaType {
	case "multipart/form-data":
		memory := maxUploadBytes
		if memory <= 0 {
			memory = 32 << 20
		}
		if err := r.ParseMultipartForm(memory); err != nil {
			return nil, nil, err
		}
		file, _, err := r.FormFile(uploadField)
		if err != nil {
			return nil, nil, errMissingFile
		}
		return file, func() { file.Close() }, nil
	case "text/csv", "application/csv", "text/plain":
		return r.Body, func() {}, nil
	default:
		return nil, nil, errUnsupportedContent
	}
}

var (
	errUnsupportedContent = errors.New("unsupported content type")
	errMissingFile        = errors.New("missing file field")
)

func writeUploadError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Arquivo excede o tamanho máximo permitido", map[string]int64{"limit_bytes": maxBytesErr.Limit})
	case errors.Is(err, errUnsupportedContent):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Envie o CSV como multipart/form-data (campo file) ou text/csv", nil)
	case errors.Is(err, errMissingFile):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Campo file é obrigatório", nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
	}
}

func writeAnalysis(w http.ResponseWriter, r *http.Request, analysis *domain.RFMAnalysis, err error) {
	if err != nil && !segmenting.IsReportedError(err) {
		code := segmenting.ErrorCode(err)
		if code == "" {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao executar análise RFM")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar análise RFM", nil)
			return
		}
		apiErrors.WriteError(w, code, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// writeJSON serializa antes de escrever o status para não enviar corpo parcial
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Erro ao serializar resposta")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao serializar resposta", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}
