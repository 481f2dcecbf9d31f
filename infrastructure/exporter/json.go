// Package exporter grava relatórios da análise RFM em disco
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const reportName = "rfm"

// ReportExporter exporta uma análise e retorna o caminho do arquivo gerado
type ReportExporter interface {
	Export(analysis *domain.RFMAnalysis) (string, error)
}

type JSONExporter struct {
	baseDir string
	now     func() time.Time
}

func NewJSONExporter(baseDir string) *JSONExporter {
	return &JSONExporter{
		baseDir: baseDir,
		now:     time.Now,
	}
}

func (e *JSONExporter) Export(analysis *domain.RFMAnalysis) (string, error) {
	filename := TimestampedFilename(e.baseDir, reportName, e.now())
	if err := ExportJSON(filename, analysis); err != nil {
		return "", err
	}
	return filename, nil
}

// ExportJSON grava data como JSON indentado, criando a pasta se necessário
func ExportJSON(filename string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return errors.Wrap(err, "failed to create folder")
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return errors.Wrap(err, "failed to write JSON")
	}

	return nil
}

func TimestampedFilename(baseDir, name string, at time.Time) string {
	return filepath.Join(baseDir, fmt.Sprintf("%s_%s.json", name, at.Format("20060102_150405")))
}
