package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/rfm-segmentation-api/pkg/apiErrors"
)

// Tipos de cron job aceitos na execução manual
const (
	CronJobTypeRFMSnapshot = "rfm-snapshot"
	CronJobTypeAll         = "all"
)

// SyncTrigger é implementado pelos agendadores que aceitam execução manual
type SyncTrigger interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// CronJobServices contém os agendadores disponíveis para execução manual
type CronJobServices struct {
	RFMSnapshotSyncService SyncTrigger
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeRFMSnapshot, CronJobTypeAll:
			if services.RFMSnapshotSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Snapshot RFM agendado não disponível", nil)
				return
			}
			services.RFMSnapshotSyncService.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: rfm-snapshot, all", nil)
			return
		}

		logrus.WithField("job", cronType).Info("Cron job disparada manualmente")
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.RFMSnapshotSyncService != nil {
			status[CronJobTypeRFMSnapshot] = services.RFMSnapshotSyncService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}
