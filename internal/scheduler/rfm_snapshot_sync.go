package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/rfm-segmentation-api/infrastructure/exporter"
	"github.com/vfg2006/rfm-segmentation-api/internal/config"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting"
)

// RFMSnapshotSyncConfig representa a configuração do agendador de snapshots RFM
type RFMSnapshotSyncConfig struct {
	CronSchedule string
	LookbackDays int
	SyncEnabled  bool
}

// RFMSnapshotSyncService agenda a análise RFM sobre a base de pedidos e exporta o relatório
type RFMSnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              RFMSnapshotSyncConfig
	analyzer            segmenting.Analyzer
	exporter            exporter.ReportExporter
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastReportPath      string
	lastError           string
}

func NewRFMSnapshotSyncService(
	analyzer segmenting.Analyzer,
	reportExporter exporter.ReportExporter,
	appConfig *config.Config,
) *RFMSnapshotSyncService {
	syncConfig := RFMSnapshotSyncConfig{
		CronSchedule: appConfig.SnapshotSync.CronSchedule,
		LookbackDays: appConfig.SnapshotSync.LookbackDays,
		SyncEnabled:  appConfig.SnapshotSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"lookback_days": syncConfig.LookbackDays,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de snapshots RFM carregada")

	return &RFMSnapshotSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    syncConfig,
		analyzer:  analyzer,
		exporter:  reportExporter,
		now:       time.Now,
	}
}

// Start inicia o agendador
func (s *RFMSnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Snapshot RFM agendado desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de snapshots RFM")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncSnapshot(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar snapshot RFM: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de snapshots RFM")
		s.scheduler.Stop()
	}()

	return nil
}

// syncSnapshot executa uma análise por vez; disparos concorrentes são ignorados
func (s *RFMSnapshotSyncService) syncSnapshot(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot RFM já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	startTime := time.Now()
	path, err := s.runSnapshot(ctx)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).WithField("job", "rfm_snapshot").Error("Erro ao gerar snapshot RFM")
		return
	}

	s.lastError = ""
	s.lastReportPath = path
	s.lastSyncCompletedAt = s.now()

	logrus.WithFields(logrus.Fields{
		"job":      "rfm_snapshot",
		"report":   path,
		"duration": time.Since(startTime).String(),
	}).Info("Snapshot RFM concluído")
}

// runSnapshot analisa os pedidos da janela configurada usando o dia atual como data de análise
func (s *RFMSnapshotSyncService) runSnapshot(ctx context.Context) (string, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	filters := &domain.OrderFilters{EndDate: &today}
	if s.config.LookbackDays > 0 {
		start := today.AddDate(0, 0, -s.config.LookbackDays)
		filters.StartDate = &start
	}

	analysis, err := s.analyzer.AnalyzeStoredOrders(ctx, filters, &today)
	if err != nil && !segmenting.IsReportedError(err) {
		return "", fmt.Errorf("erro ao analisar pedidos: %w", err)
	}

	path, err := s.exporter.Export(analysis)
	if err != nil {
		return "", fmt.Errorf("erro ao exportar relatório: %w", err)
	}

	return path, nil
}

// TriggerManualSync inicia manualmente um snapshot RFM
func (s *RFMSnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot RFM já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando snapshot RFM manual")
	go s.syncSnapshot(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *RFMSnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"lookback_days":          s.config.LookbackDays,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_report_path":       s.lastReportPath,
		"last_error":             s.lastError,
	}
}
