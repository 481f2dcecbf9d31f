package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	exportermocks "github.com/vfg2006/rfm-segmentation-api/infrastructure/exporter/mocks"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting"
	segmentingmocks "github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting/mocks"
	"go.uber.org/mock/gomock"
)

func TestRFMSnapshotSyncService_runSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := segmentingmocks.NewMockAnalyzer(ctrl)
	mockExporter := exportermocks.NewMockReportExporter(ctrl)

	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lookbackDays int
		setup        func()
		validate     func(t *testing.T, path string, err error)
	}{
		{
			name:         "janela de 30 dias com data de análise no dia atual",
			lookbackDays: 30,
			setup: func() {
				analysis := &domain.RFMAnalysis{RunID: "run1"}
				mockAnalyzer.EXPECT().
					AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filters *domain.OrderFilters, snapshot *time.Time) (*domain.RFMAnalysis, error) {
						require.NotNil(t, filters.StartDate)
						assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), *filters.StartDate)
						assert.Equal(t, today, *filters.EndDate)
						assert.Equal(t, today, *snapshot)
						return analysis, nil
					})
				mockExporter.EXPECT().Export(analysis).Return("reports/rfm_20240315_143000.json", nil)
			},
			validate: func(t *testing.T, path string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "reports/rfm_20240315_143000.json", path)
			},
		},
		{
			name:         "sem janela lê todos os pedidos",
			lookbackDays: 0,
			setup: func() {
				mockAnalyzer.EXPECT().
					AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filters *domain.OrderFilters, _ *time.Time) (*domain.RFMAnalysis, error) {
						assert.Nil(t, filters.StartDate)
						return &domain.RFMAnalysis{}, nil
					})
				mockExporter.EXPECT().Export(gomock.Any()).Return("reports/rfm.json", nil)
			},
			validate: func(t *testing.T, _ string, err error) {
				require.NoError(t, err)
			},
		},
		{
			name:         "receita zero ainda exporta a análise",
			lookbackDays: 7,
			setup: func() {
				analysis := &domain.RFMAnalysis{RunID: "zero"}
				mockAnalyzer.EXPECT().
					AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(analysis, segmenting.ErrDivisionByZero)
				mockExporter.EXPECT().Export(analysis).Return("reports/zero.json", nil)
			},
			validate: func(t *testing.T, path string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "reports/zero.json", path)
			},
		},
		{
			name:         "erro da análise interrompe sem exportar",
			lookbackDays: 7,
			setup: func() {
				mockAnalyzer.EXPECT().
					AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, segmenting.ErrInsufficientData)
			},
			validate: func(t *testing.T, path string, err error) {
				assert.Empty(t, path)
				assert.ErrorIs(t, err, segmenting.ErrInsufficientData)
			},
		},
		{
			name:         "erro ao exportar",
			lookbackDays: 7,
			setup: func() {
				mockAnalyzer.EXPECT().
					AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&domain.RFMAnalysis{}, nil)
				mockExporter.EXPECT().Export(gomock.Any()).Return("", errors.New("disk full"))
			},
			validate: func(t *testing.T, _ string, err error) {
				assert.ErrorContains(t, err, "disk full")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &RFMSnapshotSyncService{
				config:   RFMSnapshotSyncConfig{LookbackDays: tt.lookbackDays},
				analyzer: mockAnalyzer,
				exporter: mockExporter,
				now:      func() time.Time { return now },
			}

			tt.setup()
			path, err := service.runSnapshot(context.Background())
			tt.validate(t, path, err)
		})
	}
}

func TestRFMSnapshotSyncService_syncSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := segmentingmocks.NewMockAnalyzer(ctrl)
	mockExporter := exportermocks.NewMockReportExporter(ctrl)
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	t.Run("registra relatório e status", func(t *testing.T) {
		service := &RFMSnapshotSyncService{
			config:   RFMSnapshotSyncConfig{CronSchedule: "0 2 * * *", SyncEnabled: true},
			analyzer: mockAnalyzer,
			exporter: mockExporter,
			now:      func() time.Time { return now },
		}

		mockAnalyzer.EXPECT().AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.RFMAnalysis{}, nil)
		mockExporter.EXPECT().Export(gomock.Any()).Return("reports/rfm.json", nil)

		service.syncSnapshot(context.Background())

		status := service.GetStatus()
		assert.Equal(t, false, status["sync_running"])
		assert.Equal(t, "reports/rfm.json", status["last_report_path"])
		assert.Equal(t, "", status["last_error"])
		assert.Equal(t, now, status["last_sync_completed_at"])
	})

	t.Run("registra erro da última execução", func(t *testing.T) {
		service := &RFMSnapshotSyncService{
			analyzer: mockAnalyzer,
			exporter: mockExporter,
			now:      func() time.Time { return now },
		}

		mockAnalyzer.EXPECT().AnalyzeStoredOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, segmenting.ErrDegenerateDistribution)

		service.syncSnapshot(context.Background())

		status := service.GetStatus()
		assert.Contains(t, status["last_error"], segmenting.ErrDegenerateDistribution.Error())
		assert.True(t, status["last_sync_completed_at"].(time.Time).IsZero())
	})

	t.Run("ignora disparo com execução em andamento", func(t *testing.T) {
		service := &RFMSnapshotSyncService{
			analyzer:    mockAnalyzer,
			exporter:    mockExporter,
			now:         func() time.Time { return now },
			syncRunning: true,
		}

		// Nenhuma chamada esperada nos mocks
		service.syncSnapshot(context.Background())
		assert.Equal(t, true, service.GetStatus()["sync_running"])
	})
}

func TestRFMSnapshotSyncService_StartDisabled(t *testing.T) {
	service := &RFMSnapshotSyncService{config: RFMSnapshotSyncConfig{SyncEnabled: false}}
	assert.NoError(t, service.Start(context.Background()))
}
