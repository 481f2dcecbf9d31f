package handler

import (
	"net/http"

	"github.com/vfg2006/rfm-segmentation-api/internal/api/handler/router"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/authenticating"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/segmenting"
	"github.com/vfg2006/rfm-segmentation-api/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

// RFMAnalysisOptions agrupa as dependências das rotas de análise
type RFMAnalysisOptions struct {
	Reader          OrderReader
	MaxUploadBytes  int64
	DatabaseEnabled bool
}

func RFMAnalysis(service segmenting.Analyzer, opts RFMAnalysisOptions) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/rfm/analysis",
			Method:      http.MethodPost,
			Handler:     AnalyzeUpload(service, opts.Reader, opts.MaxUploadBytes),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/rfm/analysis",
			Method:      http.MethodGet,
			Handler:     GetStoredAnalysis(service, opts.DatabaseEnabled),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/rfm/segments/rules",
			Method:      http.MethodGet,
			Handler:     GetSegmentRules(),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
	}
}
