// Пакет assessment предоставляет HTTP API сервиса вопросов с rich-text полями:
// команды редактора над документом, разбор и сериализацию HTML, редактирование и экспорт вопросов.
//
// Основные возможности:
//   - Нормализация, разбор и сериализация rich-text документов.
//   - Команды панели инструментов: переключение разметки и вида блока.
//   - Создание вопросов, фиксация rich-text полей, варианты ответа и примеры.
//   - Экспорт вопроса в Markdown и PDF.
//   - Метрики Prometheus и периодическая нормализация устаревших записей.
package assessment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/aisa-it/assessment/internal/assessment/business"
	"github.com/aisa-it/assessment/internal/assessment/config"
	"github.com/aisa-it/assessment/internal/assessment/cronmanager"
	"github.com/aisa-it/assessment/internal/assessment/maintenance"
	policy "github.com/aisa-it/assessment/internal/assessment/redactor-policy"
	"github.com/aisa-it/assessment/internal/assessment/richtext"
)

//go:generate go run ../../cmd/docsgen/main.go -out ../../docs/api_errors.md

type Services struct {
	db       *gorm.DB
	cfg      *config.Config
	version  string
	business *business.Business
}

func NewServices(db *gorm.DB, cfg *config.Config, version string) *Services {
	return &Services{
		db:       db,
		cfg:      cfg,
		version:  version,
		business: business.NewBL(db),
	}
}

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "Assessment")
		return next(c)
	}
}

// Router собирает echo с middleware и маршрутами API без запуска сервера.
func (s *Services) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		// Ignore 404
		if code == http.StatusNotFound {
			c.NoContent(http.StatusNotFound)
			return
		}
		slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		EErrorMsgStatus(c, nil, code)
	}

	e.Use(ServerHeader)
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("2M"))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     5,
		MinLength: 2048,
	}))
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	apiGroup := e.Group("/api/")

	s.AddRichTextServices(apiGroup)
	s.AddQuestionServices(apiGroup)

	// Version endpoint
	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version":        s.version,
			"input_sanitize": !s.cfg.InputSanitizeDisabled,
		})
	})

	// Health endpoint
	apiGroup.GET("_health/", func(c echo.Context) error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return EErrorMsgStatus(c, err, http.StatusServiceUnavailable)
		}
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return EErrorMsgStatus(c, err, http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	return e
}

// prepareHTML очищает HTML, пришедший от клиента, если очистка не отключена в конфигурации.
func (s *Services) prepareHTML(src string) string {
	if s.cfg.InputSanitizeDisabled {
		return policy.RewriteLegacyTags(src)
	}
	return policy.SanitizeQuestionHTML(src)
}

// Server запускает API, сервер метрик и периодические задачи. Возвращает управление после остановки.
func Server(db *gorm.DB, c *config.Config, version string) {
	s := NewServices(db, c, version)

	jobRegistry := cronmanager.JobRegistry{}
	if !c.LegacyNormalizeDisabled {
		jobRegistry["legacy_normalize"] = cronmanager.Job{
			Func:     maintenance.NewLegacyNormalizer(db, c.LegacyNormalizeWorkers).NormalizeQuestions,
			Schedule: c.LegacyNormalizeSchedule,
		}
	}

	cronManager := cronmanager.NewCronManager(jobRegistry)
	if err := cronManager.LoadJobs(); err != nil {
		slog.Error("Failed to load cron jobs", "err", err)
		os.Exit(1)
	}
	cronManager.Start()

	e := s.Router()
	e.Use(echoprometheus.NewMiddleware("assessment"))

	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echoprometheus.NewHandler())

	// Prometheus metrics
	go func() {
		bootTimeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "assessment",
			Name:      "boot_time",
			Help:      "Server startup time",
		})
		bootTimeGauge.Set(float64(time.Now().UnixMilli()))

		collectors := append(richtext.Collectors(), bootTimeGauge, maintenance.RewrittenFieldsTotal)
		for _, collector := range collectors {
			if err := prometheus.Register(collector); err != nil {
				slog.Error("Register metrics collector", "err", err)
				os.Exit(1)
			}
		}

		if err := metrics.Start(c.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server fail", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down gracefully, press Ctrl+C again to force")
		stop()
		cronManager.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			slog.Error("Metrics server shutdown", "err", err)
		}
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown", "err", err)
		}
	}()

	slog.Info("Start server", "addr", c.ListenAddr, "metrics", c.MetricsAddr, "version", version)
	if err := e.Start(c.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server fail", "err", err)
	}
}
