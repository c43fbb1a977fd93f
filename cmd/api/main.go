package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/webplotcentersj-hash/clinicasj/cmd/mainconfig"
	"github.com/webplotcentersj-hash/clinicasj/internal/api/router"
	"github.com/webplotcentersj-hash/clinicasj/internal/app/bootstrap"
	"github.com/webplotcentersj-hash/clinicasj/internal/booking"
	appconfig "github.com/webplotcentersj-hash/clinicasj/internal/config"
	"github.com/webplotcentersj-hash/clinicasj/internal/conversation"
	httpmiddleware "github.com/webplotcentersj-hash/clinicasj/internal/http/middleware"
	"github.com/webplotcentersj-hash/clinicasj/internal/intake"
	"github.com/webplotcentersj-hash/clinicasj/internal/knowledge"
	"github.com/webplotcentersj-hash/clinicasj/internal/observability/metrics"
	"github.com/webplotcentersj-hash/clinicasj/internal/webchat"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinicasj API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx := context.Background()
	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Long enough for a model call plus a submission.
		WriteTimeout: cfg.TurnTimeout + cfg.SubmissionTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

type application struct {
	handler http.Handler
	closers []func() error
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// buildApp wires every component from config.
func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*application, error) {
	app := &application{}

	metricsHandler, chatMetrics, intakeMetrics := setupMetrics()

	awsClients, err := mainconfig.BuildAWSClients(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	llm, err := bootstrap.BuildLLM(ctx, cfg, awsClients.Config, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, llm.Close)

	clinic := booking.Clinic{Name: cfg.ClinicName, Phone: cfg.ClinicPhone}
	intakeHandler := setupIntake(ctx, cfg, awsClients, logger, intakeMetrics, app)
	submitter, err := newSubmitter(cfg, intakeHandler, logger)
	if err != nil {
		return nil, err
	}

	turns := conversation.NewTurnHandler(conversation.TurnHandlerConfig{
		Client:      llm.Client,
		Model:       llm.Model,
		System:      conversation.SystemPrompt(),
		Timeout:     cfg.ModelTimeout,
		MaxTokens:   int32(cfg.ModelMaxTokens),
		Temperature: float32(cfg.ModelTemperature),
		Logger:      logger,
		Metrics:     chatMetrics,
	})
	extractor := conversation.NewCommandExtractor(submitter, clinic, logger, chatMetrics)
	assistant := conversation.NewAssistant(turns, extractor, chatMetrics)

	responder := knowledge.NewDefaultResponder()
	static := conversation.NewStaticProvider(responder, chatMetrics)
	withFallback := conversation.NewFallbackProvider(assistant, static, logger, chatMetrics)

	widgetJS, err := loadWidgetJS(cfg.WidgetJSPath)
	if err != nil {
		return nil, err
	}
	orchestrator := webchat.NewOrchestrator(withFallback, responder, cfg.TurnTimeout, logger)

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	app.closers = append(app.closers, func() error { limiter.Stop(); return nil })

	app.handler = router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        conversation.NewHandler(assistant, static, logger),
		IntakeHandler:      intakeHandler,
		WebchatHandler:     webchat.NewHandler(orchestrator, widgetJS, cfg.CORSAllowedOrigins, logger),
		MetricsHandler:     metricsHandler,
		RateLimiter:        limiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return app, nil
}

func setupIntake(ctx context.Context, cfg *appconfig.Config, aws mainconfig.AWSClients, logger *logging.Logger, m *metrics.IntakeMetrics, app *application) *intake.Handler {
	sender, provider := bootstrap.BuildEmailSender(cfg, aws.SES, logger)
	forwarders := bootstrap.BuildForwarders(cfg, sender, aws.SQS)
	logger.Info("intake forwarding configured", "email_provider", provider, "forwarders", len(forwarders))

	var deduper intake.Deduper
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		app.closers = append(app.closers, redisClient.Close)
		deduper = newDeduper(redisClient, cfg.IntakeDedupeWindow)
		logger.Info("intake duplicate suppression enabled", "window", cfg.IntakeDedupeWindow.String())
	}
	return intake.NewHandler(deduper, forwarders, logger, m)
}

// newSubmitter picks where chat-derived bookings go. Without INTAKE_URL they
// are handed to the local intake handler directly, so they never pass through
// the public rate limiter.
func newSubmitter(cfg *appconfig.Config, local *intake.Handler, logger *logging.Logger) (conversation.Submitter, error) {
	if strings.TrimSpace(cfg.IntakeURL) == "" {
		logger.Info("booking submissions handled in-process")
		return intake.NewLocalSubmitter(local), nil
	}
	client, err := booking.NewClient(booking.ClientConfig{
		IntakeURL: cfg.IntakeURL,
		Timeout:   cfg.SubmissionTimeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("booking submissions forwarded to remote intake", "url", cfg.IntakeURL)
	return client, nil
}

func newDeduper(client *redis.Client, window time.Duration) intake.Deduper {
	d := intake.NewRedisDeduper(client, window)
	if d == nil {
		return nil
	}
	return d
}

// setupMetrics creates a dedicated registry with the runtime collectors and
// the application metrics.
func setupMetrics() (http.Handler, *metrics.ChatMetrics, *metrics.IntakeMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return handler, metrics.NewChatMetrics(reg), metrics.NewIntakeMetrics(reg)
}

// loadWidgetJS reads WIDGET_JS_PATH. An empty path selects the built-in widget.
func loadWidgetJS(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read widget script: %w", err)
	}
	return data, nil
}
