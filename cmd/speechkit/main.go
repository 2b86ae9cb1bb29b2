// Command speechkit serves speaker-attributed, optionally translated
// transcripts over HTTP.
//
// Configuration is read from config.yml (or the file given with -config),
// a .env file and SPEECHKIT_* environment variables, in increasing order of
// precedence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/api"
	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/auth"
	"github.com/kbukum/speechkit/bootstrap"
	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/export"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/pipeline"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/server/middleware"
	"github.com/kbukum/speechkit/sse"
	"github.com/kbukum/speechkit/storage"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/translation"
	"github.com/kbukum/speechkit/version"
)

func main() {
	configFile := flag.String("config", "", "path to the YAML config file")
	envFile := flag.String("env", "", "path to a .env file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	issueToken := flag.String("issue-token", "", "print an API token for the given client name and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())
		return
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "speechkit: %v\n", err)
		os.Exit(1)
	}
	if *issueToken != "" {
		token, err := issue(&cfg, *issueToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "speechkit: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}
	if err := run(context.Background(), &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "speechkit: %v\n", err)
		os.Exit(1)
	}
}

// componentLoggers are the named loggers the packages fetch with logger.Get.
var componentLoggers = []string{
	"api", "audio", "diarization", "transcription", "translation",
	"pipeline", "export", "provider", "sse",
}

func registerLoggers() {
	logger.RegisterDefaults(componentLoggers...)
}

func run(ctx context.Context, cfg *Config) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	registerLoggers()
	log := app.Logger

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdownTelemetry))

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	b, err := buildBackends(cfg)
	if err != nil {
		return err
	}
	log.Info("Backends initialized", map[string]interface{}{"backends": describeBackends(b)})

	store := storage.NewComponent(cfg.Storage, storageRegistry(), log)
	if err := app.RegisterComponent(store); err != nil {
		return err
	}
	for _, p := range b.probes(cfg) {
		if err := app.RegisterComponent(p); err != nil {
			return err
		}
	}

	events := sse.NewComponent(api.WatchPath)
	if err := app.RegisterComponent(events); err != nil {
		return err
	}

	handler, err := newHandler(cfg, b, store, events.Hub(), metrics)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
	routes, err := apiRouter(cfg, srv)
	if err != nil {
		return err
	}
	handler.Register(routes)
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	return app.Run(ctx)
}

// apiRouter returns the group the speech endpoints are mounted on. With
// auth enabled every endpoint needs a bearer token; the health and version
// endpoints registered by ApplyDefaults stay open.
func apiRouter(cfg *Config, srv *server.Server) (gin.IRouter, error) {
	if !cfg.Auth.Enabled {
		return srv.GinEngine(), nil
	}
	svc, err := auth.NewService(cfg.Auth)
	if err != nil {
		return nil, err
	}
	return srv.GinEngine().Group("/", middleware.Auth(middleware.AuthConfig{Validate: svc.Validator()})), nil
}

// issue mints a token with the configured secret.
func issue(cfg *Config, subject string) (string, error) {
	svc, err := auth.NewService(cfg.Auth)
	if err != nil {
		return "", err
	}
	return svc.Issue(subject)
}

// newHandler wires the pipeline stages into the HTTP handler.
func newHandler(cfg *Config, b *backends, store *storage.Component, events *sse.Hub, metrics *observability.Metrics) (*api.Handler, error) {
	preparer := audio.NewPreparer(cfg.Audio, audio.WithDecoder(audio.NewFFmpegDecoder(cfg.Audio)))
	diarizer := diarization.NewDiarizer(b.diarization, cfg.Diarization.Options())
	transcriber := transcription.NewTranscriber(b.transcription, transcription.Options{
		Language: cfg.Transcription.Language,
		Model:    cfg.Transcription.Model,
	})

	var translator pipeline.Translator
	if b.translation != nil {
		src, _ := translation.Lookup(cfg.Translation.DefaultSource)
		tgt, _ := translation.Lookup(cfg.Translation.DefaultTarget)
		translator = translation.NewTranslator(b.translation, translation.WithDefaults(src, tgt))
	}

	orchestrator := pipeline.NewOrchestrator(cfg.Pipeline, preparer, diarizer, transcriber, translator,
		pipeline.WithMetrics(metrics))

	exporter := export.NewExporter(cfg.Export,
		export.WithStorageSource(store),
		export.WithURLExpiry(cfg.Storage.URLExpiry),
		export.WithLogger(logger.Get("export")))

	return api.New(api.Deps{
		Service:     cfg.Name,
		Version:     cfg.Version,
		Preparer:    preparer,
		Diarizer:    diarizer,
		Transcriber: transcriber,
		Translator:  translator,
		Pipeline:    orchestrator,
		Exporter:    exporter,
		Events:      events,
		Providers:   b.providerNames(),
		Backends:    b.health,
	})
}
