package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/knasser/eduparser/internal/extract"
	"github.com/knasser/eduparser/internal/handler"
	appI18n "github.com/knasser/eduparser/internal/i18n"
	"github.com/knasser/eduparser/internal/llm"
	"github.com/knasser/eduparser/internal/store"
	"github.com/knasser/eduparser/internal/workflow"
)

//go:generate templ generate

func main() {
	// A .env file is convenient in development; absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eduparser",
		Short: "Turn study documents into a structured question bank",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `eduparser --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP wizard server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", ":memory:", "SQLite database path (:memory: keeps sessions in RAM)")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty = api.openai.com)")
	f.String("llm-model", "gpt-4o-mini", "Model used to structure text into questions")
	f.StringP("lang", "l", "ar", "UI language (ar, en)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.Duration("cleanup-interval", time.Hour, "How often expired sessions are purged")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper
// instance. All settings come from flags or EDUPARSER_* variables; there
// is no config file.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EDUPARSER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	llmClient := llm.New(v.GetString("llm-url"), v.GetString("llm-model"))
	controller := workflow.NewController(workflow.ExtractorFunc(extract.Extract), llmClient)

	h, err := handler.New(db, controller, handler.Config{
		SecureCookies: v.GetBool("secure-cookies"),
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	go cleanupLoop(db, v.GetDuration("cleanup-interval"))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
		"db", v.GetString("db"),
	)
	return http.ListenAndServe(addr, r)
}

// cleanupLoop purges expired sessions on a fixed interval.
func cleanupLoop(db *store.Store, interval time.Duration) {
	if interval <= 0 {
		return
	}
	for range time.Tick(interval) {
		if err := db.CleanupExpiredSessions(); err != nil {
			slog.Warn("session cleanup failed", "error", err)
		}
	}
}
