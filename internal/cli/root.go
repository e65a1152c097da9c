// AngelaMos | 2026
// root.go

package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/api"
	"github.com/skadri1601/TradeSignal-sub000/internal/auth"
	"github.com/skadri1601/TradeSignal-sub000/internal/config"
	"github.com/skadri1601/TradeSignal-sub000/internal/core"
	"github.com/skadri1601/TradeSignal-sub000/internal/session"
	"github.com/skadri1601/TradeSignal-sub000/internal/tier"
)

// App carries the explicitly constructed dependencies every command
// uses. There are no package-level singletons; the session manager is
// built once here and passed down.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *core.Telemetry
	API       *api.Client
	Auth      *auth.Client
	Store     *session.Store
	Manager   *session.Manager
	Resolver  *tier.Resolver
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	var configPath string
	var apiURL string

	root := &cobra.Command{
		Use:           "tradesignal",
		Short:         "TradeSignal terminal client",
		Long:          "Terminal client for the TradeSignal market data subscription service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.bootstrap(cmd, configPath, apiURL)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Telemetry != nil {
				//nolint:errcheck // best-effort flush on exit
				_ = app.Telemetry.Shutdown(cmd.Context())
			}
		},
	}

	root.PersistentFlags().StringVar(
		&configPath,
		"config",
		defaultConfigPath(),
		"path to config file",
	)
	root.PersistentFlags().StringVar(
		&apiURL,
		"api-url",
		"",
		"override the API base URL",
	)

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newProfileCmd(app),
		newDashboardCmd(app),
		newBillingCmd(app),
		newTicketsCmd(app),
		newAdminCmd(app),
		newDemoCmd(app),
	)

	return root
}

func (app *App) bootstrap(
	cmd *cobra.Command,
	configPath, apiURL string,
) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	app.Config = cfg

	app.Logger = setupLogger(cfg.Log)
	slog.SetDefault(app.Logger)

	telemetry, err := core.NewTelemetry(cmd.Context(), cfg.Otel, cfg.App)
	if err != nil {
		app.Logger.Warn("failed to initialize telemetry", "error", err)
	} else {
		app.Telemetry = telemetry
	}

	app.API = api.NewClient(cfg.API, app.Logger)
	app.Auth = auth.NewClient(app.API)
	app.Store = session.NewStore(cfg.Storage)
	app.Manager = session.NewManager(app.Auth, app.Store, app.Logger)
	app.Resolver = tier.NewResolver(cfg.Tiers)

	// The manager is the only reader of the persisted pair; every
	// outgoing request gets its bearer token through this accessor.
	app.API.SetTokenSource(app.Manager.AccessToken)

	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tradesignal.yaml"
	}
	return home + "/.tradesignal/config.yaml"
}
