// AngelaMos | 2026
// demo.go

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/demo"
)

const demoShutdownTimeout = 10 * time.Second

// newDemoCmd runs the bundled showcase backend so the rest of the CLI
// has something to talk to without real infrastructure.
func newDemoCmd(app *App) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the local showcase backend",
		Long: "Starts an in-memory TradeSignal backend with seeded demo " +
			"accounts. Point the client at it with " +
			"TRADESIGNAL_API_URL or --api-url.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if host == "" {
				host = app.Config.Demo.Host
			}
			if port == 0 {
				port = app.Config.Demo.Port
			}

			server, err := demo.NewServer(app.Logger)
			if err != nil {
				return fmt.Errorf("init demo backend: %w", err)
			}

			addr := net.JoinHostPort(host, strconv.Itoa(port))
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			app.Logger.Info("demo backend listening",
				"addr", addr,
				"accounts", "demo@tradesignal.io, starter@tradesignal.io, admin@tradesignal.io",
			)
			fmt.Printf("Demo backend on http://%s\n", addr)
			fmt.Println("Sign in with demo@tradesignal.io / demo-pass-123")

			errChan := make(chan error, 1)
			go func() {
				errChan <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errChan:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				app.Logger.Info("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				demoShutdownTimeout,
			)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("demo backend shutdown: %w", err)
			}

			app.Logger.Info("demo backend stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind address")
	cmd.Flags().IntVar(&port, "port", 0, "bind port")

	return cmd
}
