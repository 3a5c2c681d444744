package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/mongoose/pkg/admin"
	"github.com/cuemby/mongoose/pkg/config"
	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/metrics"
	"github.com/cuemby/mongoose/pkg/server"
)

const shutdownTimeout = 5 * time.Second

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot a MongooseServer from a YAML config and serve it until terminated",
	Long: `boot loads feeds, sinks, processor groups, and services from a YAML
configuration file, wires them against the built-in demo source/sink/
processor resolver, and runs MongooseServer until SIGINT or SIGTERM.

While running, it serves:

  GET  /metrics            Prometheus scrape endpoint
  GET  /health             overall health
  GET  /ready              readiness (orchestrator + queue-fabric up)
  GET  /live               liveness
  POST /admin/<command>    admin-command dispatch; body is a JSON array of
                           string args; response is the command's
                           accumulated output

Examples:
  mongoosectl boot -f config.yaml
  mongoosectl boot -f config.yaml --http :9090`,
	RunE: runBoot,
}

func init() {
	bootCmd.Flags().StringP("file", "f", "", "YAML config file to boot (required)")
	bootCmd.Flags().String("http", ":9090", "address to serve metrics/health/admin on")
	_ = bootCmd.MarkFlagRequired("file")
}

func runBoot(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	httpAddr, _ := cmd.Flags().GetString("http")

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	resolver := newDemoResolver()

	logListener := func(ev errreport.ReportedEvent) {
		log.Logger.Debug().Str("source", ev.Source).Str("severity", ev.Severity.String()).Msg(ev.Message)
	}

	s, err := server.BootServer(cfg, resolver, logListener)
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	registerAdminCommands(s)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", metrics.HealthHandler())
	mux.HandleFunc("/ready", metrics.ReadyHandler())
	mux.HandleFunc("/live", metrics.LivenessHandler())
	mux.HandleFunc("/admin/", adminHandler(s))

	httpSrv := &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("admin http server stopped")
		}
	}()

	log.Logger.Info().
		Int("feeds", len(cfg.Feeds)).
		Int("sinks", len(cfg.Sinks)).
		Int("groups", len(cfg.Groups)).
		Str("http", httpAddr).
		Msg("mongoosectl: server started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Logger.Info().Msg("mongoosectl: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)

	return s.Stop()
}

// registerAdminCommands wires the introspection commands a complete
// cmd/mongoosectl needs: "processors" and "sinks" list what is registered,
// "recent-errors" replays the error-reporter's bounded history.
func registerAdminCommands(s *server.Server) {
	s.Admin.RegisterCommand("processors", func(_ []string, out, _ admin.OutputSink) {
		for _, pair := range s.RegisteredProcessors() {
			out(fmt.Sprintf("%s/%s", pair[0], pair[1]))
		}
	})

	s.Admin.RegisterCommand("sinks", func(_ []string, out, _ admin.OutputSink) {
		for _, name := range s.RegisteredSinks() {
			out(name)
		}
	})

	s.Admin.RegisterCommand("recent-errors", func(args []string, out, errOut admin.OutputSink) {
		limit := 20
		if len(args) > 0 {
			var n int
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
				errOut(fmt.Sprintf("invalid limit %q", args[0]))
				return
			}
			limit = n
		}
		for _, ev := range s.Reporter().Recent(limit) {
			out(fmt.Sprintf("[%s] %s: %s", ev.Severity, ev.Source, ev.Message))
		}
	})
}

func adminHandler(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmdName := strings.TrimPrefix(r.URL.Path, "/admin/")
		var args []string
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&args)
		}

		var out, errOut []string
		s.Admin.ProcessAdminCommandRequest(admin.Request{
			Command: cmdName,
			Args:    args,
			Out:     func(v any) { out = append(out, fmt.Sprint(v)) },
			ErrOut:  func(v any) { errOut = append(errOut, fmt.Sprint(v)) },
		})

		w.Header().Set("Content-Type", "application/json")
		if len(errOut) > 0 {
			w.WriteHeader(http.StatusBadRequest)
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"out": out, "err": errOut})
	}
}
