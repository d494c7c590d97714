package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drblury/botweaver/component"
	"github.com/drblury/botweaver/internal/serverconfig"
	"github.com/drblury/botweaver/jsonutil"
	"github.com/drblury/botweaver/probe"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "botserver",
		Short:        "Serve chat bot custom components over HTTP",
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand(), newComponentsCommand())
	return root
}

func newServeCommand() *cobra.Command {
	cfg := serverconfig.DefaultConfig()
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the component server",
		Example: `  botserver serve --addr :8080 --components-path /components
  botserver serve --config $HOME/.botweaver/config.toml --validate-requests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			logger, err := serverconfig.NewLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "path to a TOML config file (default $HOME/.botweaver/config.toml)")
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	f.StringVar(&cfg.ComponentsPath, "components-path", cfg.ComponentsPath, "path the component endpoints are mounted under")
	f.Int64Var(&cfg.BodyLimit, "body-limit", cfg.BodyLimit, "maximum request body size in bytes")
	f.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request handling timeout (0 disables)")
	f.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json, text)")
	f.StringSliceVar(&cfg.CORSOrigins, "cors-origin", cfg.CORSOrigins, "allowed CORS origin, repeatable")
	f.BoolVar(&cfg.ValidateRequests, "validate-requests", cfg.ValidateRequests, "validate component requests against the generated OpenAPI document")
	f.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "MongoDB URI checked by the readiness probe")
	f.StringSliceVar(&cfg.ReadyURLs, "ready-url", cfg.ReadyURLs, "HTTP dependency that must answer 2xx for readiness, repeatable")
	return cmd
}

func newComponentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "Print the metadata of the bundled components",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := newRegistry()
			if err != nil {
				return err
			}
			out, err := jsonutil.MarshalIndent(component.Catalog{
				Version:    component.PlatformVersion,
				Components: reg.Metadata(),
			}, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

// resolveConfig layers the config file and environment under the flags that
// were set explicitly, then validates the result.
func resolveConfig(cmd *cobra.Command, cfg *serverconfig.Config, cfgPath string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = serverconfig.DefaultConfigPath()
	}
	if cfgFile != "" && serverconfig.FileExists(cfgFile) {
		fc, err := serverconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := serverconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	} else if cfgPath != "" {
		return fmt.Errorf("config file %s not found", cfgPath)
	}

	ec, err := serverconfig.LoadEnvConfig()
	if err != nil {
		return err
	}
	serverconfig.ApplyEnvConfig(cfg, ec, changed)

	return cfg.Validate()
}

func serve(ctx context.Context, cfg serverconfig.Config, logger *slog.Logger) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var readiness []probe.Func
	if cfg.MongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		}()
		readiness = append(readiness, probe.NewMongoPingProbe(client, nil))
	}
	probeClient := &http.Client{Timeout: 5 * time.Second}
	for _, target := range cfg.ReadyURLs {
		readiness = append(readiness, probe.NewHTTPProbe(target, target, probe.WithHTTPClient(probeClient)))
	}

	app, err := buildApp(cfg, logger, reg, readiness...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "componentsPath", cfg.ComponentsPath, "components", reg.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
