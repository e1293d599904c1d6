package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/corymhall/lintlsp/debug"
	"github.com/corymhall/lintlsp/logger"
	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/rpc"
	"github.com/corymhall/lintlsp/server"
	"github.com/corymhall/lintlsp/settings"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	cfgFile  string
	logFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "lintlsp",
	Short: "Language server that shows the diagnostics of a remote lint server",
	Long: `lintlsp speaks the language server protocol over stdio. Every open
document is POSTed to a lint server, whose JSON answer is shown as
diagnostics. Autofixes the lint server returns are offered as quick fixes.

The editor setting lintServer.lintFileUri names the lint server. Defaults for
editors that cannot be asked, or that leave settings unset, come from the
config file or from LINTLSP_* environment variables:

  LINTLSP_LINT_FILE_URI    lint server address
  LINTLSP_FIXABLE_SOURCE   diagnostic source whose fixes are offered
  LINTLSP_TIMEOUT          lint request timeout (default 10s)
  LINTLSP_SECTION          editor configuration section (default lintServer)`,
	SilenceUsage: true,
	RunE:         runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lintlsp.yaml)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", `one of "debug", "info", "warn" or "error"`)
	rootCmd.Flags().Bool("stdio", true, "use stdio for the protocol, the only supported transport")
	contract.AssertNoErrorf(viper.BindPFlag("log-level", rootCmd.Flags().Lookup("log-level")), "binding log-level")

	viper.SetDefault("timeout", 10*time.Second)
	viper.SetDefault("section", settings.Section)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".lintlsp")
	}

	viper.SetEnvPrefix("lintlsp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// stdout carries the protocol, so nothing may be printed there
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultSettings() settings.Settings {
	s := settings.Settings{URI: viper.GetString("uri")}
	if viper.IsSet("lint-file-uri") {
		v := viper.GetString("lint-file-uri")
		s.LintFileURI = &v
	}
	if viper.IsSet("fixable-source") {
		v := viper.GetString("fixable-source")
		s.FixableSource = &v
	}
	return s
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", name, err)
	}
	return level, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	level, err := parseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger.ProgramLevel.Set(level)

	stream := rpc.NewHeaderStream(os.Stdin, os.Stdout)
	conn := rpc.NewConn(stream)
	client := lsp.ClientDispatcher(conn)

	handlers := []slog.Handler{logger.NewClientHandler(client, logger.ProgramLevel)}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logger.ProgramLevel}))
	}
	log := slog.New(logger.Tee(handlers...))

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(logger.NewSpanProcessor(log)))
	otel.SetTracerProvider(tp)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = debug.WithLogger(ctx, log)

	srv := server.New(client, server.Config{
		HTTPClient:     &http.Client{Timeout: viper.GetDuration("timeout")},
		TracerProvider: tp,
		Defaults:       defaultSettings(),
		Section:        viper.GetString("section"),
	})
	defer func() {
		if err := srv.Shutdown(ctx); err != nil {
			debug.LogError(ctx, "shutting down server", err)
		}
		if err := tp.Shutdown(context.Background()); err != nil {
			debug.LogError(ctx, "shutting down tracer provider", err)
		}
	}()

	debug.Info.Log(ctx, "lintlsp starting", "version", server.Version)
	return conn.Run(ctx, lsp.ServerHandler(srv, rpc.MethodNotFound))
}
