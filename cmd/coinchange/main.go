package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/change-maker/internal/application"
	"github.com/eugenenazirov/change-maker/internal/config"
	"github.com/eugenenazirov/change-maker/internal/logging"
)

var signalNotify = signal.Notify

const (
	commandSolve = "solve"
	commandBench = "bench"
	commandServe = "serve"
)

type invocation struct {
	command   string
	overrides *config.CLIOverrides
	bench     bool
}

func parseArgs(args []string) (invocation, error) {
	app := kingpin.New("coinchange", "Change-making calculator - compares greedy and optimal coin decompositions")
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	coins := app.Flag("coins", "Comma-separated coin denominations, e.g. 25,10,1").String()
	logFormat := app.Flag("log-format", "Log output format (json or console)").String()

	solveCmd := app.Command(commandSolve, "Compare greedy and DP decompositions of one target").Default()
	var targetSet bool
	target := solveCmd.Flag("target", "Target value V").Short('V').IsSetByUser(&targetSet).Int()
	withBench := solveCmd.Flag("bench", "Also benchmark the DP solver").Bool()

	benchCmd := app.Command(commandBench, "Benchmark the DP solver on a fixed target")
	benchTarget := benchCmd.Flag("bench-target", "Target value solved on every repetition").Default("-1").Int()
	reps := benchCmd.Flag("reps", "Number of repetitions").Default("0").Int()

	serveCmd := app.Command(commandServe, "Serve the change-making HTTP API")
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPS := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurst := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	historyDB := serveCmd.Flag("history-db", "SQLite file recording solved requests").String()

	command, err := app.Parse(args)
	if err != nil {
		return invocation{}, err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}
	if *coins != "" {
		overrides.CoinsStr = coins
	}
	if *logFormat != "" {
		overrides.LogFormat = logFormat
	}

	inv := invocation{command: command, overrides: overrides}
	switch command {
	case commandSolve:
		if targetSet {
			overrides.Target = target
		}
		inv.bench = *withBench
	case commandBench:
		if *benchTarget >= 0 {
			overrides.BenchTarget = benchTarget
		}
		if *reps > 0 {
			overrides.BenchReps = reps
		}
	case commandServe:
		if *port != "" {
			overrides.Port = port
		}
		if *rateLimitRPS >= 0 {
			overrides.RateLimitRPS = rateLimitRPS
		}
		if *rateLimitBurst >= 0 {
			overrides.RateLimitBurst = rateLimitBurst
		}
		if *historyDB != "" {
			overrides.HistoryPath = historyDB
		}
	}

	return inv, nil
}

func main() {
	inv, err := parseArgs(os.Args[1:])
	if err != nil {
		kingpin.Fatalf("%v, try --help", err)
	}

	cfg, err := config.Load(inv.overrides)
	if err != nil {
		kingpin.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if inv.command == commandServe {
		serve(cfg, logger)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, inv, cfg, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "coinchange: %v\n", err)
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, inv invocation, cfg config.Config, out io.Writer, logger *zap.Logger) error {
	switch inv.command {
	case commandSolve:
		return application.RunSolve(ctx, out, cfg, logger, inv.bench)
	case commandBench:
		return application.RunBenchmark(ctx, out, cfg, logger)
	default:
		return fmt.Errorf("unknown command %q", inv.command)
	}
}

func serve(cfg config.Config, logger *zap.Logger) {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := runServer(app, cfg.ShutdownGracePeriod, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

// runServer starts app and blocks until SIGINT or SIGTERM. It then drains the
// HTTP server and closes the history store, in that order.
func runServer(app *application.App, grace time.Duration, logger *zap.Logger) error {
	if err := app.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	drainServer(app.Server(), grace, logger)

	if err := app.Close(); err != nil {
		return fmt.Errorf("close history store: %w", err)
	}
	return nil
}

func drainServer(server *http.Server, grace time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	err := server.Shutdown(ctx)
	if err == nil {
		return
	}
	logger.Warn("graceful shutdown timed out, closing connections", zap.Error(err))
	if err := server.Close(); err != nil {
		logger.Error("forced close failed", zap.Error(err))
	}
}
