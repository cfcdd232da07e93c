package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/chainguard-dev/eip-reclaimer/internal/config"
	"github.com/chainguard-dev/eip-reclaimer/internal/log"
	"github.com/chainguard-dev/eip-reclaimer/internal/o11y"
	"github.com/chainguard-dev/eip-reclaimer/internal/reclaimer"
)

// set at build time with -ldflags "-X main.version=..."
var version string = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logOpts := cfg.LogOptions()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOpts.Handlers = append(logOpts.Handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: logOpts.Level}))
	}

	ctx = log.Setup(ctx, log.New(os.Stderr, logOpts))
	ctx = log.With(ctx, "version", version)

	if err := run(ctx, cfg); err != nil {
		clog.FromContext(ctx).Error("eip-reclaimer failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdown, err := o11y.SetupTracing(ctx)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			clog.FromContext(ctx).Warn("failed to shut down tracing", "error", err)
		}
	}()

	r, err := newReclaimer(ctx, cfg)
	if err != nil {
		return err
	}
	h := newHandler(clog.FromContext(ctx), r)

	if !cfg.InLambda {
		return runOnce(ctx, h)
	}
	lambda.Start(h)
	return nil
}

// newReclaimer builds the EC2 client from the ambient AWS configuration
// (credentials, region) and hands it to the Reclaimer.
func newReclaimer(ctx context.Context, cfg *config.Config) (*reclaimer.Reclaimer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	clog.FromContext(ctx).Info("loaded AWS config", "region", awsCfg.Region)
	return reclaimer.New(ec2.NewFromConfig(awsCfg))
}

type handler func(ctx context.Context, event json.RawMessage) (*reclaimer.Result, error)

// newHandler returns the Lambda handler. The event payload is ignored; every
// invocation is a full pass over the address pool.
func newHandler(logger *clog.Logger, r *reclaimer.Reclaimer) handler {
	return func(ctx context.Context, _ json.RawMessage) (*reclaimer.Result, error) {
		ctx = clog.WithLogger(ctx, logger.With("request_id", requestID(ctx)))
		log := clog.FromContext(ctx)

		log.Info("scanning for unassociated EIPs")
		res, err := r.Run(ctx)
		if err != nil {
			return nil, err
		}
		log.Info(res.Body)
		return res, nil
	}
}

// requestID returns the Lambda request ID, or a random one when invoked
// outside of Lambda.
func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}

// runOnce invokes the handler a single time and prints the result to stdout.
func runOnce(ctx context.Context, h handler) error {
	res, err := h(ctx, nil)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
