package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/observability"
	"github.com/imrishuroy/go-storefront/internal/webhook"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()
	shutdownTracing, err := observability.SetupTracing(ctx, "storefront-worker")
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	var metrics Counter
	if cfg.Metrics.Namespace != "" {
		clients, err := aws.NewAWSClients(ctx)
		if err != nil {
			logger.Fatal("failed to init aws clients", zap.Error(err))
		}
		metrics = aws.NewMetricsRecorder(clients.CloudWatch, cfg.Metrics.Namespace, stageDimension(cfg.Metrics.Stage))
	}

	sink := webhook.NewHTTPSink(
		webhook.NewHTTPClient(cfg.Server.HTTPClientTimeout),
		webhook.Policy{MaxAttempts: cfg.Webhooks.MaxAttempts, Backoff: cfg.Webhooks.Backoff},
		logger,
	)
	p := NewProcessor(sink, metrics, logger)

	// RUN_LOCAL relays a single envelope taken from LOCAL_SQS_BODY.
	if cfg.Server.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			logger.Fatal("LOCAL_SQS_BODY is required when RUN_LOCAL is set")
		}
		event := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "local", Body: body}}}
		if err := p.Handle(ctx, event); err != nil {
			logger.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(func(ctx context.Context, event events.SQSEvent) error {
		defer observability.FlushTracing(ctx)
		return p.Handle(ctx, event)
	})
}

func stageDimension(stage string) map[string]string {
	if stage == "" {
		return nil
	}
	return map[string]string{"Stage": stage}
}
