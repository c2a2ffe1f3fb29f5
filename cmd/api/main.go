package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/handlers"
	"github.com/imrishuroy/go-storefront/internal/observability"
	"github.com/imrishuroy/go-storefront/internal/storage"
	"github.com/imrishuroy/go-storefront/internal/storefront"
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
	shutdownTracing, err := observability.SetupTracing(ctx, "storefront-api")
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build storefront", zap.Error(err))
	}
	if err := app.LoadCatalog(ctx); err != nil {
		// sessions are told about it; keep serving the fallback catalog
		logger.Warn("serving fallback catalog", zap.Error(err))
	}

	handler := otelhttp.NewHandler(handlers.NewRouter(app), "storefront")

	if cfg.Server.RunLocal {
		logger.Info("running local server", zap.String("addr", cfg.Server.Addr))
		srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	adapter := httpadapter.New(handler)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		defer observability.FlushTracing(ctx)
		return adapter.ProxyWithContext(ctx, req)
	})
}

// buildApp wires the AWS-backed collaborators the configuration asks for. Without a DynamoDB
// backend, a relay queue or a metrics namespace no AWS client is created.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*storefront.App, error) {
	httpClient := webhook.NewHTTPClient(cfg.Server.HTTPClientTimeout)
	deps := storefront.Deps{
		Logger: logger,
		Loader: catalog.NewLoader(cfg.Catalog.URL, httpClient),
	}

	needAWS := cfg.Storage.Backend == config.StorageDynamoDB ||
		cfg.Webhooks.RelayQueueURL != "" ||
		cfg.Metrics.Namespace != ""
	var clients *aws.AWSClients
	if needAWS {
		var err error
		clients, err = aws.NewAWSClients(ctx)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Storage.Backend == config.StorageDynamoDB {
		deps.Storage = storage.NewDynamoBackend(clients.DynamoDB, cfg.Storage.Table, cfg.Sessions.TTL)
	}

	if cfg.Webhooks.RelayQueueURL != "" {
		deps.Sink = webhook.NewQueueSink(aws.NewPublisher(clients.SQS, cfg.Webhooks.RelayQueueURL), logger)
	} else {
		deps.Sink = webhook.NewHTTPSink(httpClient, webhook.Policy{
			MaxAttempts: cfg.Webhooks.MaxAttempts,
			Backoff:     cfg.Webhooks.Backoff,
		}, logger)
	}

	if cfg.Metrics.Namespace != "" {
		var dims map[string]string
		if cfg.Metrics.Stage != "" {
			dims = map[string]string{"Stage": cfg.Metrics.Stage}
		}
		deps.Metrics = aws.NewMetricsRecorder(clients.CloudWatch, cfg.Metrics.Namespace, dims)
	}

	logger.Info("storefront configured",
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("relay_queue", cfg.Webhooks.RelayQueueURL != ""),
		zap.Bool("metrics", cfg.Metrics.Namespace != ""),
	)
	return storefront.New(cfg, deps), nil
}
