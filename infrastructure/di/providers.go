package di

import (
	"context"
	"fmt"
	"net/http"

	"hangout-backend/application/ports"
	"hangout-backend/application/services"
	"hangout-backend/infrastructure/config"
	"hangout-backend/infrastructure/messaging/eventbridge"
	"hangout-backend/infrastructure/persistence/dynamodb"
	"hangout-backend/interfaces/http/rest"
	"hangout-backend/interfaces/http/rest/middleware"
	"hangout-backend/pkg/auth"
	"hangout-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		observability.InstrumentAWSClients(&awsCfg)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideHangoutRepository creates the hangout repository
func ProvideHangoutRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.HangoutRepository {
	return dynamodb.NewHangoutRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideSeriesRepository creates the event series repository
func ProvideSeriesRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.EventSeriesRepository {
	return dynamodb.NewEventSeriesRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideIdeaListRepository creates the idea list repository
func ProvideIdeaListRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.IdeaListRepository {
	return dynamodb.NewIdeaListRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideInviteCodeRepository creates the invite code repository
func ProvideInviteCodeRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.InviteCodeRepository {
	return dynamodb.NewInviteCodeRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the EventBridge publisher for domain events
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch metrics publisher. When metrics are
// disabled the client stays nil and every record call is a no-op.
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("Hangouts/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("hangout-backend")
}

// ProvideAuthMiddleware selects the authentication middleware for the
// runtime. Behind API Gateway the authorizer has already validated the
// token, so the Lambda variant trusts the stamped identity headers and
// rate-limits against DynamoDB, which is shared across concurrent
// executions. The standalone server validates tokens itself and keeps
// its counters in memory.
func ProvideAuthMiddleware(
	cfg *config.Config,
	client *awsdynamodb.Client,
	logger *zap.Logger,
) (func(http.Handler) http.Handler, error) {
	if cfg.IsLambda {
		// 120 requests per minute per user
		userLimiter := auth.NewDistributedUserRateLimiter(client, cfg.DynamoDBTable, 120)
		return middleware.AuthenticateLambda(userLimiter, logger), nil
	}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure JWT validation: %w", err)
	}

	// 300 requests per minute per IP, 120 per authenticated user
	ipLimiter := auth.NewIPRateLimiter(300)
	userLimiter := auth.NewUserRateLimiter(120)
	return middleware.Authenticate(validator, ipLimiter, userLimiter, logger), nil
}

// ProvideHangoutService creates the hangout service
func ProvideHangoutService(repo ports.HangoutRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.HangoutService {
	return services.NewHangoutService(repo, publisher, logger)
}

// ProvideSeriesService creates the series service
func ProvideSeriesService(
	seriesRepo ports.EventSeriesRepository,
	hangoutRepo ports.HangoutRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.SeriesService {
	return services.NewSeriesService(seriesRepo, hangoutRepo, publisher, logger)
}

// ProvideIdeaListService creates the idea list service
func ProvideIdeaListService(repo ports.IdeaListRepository, logger *zap.Logger) *services.IdeaListService {
	return services.NewIdeaListService(repo, logger)
}

// ProvideInviteService creates the invite service
func ProvideInviteService(repo ports.InviteCodeRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.InviteService {
	return services.NewInviteService(repo, publisher, logger)
}

// ProvideRouter assembles the REST router
func ProvideRouter(
	cfg *config.Config,
	hangouts *services.HangoutService,
	series *services.SeriesService,
	ideaLists *services.IdeaListService,
	invites *services.InviteService,
	authenticate func(http.Handler) http.Handler,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(hangouts, series, ideaLists, invites, authenticate, metrics, cfg.EnableCORS, logger)
}
