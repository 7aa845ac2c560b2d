//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"hangout-backend/application/ports"
	"hangout-backend/application/services"
	"hangout-backend/infrastructure/config"
	"hangout-backend/interfaces/http/rest"
	"hangout-backend/pkg/observability"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	DynamoDB     *awsdynamodb.Client
	HangoutRepo  ports.HangoutRepository
	SeriesRepo   ports.EventSeriesRepository
	IdeaListRepo ports.IdeaListRepository
	InviteRepo   ports.InviteCodeRepository
	Publisher    ports.EventPublisher
	Hangouts     *services.HangoutService
	Series       *services.SeriesService
	IdeaLists    *services.IdeaListService
	Invites      *services.InviteService
	Router       *rest.Router
	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideHangoutRepository,
	ProvideSeriesRepository,
	ProvideIdeaListRepository,
	ProvideInviteCodeRepository,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideAuthMiddleware,
	ProvideHangoutService,
	ProvideSeriesService,
	ProvideIdeaListService,
	ProvideInviteService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
