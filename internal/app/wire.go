//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"speech-insight/internal/app/entity"
	"speech-insight/internal/app/pipeline"
	"speech-insight/internal/app/summary"
	"speech-insight/internal/config"
)

var analysisSet = wire.NewSet(
	ProvideClassifier,
	ProvideAggregator,
	ProvideNLPPipeline,
	entity.NewExtractor,
	summary.NewAnalyzer,
)

var pipelineSet = wire.NewSet(
	ProvideStore,
	ProvideFileStore,
	ProvideEngine,
	ProvideLocker,
	ProvideRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	pipeline.NewMetrics,
	ProvidePipelineOptions,
	pipeline.NewOrchestrator,
	analysisSet,
)

// InitializeApplication builds every component from cfg. The returned cleanup closes the
// database and the Redis client.
func InitializeApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, func(), error) {
	wire.Build(pipelineSet, NewApplication)
	return &Application{}, nil, nil
}
