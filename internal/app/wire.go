//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"meetscribe/internal/config"
)

// InitializeApplication wires the full service graph from the process
// configuration. The returned cleanup closes the database and any
// storage clients.
func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideDB,
		ProvideRepositories,
		ProvideEngine,
		ProvideStorage,
		ProvideSelector,
		ProvideAccessChecker,
		ProvideTranscriptionManager,
		ProvidePoller,
		ProvideRetentionManager,
		ProvideImporter,
		ProvideServiceContainer,
		ProvideServerConfig,
		ProvideServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
