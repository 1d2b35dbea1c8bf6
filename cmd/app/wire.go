//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/hiking-guide/internal/bootstrap"
	"github.com/yanqian/hiking-guide/internal/domain/edge"
	"github.com/yanqian/hiking-guide/internal/infra/config"
	httpiface "github.com/yanqian/hiking-guide/internal/interface/http"
	"github.com/yanqian/hiking-guide/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideEdgeConfig,
		provideFormConfig,
		provideHikingClient,
		provideTrailStore,
		provideTrailAPI,
		provideFormFactory,
		edge.NewForwarder,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
