//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/pillmein/supplement-advisor/internal/bootstrap"
	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
	"github.com/pillmein/supplement-advisor/internal/domain/survey"
	"github.com/pillmein/supplement-advisor/internal/infra/config"
	"github.com/pillmein/supplement-advisor/internal/infra/llm/chatgpt"
	httpiface "github.com/pillmein/supplement-advisor/internal/interface/http"
	"github.com/pillmein/supplement-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSurveyConfig,
		provideRecommendConfig,
		provideChatGPTClient,
		provideEmbedder,
		providePostgresPool,
		provideCatalogRepository,
		provideSurveyRepository,
		provideSnapshotStore,
		provideImageSearcher,
		survey.NewService,
		recommend.NewService,
		wire.Bind(new(survey.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(recommend.ChatClient), new(*chatgpt.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
