//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/thebartekbanach/imgsearch/pkg/cache"
	"github.com/thebartekbanach/imgsearch/pkg/config"
	"github.com/thebartekbanach/imgsearch/pkg/proxy"
	"github.com/thebartekbanach/imgsearch/pkg/resolver"
)

func InitializeProxy(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (proxy.ProxyService, func()) {
	wire.Build(
		wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),

		InitializeImagesStorage,
		cache.NewCacheService,

		InitializeSearchClient,
		InitializeFetcher,
		InitializeDedupeGroup,
		InitializeResolverConfig,
		resolver.NewImageResolver,

		InitializeProcessingService,
		InitializeProxyConfig,
		proxy.NewProxyService,
	)

	return nil, nil
}
