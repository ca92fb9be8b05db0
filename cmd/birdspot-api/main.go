// @title         birdspot identify API
// @version       1.0
// @description   Bird identification from photos and audio clips, with result caching and daily quotas.
// @securityDefinitions.apikey bearer
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"

	"birdspot/internal/adapters/inference/openai"
	"birdspot/internal/core/catalog"
	"birdspot/internal/core/media"
	"birdspot/internal/modkit"
	"birdspot/internal/platform/config"
	"birdspot/internal/platform/logger"
	"birdspot/internal/platform/metrics"
	phttp "birdspot/internal/platform/net/http"
	"birdspot/internal/platform/store"

	"birdspot/internal/services/api"
	quotadom "birdspot/internal/services/quota/domain"
	quotamod "birdspot/internal/services/quota/module"
	cachedom "birdspot/internal/services/resultcache/domain"
	cachemod "birdspot/internal/services/resultcache/module"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	envPath, envErr := config.LoadDotenv()
	logger.Init(logger.FromEnv())
	l := logger.Get()
	if envErr != nil {
		l.Fatal().Err(envErr).Msg("dotenv")
	}
	if envPath != "" {
		l.Debug().Str("path", envPath).Msg("dotenv loaded")
	}

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	needRedis := cachemod.FromConfig(root).Backend == cachedom.BackendRedis ||
		quotamod.FromConfig(root).Backend == quotadom.BackendRedis
	st, err := store.Open(ctx, store.FromConfig(root, "api", needRedis), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		l.Panic().Err(err).Msg("metrics init failed")
	}

	cat, err := catalog.Load(root.MayString("SPECIES_FILE", "./data/species_list.json"))
	if err != nil {
		l.Panic().Err(err).Msg("species catalog load failed")
	}
	l.Info().Int("species", cat.Len()).Msg("species catalog loaded")

	provider, err := openai.New(openai.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("inference provider init failed")
	}

	srv := phttp.NewServer(apiCfg)
	mounted := api.Mount(srv.Router(), api.Options{
		Deps:           modkit.FromStore(root, *l, st, m),
		Service:        "birdspot-api",
		Catalog:        cat,
		Media:          media.New(media.FromConfig(root)),
		Provider:       provider,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mounted.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	if err := g.Wait(); err != nil {
		l.Panic().Err(err).Msg("birdspot-api stopped")
	}
	l.Info().Msg("birdspot-api stopped")
}
