package service

import (
	"context"
	"fmt"
	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/home/model"
	"innkeep/internal/domains/home/repository"
	"innkeep/shared/cache"
	"innkeep/shared/constant"

	"github.com/rs/zerolog/log"
)

const cacheHomeStats = "home:stats"

type Home interface {
	Stats(ctx context.Context) (model.HomeStats, error)
}

type serviceImpl struct {
	repo  repository.Home
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Home, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Home {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Stats serves the landing page counters, briefly cached since they are
// decorative and read on every visit.
func (s *serviceImpl) Stats(ctx context.Context) (res model.HomeStats, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HomeStats")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheHomeStats, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.GetStats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get home stats")

		return res, fmt.Errorf("failed to get home stats: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheHomeStats, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save home stats to cache")
		}
	}()

	return res, nil
}
