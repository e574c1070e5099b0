package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/hotel/model"
	"innkeep/internal/domains/hotel/model/dto"
	"innkeep/internal/domains/hotel/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllHotel = "hotel:gets"
)

type Hotel interface {
	Create(ctx context.Context, req dto.CreateHotelRequest, organizationID int64, kind string) (int64, error)
	ListOwned(ctx context.Context, organizationID int64) ([]dto.HotelResponse, error)
	GetOwned(ctx context.Context, hotelID, organizationID int64) (dto.HotelResponse, error)
	Dashboard(ctx context.Context, organizationID int64) (dto.DashboardResponse, error)
}

type serviceImpl struct {
	repo  repository.Hotel
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Hotel, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Hotel {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHotelRequest, organizationID int64, kind string) (id int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateHotel")
	defer scope.End()
	defer scope.TraceIfError(err)

	if kind != constant.UserKindOrganization {
		return 0, failure.ErrAccessDenied
	}

	id, err = s.repo.Insert(ctx, req.ToModel(organizationID))
	if err != nil {
		log.Error().Err(err).Msg("failed to create hotel")

		return 0, fmt.Errorf("failed to create hotel: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
	}()

	return id, nil
}

func (s *serviceImpl) ListOwned(ctx context.Context, organizationID int64) (res []dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListOwnedHotels")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllHotel, fmt.Sprintf("%d", organizationID))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for owned hotels")

		return res, nil
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{}.Sorted(model.TableName+"."+model.FieldID, gDto.SortDirAsc), ownerFilter(organizationID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get owned hotels")

		return res, fmt.Errorf("failed to get owned hotels: %w", err)
	}

	res = make([]dto.HotelResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save owned hotels to cache")
		}
	}()

	return res, nil
}

// GetOwned returns the hotel only when it belongs to the acting organization.
func (s *serviceImpl) GetOwned(ctx context.Context, hotelID, organizationID int64) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOwnedHotel")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotel, err := s.repo.Get(ctx, shared.FilterByID(hotelID, model.FieldID, model.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("hotel not found")
	}

	if err != nil {
		log.Error().Err(err).Int64("hotelID", hotelID).Msg("failed to get hotel")

		return res, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.OrganizationID != organizationID {
		return res, failure.ErrAccessDenied
	}

	res.FromModel(hotel)

	return res, nil
}

func (s *serviceImpl) Dashboard(ctx context.Context, organizationID int64) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	stats, err := s.repo.GetStats(ctx, organizationID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel stats")

		return res, fmt.Errorf("failed to get hotel stats: %w", err)
	}

	res.FromModels(stats)

	return res, nil
}

func ownerFilter(organizationID int64) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldOrganizationID,
				Operator: gDto.FilterOperatorEq,
				Value:    organizationID,
				Table:    model.TableName,
			},
		},
	}
}
