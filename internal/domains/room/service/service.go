package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"innkeep/config"
	"innkeep/infras/otel"
	hotelModel "innkeep/internal/domains/hotel/model"
	hotelRepo "innkeep/internal/domains/hotel/repository"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
)

type Room interface {
	List(ctx context.Context, typeName string) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id int64) (dto.RoomResponse, error)
	GetOwned(ctx context.Context, roomID, organizationID int64) (dto.RoomResponse, error)
	Create(ctx context.Context, req dto.CreateRoomRequest, hotelID, organizationID int64) (int64, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, roomID, organizationID int64) error
	Delete(ctx context.Context, roomID, organizationID int64) error
	ListOwned(ctx context.Context, organizationID int64) ([]dto.RoomListItemResponse, error)
}

type serviceImpl struct {
	repo      repository.Room
	hotelRepo hotelRepo.Hotel
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Room, hotelRepo hotelRepo.Hotel, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:      repo,
		hotelRepo: hotelRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// List is the public catalog, optionally narrowed to one room type. The type
// dropdown options ride along so the page renders from one call.
func (s *serviceImpl) List(ctx context.Context, typeName string) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListRooms")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllRoom, typeName)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	filter := gDto.FilterGroup{}
	if typeName != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldTypeName,
			Operator: gDto.FilterOperatorEq,
			Value:    typeName,
			Table:    model.TableName,
		})
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{}.Sorted(model.TableName+"."+model.FieldID, gDto.SortDirAsc), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	types, err := s.repo.GetTypes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room types")

		return res, fmt.Errorf("failed to get room types: %w", err)
	}

	res.FromModels(models)
	res.Types = types

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, strconv.FormatInt(id, 10))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("room not found")
	}

	if err != nil {
		log.Error().Err(err).Int64("roomID", id).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

// GetOwned is the edit-form read: same data as Get but only for the owner.
func (s *serviceImpl) GetOwned(ctx context.Context, roomID, organizationID int64) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOwnedRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.authorize(ctx, roomID, organizationID); err != nil {
		return res, err
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(roomID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("roomID", roomID).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest, hotelID, organizationID int64) (id int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(hotelID, hotelModel.FieldID, hotelModel.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, failure.NotFound("hotel not found")
	}

	if err != nil {
		log.Error().Err(err).Int64("hotelID", hotelID).Msg("failed to get hotel")

		return 0, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.OrganizationID != organizationID {
		return 0, failure.ErrAccessDenied
	}

	room, err := req.ToModel(hotelID)
	if err != nil {
		return 0, failure.BadRequestFromString(err.Error())
	}

	id, err = s.repo.Insert(ctx, room)
	if err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return 0, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx)

	return id, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, roomID, organizationID int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.authorize(ctx, roomID, organizationID); err != nil {
		return err
	}

	price, err := req.Price()
	if err != nil {
		return failure.BadRequestFromString(err.Error())
	}

	update := map[string]any{
		model.FieldNumber:       req.Number,
		model.FieldName:         req.Name,
		model.FieldDescription:  req.Description,
		model.FieldTypeName:     req.TypeName,
		model.FieldPricePerDay:  price,
		constant.FieldUpdatedAt: timezone.Now(),
	}

	if err = s.repo.Update(ctx, update, shared.FilterByID(roomID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("roomID", roomID).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, roomID, organizationID int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.authorize(ctx, roomID, organizationID); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(roomID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("roomID", roomID).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) ListOwned(ctx context.Context, organizationID int64) (res []dto.RoomListItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListOwnedRooms")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    hotelModel.FieldOrganizationID,
				Operator: gDto.FilterOperatorEq,
				Value:    organizationID,
				Table:    hotelModel.TableName,
			},
		},
	}

	models, err := s.repo.GetAllItems(ctx, gDto.QueryParams{}.Sorted(model.TableName+"."+model.FieldID, gDto.SortDirAsc), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get owned rooms")

		return res, fmt.Errorf("failed to get owned rooms: %w", err)
	}

	res = make([]dto.RoomListItemResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res, nil
}

// authorize resolves the room with its hotel owner and denies unless the
// acting organization owns it. Missing room and foreign room both surface as
// their own failures so catalog rooms without hotels stay untouchable.
func (s *serviceImpl) authorize(ctx context.Context, roomID, organizationID int64) error {
	item, err := s.repo.GetItem(ctx, shared.FilterByID(roomID, model.FieldID, model.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return failure.NotFound("room not found")
	}

	if err != nil {
		log.Error().Err(err).Int64("roomID", roomID).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if !item.OwnedBy(organizationID) {
		return failure.ErrAccessDenied
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheGetRoom)
	}()
}
