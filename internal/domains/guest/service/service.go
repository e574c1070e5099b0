package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/guest/model"
	"innkeep/internal/domains/guest/model/dto"
	"innkeep/internal/domains/guest/repository"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Callers never learn whether a foreign guest id exists. Missing and
// not-owned both answer with this message.
const msgGuestNotFound = "guest not found"

type Guest interface {
	Create(ctx context.Context, req dto.CreateGuestRequest, userID int64) (int64, error)
	List(ctx context.Context, userID int64, search string) (dto.GetGuestsResponse, error)
	Get(ctx context.Context, id, userID int64) (dto.GuestResponse, error)
}

type serviceImpl struct {
	repo repository.Guest
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Guest, cfg *config.Config, otel otel.Otel) Guest {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateGuestRequest, userID int64) (id int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateGuest")
	defer scope.End()
	defer scope.TraceIfError(err)

	id, err = s.repo.Insert(ctx, req.ToModel(&userID))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return 0, failure.Conflict("passport number already registered")
		}

		log.Error().Err(err).Msg("failed to create guest")

		return 0, fmt.Errorf("failed to create guest: %w", err)
	}

	return id, nil
}

func (s *serviceImpl) List(ctx context.Context, userID int64, search string) (res dto.GetGuestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListGuests")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	if search != "" {
		filter.Filters = append(filter.Filters, shared.SearchFilter(search,
			model.TableName+"."+model.FieldFirstName,
			model.TableName+"."+model.FieldLastName,
			model.TableName+"."+model.FieldPhone,
			model.TableName+"."+model.FieldEmail,
		))
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{}.Sorted(model.TableName+"."+model.FieldID, gDto.SortDirAsc), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get guests")

		return res, fmt.Errorf("failed to get guests: %w", err)
	}

	res.FromModels(models)
	res.Search = search

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id, userID int64) (res dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetGuest")
	defer scope.End()
	defer scope.TraceIfError(err)

	guest, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound(msgGuestNotFound)
	}

	if err != nil {
		log.Error().Err(err).Int64("guestID", id).Msg("failed to get guest")

		return res, fmt.Errorf("failed to get guest: %w", err)
	}

	if !guest.OwnedBy(userID) {
		return res, failure.NotFound(msgGuestNotFound)
	}

	res.FromModel(guest)

	return res, nil
}
