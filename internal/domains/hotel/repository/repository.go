package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/hotel/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/logger"
	gRepo "innkeep/shared/repository"
)

type Hotel interface {
	Insert(ctx context.Context, model model.Hotel) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Hotel, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hotel, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetStats(ctx context.Context, organizationID int64) ([]model.HotelStats, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Hotel]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Hotel {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hotel](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetStats aggregates room and booking totals per owned hotel in one query so
// the dashboard never does per-hotel counting round trips.
func (repo *repositoryImpl) GetStats(ctx context.Context, organizationID int64) ([]model.HotelStats, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hotel.GetStats")
	defer scope.End()

	query := `
		SELECT h.hotel_id,
		       h.name,
		       h.address,
		       COUNT(DISTINCT r.room_id)    AS room_count,
		       COUNT(DISTINCT b.booking_id) AS booking_count
		FROM hotels h
		LEFT JOIN rooms r ON r.hotel_id = h.hotel_id
		LEFT JOIN bookings b ON b.room_id = r.room_id
		WHERE h.organization_id = $1
		GROUP BY h.hotel_id, h.name, h.address
		ORDER BY h.hotel_id`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var stats []model.HotelStats

	if err := repo.db.Read.SelectContext(ctx, &stats, query, organizationID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get hotel stats: %w", err)
	}

	return stats, nil
}
