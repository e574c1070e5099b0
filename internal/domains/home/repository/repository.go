package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/home/model"
	"innkeep/shared/constant"
	"innkeep/shared/logger"
)

type Home interface {
	GetStats(ctx context.Context) (model.HomeStats, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Home {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (repo *repositoryImpl) GetStats(ctx context.Context) (model.HomeStats, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".home.GetStats")
	defer scope.End()

	query := `SELECT
		(SELECT COUNT(*) FROM rooms)    AS room_count,
		(SELECT COUNT(*) FROM guests)   AS guest_count,
		(SELECT COUNT(*) FROM bookings) AS booking_count`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var stats model.HomeStats

	if err := repo.db.Read.GetContext(ctx, &stats, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return stats, fmt.Errorf("failed to get home stats: %w", err)
	}

	return stats, nil
}
