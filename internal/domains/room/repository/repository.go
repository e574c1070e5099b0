package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/room/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/logger"
	gRepo "innkeep/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetItem(ctx context.Context, filter gDto.FilterGroup) (model.RoomListItem, error)
	GetAllItems(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RoomListItem, error)
	GetTypes(ctx context.Context) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	itemRepo gRepo.Repository[model.RoomListItem]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		itemRepo:   gRepo.NewRepository[model.RoomListItem](model.EntityName+"_item", model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetItem(ctx context.Context, filter gDto.FilterGroup) (model.RoomListItem, error) {
	return repo.itemRepo.Get(ctx, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetAllItems(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RoomListItem, error) {
	return repo.itemRepo.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// GetTypes lists the distinct room type names present in the catalog.
func (repo *repositoryImpl) GetTypes(ctx context.Context) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetTypes")
	defer scope.End()

	query := "SELECT DISTINCT type_name FROM rooms ORDER BY type_name"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var types []string

	if err := repo.db.Read.SelectContext(ctx, &types, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get room types: %w", err)
	}

	return types, nil
}
