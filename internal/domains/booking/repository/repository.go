package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/booking/model"
	guestModel "innkeep/internal/domains/guest/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/logger"
	gRepo "innkeep/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Sentinel errors surfaced from the reservation transaction. Services map
// them onto user-facing failures.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomUnavailable = errors.New("room unavailable")
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetItem(ctx context.Context, filter gDto.FilterGroup) (model.BookingListItem, error)
	GetAllItems(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingListItem, error)
	OverlapExists(ctx context.Context, roomID int64, checkIn, checkOut string, excludeBookingID int64) (bool, error)
	Reserve(ctx context.Context, booking model.Booking, newGuest *guestModel.Guest) (int64, error)
	Reschedule(ctx context.Context, booking model.Booking) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	itemRepo  gRepo.Repository[model.BookingListItem]
	guestRepo gRepo.Repository[guestModel.Guest]
	db        *postgres.Connection
	otel      otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		itemRepo:   gRepo.NewRepository[model.BookingListItem](model.EntityName+"_item", model.TableName, model.FieldID, db, otel),
		guestRepo:  gRepo.NewRepository[guestModel.Guest](guestModel.EntityName, guestModel.TableName, guestModel.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetItem(ctx context.Context, filter gDto.FilterGroup) (model.BookingListItem, error) {
	return repo.itemRepo.Get(ctx, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) GetAllItems(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingListItem, error) {
	return repo.itemRepo.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// OverlapExists answers availability probes outside any transaction. Writes
// never rely on it; Reserve and Reschedule re-check under the room row lock.
func (repo *repositoryImpl) OverlapExists(ctx context.Context, roomID int64, checkIn, checkOut string, excludeBookingID int64) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OverlapExists")
	defer scope.End()

	exists, err := repo.overlapExists(ctx, repo.db.Read, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, err
	}

	return exists, nil
}

// Reserve inserts the booking, and the guest when one is supplied, in a
// single transaction. The room row is locked first so the overlap re-check
// and the insert are serialized against concurrent reservations; the total
// price always comes from the rate read under that lock.
func (repo *repositoryImpl) Reserve(ctx context.Context, booking model.Booking, newGuest *guestModel.Guest) (id int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reserve")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to begin reservation transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Msg("failed to roll back reservation")
			}
		}
	}()

	pricePerDay, err := repo.lockRoom(ctx, tx, booking.RoomID)
	if err != nil {
		return 0, err
	}

	taken, err := repo.overlapExists(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut, 0)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, err
	}

	if taken {
		return 0, ErrRoomUnavailable
	}

	if newGuest != nil {
		guestID, gErr := repo.guestRepo.InsertTx(ctx, tx, *newGuest)
		if gErr != nil {
			err = gErr

			return 0, err
		}

		booking.GuestID = guestID
	}

	booking.TotalPrice = model.TotalPrice(pricePerDay, model.StayDays(booking.CheckIn, booking.CheckOut))

	id, err = repo.InsertTx(ctx, tx, booking)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to commit reservation: %w", err)
	}

	return id, nil
}

// Reschedule moves an existing booking under the same locking discipline as
// Reserve, excluding the booking's own interval from the overlap check.
func (repo *repositoryImpl) Reschedule(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Reschedule")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin reschedule transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Msg("failed to roll back reschedule")
			}
		}
	}()

	pricePerDay, err := repo.lockRoom(ctx, tx, booking.RoomID)
	if err != nil {
		return err
	}

	taken, err := repo.overlapExists(ctx, tx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.ID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return err
	}

	if taken {
		return ErrRoomUnavailable
	}

	update := map[string]any{
		model.FieldRoomID:          booking.RoomID,
		model.FieldCheckIn:         booking.CheckIn,
		model.FieldCheckOut:        booking.CheckOut,
		model.FieldAdults:          booking.Adults,
		model.FieldChildren:        booking.Children,
		model.FieldTotalPrice:      model.TotalPrice(pricePerDay, model.StayDays(booking.CheckIn, booking.CheckOut)),
		model.FieldSpecialRequests: booking.SpecialRequests,
		constant.FieldUpdatedAt:    booking.UpdatedAt,
	}

	if err = repo.UpdateTx(ctx, tx, update, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit reschedule: %w", err)
	}

	return nil
}

type getter interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// lockRoom takes the room row lock and returns the nightly rate read under it.
func (repo *repositoryImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, roomID int64) (float64, error) {
	var pricePerDay float64

	err := tx.GetContext(ctx, &pricePerDay, "SELECT price_per_day FROM rooms WHERE room_id = $1 FOR UPDATE", roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRoomNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to lock room: %w", err)
	}

	return pricePerDay, nil
}

func (repo *repositoryImpl) overlapExists(ctx context.Context, q getter, roomID int64, checkIn, checkOut string, excludeBookingID int64) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE room_id = $1
		  AND check_in_date < $2
		  AND check_out_date > $3
		  AND booking_id <> $4)`

	var exists bool

	if err := q.GetContext(ctx, &exists, query, roomID, checkOut, checkIn, excludeBookingID); err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}

	return exists, nil
}
