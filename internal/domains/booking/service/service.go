package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/repository"
	guestModel "innkeep/internal/domains/guest/model"
	guestRepo "innkeep/internal/domains/guest/repository"
	hotelModel "innkeep/internal/domains/hotel/model"
	hotelRepo "innkeep/internal/domains/hotel/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	msgGuestNotFound   = "guest not found"
	msgRoomNotFound    = "room not found"
	msgBookingNotFound = "booking not found"
	msgRoomUnavailable = "room is not available for the selected dates"
)

type Booking interface {
	Probe(ctx context.Context, roomID int64, checkIn, checkOut string) (bool, error)
	Create(ctx context.Context, req dto.CreateBookingRequest, userID int64) (int64, error)
	Get(ctx context.Context, id, actorID int64, actorKind string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, bookingID, organizationID int64) error
	Cancel(ctx context.Context, bookingID, userID int64) error
	ListForUser(ctx context.Context, userID int64, search string) (dto.GetBookingsResponse, error)
	ListForOrganization(ctx context.Context, organizationID int64, search string) (dto.GetBookingsResponse, error)
	ListForHotel(ctx context.Context, hotelID, organizationID int64) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	guestRepo guestRepo.Guest
	roomRepo  roomRepo.Room
	hotelRepo hotelRepo.Hotel
	cfg       *config.Config
	otel      otel.Otel
}

func New(repo repository.Booking, guestRepo guestRepo.Guest, roomRepo roomRepo.Room, hotelRepo hotelRepo.Hotel, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:      repo,
		guestRepo: guestRepo,
		roomRepo:  roomRepo,
		hotelRepo: hotelRepo,
		cfg:       cfg,
		otel:      otel,
	}
}

// Probe answers an availability question with no side effects. Reservation
// paths never trust it; they re-check under the room lock.
func (s *serviceImpl) Probe(ctx context.Context, roomID int64, checkIn, checkOut string) (available bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ProbeBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateStayOrder(checkIn, checkOut); err != nil {
		return false, err
	}

	taken, err := s.repo.OverlapExists(ctx, roomID, checkIn, checkOut, 0)
	if err != nil {
		log.Error().Err(err).Int64("roomID", roomID).Msg("failed to probe availability")

		return false, fmt.Errorf("failed to probe availability: %w", err)
	}

	return !taken, nil
}

// Create validates everything before touching the database, then hands the
// write to the repository's single reservation transaction. A guest row is
// only ever created together with its booking.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, userID int64) (id int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	roomID, ok := shared.ParseID(req.RoomID)
	if !ok {
		return 0, failure.NotFound(msgRoomNotFound)
	}

	if err = validateStay(req.CheckIn, req.CheckOut); err != nil {
		return 0, err
	}

	exists, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Int64("roomID", roomID).Msg("failed to check room")

		return 0, fmt.Errorf("failed to check room: %w", err)
	}

	if !exists {
		return 0, failure.NotFound(msgRoomNotFound)
	}

	booking := model.Booking{
		RoomID:          roomID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Adults:          req.AdultsCount(),
		Children:        req.ChildrenCount(),
		SpecialRequests: req.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now(),
			UpdatedAt: timezone.Now(),
		},
	}

	var newGuest *guestModel.Guest

	if req.GuestID != "" {
		guestID, err := s.resolveGuest(ctx, req.GuestID, userID)
		if err != nil {
			return 0, err
		}

		booking.GuestID = guestID
	} else {
		var ownerID *int64
		if userID > 0 {
			ownerID = &userID
		}

		guest := req.ToGuestModel(ownerID)
		newGuest = &guest
	}

	id, err = s.repo.Reserve(ctx, booking, newGuest)
	if err != nil {
		return 0, s.mapReserveError(err, "failed to create booking")
	}

	return id, nil
}

func (s *serviceImpl) Get(ctx context.Context, id, actorID int64, actorKind string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.getItem(ctx, id)
	if err != nil {
		return res, err
	}

	canCancel := item.GuestOwnedBy(actorID)
	canEdit := actorKind == constant.UserKindOrganization && item.HotelOwnedBy(actorID)

	if !canCancel && !canEdit {
		return res, failure.ErrAccessDenied
	}

	res.FromModel(item)
	res.CanCancel = canCancel
	res.CanEdit = canEdit

	return res, nil
}

// Update reschedules a booking. Only the organization owning the booked
// room's hotel may do this, and a replacement room must stay inside that
// organization's inventory.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, bookingID, organizationID int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.getItem(ctx, bookingID)
	if err != nil {
		return err
	}

	if !item.HotelOwnedBy(organizationID) {
		return failure.ErrAccessDenied
	}

	roomID, ok := shared.ParseID(req.RoomID)
	if !ok {
		return failure.NotFound(msgRoomNotFound)
	}

	if err = validateStay(req.CheckIn, req.CheckOut); err != nil {
		return err
	}

	if roomID != item.RoomID {
		room, rErr := s.roomRepo.GetItem(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
		if errors.Is(rErr, sql.ErrNoRows) {
			return failure.NotFound(msgRoomNotFound)
		}

		if rErr != nil {
			log.Error().Err(rErr).Int64("roomID", roomID).Msg("failed to get room")

			return fmt.Errorf("failed to get room: %w", rErr)
		}

		if !room.OwnedBy(organizationID) {
			return failure.ErrAccessDenied
		}
	}

	booking := model.Booking{
		ID:              bookingID,
		RoomID:          roomID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Adults:          req.AdultsCount(),
		Children:        req.ChildrenCount(),
		SpecialRequests: req.SpecialRequests,
		Metadata: gModel.Metadata{
			UpdatedAt: timezone.Now(),
		},
	}

	if err = s.repo.Reschedule(ctx, booking); err != nil {
		return s.mapReserveError(err, "failed to update booking")
	}

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, bookingID, userID int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.getItem(ctx, bookingID)
	if err != nil {
		return err
	}

	if !item.GuestOwnedBy(userID) {
		return failure.ErrAccessDenied
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("bookingID", bookingID).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	return nil
}

func (s *serviceImpl) ListForUser(ctx context.Context, userID int64, search string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookingsForUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    guestModel.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    guestModel.TableName,
			},
		},
	}

	return s.list(ctx, filter, search)
}

func (s *serviceImpl) ListForOrganization(ctx context.Context, organizationID int64, search string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookingsForOrganization")
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

	return s.list(ctx, filter, search)
}

func (s *serviceImpl) ListForHotel(ctx context.Context, hotelID, organizationID int64) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookingsForHotel")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotel, err := s.hotelRepo.Get(ctx, shared.FilterByID(hotelID, hotelModel.FieldID, hotelModel.TableName))
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

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    hotelID,
				Table:    roomModel.TableName,
			},
		},
	}

	return s.list(ctx, filter, "")
}

func (s *serviceImpl) list(ctx context.Context, filter gDto.FilterGroup, search string) (res dto.GetBookingsResponse, err error) {
	if search != "" {
		filter.Filters = append(filter.Filters, shared.SearchFilter(search,
			guestModel.TableName+"."+guestModel.FieldFirstName,
			guestModel.TableName+"."+guestModel.FieldLastName,
			roomModel.TableName+"."+roomModel.FieldNumber,
			roomModel.TableName+"."+roomModel.FieldName,
		))
	}

	items, err := s.repo.GetAllItems(ctx, gDto.QueryParams{}.Sorted(model.TableName+"."+model.FieldCheckIn, gDto.SortDirDesc), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(items)
	res.Search = search

	return res, nil
}

func (s *serviceImpl) getItem(ctx context.Context, id int64) (model.BookingListItem, error) {
	item, err := s.repo.GetItem(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return item, failure.NotFound(msgBookingNotFound)
	}

	if err != nil {
		log.Error().Err(err).Int64("bookingID", id).Msg("failed to get booking")

		return item, fmt.Errorf("failed to get booking: %w", err)
	}

	return item, nil
}

// resolveGuest maps every unusable guest id, whether absent, missing or owned
// by someone else, onto the same answer. Ownership is only enforced for
// signed-in users; anonymous bookings may reference any existing guest.
func (s *serviceImpl) resolveGuest(ctx context.Context, rawID string, userID int64) (int64, error) {
	guestID, ok := shared.ParseID(rawID)
	if !ok {
		return 0, failure.NotFound(msgGuestNotFound)
	}

	guest, err := s.guestRepo.Get(ctx, shared.FilterByID(guestID, guestModel.FieldID, guestModel.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, failure.NotFound(msgGuestNotFound)
	}

	if err != nil {
		log.Error().Err(err).Int64("guestID", guestID).Msg("failed to get guest")

		return 0, fmt.Errorf("failed to get guest: %w", err)
	}

	if userID > 0 && !guest.OwnedBy(userID) {
		return 0, failure.NotFound(msgGuestNotFound)
	}

	return guestID, nil
}

func (s *serviceImpl) mapReserveError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return failure.NotFound(msgRoomNotFound)
	case errors.Is(err, repository.ErrRoomUnavailable):
		return failure.Conflict(msgRoomUnavailable)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		return failure.Conflict("passport number already registered")
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func validateStayOrder(checkIn, checkOut string) error {
	if _, err := time.Parse(constant.StayDateFormat, checkIn); err != nil {
		return failure.BadRequestFromString("check-in date must be in YYYY-MM-DD format")
	}

	if _, err := time.Parse(constant.StayDateFormat, checkOut); err != nil {
		return failure.BadRequestFromString("check-out date must be in YYYY-MM-DD format")
	}

	if checkIn >= checkOut {
		return failure.BadRequestFromString("check-out date must be after check-in date")
	}

	return nil
}

func validateStay(checkIn, checkOut string) error {
	if err := validateStayOrder(checkIn, checkOut); err != nil {
		return err
	}

	if checkIn < timezone.Today(constant.StayDateFormat) {
		return failure.BadRequestFromString("check-in date cannot be in the past")
	}

	return nil
}
