package service_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	bookingMocks "innkeep/internal/domains/booking/mocks"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/repository"
	"innkeep/internal/domains/booking/service"
	guestMocks "innkeep/internal/domains/guest/mocks"
	guestModel "innkeep/internal/domains/guest/model"
	hotelMocks "innkeep/internal/domains/hotel/mocks"
	hotelModel "innkeep/internal/domains/hotel/model"
	roomMocks "innkeep/internal/domains/room/mocks"
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
)

type bookingFixture struct {
	repo      *bookingMocks.MockBooking
	guestRepo *guestMocks.MockGuest
	roomRepo  *roomMocks.MockRoom
	hotelRepo *hotelMocks.MockHotel
	svc       service.Booking
}

func newBookingFixture(t *testing.T) bookingFixture {
	ctrl := gomock.NewController(t)

	f := bookingFixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		guestRepo: guestMocks.NewMockGuest(ctrl),
		roomRepo:  roomMocks.NewMockRoom(ctrl),
		hotelRepo: hotelMocks.NewMockHotel(ctrl),
	}

	cfg := &config.Config{}
	f.svc = service.New(f.repo, f.guestRepo, f.roomRepo, f.hotelRepo, cfg, mocks.NewOtel())

	return f
}

func ptrInt64(v int64) *int64 {
	return &v
}

func TestBookingService_Create(t *testing.T) {
	baseReq := dto.CreateBookingRequest{
		RoomID:         "5",
		CheckIn:        "2030-01-10",
		CheckOut:       "2030-01-14",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		PassportNumber: "AB123456",
		Phone:          "+100200300",
		Adults:         "2",
		Children:       "1",
	}

	t.Run("anonymous visitor books with a fresh guest", func(t *testing.T) {
		f := newBookingFixture(t)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking, newGuest *guestModel.Guest) (int64, error) {
				assert.Equal(t, int64(5), booking.RoomID)
				assert.Equal(t, 2, booking.Adults)
				assert.Equal(t, 1, booking.Children)

				if assert.NotNil(t, newGuest) {
					assert.Nil(t, newGuest.UserID)
					assert.Equal(t, "AB123456", newGuest.PassportNumber)
				}

				return 11, nil
			})

		id, err := f.svc.Create(context.Background(), baseReq, 0)

		assert.NoError(t, err)
		assert.Equal(t, int64(11), id)
	})

	t.Run("signed in visitor owns the fresh guest", func(t *testing.T) {
		f := newBookingFixture(t)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ model.Booking, newGuest *guestModel.Guest) (int64, error) {
				if assert.NotNil(t, newGuest) && assert.NotNil(t, newGuest.UserID) {
					assert.Equal(t, int64(7), *newGuest.UserID)
				}

				return 12, nil
			})

		_, err := f.svc.Create(context.Background(), baseReq, 7)

		assert.NoError(t, err)
	})

	t.Run("booking against an owned saved guest", func(t *testing.T) {
		f := newBookingFixture(t)

		req := baseReq
		req.GuestID = "3"

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.guestRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(guestModel.Guest{ID: 3, UserID: ptrInt64(7)}, nil)

		f.repo.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, booking model.Booking, _ *guestModel.Guest) (int64, error) {
				assert.Equal(t, int64(3), booking.GuestID)

				return 13, nil
			})

		_, err := f.svc.Create(context.Background(), req, 7)

		assert.NoError(t, err)
	})

	t.Run("anonymous booking against an existing guest", func(t *testing.T) {
		f := newBookingFixture(t)

		req := baseReq
		req.GuestID = "3"

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.guestRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(guestModel.Guest{ID: 3, UserID: ptrInt64(5)}, nil)

		f.repo.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, booking model.Booking, _ *guestModel.Guest) (int64, error) {
				assert.Equal(t, int64(3), booking.GuestID)

				return 14, nil
			})

		_, err := f.svc.Create(context.Background(), req, 0)

		assert.NoError(t, err)
	})

	t.Run("someone else's guest reads as not found", func(t *testing.T) {
		f := newBookingFixture(t)

		req := baseReq
		req.GuestID = "3"

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.guestRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(guestModel.Guest{ID: 3, UserID: ptrInt64(99)}, nil)

		_, err := f.svc.Create(context.Background(), req, 7)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
		assert.Equal(t, "guest not found", failure.GetMessage(err))
	})

	t.Run("missing guest reads the same as someone else's", func(t *testing.T) {
		f := newBookingFixture(t)

		req := baseReq
		req.GuestID = "3"

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.guestRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(guestModel.Guest{}, sql.ErrNoRows)

		_, err := f.svc.Create(context.Background(), req, 7)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
		assert.Equal(t, "guest not found", failure.GetMessage(err))
	})

	t.Run("reversed dates never reach the database", func(t *testing.T) {
		f := newBookingFixture(t)

		req := baseReq
		req.CheckIn = "2030-01-14"
		req.CheckOut = "2030-01-10"

		_, err := f.svc.Create(context.Background(), req, 0)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("past check-in is rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		req := baseReq
		req.CheckIn = "2001-01-10"
		req.CheckOut = "2001-01-14"

		_, err := f.svc.Create(context.Background(), req, 0)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newBookingFixture(t)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := f.svc.Create(context.Background(), baseReq, 0)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
		assert.Equal(t, "room not found", failure.GetMessage(err))
	})

	t.Run("occupied room comes back as a conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), repository.ErrRoomUnavailable)

		_, err := f.svc.Create(context.Background(), baseReq, 0)

		assert.True(t, failure.IsCode(err, http.StatusConflict))
	})
}

func TestBookingService_Probe(t *testing.T) {
	t.Run("free room probes as available", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			OverlapExists(gomock.Any(), int64(5), "2030-01-10", "2030-01-14", int64(0)).
			Return(false, nil)

		available, err := f.svc.Probe(context.Background(), 5, "2030-01-10", "2030-01-14")

		assert.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("occupied room probes as unavailable", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			OverlapExists(gomock.Any(), int64(5), "2030-01-10", "2030-01-14", int64(0)).
			Return(true, nil)

		available, err := f.svc.Probe(context.Background(), 5, "2030-01-10", "2030-01-14")

		assert.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("reversed dates fail before the query", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Probe(context.Background(), 5, "2030-01-14", "2030-01-10")

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})
}

func TestBookingService_Get(t *testing.T) {
	item := model.BookingListItem{
		ID:                  21,
		RoomID:              5,
		CheckIn:             "2030-01-10",
		CheckOut:            "2030-01-14",
		GuestFirstName:      "Ada",
		GuestLastName:       "Lovelace",
		GuestOwnerID:        ptrInt64(7),
		HotelOrganizationID: ptrInt64(40),
	}

	t.Run("guest owner can view and cancel", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		res, err := f.svc.Get(context.Background(), 21, 7, constant.UserKindIndividual)

		assert.NoError(t, err)
		assert.True(t, res.CanCancel)
		assert.False(t, res.CanEdit)
		assert.Equal(t, 4, res.Days)
	})

	t.Run("owning organization can view and edit", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		res, err := f.svc.Get(context.Background(), 21, 40, constant.UserKindOrganization)

		assert.NoError(t, err)
		assert.True(t, res.CanEdit)
		assert.False(t, res.CanCancel)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		_, err := f.svc.Get(context.Background(), 21, 8, constant.UserKindIndividual)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(model.BookingListItem{}, sql.ErrNoRows)

		_, err := f.svc.Get(context.Background(), 21, 7, constant.UserKindIndividual)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}

func TestBookingService_Update(t *testing.T) {
	item := model.BookingListItem{
		ID:                  21,
		RoomID:              5,
		GuestOwnerID:        ptrInt64(7),
		HotelOrganizationID: ptrInt64(40),
	}

	req := dto.UpdateBookingRequest{
		RoomID:   "5",
		CheckIn:  "2030-02-01",
		CheckOut: "2030-02-03",
		Adults:   "2",
	}

	t.Run("owning organization reschedules", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		f.repo.EXPECT().
			Reschedule(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				assert.Equal(t, int64(21), booking.ID)
				assert.Equal(t, "2030-02-01", booking.CheckIn)

				return nil
			})

		err := f.svc.Update(context.Background(), req, 21, 40)

		assert.NoError(t, err)
	})

	t.Run("foreign organization is denied", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		err := f.svc.Update(context.Background(), req, 21, 41)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("move to a room of another organization is denied", func(t *testing.T) {
		f := newBookingFixture(t)

		moved := req
		moved.RoomID = "9"

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		f.roomRepo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(roomModel.RoomListItem{ID: 9, HotelOrganizationID: ptrInt64(41)}, nil)

		err := f.svc.Update(context.Background(), moved, 21, 40)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("conflicting reschedule comes back as conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		f.repo.EXPECT().
			Reschedule(gomock.Any(), gomock.Any()).
			Return(repository.ErrRoomUnavailable)

		err := f.svc.Update(context.Background(), req, 21, 40)

		assert.True(t, failure.IsCode(err, http.StatusConflict))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	item := model.BookingListItem{
		ID:           21,
		GuestOwnerID: ptrInt64(7),
	}

	t.Run("guest owner cancels", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		f.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.Cancel(context.Background(), 21, 7)

		assert.NoError(t, err)
	})

	t.Run("anyone else is denied", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(item, nil)

		err := f.svc.Cancel(context.Background(), 21, 8)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})
}

func TestBookingService_ListForHotel(t *testing.T) {
	t.Run("owner lists a hotel's bookings", func(t *testing.T) {
		f := newBookingFixture(t)

		f.hotelRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: 3, OrganizationID: 40}, nil)

		f.repo.EXPECT().
			GetAllItems(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.BookingListItem{{ID: 21}}, nil)

		res, err := f.svc.ListForHotel(context.Background(), 3, 40)

		assert.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
	})

	t.Run("foreign hotel is denied", func(t *testing.T) {
		f := newBookingFixture(t)

		f.hotelRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: 3, OrganizationID: 41}, nil)

		_, err := f.svc.ListForHotel(context.Background(), 3, 40)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})
}

func TestBookingService_MapReserveErrors(t *testing.T) {
	f := newBookingFixture(t)

	f.roomRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil).
		Times(2)

	f.repo.EXPECT().
		Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), repository.ErrRoomNotFound)

	req := dto.CreateBookingRequest{
		RoomID:         "5",
		CheckIn:        "2030-01-10",
		CheckOut:       "2030-01-14",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		PassportNumber: "AB123456",
		Phone:          "+100200300",
	}

	_, err := f.svc.Create(context.Background(), req, 0)
	assert.True(t, failure.IsCode(err, http.StatusNotFound))

	f.repo.EXPECT().
		Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("connection reset"))

	_, err = f.svc.Create(context.Background(), req, 0)
	assert.Error(t, err)
	assert.False(t, failure.IsCode(err, http.StatusNotFound))
	assert.False(t, failure.IsCode(err, http.StatusConflict))
}
