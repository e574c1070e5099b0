package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	hotelMocks "innkeep/internal/domains/hotel/mocks"
	hotelModel "innkeep/internal/domains/hotel/model"
	roomMocks "innkeep/internal/domains/room/mocks"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/service"
	"innkeep/shared/cache"
	"innkeep/shared/failure"
)

// stubCache is a deliberately dumb RedisCache: it always misses and swallows
// writes, including the ones the service fires from background goroutines.
type stubCache struct {
	mu sync.Mutex
}

func (s *stubCache) Save(_ context.Context, _ string, _ any, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return nil
}

func (s *stubCache) Get(_ context.Context, _ string, _ any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cache.Nil
}

func (s *stubCache) Delete(_ context.Context, _ string) error {
	return nil
}

func (s *stubCache) Clear(_ context.Context, _ string) error {
	return nil
}

type roomFixture struct {
	repo      *roomMocks.MockRoom
	hotelRepo *hotelMocks.MockHotel
	svc       service.Room
}

func newRoomFixture(t *testing.T) roomFixture {
	ctrl := gomock.NewController(t)

	f := roomFixture{
		repo:      roomMocks.NewMockRoom(ctrl),
		hotelRepo: hotelMocks.NewMockHotel(ctrl),
	}

	f.svc = service.New(f.repo, f.hotelRepo, &config.Config{}, &stubCache{}, mocks.NewOtel())

	return f
}

func ptrInt64(v int64) *int64 {
	return &v
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{
		Number:      "204",
		Name:        "Garden View",
		TypeName:    "double",
		PricePerDay: "120.50",
	}

	t.Run("owner adds a room to their hotel", func(t *testing.T) {
		f := newRoomFixture(t)

		f.hotelRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: 3, OrganizationID: 40}, nil)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) (int64, error) {
				assert.Equal(t, 120.50, room.PricePerDay)

				if assert.NotNil(t, room.HotelID) {
					assert.Equal(t, int64(3), *room.HotelID)
				}

				return 9, nil
			})

		id, err := f.svc.Create(context.Background(), req, 3, 40)

		assert.NoError(t, err)
		assert.Equal(t, int64(9), id)
	})

	t.Run("foreign hotel is denied", func(t *testing.T) {
		f := newRoomFixture(t)

		f.hotelRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: 3, OrganizationID: 41}, nil)

		_, err := f.svc.Create(context.Background(), req, 3, 40)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("non-positive price is rejected", func(t *testing.T) {
		f := newRoomFixture(t)

		bad := req
		bad.PricePerDay = "-10"

		f.hotelRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: 3, OrganizationID: 40}, nil)

		_, err := f.svc.Create(context.Background(), bad, 3, 40)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})
}

func TestRoomService_Update(t *testing.T) {
	req := dto.UpdateRoomRequest{
		Number:      "204",
		Name:        "Garden View",
		TypeName:    "double",
		PricePerDay: "150",
	}

	owned := model.RoomListItem{ID: 9, HotelOrganizationID: ptrInt64(40)}

	t.Run("owner updates", func(t *testing.T) {
		f := newRoomFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(owned, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ any) error {
				assert.Equal(t, 150.0, update[model.FieldPricePerDay])

				return nil
			})

		err := f.svc.Update(context.Background(), req, 9, 40)

		assert.NoError(t, err)
	})

	t.Run("foreign organization is denied", func(t *testing.T) {
		f := newRoomFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(owned, nil)

		err := f.svc.Update(context.Background(), req, 9, 41)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("catalog room without a hotel is untouchable", func(t *testing.T) {
		f := newRoomFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(model.RoomListItem{ID: 9}, nil)

		err := f.svc.Update(context.Background(), req, 9, 40)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("missing room", func(t *testing.T) {
		f := newRoomFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(model.RoomListItem{}, sql.ErrNoRows)

		err := f.svc.Update(context.Background(), req, 9, 40)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		f := newRoomFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(model.RoomListItem{ID: 9, HotelOrganizationID: ptrInt64(40)}, nil)

		f.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.Delete(context.Background(), 9, 40)

		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newRoomFixture(t)

		f.repo.EXPECT().
			GetItem(gomock.Any(), gomock.Any()).
			Return(model.RoomListItem{ID: 9, HotelOrganizationID: ptrInt64(40)}, nil)

		err := f.svc.Delete(context.Background(), 9, 41)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})
}

func TestRoomService_List(t *testing.T) {
	f := newRoomFixture(t)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Room{
			{ID: 1, Name: "Garden View", TypeName: "double", PricePerDay: 120},
			{ID: 2, Name: "Sea View", TypeName: "suite", PricePerDay: 300},
		}, nil)

	f.repo.EXPECT().
		GetTypes(gomock.Any()).
		Return([]string{"double", "suite"}, nil)

	res, err := f.svc.List(context.Background(), "")

	assert.NoError(t, err)
	assert.Len(t, res.Rooms, 2)
	assert.Equal(t, []string{"double", "suite"}, res.Types)
}
