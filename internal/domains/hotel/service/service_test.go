package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	hotelMocks "innkeep/internal/domains/hotel/mocks"
	"innkeep/internal/domains/hotel/model"
	"innkeep/internal/domains/hotel/model/dto"
	"innkeep/internal/domains/hotel/service"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
)

// missCache always misses and swallows the background writes.
type missCache struct{}

func (missCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (missCache) Get(_ context.Context, _ string, _ any) error        { return cache.Nil }
func (missCache) Delete(_ context.Context, _ string) error            { return nil }
func (missCache) Clear(_ context.Context, _ string) error             { return nil }

func newHotelFixture(t *testing.T) (*hotelMocks.MockHotel, service.Hotel) {
	ctrl := gomock.NewController(t)
	mockRepo := hotelMocks.NewMockHotel(ctrl)

	svc := service.New(mockRepo, &config.Config{}, missCache{}, mocks.NewOtel())

	return mockRepo, svc
}

func TestHotelService_Create(t *testing.T) {
	req := dto.CreateHotelRequest{
		Name:    "Grand Plaza",
		Address: "1 Plaza Way",
	}

	t.Run("organization creates a hotel", func(t *testing.T) {
		mockRepo, svc := newHotelFixture(t)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, hotel model.Hotel) (int64, error) {
				assert.Equal(t, int64(40), hotel.OrganizationID)
				assert.Equal(t, "Grand Plaza", hotel.Name)

				return 3, nil
			})

		id, err := svc.Create(context.Background(), req, 40, constant.UserKindOrganization)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), id)
	})

	t.Run("individual accounts cannot create hotels", func(t *testing.T) {
		_, svc := newHotelFixture(t)

		_, err := svc.Create(context.Background(), req, 7, constant.UserKindIndividual)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})
}

func TestHotelService_GetOwned(t *testing.T) {
	t.Run("owner reads their hotel", func(t *testing.T) {
		mockRepo, svc := newHotelFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Hotel{ID: 3, OrganizationID: 40, Name: "Grand Plaza"}, nil)

		res, err := svc.GetOwned(context.Background(), 3, 40)

		assert.NoError(t, err)
		assert.Equal(t, "Grand Plaza", res.Name)
	})

	t.Run("foreign hotel is denied", func(t *testing.T) {
		mockRepo, svc := newHotelFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Hotel{ID: 3, OrganizationID: 41}, nil)

		_, err := svc.GetOwned(context.Background(), 3, 40)

		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("missing hotel", func(t *testing.T) {
		mockRepo, svc := newHotelFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Hotel{}, sql.ErrNoRows)

		_, err := svc.GetOwned(context.Background(), 3, 40)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}

func TestHotelService_Dashboard(t *testing.T) {
	mockRepo, svc := newHotelFixture(t)

	mockRepo.EXPECT().
		GetStats(gomock.Any(), int64(40)).
		Return([]model.HotelStats{
			{ID: 3, Name: "Grand Plaza", RoomCount: 12, BookingCount: 30},
			{ID: 4, Name: "Harbor Inn", RoomCount: 8, BookingCount: 5},
		}, nil)

	res, err := svc.Dashboard(context.Background(), 40)

	assert.NoError(t, err)
	assert.Len(t, res.Hotels, 2)
	assert.Equal(t, 20, res.TotalRooms)
	assert.Equal(t, 35, res.TotalBookings)
}
