package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/otel/mocks"
	guestMocks "innkeep/internal/domains/guest/mocks"
	"innkeep/internal/domains/guest/model"
	"innkeep/internal/domains/guest/model/dto"
	"innkeep/internal/domains/guest/service"
	"innkeep/shared/failure"
)

func newGuestFixture(t *testing.T) (*guestMocks.MockGuest, service.Guest) {
	ctrl := gomock.NewController(t)
	mockRepo := guestMocks.NewMockGuest(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	return mockRepo, svc
}

func ptrInt64(v int64) *int64 {
	return &v
}

func TestGuestService_Create(t *testing.T) {
	req := dto.CreateGuestRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		PassportNumber: "AB123456",
		Phone:          "+100200300",
	}

	t.Run("the caller becomes the guest owner", func(t *testing.T) {
		mockRepo, svc := newGuestFixture(t)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, guest model.Guest) (int64, error) {
				if assert.NotNil(t, guest.UserID) {
					assert.Equal(t, int64(7), *guest.UserID)
				}

				return 3, nil
			})

		id, err := svc.Create(context.Background(), req, 7)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), id)
	})

	t.Run("duplicate passport number is a conflict", func(t *testing.T) {
		mockRepo, svc := newGuestFixture(t)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(int64(0), &pq.Error{Code: "23505"})

		_, err := svc.Create(context.Background(), req, 7)

		assert.True(t, failure.IsCode(err, http.StatusConflict))
		assert.Equal(t, "passport number already registered", failure.GetMessage(err))
	})
}

func TestGuestService_Get(t *testing.T) {
	t.Run("owner reads their guest", func(t *testing.T) {
		mockRepo, svc := newGuestFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Guest{ID: 3, UserID: ptrInt64(7), FirstName: "Ada"}, nil)

		res, err := svc.Get(context.Background(), 3, 7)

		assert.NoError(t, err)
		assert.Equal(t, "Ada", res.FirstName)
	})

	t.Run("missing guest and foreign guest are indistinguishable", func(t *testing.T) {
		mockRepo, svc := newGuestFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Guest{}, sql.ErrNoRows)

		_, errMissing := svc.Get(context.Background(), 3, 7)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Guest{ID: 3, UserID: ptrInt64(99)}, nil)

		_, errForeign := svc.Get(context.Background(), 3, 7)

		assert.True(t, failure.IsCode(errMissing, http.StatusNotFound))
		assert.True(t, failure.IsCode(errForeign, http.StatusNotFound))
		assert.Equal(t, failure.GetMessage(errMissing), failure.GetMessage(errForeign))
	})

	t.Run("anonymous guest rows belong to nobody", func(t *testing.T) {
		mockRepo, svc := newGuestFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Guest{ID: 3}, nil)

		_, err := svc.Get(context.Background(), 3, 7)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}

func TestGuestService_List(t *testing.T) {
	mockRepo, svc := newGuestFixture(t)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Guest{
			{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
			{ID: 2, FirstName: "Grace", LastName: "Hopper"},
		}, nil)

	res, err := svc.List(context.Background(), 7, "lovel")

	assert.NoError(t, err)
	assert.Len(t, res.Guests, 2)
	assert.Equal(t, "lovel", res.Search)
}
