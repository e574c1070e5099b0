package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/otel/mocks"
	"innkeep/internal/domains/auth/model/dto"
	"innkeep/internal/domains/auth/service"
	userMocks "innkeep/internal/domains/user/mocks"
	userModel "innkeep/internal/domains/user/model"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/password"
)

func newAuthFixture(t *testing.T) (*userMocks.MockUser, service.Auth) {
	ctrl := gomock.NewController(t)
	mockRepo := userMocks.NewMockUser(ctrl)

	cfg := &config.Config{}
	cfg.App.Name = "innkeep-test"
	cfg.Session.Secret = "test-secret"
	cfg.Session.ExpireMin = 60

	svc := service.New(mockRepo, cfg, mocks.NewOtel(), jwt.New(cfg))

	return mockRepo, svc
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "+100200300",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
		Kind:            constant.UserKindIndividual,
	}

	t.Run("creates the account and signs in", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) (int64, error) {
				assert.Equal(t, "ada@example.com", user.Email)
				assert.NotEqual(t, "s3cret-pass", user.Password)
				assert.NoError(t, password.Verify("s3cret-pass", user.Password))

				return 7, nil
			})

		res, err := svc.Register(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), res.UserID)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, constant.UserKindIndividual, res.Kind)
	})

	t.Run("rejects an email that is already registered", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := svc.Register(context.Background(), req)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
		assert.Equal(t, "email already registered", failure.GetMessage(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.Hash("s3cret-pass")
	assert.NoError(t, err)

	stored := userModel.User{
		ID:       7,
		Email:    "ada@example.com",
		Password: hashed,
		Kind:     constant.UserKindIndividual,
	}

	t.Run("valid credentials produce a session", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		res, err := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), res.UserID)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password and unknown email read identically", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		_, errWrongPass := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "ada@example.com",
			Password: "not-the-password",
		})

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, sql.ErrNoRows)

		_, errNoUser := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "s3cret-pass",
		})

		assert.True(t, failure.IsCode(errWrongPass, http.StatusBadRequest))
		assert.True(t, failure.IsCode(errNoUser, http.StatusBadRequest))
		assert.Equal(t, failure.GetMessage(errWrongPass), failure.GetMessage(errNoUser))
	})
}

func TestAuthService_Profile(t *testing.T) {
	t.Run("missing account reads as not found", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, sql.ErrNoRows)

		_, err := svc.Profile(context.Background(), 7)

		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})

	t.Run("returns the stored profile", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{ID: 7, FullName: "Ada Lovelace", Email: "ada@example.com"}, nil)

		res, err := svc.Profile(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", res.FullName)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hashed, err := password.Hash("old-pass")
	assert.NoError(t, err)

	stored := userModel.User{ID: 7, Password: hashed}

	t.Run("verifies the current password first", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "wrong-pass",
			NewPassword:     "new-pass",
			ConfirmPassword: "new-pass",
		}, 7)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("stores a fresh hash of the new password", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ any) error {
				newHash, ok := req[userModel.FieldPassword].(string)
				assert.True(t, ok)
				assert.NoError(t, password.Verify("new-pass", newHash))

				return nil
			})

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "old-pass",
			NewPassword:     "new-pass",
			ConfirmPassword: "new-pass",
		}, 7)

		assert.NoError(t, err)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	stored := userModel.User{
		ID:       7,
		FullName: "Ada Lovelace",
		Phone:    "+100200300",
		Email:    "ada@example.com",
		Kind:     constant.UserKindIndividual,
	}

	req := dto.UpdateProfileRequest{
		FullName: "Ada King",
		Phone:    "+100200301",
		Email:    "ada.king@example.com",
	}

	t.Run("updates the account and re-issues the session token", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "Ada King", fields[userModel.FieldFullName])
				assert.Equal(t, "ada.king@example.com", fields[userModel.FieldEmail])
				assert.NotContains(t, fields, userModel.FieldOrganizationName)

				return nil
			})

		res, err := svc.UpdateProfile(context.Background(), req, 7)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.Token)

		cfg := &config.Config{}
		cfg.App.Name = "innkeep-test"
		cfg.Session.Secret = "test-secret"
		cfg.Session.ExpireMin = 60

		claims, err := jwt.New(cfg).Validate(res.Token)
		assert.NoError(t, err)
		assert.Equal(t, "ada.king@example.com", claims.Email)
	})

	t.Run("rejects a new email that is already registered", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := svc.UpdateProfile(context.Background(), req, 7)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
		assert.Equal(t, "email already registered", failure.GetMessage(err))
	})

	t.Run("keeping the same email skips the duplicate check", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(stored, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		same := req
		same.Email = stored.Email

		_, err := svc.UpdateProfile(context.Background(), same, 7)

		assert.NoError(t, err)
	})

	t.Run("organizations must keep an organization name", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		orgName := "Grand Hotels"
		org := stored
		org.Kind = constant.UserKindOrganization
		org.OrganizationName = &orgName

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(org, nil)

		_, err := svc.UpdateProfile(context.Background(), req, 7)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("organizations can rename themselves", func(t *testing.T) {
		mockRepo, svc := newAuthFixture(t)

		orgName := "Grand Hotels"
		org := stored
		org.Kind = constant.UserKindOrganization
		org.OrganizationName = &orgName

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(org, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "Grander Hotels", fields[userModel.FieldOrganizationName])

				return nil
			})

		renamed := req
		renamed.Email = org.Email
		renamed.OrganizationName = "Grander Hotels"

		_, err := svc.UpdateProfile(context.Background(), renamed, 7)

		assert.NoError(t, err)
	})
}
