package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/otel"
	"innkeep/internal/domains/auth/model/dto"
	userModel "innkeep/internal/domains/user/model"
	userRepo "innkeep/internal/domains/user/repository"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/password"
	"innkeep/shared/timezone"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.SessionResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.SessionResponse, error)
	Profile(ctx context.Context, userID int64) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, userID int64) (dto.SessionResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID int64) error
}

type serviceImpl struct {
	userRepo userRepo.User
	cfg      *config.Config
	otel     otel.Otel
	session  jwt.Session
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, session jwt.Session) Auth {
	return &serviceImpl{
		userRepo: userRepo,
		cfg:      cfg,
		otel:     otel,
		session:  session,
	}
}

// Register creates the account and signs the caller in immediately.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if account exists")

		return res, fmt.Errorf("failed to check if account exists: %w", err)
	}

	if exists {
		return res, failure.BadRequestFromString("email already registered")
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.userRepo.Insert(ctx, req.ToUserModel(hashedPassword))
	if err != nil {
		log.Error().Err(err).Msg("failed to create account")

		return res, fmt.Errorf("failed to create account: %w", err)
	}

	token, expiresAt, err := s.session.Generate(userID, req.Email, req.Kind)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session token")

		return res, fmt.Errorf("failed to generate session token: %w", err)
	}

	return dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    userID,
		Kind:      req.Kind,
	}, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	token, expiresAt, err := s.session.Generate(user.ID, user.Email, user.Kind)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session token")

		return res, fmt.Errorf("failed to generate session token: %w", err)
	}

	return dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Kind:      user.Kind,
	}, nil
}

func (s *serviceImpl) Profile(ctx context.Context, userID int64) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Profile")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("account not found")
	}

	if err != nil {
		log.Error().Err(err).Int64("userID", userID).Msg("failed to get account")

		return res, fmt.Errorf("failed to get account: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

// UpdateProfile edits the account's name, phone, email and, for
// organizations, the organization name. The session token carries the email,
// so a successful update re-issues it.
func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, userID int64) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("account not found")
	}

	if err != nil {
		log.Error().Err(err).Int64("userID", userID).Msg("failed to get account")

		return res, fmt.Errorf("failed to get account: %w", err)
	}

	if user.IsOrganization() && req.OrganizationName == "" {
		return res, failure.BadRequestFromString("organization name is required")
	}

	if !user.IsOrganization() {
		req.OrganizationName = ""
	}

	if req.Email != user.Email {
		exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if account exists")

			return res, fmt.Errorf("failed to check if account exists: %w", err)
		}

		if exists {
			return res, failure.BadRequestFromString("email already registered")
		}
	}

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	if err = s.userRepo.Update(ctx, shared.TransformFields(req), filter); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return res, failure.BadRequestFromString("email already registered")
		}

		log.Error().Err(err).Int64("userID", userID).Msg("failed to update profile")

		return res, fmt.Errorf("failed to update profile: %w", err)
	}

	token, expiresAt, err := s.session.Generate(userID, req.Email, user.Kind)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session token")

		return res, fmt.Errorf("failed to generate session token: %w", err)
	}

	return dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    userID,
		Kind:      user.Kind,
	}, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if errors.Is(err, sql.ErrNoRows) {
		return failure.NotFound("account not found")
	}

	if err != nil {
		log.Error().Err(err).Int64("userID", userID).Msg("failed to get account")

		return fmt.Errorf("failed to get account: %w", err)
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	update := map[string]any{
		userModel.FieldPassword: hashedPassword,
		constant.FieldUpdatedAt: timezone.Now(),
	}

	if err = s.userRepo.Update(ctx, update, shared.FilterByID(userID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Error().Err(err).Int64("userID", userID).Msg("failed to change password")

		return fmt.Errorf("failed to change password: %w", err)
	}

	return nil
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    userModel.TableName,
			},
		},
	}
}
