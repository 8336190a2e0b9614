package commands

import (
	"context"
	"log/slog"

	"conftix/internal/domain/user"
	"conftix/internal/pkg/errs"
	"conftix/internal/pkg/jwt"
	"conftix/internal/pkg/password"
	"conftix/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	UserID    uuid.UUID
	TokenPair *TokenPair
}

type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	readStore  queries.UserReadStore
	userRepo   UserRepository
	jwtService *jwt.Service
}

func NewAuthCommands(readStore queries.UserReadStore, userRepo UserRepository, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		readStore:  readStore,
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	emailVO, err := user.NewEmail(email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	if _, err := user.NewPassword(plainPassword); err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	view, err := a.validateUser(ctx, emailVO.Value(), plainPassword)
	if err != nil {
		return nil, err
	}

	tokenPair, err := a.issueTokens(view.ID, view.Role)
	if err != nil {
		return nil, err
	}

	if err := a.userRepo.UpdateLastLogin(ctx, view.ID); err != nil {
		// Not critical; login already succeeded.
		slog.Warn("failed to update last login", "user_id", view.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:    view.ID,
		TokenPair: tokenPair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	// The user must still exist and be active.
	view, err := a.readStore.FindByID(ctx, claims.UserID)
	if err != nil || view == nil {
		return nil, ErrUserNotFound
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}

	return a.issueTokens(view.ID, view.Role)
}

func (a *authCommandsImpl) validateUser(ctx context.Context, email, plainPassword string) (*queries.UserView, error) {
	view, hashedPassword, err := a.readStore.FindByEmail(ctx, email)
	if err != nil {
		// Same error as a password mismatch to prevent user enumeration.
		return nil, ErrInvalidCredentials
	}
	if view == nil {
		return nil, ErrUserNotFound
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	return view, nil
}

func (a *authCommandsImpl) issueTokens(userID uuid.UUID, role string) (*TokenPair, error) {
	if _, err := user.NewRole(role); err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
