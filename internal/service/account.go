package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/auth"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
)

// AccountService local login flag. There is no password or identity check;
// the token only proves the server issued the login.
type AccountService struct {
	store  kvstore.Store
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewAccountService creates an AccountService
func NewAccountService(store kvstore.Store, jwt *auth.JWTManager, logger *zap.Logger) *AccountService {
	return &AccountService{store: store, jwt: jwt, logger: logger.Named("account")}
}

// Login stores the user flag and returns a session token
func (s *AccountService) Login(ctx context.Context, email, name string) (model.User, string, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, "", fmt.Errorf("%w: invalid email address", apperr.ErrInvalidInput)
	}

	user := model.User{Email: email, Name: strings.TrimSpace(name), IsLoggedIn: true}
	if err := kvstore.SetJSON(ctx, s.store, model.KeyUser.String(), user); err != nil {
		return model.User{}, "", err
	}

	token, err := s.jwt.GenerateSessionToken(user.Email, user.Name)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("email", user.Email))
	return user, token, nil
}

// Logout removes the user flag
func (s *AccountService) Logout(ctx context.Context) error {
	return s.store.Remove(ctx, model.KeyUser.String())
}

// Me current user; ok is false when logged out or the stored flag is unreadable
func (s *AccountService) Me(ctx context.Context) (model.User, bool, error) {
	var user model.User
	found, err := kvstore.GetJSON(ctx, s.store, model.KeyUser.String(), &user)
	if errors.Is(err, apperr.ErrStorageCorruption) {
		s.logger.Warn("stored user unreadable, treating as logged out", zap.Error(err))
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	if !found || !user.IsLoggedIn {
		return model.User{}, false, nil
	}
	return user, true, nil
}
