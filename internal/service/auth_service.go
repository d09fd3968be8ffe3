package service

import (
	"context"
	"errors"

	"fapbot/internal/domain"
	"fapbot/internal/telegram"
)

var ErrInvalidInitData = errors.New("invalid telegram init data")

// AuthService exchanges Telegram WebApp init data for a session token,
// creating the user row on first contact.
type AuthService struct {
	store    Store
	botToken string
}

func NewAuthService(store Store, botToken string) *AuthService {
	return &AuthService{store: store, botToken: botToken}
}

// Authenticate validates init data, upserts the user and issues a JWT.
func (s *AuthService) Authenticate(ctx context.Context, initData string) (string, *domain.User, error) {
	if _, ok := telegram.ValidateInitData(initData, s.botToken); !ok {
		return "", nil, ErrInvalidInitData
	}

	tgUser, err := telegram.ParseUser(initData)
	if err != nil {
		return "", nil, ErrInvalidInitData
	}

	username := tgUser.Username
	if username == "" {
		username = tgUser.FirstName
	}

	u := &domain.User{TgID: tgUser.ID, Username: username}
	if err := s.store.CreateOrUpdate(ctx, u); err != nil {
		return "", nil, err
	}

	token, err := GenerateJWT(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
