// Package auth управляет сессией пользователя на клиенте.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/internal/validation"
	"github.com/iudanet/echomind/pkg/api"
)

//go:generate moq -out authenticator_mock.go . Authenticator

// Authenticator auth эндпоинты удаленной базы
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*api.TokenResponse, error)
	SignIn(ctx context.Context, email, password string) (*api.TokenResponse, error)
}

// Service предоставляет функции авторизации
type Service struct {
	remote Authenticator
	store  storage.Storage
	logger *slog.Logger
	now    func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(remote Authenticator, store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		remote: remote,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Register регистрирует нового пользователя и сохраняет сессию
func (s *Service) Register(ctx context.Context, email, password string) (*storage.Session, error) {
	email = validation.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	resp, err := s.remote.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.startSession(ctx, resp)
}

// Login выполняет аутентификацию и сохраняет сессию.
// Локальные данные другого пользователя удаляются.
func (s *Service) Login(ctx context.Context, email, password string) (*storage.Session, error) {
	email = validation.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	resp, err := s.remote.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.startSession(ctx, resp)
}

func (s *Service) startSession(ctx context.Context, resp *api.TokenResponse) (*storage.Session, error) {
	previous, err := s.store.GetSession(ctx)
	switch {
	case err == nil && previous.UserID != resp.User.ID:
		s.logger.Info("Different user logged in, clearing local data", "previous_user_id", previous.UserID)
		if err := s.clearLocalData(ctx); err != nil {
			return nil, err
		}
	case err != nil && !errors.Is(err, storage.ErrSessionNotFound):
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session := &storage.Session{
		Email:       resp.User.Email,
		UserID:      resp.User.ID,
		AccessToken: resp.AccessToken,
		ExpiresAt:   s.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Session started", "user_id", session.UserID)
	return session, nil
}

// Logout удаляет сессию и все локальные данные: коллекции, очередь, dead letter
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.DeleteSession(ctx); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := s.clearLocalData(ctx); err != nil {
		return err
	}

	s.logger.Info("Logged out")
	return nil
}

func (s *Service) clearLocalData(ctx context.Context) error {
	for _, collection := range models.Collections() {
		if err := s.store.Clear(ctx, collection); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	if err := s.store.ClearPending(ctx); err != nil {
		return fmt.Errorf("failed to clear pending operations: %w", err)
	}
	if err := s.store.ClearDeadLetter(ctx); err != nil {
		return fmt.Errorf("failed to clear dead letter: %w", err)
	}
	if err := s.store.SaveLastSyncTimestamp(ctx, 0); err != nil {
		return fmt.Errorf("failed to reset last sync timestamp: %w", err)
	}
	return nil
}

// Session возвращает текущую сессию
func (s *Service) Session(ctx context.Context) (*storage.Session, error) {
	return s.store.GetSession(ctx)
}

// CurrentUserID возвращает пользователя текущей сессии.
// Истекший токен не мешает работе с локальными данными.
func (s *Service) CurrentUserID(ctx context.Context) (string, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

// AccessToken возвращает токен для запросов к удаленной базе.
// Без сессии или с истекшим токеном возвращает пустую строку: запрос уйдет анонимным.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	session, err := s.store.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if s.expired(session) {
		s.logger.Debug("Access token expired", "user_id", session.UserID)
		return "", nil
	}
	return session.AccessToken, nil
}

// IsAuthenticated сообщает, есть ли сессия с действующим токеном
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := s.store.GetSession(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !s.expired(session), nil
}

func (s *Service) expired(session *storage.Session) bool {
	return session.ExpiresAt > 0 && s.now().Unix() >= session.ExpiresAt
}

func validateCredentials(email, password string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}
	return nil
}
