package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/echomind/internal/crypto"
	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/internal/server/storage"
	"github.com/iudanet/echomind/internal/validation"
	"github.com/iudanet/echomind/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
	jwtConfig   JWTConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		userStorage: userStorage,
		jwtConfig:   jwtConfig,
	}
}

// SignUp обрабатывает POST /auth/v1/signup
// Регистрирует пользователя и сразу выдает access token
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signup request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("email", email))
			sendError(w, h.logger, "email already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully", slog.String("user_id", user.ID))

	h.sendToken(w, r, user, http.StatusCreated)
}

// Token обрабатывает POST /auth/v1/token
// Выдает access token по email и паролю
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode token request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		sendError(w, h.logger, "email and password are required", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	user, err := h.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login for unknown email")
			sendError(w, h.logger, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := crypto.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		h.logger.WarnContext(ctx, "invalid password", slog.String("user_id", user.ID), slog.Any("error", err))
		sendError(w, h.logger, "invalid email or password", http.StatusUnauthorized)
		return
	}

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	h.sendToken(w, r, user, http.StatusOK)
}

func (h *AuthHandler) sendToken(w http.ResponseWriter, r *http.Request, user *models.User, statusCode int) {
	accessToken, expiresIn, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate access token", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, h.logger, api.TokenResponse{
		User:        api.User{ID: user.ID, Email: user.Email},
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	}, statusCode)
}
