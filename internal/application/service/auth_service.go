package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/logger"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// AuthService handles login against the upstream API and keeps the
// upstream token and profile in the durable store.
type AuthService struct {
	gateway    repository.AuthGateway
	keyspace   repository.Keyspace
	jwtManager *utils.JWTManager
	log        *logrus.Logger
}

// NewAuthService creates a new auth service. jwtManager may be nil when no
// service token is needed, as in the CLI.
func NewAuthService(
	gateway repository.AuthGateway,
	keyspace repository.Keyspace,
	jwtManager *utils.JWTManager,
	log *logrus.Logger,
) *AuthService {
	return &AuthService{
		gateway:    gateway,
		keyspace:   keyspace,
		jwtManager: jwtManager,
		log:        log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Rut      string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        entity.Principal
	AccessToken string
}

// Login authenticates upstream, persists the session and issues a service token.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	rut := strings.TrimSpace(input.Rut)
	var fields []apperror.FieldError
	if rut == "" {
		fields = append(fields, apperror.FieldError{Field: "rut", Message: "This field is required"})
	}
	if input.Password == "" {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "This field is required"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	result, err := s.gateway.Login(ctx, rut, input.Password)
	if err != nil {
		return nil, apperror.WithFallback(err, "Invalid credentials")
	}
	if result.AccessToken == "" || result.Profile.UserID == "" {
		return nil, apperror.NewUpstreamError(http.StatusBadGateway, "Login response did not include a session")
	}

	profile, err := json.Marshal(result.Profile)
	if err != nil {
		return nil, err
	}
	store := s.keyspace(result.Profile.UserID)
	if err := store.Set(ctx, entity.TokenKey, result.AccessToken); err != nil {
		logger.LogError(s.log, "AuthService", "Login", "store token", result.Profile.UserID, err)
		return nil, err
	}
	if err := store.Set(ctx, entity.ProfileKey, string(profile)); err != nil {
		logger.LogError(s.log, "AuthService", "Login", "store profile", result.Profile.UserID, err)
		return nil, err
	}

	out := &LoginOutput{User: result.Profile}
	if s.jwtManager != nil {
		p := result.Profile
		out.AccessToken, err = s.jwtManager.GenerateAccessToken(p.UserID, p.Name, p.Rut, p.Role)
		if err != nil {
			return nil, err
		}
	}

	s.log.WithFields(logrus.Fields{"user_id": result.Profile.UserID, "role": result.Profile.Role}).Info("user logged in")
	return out, nil
}

// Logout forgets the upstream token and profile.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	store := s.keyspace(userID)
	if err := store.Delete(ctx, entity.TokenKey); err != nil {
		return err
	}
	return store.Delete(ctx, entity.ProfileKey)
}

// Profile returns the stored profile, or ErrUnauthorized when there is no session.
func (s *AuthService) Profile(ctx context.Context, userID string) (*entity.Principal, error) {
	raw, ok, err := s.keyspace(userID).Get(ctx, entity.ProfileKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	var p entity.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		logger.LogError(s.log, "AuthService", "Profile", "decode profile", userID, err)
		return nil, apperror.ErrUnauthorized
	}
	return &p, nil
}

// AccessToken returns the upstream token of the user in ctx, or "" when
// there is none. It satisfies client.TokenSource.
func (s *AuthService) AccessToken(ctx context.Context) (string, error) {
	var userID string
	if p, ok := PrincipalFrom(ctx); ok {
		userID = p.UserID
	}
	token, _, err := s.keyspace(userID).Get(ctx, entity.TokenKey)
	return token, err
}
