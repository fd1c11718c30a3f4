package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"app/internal/model"
	"app/internal/repository"
	"app/internal/util"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong password;
	// callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const sessionTTL = 24 * time.Hour

type AuthService interface {
	// Signup creates a non-premium account. The password is stored as a bcrypt
	// hash, never verbatim.
	Signup(ctx context.Context, email, password string) (*model.User, error)
	// Login verifies credentials and issues a session token carrying the user's
	// id and premium flag. There is no logout; sessions simply expire.
	Login(ctx context.Context, email, password string) (string, *model.User, error)
}

type authService struct {
	users     repository.UserRepository
	jwtSecret string
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAuthService(users repository.UserRepository, jwtSecret string, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		jwtSecret: jwtSecret,
		now:       time.Now,
		logger:    logger.With().Str("service", "AuthService").Logger(),
	}
}

func (s *authService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, email, string(hash), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailAlreadyRegistered
		}
		s.logger.Error().Err(err).Msg("Failed to create account")
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up account")
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := util.SignSession(s.jwtSecret, strconv.FormatInt(u.ID, 10), u.Premium, sessionTTL)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", u.ID).Msg("Failed to issue session token")
		return "", nil, err
	}
	return token, u, nil
}
