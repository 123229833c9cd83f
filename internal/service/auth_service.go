package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
	"github.com/worktalk/worktalk-backend/pkg/cache"
	"github.com/worktalk/worktalk-backend/pkg/jwt"
	"github.com/worktalk/worktalk-backend/pkg/logger"
)

// SMSSender delivers one-time codes. The real gateway lives outside
// this service; tests and development use a logging stub.
type SMSSender interface {
	Send(phone, text string) error
}

// LogSMSSender writes codes to the log instead of sending them
type LogSMSSender struct{}

// Send logs the message
func (LogSMSSender) Send(phone, text string) error {
	logger.GetLogger().Info().Str("phone", phone).Msg("sms (dev): " + text)
	return nil
}

// LoginResponse is returned on successful code verification
type LoginResponse struct {
	User         *domain.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// TokenPair access + refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService phone + one-time-code authentication. Codes live in the
// injected TTL store (Redis) so any API instance can verify them.
type AuthService interface {
	RequestCode(ctx context.Context, phone string) error
	Login(ctx context.Context, phone, code string) (*LoginResponse, error)
	Refresh(refreshToken string) (*TokenPair, error)
}

type authService struct {
	userRepo   repository.UserRepository
	codes      cache.Service
	sms        SMSSender
	jwtManager *jwt.Manager
	codeTTL    time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	codes cache.Service,
	sms SMSSender,
	jwtManager *jwt.Manager,
	codeTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		codes:      codes,
		sms:        sms,
		jwtManager: jwtManager,
		codeTTL:    codeTTL,
	}
}

// RequestCode generates a 6-digit code, stores it with a TTL and
// sends it by SMS, consuming one SMS credit.
func (s *authService) RequestCode(ctx context.Context, phone string) error {
	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		return common.ErrInvalidCredentials
	}
	if !user.Active {
		return common.ErrUserDeactivated
	}

	if err := s.userRepo.DecrementSMSCredit(user.ID); err != nil {
		return fmt.Errorf("%w: no SMS credit left", common.ErrPermission)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.codes.SetLoginCode(ctx, phone, code, s.codeTTL); err != nil {
		return err
	}

	return s.sms.Send(phone, "Your login code: "+code)
}

// Login verifies and burns the one-time code, then issues tokens
func (s *authService) Login(ctx context.Context, phone, code string) (*LoginResponse, error) {
	stored, err := s.codes.GetLoginCode(ctx, phone)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, common.ErrInvalidCredentials
	}
	// One use only.
	if err := s.codes.BurnLoginCode(ctx, phone); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, common.ErrUserDeactivated
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if !user.Active {
		return nil, common.ErrUserDeactivated
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
