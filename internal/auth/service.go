package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/spinwin/prizewheel-backend/pkg/auth"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service authenticates the shared dashboard credential. There is no user
// table; campaign staff operate the dashboard with a single login configured
// through the environment.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	adminCfg config.AdminConfig
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

type ServiceParams struct {
	AdminConfig config.AdminConfig
	JWTConfig   config.JWTConfig
	Logger      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.AdminConfig.Email == "" || params.AdminConfig.PasswordHash == "" {
		return nil, fmt.Errorf("admin credential is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		adminCfg: params.AdminConfig,
		jwtCfg:   params.JWTConfig,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	expected := strings.ToLower(strings.TrimSpace(s.adminCfg.Email))

	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(expected)) == 1

	// verify even on email mismatch so both failure paths cost the same
	passwordMatch, err := security.VerifyPassword(req.Password, s.adminCfg.PasswordHash)
	if err != nil {
		s.logg.Error(ctx, "verifying admin credential", err)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if !emailMatch || !passwordMatch {
		s.logg.Warn(s.logg.WithField(ctx, "email", email), "dashboard login rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		Email: email,
		Role:  pkgAuth.RoleAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	s.logg.Info(s.logg.WithField(ctx, "email", email), "dashboard login succeeded")
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtCfg.ExpirationMinutes * 60,
		Email:       email,
		Role:        pkgAuth.RoleAdmin,
	}, nil
}
