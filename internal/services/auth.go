package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type JWTClaims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      *types.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	Me(ctx context.Context) (*types.User, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	limiter      LoginLimiter
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	limiter LoginLimiter,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if limiter == nil {
		limiter = NewMemoryLoginLimiter(MaxFailedLoginAttempts, LoginLockoutWindow)
	}
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		limiter:      limiter,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

var errBadCredentials = apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid email or password"))

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierr.BadRequest("missing_credentials", "email and password are required")
	}

	locked, retryIn, err := as.limiter.Locked(ctx, email)
	if err != nil {
		as.log.Warn("Login limiter unavailable", "error", err)
	}
	if locked {
		return nil, apierr.New(http.StatusTooManyRequests, "too_many_attempts",
			fmt.Errorf("too many failed login attempts, retry in %d minutes", int(retryIn.Minutes())+1))
	}

	u, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		as.recordFailure(ctx, email)
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		as.recordFailure(ctx, email)
		return nil, errBadCredentials
	}
	if err := as.limiter.Reset(ctx, email); err != nil {
		as.log.Warn("Failed to reset login failures", "error", err)
	}

	tok, err := as.generateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	as.log.Info("User logged in", "user_id", u.ID, "role", u.Role)
	return &LoginResult{Token: tok, ExpiresIn: int64(as.accessTTL / time.Second), User: u}, nil
}

func (as *authService) recordFailure(ctx context.Context, email string) {
	if err := as.limiter.Fail(ctx, email); err != nil {
		as.log.Warn("Failed to record login failure", "error", err)
	}
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, apierr.Unauthorized("missing token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, apierr.Unauthorized("invalid token: %v", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid || claims.ID == 0 {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      claims.ID,
		Email:       claims.Email,
		Role:        claims.Role,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) Me(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return nil, apierr.Unauthorized("not authenticated")
	}
	u, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, rd.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.Unauthorized("account no longer exists")
	}
	return u, err
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

// RoleSatisfies is the role gate: exact match, except an editor requirement also admits admin.
func RoleSatisfies(have, required string) bool {
	if have == required {
		return true
	}
	return required == user.RoleEditor && have == user.RoleAdmin
}
