package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/skillmatch-backend/internal/data/db"
	userrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/user"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type JWTClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      userrepo.UserRepo
	userTokenRepo userrepo.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	gdb *gorm.DB,
	baseLog *logger.Logger,
	userRepo userrepo.UserRepo,
	userTokenRepo userrepo.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            gdb,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, email, password, displayName string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", pkgerrors.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", pkgerrors.ErrInvalidInput)
	}
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name required", pkgerrors.ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    string(hashed),
		DisplayName: displayName,
	}
	if _, err := as.userRepo.Create(ctx, nil, []*types.User{u}); err != nil {
		// Unique index on email does the race-safe duplicate check.
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", pkgerrors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("User registered", "user_id", u.ID)
	return u, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if len(users) == 0 {
		// Same error for unknown email and bad password.
		return nil, pkgerrors.ErrUnauthorized
	}
	u := users[0]
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, txErr := as.issueSession(ctx, tx, u.ID)
		pair = p
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, pkgerrors.ErrUnauthorized
	}

	var pair *TokenPair
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			return fmt.Errorf("lookup refresh token: %w", err)
		}
		if existing == nil || existing.ExpiresAt.Before(time.Now()) {
			if existing != nil {
				_ = as.userTokenRepo.DeleteByID(ctx, tx, existing.ID)
			}
			return pkgerrors.ErrUnauthorized
		}
		// Rotation: old session dies, a fresh one replaces it.
		if err := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}
		p, issErr := as.issueSession(ctx, tx, existing.UserID)
		pair = p
		return issErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return pkgerrors.ErrUnauthorized
	}
	return as.userTokenRepo.DeleteByID(ctx, nil, rd.SessionID)
}

// SetContextFromToken validates an access JWT and attaches the caller to the
// context. The session row must still exist; a logged-out session's JWT is
// rejected even before it expires.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, pkgerrors.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return ctx, pkgerrors.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok {
		return ctx, pkgerrors.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, pkgerrors.ErrUnauthorized
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return ctx, pkgerrors.ErrUnauthorized
	}

	session, err := as.userTokenRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		return ctx, fmt.Errorf("lookup session: %w", err)
	}
	if session == nil || session.UserID != userID || session.ExpiresAt.Before(time.Now()) {
		return ctx, pkgerrors.ErrUnauthorized
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:    userID,
		SessionID: sessionID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueSession(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*TokenPair, error) {
	token := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	now := time.Now()
	claims := JWTClaims{
		SessionID: token.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}
