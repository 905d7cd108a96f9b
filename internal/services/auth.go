package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/data/repos"
	types "github.com/yungbote/slideforge-backend/internal/domain"
	"github.com/yungbote/slideforge-backend/internal/platform/apierr"
	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/platform/validate"
)

// Credentials is the body of register and login.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	CreateDemoUser(ctx context.Context) (*types.User, string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	Demo bool `json:"demo,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

func (as *authService) Register(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Struct(Credentials{Email: email, Password: password}); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	var created *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := as.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.New(http.StatusConflict, "email_taken", errors.New("Email already registered"))
		}
		users, err := as.userRepo.Create(ctx, tx, []*types.User{{Email: &email, PasswordHash: string(hash)}})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		created = users[0]
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	tok, err := as.generateAccessToken(created)
	if err != nil {
		return nil, "", err
	}
	as.log.Info("User registered", "user_id", created.ID)
	return created, tok, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	invalid := apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("Invalid email or password"))

	u, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("Error retrieving user by email: %w", err)
	}
	if u == nil || u.PasswordHash == "" {
		return nil, "", invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", invalid
	}
	tok, err := as.generateAccessToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// CreateDemoUser makes an anonymous account that can later be claimed with
// the transfer endpoint.
func (as *authService) CreateDemoUser(ctx context.Context) (*types.User, string, error) {
	users, err := as.userRepo.Create(ctx, nil, []*types.User{{IsDemo: true}})
	if err != nil {
		return nil, "", apierr.New(http.StatusInternalServerError, "demo_user_failed", errors.New("Failed to create demo user"))
	}
	tok, err := as.generateAccessToken(users[0])
	if err != nil {
		return nil, "", err
	}
	as.log.Info("Demo user created", "user_id", users[0].ID)
	return users[0], tok, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Demo: user.IsDemo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, errors.New("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, fmt.Errorf("Failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, errors.New("Invalid or expired JWT token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("Invalid user id in token: %w", err)
	}
	var sessionID uuid.UUID
	if claims.ID != "" {
		sessionID, _ = uuid.Parse(claims.ID)
	}
	rd := &ctxutil.RequestData{
		UserID:    userID,
		SessionID: sessionID,
		IsDemo:    claims.Demo,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

// requireUser returns the authenticated principal or a 401.
func requireUser(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("Unauthorized"))
	}
	return rd, nil
}
