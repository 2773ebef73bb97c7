package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/logger"
	"alcyxob/gym-coach/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUserNotFound         = errors.New("user not found")
)

const tokenIssuer = "gym-coach"

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService is the identity handshake: it creates users, checks
// credentials and decides the role from Admins membership.
type AuthService interface {
	Register(ctx context.Context, name, email, password, imgURL string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, role domain.Role, err error)
	ParseToken(token string) (*Claims, error)
	CurrentUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	adminRepo     repository.AdminRepository
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
	log           *logger.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
	log *logger.Logger,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		adminRepo:     adminRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
		log:           log.With("service", "auth"),
	}
}

// Register creates a user. Whether it is a trainer is decided at login.
func (s *authService) Register(ctx context.Context, name, email, password, imgURL string) (*domain.User, error) {
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidationFailed)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		ImgURL:       imgURL,
		PasswordHash: string(hashedPassword),
		CreatedAt:    s.now().UTC(),
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	user.PasswordHash = ""

	s.log.Info("user registered", "userId", userID.Hex())
	return user, nil
}

// Login checks credentials, stamps lastLogin and issues a token carrying the role.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, domain.Role, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, "", fmt.Errorf("%w: email and password are required", ErrValidationFailed)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, "", ErrAuthenticationFailed
		}
		return "", nil, "", err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, "", ErrAuthenticationFailed
	}

	isAdmin, err := s.adminRepo.IsAdmin(ctx, email)
	if err != nil {
		return "", nil, "", fmt.Errorf("admin lookup: %w", err)
	}
	role := domain.RoleStudent
	if isAdmin {
		role = domain.RoleAdmin
	}

	now := s.now().UTC()
	if err = s.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the stamp is informational.
		s.log.Warn("record login failed", "userId", user.ID.Hex(), "error", err)
	} else {
		user.LastLogin = &now
	}

	token, err := s.generateJWT(user, role, now)
	if err != nil {
		return "", nil, "", ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, role, nil
}

func (s *authService) generateJWT(user *domain.User, role domain.Role, now time.Time) (string, error) {
	claims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates signature, expiry and the presence of the custom claims.
func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return claims, nil
}

// CurrentUser loads the caller's document.
func (s *authService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
