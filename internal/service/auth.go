package service

import (
	"errors"
	"time"

	"github.com/ashu917/Car-rental/internal/apperror"
	"github.com/ashu917/Car-rental/internal/models"
	"github.com/ashu917/Car-rental/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

// AuthService registers accounts and exchanges credentials for bearer
// tokens. It exists so handlers can resolve a caller identity; everything
// beyond that (OTP, password reset, profiles) lives outside this service.
type AuthService struct {
	store  store.Store
	secret []byte
}

func NewAuthService(st store.Store, secret string) *AuthService {
	return &AuthService{store: st, secret: []byte(secret)}
}

func (s *AuthService) Register(name, email, password, role string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperror.Validation("name, email and password are required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleOwner {
		return nil, apperror.Validation("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal("failed to create user", err)
	}
	return user, nil
}

// Login returns a signed bearer token for valid credentials.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, apperror.Validation("email and password are required")
	}

	user, err := s.store.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, apperror.Unauthenticated("invalid email or password")
	}
	if err != nil {
		return "", nil, apperror.Internal("failed to load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperror.Unauthenticated("invalid email or password")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, apperror.Internal("failed to sign token", err)
	}
	return signed, user, nil
}

// VerifyToken resolves a bearer token to the current user record.
func (s *AuthService) VerifyToken(tokenString string) (*models.User, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperror.Unauthenticated("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, apperror.Unauthenticated("invalid token claims")
	}

	user, err := s.store.GetUserByID(claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	return user, nil
}
