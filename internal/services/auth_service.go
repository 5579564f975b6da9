package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cfkpezinok/club-backend/internal/config"
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AuthService handles public-site accounts. It shares nothing with trainer login.
type AuthService struct {
	store       *Storage
	cfg         *config.Config
	adminEmails map[string]bool
}

func NewAuthService(store *Storage, cfg *config.Config) *AuthService {
	return &AuthService{
		store:       store,
		cfg:         cfg,
		adminEmails: ParseEmailList(cfg.AdminEmails),
	}
}

// ParseEmailList splits a comma separated list into a lookup set of lowercased addresses.
func ParseEmailList(list string) map[string]bool {
	set := make(map[string]bool)
	for _, e := range strings.Split(list, ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			set[e] = true
		}
	}
	return set
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: email required and password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := RoleUser
	if s.adminEmails[email] {
		role = RoleAdmin
	}
	user := models.User{
		Email:    email,
		Name:     strings.TrimSpace(req.Name),
		Password: string(hash),
		Role:     role,
	}
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Create(&user).Error
	}); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Where("email = ?", email).First(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, &user)
}

// Refresh exchanges a refresh token for a new pair. Each refresh token is single use.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var user models.User
	err := s.store.transaction(ctx, func(tx *gorm.DB) error {
		var stored models.RefreshToken
		if err := tx.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
			return notFound(err, ErrInvalidToken)
		}

		// Conditional revoke so two concurrent refreshes cannot both succeed.
		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked = ?", stored.ID, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || time.Now().After(stored.ExpiresAt) {
			return ErrInvalidToken
		}

		return notFound(tx.First(&user, stored.UserID).Error, ErrUserNotFound)
	})
	if err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.store.run(ctx, func(db *gorm.DB) error {
		return db.Model(&models.RefreshToken{}).
			Where("token_hash = ?", hashToken(req.RefreshToken)).
			Update("revoked", true).Error
	})
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	var user models.User
	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return notFound(db.First(&user, userID).Error, ErrUserNotFound)
	}); err != nil {
		return nil, err
	}
	resp := userResponse(&user)
	return &resp, nil
}

// AccessClaims is what a verified site-user access token carries.
type AccessClaims struct {
	UserID uint
	Email  string
	Role   string
}

// ClaimsFromToken reads the claims of a token that has already been verified.
func ClaimsFromToken(token *jwt.Token) (AccessClaims, error) {
	if token == nil {
		return AccessClaims{}, errors.New("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AccessClaims{}, errors.New("unexpected claims type")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return AccessClaims{}, err
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return AccessClaims{}, fmt.Errorf("invalid subject %q", sub)
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return AccessClaims{UserID: uint(id), Email: email, Role: role}, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.cfg.JWTAccessExpiry)
	accessToken, err := s.generateAccessToken(user, expiresAt)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.UTC(),
		User:         userResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.store.run(ctx, func(db *gorm.DB) error {
		return db.Create(&record).Error
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
