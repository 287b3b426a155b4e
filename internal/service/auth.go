package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/runningplanet/crew-service/internal/domain"
	"github.com/runningplanet/crew-service/internal/repository"
)

// Claims represents JWT claims
type Claims struct {
	MemberID int64  `json:"member_id"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// AuthService handles authentication and JWT operations
type AuthService struct {
	memberRepo repository.MemberRepository
	jwtSecret  string
	jwtExpiry  time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(memberRepo repository.MemberRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		memberRepo: memberRepo,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
	}
}

// Login generates a JWT token for a member
func (s *AuthService) Login(ctx context.Context, memberID int64) (string, error) {
	// Get member to verify existence and embed the nickname
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return "", err
	}

	claims := &Claims{
		MemberID: member.ID,
		Nickname: member.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
