package service

import (
	"strings"
	"time"

	"github.com/referral-ledger/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims 调用方身份声明
type IdentityClaims struct {
	Identity string `json:"identity"`
	jwt.RegisteredClaims
}

// IdentityService 身份令牌签发与校验
type IdentityService struct {
	cfg *config.Config
}

// NewIdentityService 创建身份令牌服务
func NewIdentityService(cfg *config.Config) *IdentityService {
	return &IdentityService{cfg: cfg}
}

// GenerateToken 为身份签发令牌，主要用于种子数据与测试
func (s *IdentityService) GenerateToken(identity string) (string, time.Time, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", time.Time{}, invalidInputError("invalid identity", "identity is required")
	}
	hours := s.cfg.Identity.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := IdentityClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Identity.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken 校验令牌并返回其中的身份
func (s *IdentityService) ParseToken(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &IdentityClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Identity.Secret), nil
	})
	if err != nil {
		return "", &LedgerError{Kind: ErrInvalidToken, Message: "invalid identity token", Err: err}
	}
	identity := strings.TrimSpace(claims.Identity)
	if !token.Valid || identity == "" {
		return "", &LedgerError{Kind: ErrInvalidToken, Message: "invalid identity token"}
	}
	return identity, nil
}
