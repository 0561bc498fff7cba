/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-22 15:20:40
 * @FilePath: \rental-desk\backend\internal\infra\token\jwt_manager.go
 * @LastEditTime: 2026-09-22 15:20:40
 */
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rental-desk/backend/internal/domain/rental"
	"rental-desk/backend/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	claimTokenType  = "token_type"
	claimTokenID    = "jti"
	claimIsAdmin    = "is_admin"
	tokenTypeAccess = "access"
)

var (
	ErrTokenInvalid   = errors.New("token invalid")
	ErrNotAccessToken = errors.New("not an access token")
)

// AccessClaims 是解析访问令牌后得到的员工身份。
type AccessClaims struct {
	StaffID   uint
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// JWTManager 基于对称密钥签发与校验员工访问令牌。
type JWTManager struct {
	secret    string
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTManager 创建 JWT 管理器，ttl 不合法时回退为 1 小时。
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &JWTManager{secret: secret, accessTTL: accessTTL, now: time.Now}
}

// GenerateAccessToken 为员工签发访问令牌，claims 中带有 sub 与 is_admin。
func (m *JWTManager) GenerateAccessToken(staff *rental.Staff) (auth.TokenPair, error) {
	if staff == nil {
		return auth.TokenPair{}, errors.New("staff is nil")
	}
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.accessTTL)

	claims := jwt.MapClaims{
		"sub":          strconv.FormatUint(uint64(staff.ID), 10),
		"name":         staff.FullName,
		"iat":          issuedAt.Unix(),
		"exp":          expiresAt.Unix(),
		claimIsAdmin:   staff.IsAdministrator(),
		claimTokenType: tokenTypeAccess,
		claimTokenID:   uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	return auth.TokenPair{
		AccessToken: signed,
		ExpiresIn:   int64(m.accessTTL.Seconds()),
	}, nil
}

// ParseAccessToken 校验签名与有效期，返回令牌中的员工身份。
func (m *JWTManager) ParseAccessToken(raw string) (AccessClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return AccessClaims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return AccessClaims{}, ErrTokenInvalid
	}

	if tType, _ := claims[claimTokenType].(string); tType != tokenTypeAccess {
		return AccessClaims{}, ErrNotAccessToken
	}

	staffID, err := parseSubject(claims["sub"])
	if err != nil {
		return AccessClaims{}, err
	}

	isAdmin, _ := claims[claimIsAdmin].(bool)
	tokenID, _ := claims[claimTokenID].(string)

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return AccessClaims{
		StaffID:   staffID,
		IsAdmin:   isAdmin,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

func parseSubject(raw any) (uint, error) {
	var subRaw string
	switch v := raw.(type) {
	case string:
		subRaw = v
	case float64:
		if v < 0 {
			return 0, errors.New("invalid subject")
		}
		subRaw = fmt.Sprintf("%.0f", v)
	case json.Number:
		subRaw = v.String()
	default:
		return 0, errors.New("missing subject")
	}

	id64, err := strconv.ParseUint(subRaw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject: %w", err)
	}
	return uint(id64), nil
}
