/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-22 15:02:11
 * @FilePath: \rental-desk\backend\internal\service\auth\service.go
 * @LastEditTime: 2026-09-22 15:02:11
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-desk/backend/internal/domain/rental"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidLogin  = errors.New("invalid login or password")
	ErrLoginRequired = errors.New("login and password are required")
)

// TokenPair 是登录后返回给客户端的访问令牌及其有效期（秒）。
type TokenPair struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenManager 抽象出签发访问令牌的能力，目前只有 JWTManager 一种实现。
type TokenManager interface {
	GenerateAccessToken(staff *rental.Staff) (TokenPair, error)
}

// Service 负责员工登录。
type Service struct {
	staff        *repository.StaffRepository
	tokenManager TokenManager
	logger       *zap.SugaredLogger
}

// NewService 创建鉴权服务实例。
func NewService(staff *repository.StaffRepository, tm TokenManager, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = appLogger.S()
	}
	return &Service{
		staff:        staff,
		tokenManager: tm,
		logger:       logger.With("component", "auth.service"),
	}
}

// LoginParams 封装登录接口所需的输入参数。
type LoginParams struct {
	Login    string
	Password string
}

// Login 校验登录名与密码，成功后签发访问令牌。
// 登录名不存在与密码错误返回同一个错误，避免暴露账号是否存在。
func (s *Service) Login(ctx context.Context, params LoginParams) (*rental.Staff, TokenPair, error) {
	login := strings.TrimSpace(params.Login)
	log := s.logger.With("login", login)
	if login == "" || params.Password == "" {
		return nil, TokenPair{}, ErrLoginRequired
	}

	staff, err := s.staff.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnw("login not found")
			return nil, TokenPair{}, ErrInvalidLogin
		}
		log.Errorw("find staff failed", "error", err)
		return nil, TokenPair{}, fmt.Errorf("find staff: %w", err)
	}

	if staff.PasswordHash == "" {
		log.Warnw("staff has no password", "staff_id", staff.ID)
		return nil, TokenPair{}, ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(params.Password)); err != nil {
		log.Warnw("password mismatch", "staff_id", staff.ID)
		return nil, TokenPair{}, ErrInvalidLogin
	}

	tokens, err := s.tokenManager.GenerateAccessToken(staff)
	if err != nil {
		log.Errorw("issue token failed", "error", err, "staff_id", staff.ID)
		return nil, TokenPair{}, fmt.Errorf("issue token: %w", err)
	}

	log.Infow("login success", "staff_id", staff.ID, "is_admin", staff.IsAdministrator())
	return staff, tokens, nil
}

// HashPassword 使用 bcrypt 对明文密码加盐哈希，初始化数据时复用。
func HashPassword(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
