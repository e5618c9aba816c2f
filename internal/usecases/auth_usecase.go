package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
	"project_ria/internal/repository"
)

type AuthUsecase struct {
	adminRepo *repository.AdminRepository
	jwtSecret []byte
}

func NewAuthUsecase(repo *repository.AdminRepository, secret string) *AuthUsecase {
	return &AuthUsecase{
		adminRepo: repo,
		jwtSecret: []byte(secret),
	}
}

// Register creates a dashboard account bound to one tenant.
func (uc *AuthUsecase) Register(ctx context.Context, username, password, tenantID string) error {
	existing, err := uc.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.New(apperr.KindConflict, "username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &entities.AdminUser{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         "owner",
		TenantID:     tenantID,
	}

	return uc.adminRepo.Create(ctx, user)
}

// Login verifies credentials and issues a signed token carrying the
// account's tenant scope.
func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := uc.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"role":      user.Role,
		"tenant_id": user.TenantID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}

// EnsureAdmin creates the platform admin account if it does not exist yet
// (called on startup).
func (uc *AuthUsecase) EnsureAdmin(ctx context.Context, username, password string) error {
	user, err := uc.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		admin := &entities.AdminUser{
			Username:     username,
			PasswordHash: string(hashed),
			Role:         "admin",
		}
		return uc.adminRepo.Create(ctx, admin)
	}
	return nil
}
