package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/store"
)

// Login checks the credentials and returns the signed-in actor. Usernames
// match case-insensitively; passwords match exactly. A legacy plain-text
// password is accepted once and replaced with a bcrypt hash.
func (s *Service) Login(ctx context.Context, username string, password string) (domain.Actor, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Actor{}, ErrInvalidCredentials
	}

	user, err := s.repo.FindUser(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Actor{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("find user: %w", err)
	}

	if !isPasswordHash(user.Password) {
		if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
			return domain.Actor{}, ErrInvalidCredentials
		}
		if hashed, err := hashPassword(password); err == nil {
			if err := s.repo.UpdateUserPassword(ctx, user.Username, hashed); err != nil {
				s.logger.Warn("password upgrade failed", zap.String("username", user.Username), zap.Error(err))
			}
		}
	} else if !verifyPassword(user.Password, password) {
		return domain.Actor{}, ErrInvalidCredentials
	}

	return domain.Actor{Username: user.Username, Role: user.Role}, nil
}

// EnsureDefaultUsers seeds an admin and a cashier account when no users exist.
func (s *Service) EnsureDefaultUsers(ctx context.Context, adminPassword string, cashierPassword string) error {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []domain.UserAccount{
		{Username: "admin", Password: adminPassword, Role: domain.RoleAdmin},
		{Username: "cashier", Password: cashierPassword, Role: domain.RoleCashier},
	}
	for _, user := range seeds {
		hashed, err := hashPassword(user.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", user.Username, err)
		}
		user.Password = hashed
		user.CreatedAt = s.now().UTC()
		if err := s.repo.CreateUser(ctx, user); err != nil && !errors.Is(err, store.ErrDuplicateName) {
			return fmt.Errorf("create user %s: %w", user.Username, err)
		}
		s.logger.Info("seeded user", zap.String("username", user.Username), zap.String("role", user.Role))
	}
	return nil
}

func verifyPassword(stored string, input string) bool {
	if stored == "" || input == "" || !isPasswordHash(stored) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
