package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/store"
)

func (s *Store) FindUser(ctx context.Context, username string) (*domain.UserAccount, error) {
	var row userRow
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = ?", normalizeUsername(username)).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &domain.UserAccount{
		Username:  row.Username,
		Password:  row.Password,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&userRow{}).Count(&count).Error
	return count, err
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := userRow{
		Username:  normalizeUsername(user.Username),
		Password:  user.Password,
		Role:      user.Role,
		CreatedAt: createdAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", row.Username, store.ErrDuplicateName)
		}
		return err
	}
	return nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	result := s.db.WithContext(ctx).Model(&userRow{}).
		Where("LOWER(username) = ?", normalizeUsername(username)).
		Update("password", password)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
