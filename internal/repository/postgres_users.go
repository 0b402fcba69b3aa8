package repository

import (
	"context"
	"time"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) CreateUser(ctx context.Context, user *model.User) error {
	return insert(ctx, s.db, user, "user")
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "failed to get user")
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "failed to get user")
	}
	return &user, nil
}

// UserExists reports whether username or email is already taken
func (s *PostgresStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	n, err := count(ctx, s.db.Model(&model.User{}).Where("username = ? OR email = ?", username, email), "users")
	return n > 0, err
}

// CountUsers counts active users
func (s *PostgresStore) CountUsers(ctx context.Context) (int64, error) {
	return count(ctx, s.db.Model(&model.User{}).Where("is_active = ?", true), "users")
}
