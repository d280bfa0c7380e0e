package crud

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warbler/domain"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.OAuth{},
		&domain.Message{},
		&domain.Follow{},
		&domain.Like{},
	))
	return db
}

// setupServices wires all crud services onto a fresh test database.
func setupServices(t *testing.T) *Services {
	t.Helper()
	services, err := NewServices(
		setupTestDB(t),
		WithUser("test-pepper"),
		WithOAuth(),
		WithMessage(),
		WithFollow(),
		WithLike(),
	)
	require.NoError(t, err)
	return services
}

// signupTestUsers creates the two standard accounts most tests build on.
func signupTestUsers(t *testing.T, s *Services) (*domain.User, *domain.User) {
	t.Helper()
	u1 := &domain.User{Username: "test1", Email: "user1@email.com", Password: "password"}
	require.NoError(t, s.User.Create(u1))
	u2 := &domain.User{Username: "test2", Email: "user2@email.com", Password: "password"}
	require.NoError(t, s.User.Create(u2))
	return u1, u2
}
