package usecase_test

import (
	"testing"
	"time"

	"clinic-inventory/config"
	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/infrastructure/database"
	"clinic-inventory/internal/session"
	"clinic-inventory/pkg/password"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
// A single pooled connection keeps every query on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestSessions(t *testing.T) *session.Service {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return session.NewService(config.SessionConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
	}, client)
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *entity.User {
	t.Helper()

	hash, err := password.Hash("Seeded1!pass")
	require.NoError(t, err)

	user := &entity.User{
		Username:     username,
		Email:        username + "@clinic.test",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
