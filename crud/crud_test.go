package crud

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wedfest/domain"
)

var testDBSeq atomic.Int64

// testDB opens a fresh in-memory database per test. The pool is capped at a
// single connection so that concurrent toggles queue up on it instead of
// tripping over sqlite's writer lock.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:crudtest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		domain.Photo{},
		domain.Song{},
		domain.Like{},
		domain.Comment{},
		domain.Message{},
		domain.Event{},
		domain.GameScore{},
	)
	require.NoError(t, err)
	return db
}

func seedPhoto(t *testing.T, db *gorm.DB, photo *domain.Photo) *domain.Photo {
	t.Helper()
	if photo.Filename == "" {
		photo.Filename = "photo.jpeg"
	}
	require.NoError(t, db.Create(photo).Error)
	return photo
}

func seedSong(t *testing.T, db *gorm.DB, song *domain.Song) *domain.Song {
	t.Helper()
	require.NoError(t, db.Create(song).Error)
	return song
}
