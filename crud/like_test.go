package crud

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wedfest/domain"
	"wedfest/errs"
)

func TestLikeToggleFlipsStateAndCounter(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()
	seedPhoto(t, db, &domain.Photo{ID: 5, Approved: true})

	// First toggle of session A likes the photo.
	res, err := ls.Toggle(ctx, domain.OwnerTypePhoto, 5, "sess-A")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	// Session B is independent of session A.
	res, err = ls.Toggle(ctx, domain.OwnerTypePhoto, 5, "sess-B")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 2, res.Likes)

	// Second toggle of session A unlikes, B's like stays.
	res, err = ls.Toggle(ctx, domain.OwnerTypePhoto, 5, "sess-A")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	liked, err := ls.Liked(ctx, domain.OwnerTypePhoto, 5, "sess-A")
	require.NoError(t, err)
	assert.False(t, liked)
	liked, err = ls.Liked(ctx, domain.OwnerTypePhoto, 5, "sess-B")
	require.NoError(t, err)
	assert.True(t, liked)

	// The counter column and the ledger agree.
	count, err := ls.CountByOwner(ctx, domain.OwnerTypePhoto, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLikeTogglePairIsIdempotent(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()
	photo := seedPhoto(t, db, &domain.Photo{Approved: true})

	// An even number of toggles always lands back at zero.
	for i := 0; i < 4; i++ {
		_, err := ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, "sess-A")
		require.NoError(t, err)
	}

	res, err := ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, "sess-A")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	count, err := ls.CountByOwner(ctx, domain.OwnerTypePhoto, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLikeToggleSongOwner(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()
	song := seedSong(t, db, &domain.Song{Artist: "Whitney Houston", Title: "I Wanna Dance with Somebody"})

	res, err := ls.Toggle(ctx, domain.OwnerTypeSong, song.ID, "sess-A")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	var fresh domain.Song
	require.NoError(t, db.First(&fresh, song.ID).Error)
	assert.Equal(t, 1, fresh.LikeCount)
}

func TestLikeToggleUnknownEntity(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()

	_, err := ls.Toggle(ctx, domain.OwnerTypePhoto, 999, "sess-A")
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	// The failed toggle left no ledger row behind.
	count, err := ls.CountByOwner(ctx, domain.OwnerTypePhoto, 999)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLikeToggleValidation(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()

	_, err := ls.Toggle(ctx, "cake", 1, "sess-A")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = ls.Toggle(ctx, domain.OwnerTypePhoto, 0, "sess-A")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = ls.Toggle(ctx, domain.OwnerTypePhoto, 1, "")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestLikeConcurrentDistinctSessions(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()
	photo := seedPhoto(t, db, &domain.Photo{Approved: true})

	sessions := []string{"sess-A", "sess-B", "sess-C"}
	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func(session string) {
			defer wg.Done()
			_, err := ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, session)
			assert.NoError(t, err)
		}(session)
	}
	wg.Wait()

	var fresh domain.Photo
	require.NoError(t, db.First(&fresh, photo.ID).Error)
	assert.Equal(t, len(sessions), fresh.LikeCount)

	count, err := ls.CountByOwner(ctx, domain.OwnerTypePhoto, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, len(sessions), count)
}

func TestLikeConcurrentSameSession(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()
	photo := seedPhoto(t, db, &domain.Photo{Approved: true})

	// An even number of racing toggles of the same pair must settle at an
	// unliked state with a consistent ledger, never at a duplicate like or
	// a negative counter.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Losing every retry is a legal outcome under contention, so
			// only unexpected errors fail the test.
			if _, err := ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, "sess-A"); err != nil {
				assert.Contains(t, []string{errs.ECONFLICT, errs.EINTERNAL}, errs.ErrorCode(err))
			}
		}()
	}
	wg.Wait()

	liked, err := ls.Liked(ctx, domain.OwnerTypePhoto, photo.ID, "sess-A")
	require.NoError(t, err)

	ledger, err := ls.CountByOwner(ctx, domain.OwnerTypePhoto, photo.ID)
	require.NoError(t, err)

	var fresh domain.Photo
	require.NoError(t, db.First(&fresh, photo.ID).Error)

	// One session holds at most one like, and counter and ledger agree.
	assert.LessOrEqual(t, ledger, 1)
	assert.Equal(t, ledger, fresh.LikeCount)
	assert.Equal(t, liked, ledger == 1)
}

func TestLikeToggleRetryClassification(t *testing.T) {
	// Both directions of the same-pair race re-run the attempt: the lost
	// insert surfaces as a duplicate key, the lost delete as a vanished row.
	assert.True(t, retryableToggle(gorm.ErrDuplicatedKey))
	assert.True(t, retryableToggle(errLikeGone))

	// Postgres may report the conflict itself before either outcome.
	assert.True(t, retryableToggle(&pgconn.PgError{Code: "40001"}))
	assert.True(t, retryableToggle(&pgconn.PgError{Code: "40P01"}))

	// Anything else propagates on the first occurrence.
	assert.False(t, retryableToggle(gorm.ErrRecordNotFound))
	assert.False(t, retryableToggle(&pgconn.PgError{Code: "23503"}))
	assert.False(t, retryableToggle(errors.New("connection reset")))

	// Exhausted duplicate-key retries are the client's conflict, everything
	// else exhausting the loop is ours.
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(settleError(gorm.ErrDuplicatedKey)))
	assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(settleError(errLikeGone)))
}

func TestLikeRemoveLostRaceIsRetryable(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)

	// The row the existence check saw is already gone, as if a concurrent
	// toggle of the same pair deleted it first. The attempt must come back
	// retryable instead of surfacing a not-found to the guest.
	err := ls.likeGorm.removeLike(db, &domain.Like{ID: 999, OwnerType: domain.OwnerTypePhoto, OwnerID: 1})
	assert.ErrorIs(t, err, errLikeGone)
	assert.True(t, retryableToggle(err))
}

func TestLikeCounterNeverNegative(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()
	photo := seedPhoto(t, db, &domain.Photo{Approved: true})

	_, err := ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, "sess-A")
	require.NoError(t, err)

	// Simulate counter drift from an outside write.
	err = db.Model(&domain.Photo{}).Where("id = ?", photo.ID).UpdateColumn("like_count", 0).Error
	require.NoError(t, err)

	// The unlike decrement is floored at zero.
	res, err := ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, "sess-A")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.Likes)
}

func TestLikeTopFallsBackToCounters(t *testing.T) {
	db := testDB(t)
	ls := NewLikeService(db, nil)
	ctx := context.Background()

	first := seedPhoto(t, db, &domain.Photo{Filename: "a.jpeg", Approved: true})
	second := seedPhoto(t, db, &domain.Photo{Filename: "b.jpeg", Approved: true})
	seedPhoto(t, db, &domain.Photo{Filename: "c.jpeg", Approved: true})

	for _, session := range []string{"sess-A", "sess-B"} {
		_, err := ls.Toggle(ctx, domain.OwnerTypePhoto, second.ID, session)
		require.NoError(t, err)
	}
	_, err := ls.Toggle(ctx, domain.OwnerTypePhoto, first.ID, "sess-A")
	require.NoError(t, err)

	entries, err := ls.Top(ctx, domain.OwnerTypePhoto, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].OwnerID)
	assert.Equal(t, 2, entries[0].Likes)
	assert.Equal(t, first.ID, entries[1].OwnerID)
	assert.Equal(t, 1, entries[1].Likes)
}
