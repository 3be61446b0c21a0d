package crud

import (
	"context"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedfest/domain"
	"wedfest/errs"
)

func TestPhotoCreateValidation(t *testing.T) {
	db := testDB(t)
	ps := NewPhotoService(db, nil)

	err := ps.Create(&domain.Photo{Caption: "no file"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ps.Create(&domain.Photo{Filename: "a.jpeg", Caption: strings.Repeat("x", 281)})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ps.Create(&domain.Photo{Filename: "a.jpeg", Uploader: strings.Repeat("x", 81)})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ps.Create(&domain.Photo{Filename: "a.jpeg", Caption: "the first dance", Uploader: "Maria"})
	require.NoError(t, err)
}

func TestPhotoStartsUnapproved(t *testing.T) {
	db := testDB(t)
	ps := NewPhotoService(db, nil)

	photo := domain.Photo{Filename: "a.jpeg"}
	require.NoError(t, ps.Create(&photo))
	assert.False(t, photo.Approved)

	pending, err := ps.ByApproval(false)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := ps.ByApproval(true)
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestPhotoApprove(t *testing.T) {
	db := testDB(t)
	ps := NewPhotoService(db, nil)

	photo := domain.Photo{Filename: "a.jpeg"}
	require.NoError(t, ps.Create(&photo))

	updated, err := ps.Approve(photo.ID)
	require.NoError(t, err)
	assert.True(t, updated.Approved)

	approved, err := ps.ByApproval(true)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	_, err = ps.Approve(999)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestPhotoByIDNotFound(t *testing.T) {
	db := testDB(t)
	ps := NewPhotoService(db, nil)

	_, err := ps.ByID(999)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestPhotoDeleteCascades(t *testing.T) {
	db := testDB(t)
	ps := NewPhotoService(db, nil)
	ls := NewLikeService(db, nil)
	cs := NewCommentService(db)
	ctx := context.Background()

	photo := domain.Photo{Filename: "a.jpeg", Approved: true}
	require.NoError(t, ps.Create(&photo))

	_, err := ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, "sess-A")
	require.NoError(t, err)
	_, err = ls.Toggle(ctx, domain.OwnerTypePhoto, photo.ID, "sess-B")
	require.NoError(t, err)
	require.NoError(t, cs.Create(&domain.Comment{PhotoID: photo.ID, Author: "Maria", Content: "beautiful"}))

	require.NoError(t, ps.Delete(photo.ID))

	_, err = ps.ByID(photo.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	likes, err := ls.CountByOwner(ctx, domain.OwnerTypePhoto, photo.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)

	comments, err := cs.ByPhotoID(photo.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// Deleting again is a not-found, not a silent no-op.
	err = ps.Delete(photo.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestPhotoDeleteEvictsRankBestEffort(t *testing.T) {
	db := testDB(t)

	// An unreachable redis must not fail the delete; the eviction is
	// logged and swallowed like every other rank write.
	rank := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { rank.Close() })
	ps := NewPhotoService(db, rank)

	photo := domain.Photo{Filename: "a.jpeg", Approved: true}
	require.NoError(t, ps.Create(&photo))
	require.NoError(t, ps.Delete(photo.ID))

	_, err := ps.ByID(photo.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
