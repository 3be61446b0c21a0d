package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedfest/domain"
	"wedfest/errs"
)

func TestSongCreateValidation(t *testing.T) {
	db := testDB(t)
	ss := NewSongService(db, nil)

	err := ss.Create(&domain.Song{Title: "no artist"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ss.Create(&domain.Song{Artist: "no title"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ss.Create(&domain.Song{Artist: "ABBA", Title: "Dancing Queen", SuggestedBy: "Tom"})
	require.NoError(t, err)
}

func TestSongDuplicateSuggestionRejected(t *testing.T) {
	db := testDB(t)
	ss := NewSongService(db, nil)

	require.NoError(t, ss.Create(&domain.Song{Artist: "ABBA", Title: "Dancing Queen"}))

	// Case differences don't make it a new song.
	err := ss.Create(&domain.Song{Artist: "abba", Title: "DANCING QUEEN"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// Same title by another artist is fine.
	err = ss.Create(&domain.Song{Artist: "Cover Band", Title: "Dancing Queen"})
	require.NoError(t, err)
}

func TestSongAllOrderedByLikes(t *testing.T) {
	db := testDB(t)
	ss := NewSongService(db, nil)
	ls := NewLikeService(db, nil)
	ctx := context.Background()

	quiet := seedSong(t, db, &domain.Song{Artist: "ABBA", Title: "Dancing Queen"})
	popular := seedSong(t, db, &domain.Song{Artist: "Earth, Wind & Fire", Title: "September"})

	for _, session := range []string{"sess-A", "sess-B"} {
		_, err := ls.Toggle(ctx, domain.OwnerTypeSong, popular.ID, session)
		require.NoError(t, err)
	}

	songs, err := ss.All()
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, popular.ID, songs[0].ID)
	assert.Equal(t, 2, songs[0].LikeCount)
	assert.Equal(t, quiet.ID, songs[1].ID)
}

func TestSongDeleteCascadesLikes(t *testing.T) {
	db := testDB(t)
	ss := NewSongService(db, nil)
	ls := NewLikeService(db, nil)
	ctx := context.Background()

	song := seedSong(t, db, &domain.Song{Artist: "ABBA", Title: "Dancing Queen"})
	_, err := ls.Toggle(ctx, domain.OwnerTypeSong, song.ID, "sess-A")
	require.NoError(t, err)

	require.NoError(t, ss.Delete(song.ID))

	likes, err := ls.CountByOwner(ctx, domain.OwnerTypeSong, song.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)

	err = ss.Delete(song.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
