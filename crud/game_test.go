package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedfest/domain"
	"wedfest/errs"
)

func TestGameSubmitValidation(t *testing.T) {
	db := testDB(t)
	gs := NewGameService(db)

	err := gs.Submit(&domain.GameScore{Player: "Tom", Score: 10})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = gs.Submit(&domain.GameScore{Game: "quiz", Score: 10})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = gs.Submit(&domain.GameScore{Game: "quiz", Player: "Tom", Score: -1})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = gs.Submit(&domain.GameScore{Game: "quiz", Player: "Tom", Score: 10})
	require.NoError(t, err)
}

func TestGameTopPerGame(t *testing.T) {
	db := testDB(t)
	gs := NewGameService(db)

	require.NoError(t, gs.Submit(&domain.GameScore{Game: "quiz", Player: "Tom", Score: 10}))
	require.NoError(t, gs.Submit(&domain.GameScore{Game: "quiz", Player: "Maria", Score: 30}))
	require.NoError(t, gs.Submit(&domain.GameScore{Game: "quiz", Player: "Lena", Score: 20}))
	require.NoError(t, gs.Submit(&domain.GameScore{Game: "dance-off", Player: "Tom", Score: 99}))

	top, err := gs.Top("quiz", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Maria", top[0].Player)
	assert.Equal(t, "Lena", top[1].Player)
}
