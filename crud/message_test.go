package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedfest/domain"
	"wedfest/errs"
)

func TestMessageCreateValidation(t *testing.T) {
	db := testDB(t)
	ms := NewMessageService(db)

	err := ms.Create(&domain.Message{Content: "no author"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ms.Create(&domain.Message{Author: "Tom", Content: "   "})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ms.Create(&domain.Message{Author: "Tom", Content: "congratulations!"})
	require.NoError(t, err)
}

func TestMessageSentimentNormalized(t *testing.T) {
	db := testDB(t)
	ms := NewMessageService(db)

	message := domain.Message{Author: "Tom", Content: "congratulations!", Sentiment: "ecstatic"}
	require.NoError(t, ms.Create(&message))
	assert.Equal(t, domain.SentimentNeutral, message.Sentiment)

	message = domain.Message{Author: "Maria", Content: "so lovely", Sentiment: domain.SentimentPositive}
	require.NoError(t, ms.Create(&message))
	assert.Equal(t, domain.SentimentPositive, message.Sentiment)
}
