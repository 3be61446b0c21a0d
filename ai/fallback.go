package ai

import (
	"errors"
)

var (
	errDisabled    = errors.New("ai: no api key configured")
	errEmptyAnswer = errors.New("ai: empty or malformed answer")
)

// Canned content served when the LLM is unavailable. Written by hand so the
// widgets stay alive through quota exhaustion on the big day itself.

const fallbackCritique = "A bold composition that bravely ignores every rule of photography and gets away " +
	"with it, because everyone in the frame is clearly having the time of their lives. The critic rates it: " +
	"blurry, crooked, perfect."

const fallbackNarrative = "The day began with nervous laughter and ended with tired feet and full hearts. " +
	"Between the vows and the last dance there was cake, there were tears of the good kind, and there was " +
	"that one guest who knew every lyric. Nobody wanted it to end, so in the photos, it never does."

func fallbackSongIdeas() []SongIdea {
	return []SongIdea{
		{Artist: "Stevie Wonder", Title: "Signed, Sealed, Delivered (I'm Yours)", Reason: "A floor-filler that doubles as a vow."},
		{Artist: "Whitney Houston", Title: "I Wanna Dance with Somebody", Reason: "Works on every generation of aunt."},
		{Artist: "Earth, Wind & Fire", Title: "September", Reason: "Do you remember? Everyone does."},
		{Artist: "ABBA", Title: "Dancing Queen", Reason: "Statistically unavoidable at weddings."},
		{Artist: "Frank Sinatra", Title: "Fly Me to the Moon", Reason: "For the slow moment before the party."},
	}
}
