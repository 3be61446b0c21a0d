// Package ai wraps the hosted LLM behind the handful of content features the
// site offers. Every feature degrades to hand-written fallback content when
// no API key is configured or the API fails (most commonly quota errors), so
// the guest experience never depends on the LLM being up.
package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"wedfest/domain"
)

// Client talks to the LLM. A Client constructed without an API key is valid
// and serves fallback content only.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient returns a Client for the given API key and model. An empty key
// disables the API entirely.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	c := &Client{model: model}
	if apiKey != "" {
		c.api = openai.NewClient(option.WithAPIKey(apiKey))
	}
	return c
}

// SongIdea is one AI playlist suggestion.
type SongIdea struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Critique returns a short tongue-in-cheek art critique of a photo.
func (c *Client) Critique(ctx context.Context, photo *domain.Photo) string {
	caption := photo.Caption
	if caption == "" {
		caption = "an untitled wedding snapshot"
	}
	out, err := c.complete(ctx,
		"You are a gently sarcastic art critic reviewing wedding photos. Two or three sentences, warm at heart.",
		"Critique the wedding photo captioned: "+caption)
	if err != nil {
		c.logFallback("critique", err)
		return fallbackCritique
	}
	return out
}

// SongIdeas asks the LLM for playlist suggestions that fit the songs guests
// have already put on the wishlist. The response must be a JSON array of
// {artist, title, reason} objects; anything else degrades to the fallback
// list.
func (c *Client) SongIdeas(ctx context.Context, existing []domain.Song) []SongIdea {
	var sb strings.Builder
	for _, s := range existing {
		sb.WriteString(s.Artist + " - " + s.Title + "\n")
	}
	out, err := c.complete(ctx,
		`You suggest wedding party songs. Respond with only a JSON array of objects with keys "artist", "title" and "reason". Suggest five songs.`,
		"Guests already wished for:\n"+sb.String())
	if err != nil {
		c.logFallback("song ideas", err)
		return fallbackSongIdeas()
	}
	ideas, err := parseSongIdeas(out)
	if err != nil {
		c.logFallback("song ideas", err)
		return fallbackSongIdeas()
	}
	return ideas
}

// Sentiment classifies a guestbook message as positive, neutral or negative.
// Any unusable answer degrades to neutral.
func (c *Client) Sentiment(ctx context.Context, content string) string {
	out, err := c.complete(ctx,
		`Classify the sentiment of the guest message. Respond with exactly one word: "positive", "neutral" or "negative".`,
		content)
	if err != nil {
		c.logFallback("sentiment", err)
		return domain.SentimentNeutral
	}
	switch strings.ToLower(strings.TrimSpace(strings.Trim(out, `."'`))) {
	case domain.SentimentPositive:
		return domain.SentimentPositive
	case domain.SentimentNegative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// Narrative turns the day's schedule and the guestbook into a short story of
// the wedding day.
func (c *Client) Narrative(ctx context.Context, events []domain.Event, messages []domain.Message) string {
	var sb strings.Builder
	sb.WriteString("Schedule:\n")
	for _, e := range events {
		sb.WriteString(e.StartsAt.Format("15:04") + " " + e.Title + "\n")
	}
	sb.WriteString("\nGuestbook:\n")
	for i, m := range messages {
		if i >= 20 {
			break
		}
		sb.WriteString(m.Author + ": " + m.Content + "\n")
	}
	out, err := c.complete(ctx,
		"You are a warm storyteller. Write one paragraph telling the story of this wedding day for the couple's website.",
		sb.String())
	if err != nil {
		c.logFallback("narrative", err)
		return fallbackNarrative
	}
	return out
}

// complete sends a single system+user exchange and returns the raw answer.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.api == nil {
		return "", errDisabled
	}
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		}),
		Model:       openai.F(c.model),
		MaxTokens:   openai.F(int64(600)),
		Temperature: openai.F(0.7),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) < 1 {
		return "", errEmptyAnswer
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// parseSongIdeas validates the JSON shape of a suggestion response. Models
// sometimes wrap the array in a markdown fence; that much is tolerated.
func parseSongIdeas(out string) ([]SongIdea, error) {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	var ideas []SongIdea
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &ideas); err != nil {
		return nil, err
	}
	valid := ideas[:0]
	for _, idea := range ideas {
		if idea.Artist != "" && idea.Title != "" {
			valid = append(valid, idea)
		}
	}
	if len(valid) < 1 {
		return nil, errEmptyAnswer
	}
	return valid, nil
}

func (c *Client) logFallback(feature string, err error) {
	if err == errDisabled {
		return
	}
	log.Warn().Err(err).Str("feature", feature).Msg("ai unavailable, serving fallback content")
}
