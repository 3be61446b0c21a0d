package domain

import (
	"context"
	"time"
)

const (
	// OwnerTypePhoto expresses that a Like belongs to a Photo.
	OwnerTypePhoto = "photo"
	// OwnerTypeSong expresses that a Like belongs to a Song.
	OwnerTypeSong = "song"
)

// Like represents that one anonymous guest session currently likes one
// entity. There is no account behind SessionKey; it is the opaque fingerprint
// derived in the guest package, so the same person on two devices counts as
// two sessions.
//
// Existence of the row is the entire state. Rows are created on the first
// toggle and hard-deleted on the next one; they are never updated in place
// and never soft-deleted (a deleted-at column would break the unique index
// on re-like). The composite unique index is the backstop that keeps a race
// between two concurrent toggles from producing a duplicate like.
type Like struct {
	ID         int    `json:"id" gorm:"primaryKey"`
	OwnerType  string `json:"owner_type" gorm:"type:varchar(32);not null;uniqueIndex:idx_owner_session"`
	OwnerID    int    `json:"owner_id" gorm:"not null;uniqueIndex:idx_owner_session"`
	SessionKey string `json:"-" gorm:"type:varchar(80);not null;uniqueIndex:idx_owner_session"`

	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is the response of a toggle. Likes carries the authoritative
// post-toggle count so clients can patch their cached copies instead of
// incrementing locally and drifting on retries.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// RankEntry is one row of a like leaderboard.
type RankEntry struct {
	OwnerID int `json:"id"`
	Likes   int `json:"likes"`
}

// LikeService owns the invariant between an entity's LikeCount column and
// the set of Like rows referencing it. Toggle is the only operation that
// moves both; everything else is read-only.
type LikeService interface {
	Toggle(ctx context.Context, ownerType string, ownerID int, sessionKey string) (*LikeResult, error)
	Liked(ctx context.Context, ownerType string, ownerID int, sessionKey string) (bool, error)
	CountByOwner(ctx context.Context, ownerType string, ownerID int) (int, error)
	Top(ctx context.Context, ownerType string, n int) ([]RankEntry, error)
}
