package crud

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"wedfest/domain"
	"wedfest/errs"
)

// toggleAttempts bounds how often a toggle is retried after losing a race
// against a concurrent toggle or hitting a serialization conflict.
const toggleAttempts = 3

// errLikeGone reports that the ledger row found by the existence check was
// removed by a concurrent toggle before this one could delete it.
var errLikeGone = errors.New("like row already removed")

// LikeService manages Likes and the denormalized like counters.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming toggle parameters.
// On success, it passes them on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs the ledger and counter operations on the database.
// It assumes that parameters have been validated.
type likeGorm struct {
	db *gorm.DB
	// rank mirrors like counts into a redis sorted set per owner type.
	// It is optional and strictly best-effort; the database count is
	// always the count of record.
	rank *redis.Client
}

// NewLikeService returns an instance of LikeService. rank may be nil, in
// which case leaderboards are served straight from the counter columns.
func NewLikeService(db *gorm.DB, rank *redis.Client) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db:   db,
				rank: rank,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Toggle runs validations needed before flipping a like.
func (lv *likeValidator) Toggle(ctx context.Context, ownerType string, ownerID int, sessionKey string) (*domain.LikeResult, error) {
	if err := lv.validateToggle(ownerType, ownerID, sessionKey); err != nil {
		return nil, err
	}
	return lv.likeGorm.Toggle(ctx, ownerType, ownerID, sessionKey)
}

// Liked runs validations needed before a like state lookup.
func (lv *likeValidator) Liked(ctx context.Context, ownerType string, ownerID int, sessionKey string) (bool, error) {
	if err := lv.validateToggle(ownerType, ownerID, sessionKey); err != nil {
		return false, err
	}
	return lv.likeGorm.Liked(ctx, ownerType, ownerID, sessionKey)
}

func (lv *likeValidator) validateToggle(ownerType string, ownerID int, sessionKey string) error {
	if err := lv.ownerTypeValid(ownerType); err != nil {
		return err
	}
	if ownerID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid id.")
	}
	if sessionKey == "" {
		return errs.Errorf(errs.EINVALID, "Missing session identity.")
	}
	return nil
}

func (lv *likeValidator) ownerTypeValid(ownerType string) error {
	if ownerType != domain.OwnerTypePhoto && ownerType != domain.OwnerTypeSong {
		return errs.Errorf(errs.EINVALID, "Unknown likeable entity kind %q.", ownerType)
	}
	return nil
}

// Toggle flips the like state of (ownerType, ownerID) for the given session
// and returns the new state together with the settled counter value.
//
// Each attempt is one transaction: check whether the ledger row exists, then
// either insert it and increment the counter, or delete it and decrement the
// counter. The unique index on (owner_type, owner_id, session_key) is the
// backstop for two toggles of the same pair racing past each other's
// existence check: the loser's insert fails with a duplicate key, the loser's
// delete matches zero rows, and in either case the attempt is re-run against
// the winner's committed state instead of surfacing an error. Different
// sessions liking the same entity never conflict with each other; they only
// meet at the counter update, which is a relative SQL increment, not a
// read-modify-write.
func (lg *likeGorm) Toggle(ctx context.Context, ownerType string, ownerID int, sessionKey string) (*domain.LikeResult, error) {
	var liked bool
	var err error
	for attempt := 0; attempt < toggleAttempts; attempt++ {
		liked, err = lg.toggleOnce(ctx, ownerType, ownerID, sessionKey)
		if err == nil {
			break
		}
		if retryableToggle(err) {
			// The transaction rolled back whole, so re-running against the
			// winner's committed state is harmless.
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, settleError(err)
	}

	likes, err := lg.settledCount(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	lg.bumpRank(ownerType, ownerID, liked)

	return &domain.LikeResult{Liked: liked, Likes: likes}, nil
}

// toggleOnce runs a single toggle transaction and reports the resulting
// liked state. On error the transaction has been rolled back completely, so
// ledger and counter are never out of step.
func (lg *likeGorm) toggleOnce(ctx context.Context, ownerType string, ownerID int, sessionKey string) (bool, error) {
	liked := false
	err := lg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Like
		err := tx.
			Where("owner_type = ? AND owner_id = ? AND session_key = ?", ownerType, ownerID, sessionKey).
			First(&existing).Error
		switch {
		case err == nil:
			return lg.removeLike(tx, &existing)
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			return lg.insertLike(tx, ownerType, ownerID, sessionKey)
		default:
			return err
		}
	})
	return liked, err
}

// insertLike creates the ledger row and increments the owner's counter
// inside the caller's transaction. A missing owner row shows up as zero rows
// affected by the counter update and rolls the whole toggle back.
func (lg *likeGorm) insertLike(tx *gorm.DB, ownerType string, ownerID int, sessionKey string) error {
	err := tx.Create(&domain.Like{
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		SessionKey: sessionKey,
	}).Error
	if err != nil {
		return err
	}
	res := lg.counterModel(tx, ownerType).
		Where("id = ?", ownerID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected < 1 {
		return errs.Errorf(errs.ENOTFOUND, "The liked %s does not exist.", ownerType)
	}
	return nil
}

// removeLike deletes the ledger row and decrements the owner's counter
// inside the caller's transaction. A delete matching zero rows means a
// concurrent toggle removed the row after this transaction's existence check
// saw it; that rolls the attempt back for a re-run. The counter update is
// floored at zero; the ledger invariant should make the floor unreachable,
// but a relative decrement must never push the column negative.
func (lg *likeGorm) removeLike(tx *gorm.DB, like *domain.Like) error {
	res := tx.Delete(&domain.Like{}, like.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected < 1 {
		return errLikeGone
	}
	return lg.counterModel(tx, like.OwnerType).
		Where("id = ? AND like_count > 0", like.OwnerID).
		UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error
}

// retryableToggle classifies the failures of an attempt that lost a race
// against a concurrent toggle of the same pair. All of them roll the
// transaction back whole: the insert race surfaces as a duplicate key, the
// delete race as a vanished ledger row, and postgres may instead report a
// serialization failure or deadlock before either.
func retryableToggle(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, errLikeGone) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected.
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// settleError converts an exhausted retry loop into the caller-facing error.
// Losing the duplicate-key race on every attempt means the pair is being
// toggled concurrently, which is the client's conflict to resolve; anything
// else is on us.
func settleError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "The like is being toggled concurrently, please try again.")
	}
	return errs.Errorf(errs.EINTERNAL, "Could not settle the like, please try again.")
}

// settledCount re-reads the counter after the toggle transaction has
// committed, so the response carries the value every other client will see.
func (lg *likeGorm) settledCount(ctx context.Context, ownerType string, ownerID int) (int, error) {
	var counts []int
	err := lg.counterModel(lg.db.WithContext(ctx), ownerType).
		Where("id = ?", ownerID).
		Pluck("like_count", &counts).Error
	if err != nil {
		return 0, err
	}
	if len(counts) < 1 {
		return 0, errs.Errorf(errs.ENOTFOUND, "The liked %s does not exist.", ownerType)
	}
	return counts[0], nil
}

// counterModel selects the table carrying the like_count column for the
// given owner type. Callers have validated ownerType already.
func (lg *likeGorm) counterModel(tx *gorm.DB, ownerType string) *gorm.DB {
	if ownerType == domain.OwnerTypeSong {
		return tx.Model(&domain.Song{})
	}
	return tx.Model(&domain.Photo{})
}

// Liked reports whether the given session currently likes the given entity.
func (lg *likeGorm) Liked(ctx context.Context, ownerType string, ownerID int, sessionKey string) (bool, error) {
	err := lg.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ? AND session_key = ?", ownerType, ownerID, sessionKey).
		First(&domain.Like{}).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

// CountByOwner counts the ledger rows of one entity. It exists for
// consistency checks and admin views; responses to guests use the settled
// counter column instead.
func (lg *likeGorm) CountByOwner(ctx context.Context, ownerType string, ownerID int) (int, error) {
	var count int64
	err := lg.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Top returns the n most liked entities of one kind. It prefers the redis
// rank mirror and falls back to ordering by the counter column when no
// redis is configured or the sorted set is empty.
func (lg *likeGorm) Top(ctx context.Context, ownerType string, n int) ([]domain.RankEntry, error) {
	if n <= 0 {
		n = 10
	}
	if lg.rank != nil {
		zres, err := lg.rank.ZRevRangeWithScores(ctx, rankKey(ownerType), 0, int64(n-1)).Result()
		if err == nil && len(zres) > 0 {
			entries := make([]domain.RankEntry, 0, len(zres))
			for _, z := range zres {
				member, _ := z.Member.(string)
				id, err := strconv.Atoi(member)
				if err != nil {
					continue
				}
				entries = append(entries, domain.RankEntry{OwnerID: id, Likes: int(z.Score)})
			}
			return entries, nil
		}
		if err != nil {
			log.Warn().Err(err).Str("owner_type", ownerType).Msg("rank lookup failed, falling back to database")
		}
	}
	return lg.topFromCounters(ctx, ownerType, n)
}

func (lg *likeGorm) topFromCounters(ctx context.Context, ownerType string, n int) ([]domain.RankEntry, error) {
	type row struct {
		ID        int
		LikeCount int
	}
	var rows []row
	err := lg.counterModel(lg.db.WithContext(ctx), ownerType).
		Select("id", "like_count").
		Where("like_count > 0").
		Order("like_count desc").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	entries := make([]domain.RankEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.RankEntry{OwnerID: r.ID, Likes: r.LikeCount})
	}
	return entries, nil
}

// bumpRank mirrors a toggle into the redis leaderboard. Failures only cost
// ranking freshness, so they are logged and swallowed.
func (lg *likeGorm) bumpRank(ownerType string, ownerID int, liked bool) {
	if lg.rank == nil {
		return
	}
	delta := float64(1)
	if !liked {
		delta = -1
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := lg.rank.ZIncrBy(ctx, rankKey(ownerType), delta, strconv.Itoa(ownerID)).Err()
	if err != nil {
		log.Warn().Err(err).Str("owner_type", ownerType).Int("owner_id", ownerID).Msg("rank update failed")
	}
}

// dropRank removes a deleted entity from the redis leaderboard, so it stops
// holding a top-N slot. Same policy as bumpRank: failures only cost ranking
// freshness and are logged and swallowed.
func dropRank(rank *redis.Client, ownerType string, ownerID int) {
	if rank == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := rank.ZRem(ctx, rankKey(ownerType), strconv.Itoa(ownerID)).Err()
	if err != nil {
		log.Warn().Err(err).Str("owner_type", ownerType).Int("owner_id", ownerID).Msg("rank removal failed")
	}
}

func rankKey(ownerType string) string {
	return "rank:" + ownerType + ":likes"
}
