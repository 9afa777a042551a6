// Package affinity tracks a viewer's relationship to listings: a
// server-authoritative saved set and a small client-local recently-viewed
// sequence. Saved-state is a convenience feature; when the store is
// unreachable, reads degrade to "nothing saved" instead of failing the
// request.
package affinity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrUnavailable reports that the affinity store could not be reached. It is
// a soft failure: callers downgrade it to a neutral result rather than
// propagating it.
var ErrUnavailable = errors.New("affinity store unavailable")

const savedKeyPrefix = "affinity:saved:"

// toggleScript flips membership in a single server-side step, so two
// concurrent toggles for the same (user, listing) pair cannot lose an
// update. Returns 1 when the listing ends up saved, 0 when removed.
var toggleScript = redis.NewScript(`
if redis.call("SISMEMBER", KEYS[1], ARGV[1]) == 1 then
	redis.call("SREM", KEYS[1], ARGV[1])
	return 0
end
redis.call("SADD", KEYS[1], ARGV[1])
return 1
`)

// Tracker maintains per-user saved sets in redis.
type Tracker struct {
	rdb *redis.Client
}

// NewTracker creates a tracker backed by the given redis client.
func NewTracker(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb}
}

func savedKey(userID uuid.UUID) string {
	return savedKeyPrefix + userID.String()
}

// ToggleSaved atomically flips whether the listing is in the user's saved
// set and reports the resulting state. Calling it twice returns the set to
// its original state.
func (t *Tracker) ToggleSaved(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	if t == nil || t.rdb == nil {
		return false, ErrUnavailable
	}
	res, err := toggleScript.Run(ctx, t.rdb, []string{savedKey(userID)}, listingID.String()).Int()
	if err != nil {
		slog.Warn("affinity toggle failed", "user_id", userID, "listing_id", listingID, "error", err)
		return false, ErrUnavailable
	}
	return res == 1, nil
}

// IsSaved reports membership in the user's saved set. An unreachable store
// reads as not saved.
func (t *Tracker) IsSaved(ctx context.Context, userID, listingID uuid.UUID) bool {
	if t == nil || t.rdb == nil {
		return false
	}
	saved, err := t.rdb.SIsMember(ctx, savedKey(userID), listingID.String()).Result()
	if err != nil {
		slog.Warn("affinity lookup failed", "user_id", userID, "error", err)
		return false
	}
	return saved
}

// SavedIDs returns the user's saved listing ids, unordered. An unreachable
// store reads as an empty set; malformed members are skipped.
func (t *Tracker) SavedIDs(ctx context.Context, userID uuid.UUID) []uuid.UUID {
	if t == nil || t.rdb == nil {
		return nil
	}
	members, err := t.rdb.SMembers(ctx, savedKey(userID)).Result()
	if err != nil {
		slog.Warn("affinity listing failed", "user_id", userID, "error", err)
		return nil
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// SavedSet returns the user's saved ids as a membership map for filter
// evaluation.
func (t *Tracker) SavedSet(ctx context.Context, userID uuid.UUID) map[uuid.UUID]bool {
	ids := t.SavedIDs(ctx, userID)
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
