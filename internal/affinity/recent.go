package affinity

import (
	"strings"

	"github.com/google/uuid"
)

// RecentKey is the fixed storage key under which a viewer's recently-viewed
// sequence is kept in their session.
const RecentKey = "recently_viewed"

// RecentCapacity bounds the recently-viewed sequence.
const RecentCapacity = 5

// RecordView prepends the listing id to the sequence, most-recent-first.
// Re-viewing an id already present moves it to the front without growing the
// sequence; the result never exceeds RecentCapacity or contains duplicates.
func RecordView(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, RecentCapacity)
	out = append(out, id)
	for _, v := range ids {
		if len(out) == RecentCapacity {
			break
		}
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// EncodeRecent serializes the sequence for session storage.
func EncodeRecent(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}

// DecodeRecent parses a stored sequence, dropping malformed entries and
// anything beyond capacity. A corrupt value decodes to an empty sequence
// rather than an error.
func DecodeRecent(s string) []uuid.UUID {
	if s == "" {
		return nil
	}
	ids := make([]uuid.UUID, 0, RecentCapacity)
	for _, part := range strings.Split(s, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
		if len(ids) == RecentCapacity {
			break
		}
	}
	return ids
}
