package questions

import (
	"sort"
	"time"

	"github.com/crowdstage/live/internal/models"
)

// SortForDisplay orders top-level questions for display: pinned timestamp
// descending (unpinned sorts after all pinned), then like count descending,
// then creation time descending. The sort is stable, so equal-key questions
// keep their fetch order. Replies stay chronological. The order is derived
// on every fetch, never stored.
func SortForDisplay(list []models.Question) []models.Question {
	out := make([]models.Question, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := pinnedAt(out[i]), pinnedAt(out[j])
		if !pi.Equal(pj) {
			return pi.After(pj)
		}
		if out[i].LikesCount != out[j].LikesCount {
			return out[i].LikesCount > out[j].LikesCount
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	for i := range out {
		out[i].Children = sortReplies(out[i].Children)
	}
	return out
}

// pinnedAt treats unpinned as the epoch so every pinned question sorts
// ahead of every unpinned one.
func pinnedAt(q models.Question) time.Time {
	if q.PinnedAt == nil {
		return time.Unix(0, 0)
	}
	return *q.PinnedAt
}

func sortReplies(replies []models.Question) []models.Question {
	if len(replies) == 0 {
		return replies
	}
	out := make([]models.Question, len(replies))
	copy(out, replies)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	for i := range out {
		out[i].Children = sortReplies(out[i].Children)
	}
	return out
}

// PositionDeltas maps question id to how many positions it moved between
// two display orders. Callers that animate reordering use the delta to
// smooth the jump; correctness never depends on it.
func PositionDeltas(before, after []models.Question) map[string]int {
	prev := make(map[string]int, len(before))
	for i, q := range before {
		prev[q.ID] = i
	}
	deltas := make(map[string]int)
	for i, q := range after {
		if j, ok := prev[q.ID]; ok && j != i {
			deltas[q.ID] = i - j
		}
	}
	return deltas
}
