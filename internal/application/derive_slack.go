package application

import (
	"sort"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// BuildChannelView derives the chat-channel plugin's rendered sequence from
// the raw channel list and the current settings. It is pure and
// deterministic: the input slice is never mutated, sorts are stable, and the
// same (channels, settings) pair always yields the same output.
func BuildChannelView(channels []model.Channel, settings model.SlackSettings) []model.Channel {
	out := make([]model.Channel, 0, len(channels))
	for _, ch := range channels {
		if settings.ChannelTypes.Includes(ch.Type) {
			out = append(out, ch)
		}
	}

	switch settings.SortOrder {
	case model.SortUnreadFirst:
		// Unread count descending; ties fall through to name ascending;
		// remaining ties keep source order.
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].UnreadCount != out[j].UnreadCount {
				return out[i].UnreadCount > out[j].UnreadCount
			}
			return out[i].Name < out[j].Name
		})
	case model.SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	}

	return capItems(out, settings.ItemLimit)
}

// capItems truncates items to limit. A non-positive limit means unlimited.
func capItems[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
