package model

import (
	"strings"
	"time"
)

// ChannelSortOrder selects how the chat-channel plugin orders its list.
type ChannelSortOrder string

const (
	SortUnreadFirst  ChannelSortOrder = "unread_first"
	SortAlphabetical ChannelSortOrder = "alphabetical"
)

// ChannelType is the Slack conversation type tag carried by a Channel.
type ChannelType string

const (
	ChannelPublic  ChannelType = "public_channel"
	ChannelPrivate ChannelType = "private_channel"
	ChannelIM      ChannelType = "im"
	ChannelMPIM    ChannelType = "mpim"
)

// ChannelTypeFlags is the nested flag set selecting which conversation types
// the chat-channel plugin shows. It merges one level deeper than the
// top-level settings record: patching one flag leaves the siblings intact.
type ChannelTypeFlags struct {
	Public             bool `json:"public"`
	Private            bool `json:"private"`
	DirectMessage      bool `json:"directMessage"`
	GroupDirectMessage bool `json:"groupDirectMessage"`
}

// Includes reports whether a channel of type t passes the flag set.
// Unknown types are excluded rather than failing.
func (f ChannelTypeFlags) Includes(t ChannelType) bool {
	switch t {
	case ChannelPublic:
		return f.Public
	case ChannelPrivate:
		return f.Private
	case ChannelIM:
		return f.DirectMessage
	case ChannelMPIM:
		return f.GroupDirectMessage
	}
	return false
}

// TypesParam renders the enabled flags as the comma-joined conversation-type
// inclusion string the Slack API expects (e.g. "public_channel,im").
func (f ChannelTypeFlags) TypesParam() string {
	types := make([]string, 0, 4)
	if f.Public {
		types = append(types, string(ChannelPublic))
	}
	if f.Private {
		types = append(types, string(ChannelPrivate))
	}
	if f.DirectMessage {
		types = append(types, string(ChannelIM))
	}
	if f.GroupDirectMessage {
		types = append(types, string(ChannelMPIM))
	}
	return strings.Join(types, ",")
}

// SlackSettings is the chat-channel plugin's settings record.
type SlackSettings struct {
	PollIntervalMs int              `json:"pollIntervalMs"`
	ChannelTypes   ChannelTypeFlags `json:"channelTypeFlags"`
	ItemLimit      int              `json:"itemLimit"`
	SortOrder      ChannelSortOrder `json:"sortOrder"`
}

// DefaultSlackSettings returns the fully populated default record.
func DefaultSlackSettings() SlackSettings {
	return SlackSettings{
		PollIntervalMs: 60000,
		ChannelTypes: ChannelTypeFlags{
			Public:             true,
			Private:            true,
			DirectMessage:      true,
			GroupDirectMessage: false,
		},
		ItemLimit: 50,
		SortOrder: SortUnreadFirst,
	}
}

// ChannelTypeFlagsPatch is a partial flag set. Nil fields leave the previous
// value untouched.
type ChannelTypeFlagsPatch struct {
	Public             *bool `json:"public"`
	Private            *bool `json:"private"`
	DirectMessage      *bool `json:"directMessage"`
	GroupDirectMessage *bool `json:"groupDirectMessage"`
}

// SlackSettingsPatch is a partial SlackSettings. Nil fields leave the
// previous value untouched; ChannelTypes merges flag-by-flag.
type SlackSettingsPatch struct {
	PollIntervalMs *int                   `json:"pollIntervalMs"`
	ChannelTypes   *ChannelTypeFlagsPatch `json:"channelTypeFlags"`
	ItemLimit      *int                   `json:"itemLimit"`
	SortOrder      *ChannelSortOrder      `json:"sortOrder"`
}

// Merge applies p onto s field by field and returns the merged record.
// The receiver is not modified.
func (s SlackSettings) Merge(p SlackSettingsPatch) SlackSettings {
	if p.PollIntervalMs != nil {
		s.PollIntervalMs = *p.PollIntervalMs
	}
	if p.ChannelTypes != nil {
		if p.ChannelTypes.Public != nil {
			s.ChannelTypes.Public = *p.ChannelTypes.Public
		}
		if p.ChannelTypes.Private != nil {
			s.ChannelTypes.Private = *p.ChannelTypes.Private
		}
		if p.ChannelTypes.DirectMessage != nil {
			s.ChannelTypes.DirectMessage = *p.ChannelTypes.DirectMessage
		}
		if p.ChannelTypes.GroupDirectMessage != nil {
			s.ChannelTypes.GroupDirectMessage = *p.ChannelTypes.GroupDirectMessage
		}
	}
	if p.ItemLimit != nil {
		s.ItemLimit = *p.ItemLimit
	}
	if p.SortOrder != nil {
		s.SortOrder = *p.SortOrder
	}
	return s
}

// Channel is a chat conversation supplied by the entity data source.
type Channel struct {
	ID             string
	Name           string
	Type           ChannelType
	Topic          string
	UnreadCount    int
	MemberCount    int
	LastActivityAt time.Time
}
