package realtime

import (
	"fmt"
	"strings"
)

type SSEEvent string

const (
	SSEEventProgressUpdated   SSEEvent = "ProgressUpdated"
	SSEEventInitiativeChanged SSEEvent = "InitiativeChanged"
	SSEEventInitiativeDeleted SSEEvent = "InitiativeDeleted"
	SSEEventMilestoneChanged  SSEEvent = "MilestoneChanged"
	SSEEventOnePagerSaved     SSEEvent = "OnePagerSaved"
	SSEEventSupportChanged    SSEEvent = "SupportItemChanged"
	SSEEventCatalogChanged    SSEEvent = "PhaseCatalogChanged"
	SSEEventPreferenceChanged SSEEvent = "PreferenceChanged"
)

// ChannelRoadmap is shared by every connected editor.
const ChannelRoadmap = "roadmap"

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the per-user channel, used to sync open tabs.
func UserChannel(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func normalizeChannel(ch string) string {
	return strings.TrimSpace(ch)
}
