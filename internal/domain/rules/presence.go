package rules

import (
	"fmt"
	"time"
)

const (
	// OnlineWindow is how recently a profile must have been active to show as
	// online. Hardcoded on purpose; see also NewProfileWindow.
	OnlineWindow = 30 * time.Second

	// NewProfileWindow bounds the "new" listing filter.
	NewProfileWindow = 30 * 24 * time.Hour
)

type Presence struct {
	Known    bool   `json:"known"`
	IsOnline bool   `json:"is_online"`
	Label    string `json:"label,omitempty"`
}

// ComputePresence derives the online/last-seen display state from a last
// active timestamp. The label uses the largest applicable unit only, floored:
// seconds under a minute, minutes under an hour, hours under a day, then days.
func ComputePresence(lastActive *time.Time, now time.Time) Presence {
	if lastActive == nil {
		return Presence{}
	}

	elapsed := now.Sub(*lastActive)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed <= OnlineWindow {
		return Presence{Known: true, IsOnline: true, Label: "online"}
	}

	return Presence{Known: true, Label: "last seen " + humanizeElapsed(elapsed) + " ago"}
}

func humanizeElapsed(elapsed time.Duration) string {
	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd", int(elapsed.Hours())/24)
	}
}
