package team

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Team is the shared workspace a group of players coordinates in.
type Team struct {
	ID            string
	Name          string
	Slug          string
	PlayersNeeded int
	CreatedAt     time.Time
	// AccessCode is the shared secret gating every operation on the team
	// except its own creation. Set once, never regenerated.
	AccessCode string
}

// Member belongs to exactly one team for its whole lifetime.
type Member struct {
	ID     string
	TeamID string
	Name   string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.AccessCode == "" {
		return fmt.Errorf("team access code is required")
	}
	if t.PlayersNeeded < 0 {
		return fmt.Errorf("players needed must be >= 0")
	}

	return nil
}

func (m Member) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("member id is required")
	}
	if m.TeamID == "" {
		return fmt.Errorf("member team id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("member name is required")
	}

	return nil
}

// Slugify turns a display name into a URL-safe handle: lowercase letters
// and digits kept, runs of anything else collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	return b.String()
}
