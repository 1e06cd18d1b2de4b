package availability

import "fmt"

// Status is a member's answer for one match. Absence of an entry means the
// member has not answered yet.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusUnavailable Status = "UNAVAILABLE"
	StatusMaybe       Status = "MAYBE"
)

// Key identifies one (member, match) answer. The relation is kept flat
// under this composite key instead of a map-of-maps so that clearing by
// match is a single scan with no double indirection.
type Key struct {
	MemberID string
	MatchID  string
}

// Entry is the denormalized form handed to clients.
type Entry struct {
	MemberID string
	MatchID  string
	Status   Status
}

func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusAvailable, StatusUnavailable, StatusMaybe:
		return Status(v), nil
	default:
		return "", fmt.Errorf("unknown availability status %q", v)
	}
}
