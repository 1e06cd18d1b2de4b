package team

import (
	"sort"

	"github.com/teamplan-app/teamplan/internal/domain/availability"
	"github.com/teamplan-app/teamplan/internal/domain/match"
)

// Aggregate is the full owned state of one team: metadata, members, the
// per-season schedule and the availability relation. It is handled with
// value semantics; the repository only ever hands out deep copies.
type Aggregate struct {
	Team         Team
	Members      map[string]Member
	Seasons      map[int]*match.SeasonSchedule
	Availability map[availability.Key]availability.Status
}

func NewAggregate(t Team) Aggregate {
	return Aggregate{
		Team:         t,
		Members:      make(map[string]Member),
		Seasons:      make(map[int]*match.SeasonSchedule),
		Availability: make(map[availability.Key]availability.Status),
	}
}

// Clone returns a deep copy so callers can mutate freely before saving.
func (a Aggregate) Clone() Aggregate {
	out := Aggregate{
		Team:         a.Team,
		Members:      make(map[string]Member, len(a.Members)),
		Seasons:      make(map[int]*match.SeasonSchedule, len(a.Seasons)),
		Availability: make(map[availability.Key]availability.Status, len(a.Availability)),
	}
	for id, m := range a.Members {
		out.Members[id] = m
	}
	for season, schedule := range a.Seasons {
		copied := &match.SeasonSchedule{
			FirstHalf:  append([]match.Match(nil), schedule.FirstHalf...),
			SecondHalf: append([]match.Match(nil), schedule.SecondHalf...),
		}
		out.Seasons[season] = copied
	}
	for key, status := range a.Availability {
		out.Availability[key] = status
	}

	return out
}

// AddMatch prepends a match to its season half, creating the season
// schedule on first use.
func (a *Aggregate) AddMatch(m match.Match) {
	schedule, ok := a.Seasons[m.Season]
	if !ok {
		schedule = &match.SeasonSchedule{}
		a.Seasons[m.Season] = schedule
	}

	switch m.SeasonHalf {
	case match.SecondHalf:
		schedule.SecondHalf = append([]match.Match{m}, schedule.SecondHalf...)
	default:
		schedule.FirstHalf = append([]match.Match{m}, schedule.FirstHalf...)
	}
}

// FindMatch locates a match across all seasons and halves.
func (a Aggregate) FindMatch(matchID string) (match.Match, bool) {
	for _, schedule := range a.Seasons {
		for _, m := range schedule.FirstHalf {
			if m.ID == matchID {
				return m, true
			}
		}
		for _, m := range schedule.SecondHalf {
			if m.ID == matchID {
				return m, true
			}
		}
	}

	return match.Match{}, false
}

// RewriteMatchDate updates the date of a match wherever it sits. Season and
// half are intentionally left as classified at creation time.
func (a *Aggregate) RewriteMatchDate(matchID, newDate string) bool {
	for _, schedule := range a.Seasons {
		for idx := range schedule.FirstHalf {
			if schedule.FirstHalf[idx].ID == matchID {
				schedule.FirstHalf[idx].Date = newDate
				return true
			}
		}
		for idx := range schedule.SecondHalf {
			if schedule.SecondHalf[idx].ID == matchID {
				schedule.SecondHalf[idx].Date = newDate
				return true
			}
		}
	}

	return false
}

// ClearAvailabilityForMatch drops every member's answer for one match.
// O(entries) over the flat relation, acceptable at team scale.
func (a *Aggregate) ClearAvailabilityForMatch(matchID string) int {
	cleared := 0
	for key := range a.Availability {
		if key.MatchID == matchID {
			delete(a.Availability, key)
			cleared++
		}
	}

	return cleared
}

// FlattenMatches returns every match, seasons ascending, first half before
// second, preserving stored order inside each half.
func (a Aggregate) FlattenMatches() []match.Match {
	seasons := make([]int, 0, len(a.Seasons))
	for season := range a.Seasons {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)

	var out []match.Match
	for _, season := range seasons {
		schedule := a.Seasons[season]
		out = append(out, schedule.FirstHalf...)
		out = append(out, schedule.SecondHalf...)
	}

	return out
}

// SortedMembers returns the member list ordered by ID for deterministic
// snapshots.
func (a Aggregate) SortedMembers() []Member {
	out := make([]Member, 0, len(a.Members))
	for _, m := range a.Members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// AvailabilityEntries flattens the relation, ordered by (member, match).
func (a Aggregate) AvailabilityEntries() []availability.Entry {
	out := make([]availability.Entry, 0, len(a.Availability))
	for key, status := range a.Availability {
		out = append(out, availability.Entry{
			MemberID: key.MemberID,
			MatchID:  key.MatchID,
			Status:   status,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MemberID != out[j].MemberID {
			return out[i].MemberID < out[j].MemberID
		}
		return out[i].MatchID < out[j].MatchID
	})

	return out
}
