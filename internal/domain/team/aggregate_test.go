package team

import (
	"testing"

	"github.com/teamplan-app/teamplan/internal/domain/availability"
	"github.com/teamplan-app/teamplan/internal/domain/match"
)

func seedAggregate() Aggregate {
	aggregate := NewAggregate(Team{ID: "lions9abcd", Name: "Lions", AccessCode: "CODE1234"})
	aggregate.Members["mbr-000001"] = Member{ID: "mbr-000001", TeamID: "lions9abcd", Name: "Alice"}
	aggregate.AddMatch(match.Match{
		ID: "mch-000002", Opponent: "FC Oak", Date: "2024-09-14",
		Season: 2024, SeasonHalf: match.FirstHalf,
	})
	aggregate.Availability[availability.Key{MemberID: "mbr-000001", MatchID: "mch-000002"}] = availability.StatusAvailable

	return aggregate
}

func TestAggregate_Clone_IsDeep(t *testing.T) {
	original := seedAggregate()
	clone := original.Clone()

	clone.Members["mbr-000009"] = Member{ID: "mbr-000009", TeamID: "lions9abcd", Name: "Zoe"}
	clone.Seasons[2024].FirstHalf[0].Date = "2030-01-01"
	clone.Availability[availability.Key{MemberID: "mbr-000001", MatchID: "mch-000002"}] = availability.StatusMaybe

	if len(original.Members) != 1 {
		t.Fatalf("clone mutation leaked into original members: %d", len(original.Members))
	}
	if original.Seasons[2024].FirstHalf[0].Date != "2024-09-14" {
		t.Fatalf("clone mutation leaked into original schedule: %s", original.Seasons[2024].FirstHalf[0].Date)
	}
	key := availability.Key{MemberID: "mbr-000001", MatchID: "mch-000002"}
	if original.Availability[key] != availability.StatusAvailable {
		t.Fatalf("clone mutation leaked into original availability: %s", original.Availability[key])
	}
}

func TestAggregate_AddMatch_PrependsNewestFirst(t *testing.T) {
	aggregate := NewAggregate(Team{ID: "lions9abcd"})

	aggregate.AddMatch(match.Match{ID: "mch-000001", Season: 2024, SeasonHalf: match.FirstHalf})
	aggregate.AddMatch(match.Match{ID: "mch-000002", Season: 2024, SeasonHalf: match.FirstHalf})
	aggregate.AddMatch(match.Match{ID: "mch-000003", Season: 2024, SeasonHalf: match.SecondHalf})

	first := aggregate.Seasons[2024].FirstHalf
	if len(first) != 2 || first[0].ID != "mch-000002" || first[1].ID != "mch-000001" {
		t.Fatalf("unexpected first half order: %+v", first)
	}
	second := aggregate.Seasons[2024].SecondHalf
	if len(second) != 1 || second[0].ID != "mch-000003" {
		t.Fatalf("unexpected second half: %+v", second)
	}
}

func TestAggregate_FindMatch(t *testing.T) {
	aggregate := seedAggregate()

	found, ok := aggregate.FindMatch("mch-000002")
	if !ok || found.Opponent != "FC Oak" {
		t.Fatalf("expected to find match, got ok=%v match=%+v", ok, found)
	}

	if _, ok := aggregate.FindMatch("mch-999999"); ok {
		t.Fatal("found a match that does not exist")
	}
}

func TestAggregate_RewriteMatchDate_KeepsClassification(t *testing.T) {
	aggregate := seedAggregate()

	if !aggregate.RewriteMatchDate("mch-000002", "2025-01-10") {
		t.Fatal("rewrite reported miss for existing match")
	}

	rewritten, _ := aggregate.FindMatch("mch-000002")
	if rewritten.Date != "2025-01-10" {
		t.Fatalf("date not rewritten: %s", rewritten.Date)
	}
	if rewritten.Season != 2024 || rewritten.SeasonHalf != match.FirstHalf {
		t.Fatalf("classification must not change on rewrite: season=%d half=%s",
			rewritten.Season, rewritten.SeasonHalf)
	}

	if aggregate.RewriteMatchDate("mch-999999", "2025-01-10") {
		t.Fatal("rewrite reported hit for missing match")
	}
}

func TestAggregate_ClearAvailabilityForMatch_OnlyThatMatch(t *testing.T) {
	aggregate := seedAggregate()
	aggregate.AddMatch(match.Match{ID: "mch-000003", Season: 2024, SeasonHalf: match.FirstHalf})
	aggregate.Availability[availability.Key{MemberID: "mbr-000001", MatchID: "mch-000003"}] = availability.StatusMaybe

	cleared := aggregate.ClearAvailabilityForMatch("mch-000002")

	if cleared != 1 {
		t.Fatalf("unexpected cleared count: %d", cleared)
	}
	if _, ok := aggregate.Availability[availability.Key{MemberID: "mbr-000001", MatchID: "mch-000002"}]; ok {
		t.Fatal("entry for cleared match survived")
	}
	if aggregate.Availability[availability.Key{MemberID: "mbr-000001", MatchID: "mch-000003"}] != availability.StatusMaybe {
		t.Fatal("entry for other match was lost")
	}
}

func TestAggregate_FlattenMatches_Order(t *testing.T) {
	aggregate := NewAggregate(Team{ID: "lions9abcd"})
	aggregate.AddMatch(match.Match{ID: "mch-000005", Season: 2025, SeasonHalf: match.FirstHalf})
	aggregate.AddMatch(match.Match{ID: "mch-000001", Season: 2024, SeasonHalf: match.SecondHalf})
	aggregate.AddMatch(match.Match{ID: "mch-000002", Season: 2024, SeasonHalf: match.FirstHalf})

	flat := aggregate.FlattenMatches()
	want := []string{"mch-000002", "mch-000001", "mch-000005"}
	if len(flat) != len(want) {
		t.Fatalf("unexpected match count: %d", len(flat))
	}
	for i, id := range want {
		if flat[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, flat[i].ID, id)
		}
	}
}

func TestAggregate_AvailabilityEntries_Sorted(t *testing.T) {
	aggregate := NewAggregate(Team{ID: "lions9abcd"})
	aggregate.Availability[availability.Key{MemberID: "mbr-000002", MatchID: "mch-000001"}] = availability.StatusMaybe
	aggregate.Availability[availability.Key{MemberID: "mbr-000001", MatchID: "mch-000002"}] = availability.StatusAvailable
	aggregate.Availability[availability.Key{MemberID: "mbr-000001", MatchID: "mch-000001"}] = availability.StatusUnavailable

	entries := aggregate.AvailabilityEntries()
	if len(entries) != 3 {
		t.Fatalf("unexpected entry count: %d", len(entries))
	}
	if entries[0].MemberID != "mbr-000001" || entries[0].MatchID != "mch-000001" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].MemberID != "mbr-000001" || entries[1].MatchID != "mch-000002" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if entries[2].MemberID != "mbr-000002" {
		t.Fatalf("unexpected third entry: %+v", entries[2])
	}
}
