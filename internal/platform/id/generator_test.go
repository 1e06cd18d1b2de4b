package id

import (
	"strings"
	"testing"
)

func TestState_TeamID_DeterministicForSeed(t *testing.T) {
	first, _ := NewState(42).TeamID()
	second, _ := NewState(42).TeamID()

	if first != second {
		t.Fatalf("same seed produced different team ids: %s vs %s", first, second)
	}
	if len(first) != teamIDLength {
		t.Fatalf("unexpected team id length: %d", len(first))
	}
	for _, r := range first {
		if !strings.ContainsRune(teamIDAlphabet, r) {
			t.Fatalf("team id %q contains %q outside alphabet", first, r)
		}
	}
}

func TestState_TeamID_AdvancesSeed(t *testing.T) {
	state := NewState(7)

	first, state := state.TeamID()
	second, state := state.TeamID()
	third, _ := state.TeamID()

	if first == second || second == third || first == third {
		t.Fatalf("consecutive draws collided: %s %s %s", first, second, third)
	}
}

func TestState_AccessCode_Format(t *testing.T) {
	code, next := NewState(99).AccessCode()

	if len(code) != accessCodeLength {
		t.Fatalf("unexpected access code length: %d", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(accessCodeAlphabet, r) {
			t.Fatalf("access code %q contains %q outside alphabet", code, r)
		}
	}
	if next.Seed == 99 {
		t.Fatal("seed did not advance")
	}
	if next.Serial != 0 {
		t.Fatalf("access code draw must not touch the serial, got %d", next.Serial)
	}
}

func TestState_MemberAndMatchID_ShareSerial(t *testing.T) {
	state := NewState(1)

	memberID, state := state.MemberID()
	matchID, state := state.MatchID()
	secondMember, state := state.MemberID()

	if memberID != "mbr-000001" {
		t.Fatalf("unexpected first member id: %s", memberID)
	}
	if matchID != "mch-000002" {
		t.Fatalf("unexpected match id: %s", matchID)
	}
	if secondMember != "mbr-000003" {
		t.Fatalf("unexpected second member id: %s", secondMember)
	}
	if state.Serial != 3 {
		t.Fatalf("unexpected serial: %d", state.Serial)
	}
}

func TestState_SerialIndependentOfSeedDraws(t *testing.T) {
	state := NewState(5)

	_, state = state.TeamID()
	_, state = state.AccessCode()
	memberID, _ := state.MemberID()

	if memberID != "mbr-000001" {
		t.Fatalf("seed draws should not consume serial ticks, got %s", memberID)
	}
}
