package team

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Lions", want: "lions"},
		{name: "spaces collapse", in: "FC  Blue   Lions", want: "fc-blue-lions"},
		{name: "punctuation collapses", in: "St. Pauli / West!", want: "st-pauli-west"},
		{name: "digits kept", in: "Team 2000", want: "team-2000"},
		{name: "leading and trailing junk", in: "  --Lions-- ", want: "lions"},
		{name: "empty", in: "", want: ""},
		{name: "only junk", in: "!!!", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTeam_Validate(t *testing.T) {
	valid := Team{ID: "abc", Name: "Lions", AccessCode: "CODE", PlayersNeeded: 10}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid team rejected: %v", err)
	}

	if err := (Team{Name: "Lions", AccessCode: "CODE"}).Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := (Team{ID: "abc", AccessCode: "CODE"}).Validate(); err == nil {
		t.Fatal("expected error for missing name")
	}
	if err := (Team{ID: "abc", Name: "Lions"}).Validate(); err == nil {
		t.Fatal("expected error for missing access code")
	}
	if err := (Team{ID: "abc", Name: "Lions", AccessCode: "CODE", PlayersNeeded: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative players needed")
	}
}

func TestMember_Validate(t *testing.T) {
	valid := Member{ID: "mbr-000001", TeamID: "abc", Name: "Alice"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid member rejected: %v", err)
	}
	if err := (Member{ID: "mbr-000001", TeamID: "abc"}).Validate(); err == nil {
		t.Fatal("expected error for missing name")
	}
}
