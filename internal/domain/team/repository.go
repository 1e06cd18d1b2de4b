package team

import "context"

// Repository is the authoritative store of team aggregates plus the
// identifier state shared by every team. Get and TeamByMatch hand out
// deep copies; Save replaces the stored aggregate wholesale.
type Repository interface {
	Get(ctx context.Context, teamID string) (Aggregate, bool, error)
	Save(ctx context.Context, aggregate Aggregate) error
	// TeamByMatch resolves the team owning a match via the match index.
	// Match IDs are globally unique, so at most one team can own one.
	TeamByMatch(ctx context.Context, matchID string) (string, bool, error)
	// AllocateTeamIdentity consumes pseudo-randomness for a fresh team ID
	// and access code.
	AllocateTeamIdentity(ctx context.Context) (teamID, accessCode string, err error)
	// AllocateMemberID and AllocateMatchID consume one tick of the global
	// monotonic serial each; IDs are never reused across teams.
	AllocateMemberID(ctx context.Context) (string, error)
	AllocateMatchID(ctx context.Context) (string, error)
}
