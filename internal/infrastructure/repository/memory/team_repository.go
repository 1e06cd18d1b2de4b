package memory

import (
	"context"
	"sync"

	"github.com/teamplan-app/teamplan/internal/domain/team"
	"github.com/teamplan-app/teamplan/internal/platform/id"
)

// TeamRepository is the single authoritative store: every team aggregate,
// the match ownership index and the shared identifier state live behind one
// lock. State is process-lifetime only; nothing is ever deleted.
type TeamRepository struct {
	mu          sync.RWMutex
	aggregates  map[string]team.Aggregate
	teamByMatch map[string]string
	idState     id.State
}

func NewTeamRepository(seed uint64) *TeamRepository {
	return &TeamRepository{
		aggregates:  make(map[string]team.Aggregate),
		teamByMatch: make(map[string]string),
		idState:     id.NewState(seed),
	}
}

func (r *TeamRepository) Get(_ context.Context, teamID string) (team.Aggregate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aggregate, ok := r.aggregates[teamID]
	if !ok {
		return team.Aggregate{}, false, nil
	}

	return aggregate.Clone(), true, nil
}

func (r *TeamRepository) Save(_ context.Context, aggregate team.Aggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := aggregate.Clone()
	r.aggregates[stored.Team.ID] = stored

	// Matches are never removed, so the index only ever gains entries.
	for _, m := range stored.FlattenMatches() {
		r.teamByMatch[m.ID] = stored.Team.ID
	}

	return nil
}

func (r *TeamRepository) TeamByMatch(_ context.Context, matchID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.teamByMatch[matchID]
	return teamID, ok, nil
}

func (r *TeamRepository) AllocateTeamIdentity(_ context.Context) (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	teamID, state := r.idState.TeamID()
	accessCode, state := state.AccessCode()
	r.idState = state

	return teamID, accessCode, nil
}

func (r *TeamRepository) AllocateMemberID(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	memberID, state := r.idState.MemberID()
	r.idState = state

	return memberID, nil
}

func (r *TeamRepository) AllocateMatchID(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matchID, state := r.idState.MatchID()
	r.idState = state

	return matchID, nil
}

// IDState exposes a copy of the identifier state for tests asserting that
// failed operations consumed nothing.
func (r *TeamRepository) IDState() id.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.idState
}
