package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamplan-app/teamplan/internal/domain/availability"
	"github.com/teamplan-app/teamplan/internal/domain/match"
	"github.com/teamplan-app/teamplan/internal/domain/team"
)

type CreateTeamInput struct {
	Name             string
	CreatorName      string
	OtherMemberNames []string
	PlayersNeeded    int
}

// CreatedTeam is delivered to the creating session only; the access code
// never travels in a broadcast.
type CreatedTeam struct {
	Team            team.Team
	CreatorMemberID string
	AccessCode      string
}

// Snapshot is the denormalized view a session receives when it loads a
// team: flattened matches across all seasons and halves, members and the
// full availability relation.
type Snapshot struct {
	Team         team.Team
	Matches      []match.Match
	Members      []team.Member
	Availability []availability.Entry
}

type TeamService struct {
	teamRepo team.Repository
	now      func() time.Time
}

func NewTeamService(teamRepo team.Repository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		now:      time.Now,
	}
}

// CreateTeam allocates a team identity and builds the aggregate with the
// creator as its first member, then one member per extra name in input
// order. Each member consumes one serial tick, so IDs are deterministic
// relative to the counter at call time.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (CreatedTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.CreatorName = strings.TrimSpace(input.CreatorName)
	if input.Name == "" {
		return CreatedTeam{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.CreatorName == "" {
		return CreatedTeam{}, fmt.Errorf("%w: creator name is required", ErrInvalidInput)
	}
	if input.PlayersNeeded < 0 {
		return CreatedTeam{}, fmt.Errorf("%w: players needed must be >= 0", ErrInvalidInput)
	}

	teamID, accessCode, err := s.teamRepo.AllocateTeamIdentity(ctx)
	if err != nil {
		return CreatedTeam{}, fmt.Errorf("allocate team identity: %w", err)
	}

	aggregate := team.NewAggregate(team.Team{
		ID:            teamID,
		Name:          input.Name,
		Slug:          team.Slugify(input.Name),
		PlayersNeeded: input.PlayersNeeded,
		CreatedAt:     s.now().UTC(),
		AccessCode:    accessCode,
	})

	creatorID, err := s.addMember(ctx, &aggregate, input.CreatorName)
	if err != nil {
		return CreatedTeam{}, err
	}
	for _, name := range input.OtherMemberNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := s.addMember(ctx, &aggregate, name); err != nil {
			return CreatedTeam{}, err
		}
	}

	if err := s.teamRepo.Save(ctx, aggregate); err != nil {
		return CreatedTeam{}, fmt.Errorf("save team: %w", err)
	}

	return CreatedTeam{
		Team:            aggregate.Team,
		CreatorMemberID: creatorID,
		AccessCode:      accessCode,
	}, nil
}

// CreateMember adds one member to an existing team. The access code gates
// the mutation like every other team operation.
func (s *TeamService) CreateMember(ctx context.Context, teamID, accessCode, name string) (team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateMember")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return team.Member{}, fmt.Errorf("%w: member name is required", ErrInvalidInput)
	}

	aggregate, err := loadAuthorizedTeam(ctx, s.teamRepo, teamID, accessCode)
	if err != nil {
		return team.Member{}, err
	}

	memberID, err := s.addMember(ctx, &aggregate, name)
	if err != nil {
		return team.Member{}, err
	}

	if err := s.teamRepo.Save(ctx, aggregate); err != nil {
		return team.Member{}, fmt.Errorf("save team: %w", err)
	}

	return aggregate.Members[memberID], nil
}

// Snapshot authorizes and denormalizes one team. It performs no
// subscription bookkeeping; the realtime router owns that.
func (s *TeamService) Snapshot(ctx context.Context, teamID, accessCode string) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Snapshot")
	defer span.End()

	aggregate, err := loadAuthorizedTeam(ctx, s.teamRepo, teamID, accessCode)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Team:         aggregate.Team,
		Matches:      aggregate.FlattenMatches(),
		Members:      aggregate.SortedMembers(),
		Availability: aggregate.AvailabilityEntries(),
	}, nil
}

func (s *TeamService) addMember(ctx context.Context, aggregate *team.Aggregate, name string) (string, error) {
	memberID, err := s.teamRepo.AllocateMemberID(ctx)
	if err != nil {
		return "", fmt.Errorf("allocate member id: %w", err)
	}

	aggregate.Members[memberID] = team.Member{
		ID:     memberID,
		TeamID: aggregate.Team.ID,
		Name:   name,
	}

	return memberID, nil
}

// loadAuthorizedTeam is the single authorization gate: the supplied code
// must equal the team's access code, with no per-member identity beyond it.
// Failures never touch the store.
func loadAuthorizedTeam(ctx context.Context, repo team.Repository, teamID, accessCode string) (team.Aggregate, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Aggregate{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	aggregate, exists, err := repo.Get(ctx, teamID)
	if err != nil {
		return team.Aggregate{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Aggregate{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if aggregate.Team.AccessCode != accessCode {
		return team.Aggregate{}, fmt.Errorf("%w: access code mismatch for team=%s", ErrUnauthorized, teamID)
	}

	return aggregate, nil
}
