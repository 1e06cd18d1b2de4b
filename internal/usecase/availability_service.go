package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/teamplan-app/teamplan/internal/domain/availability"
	"github.com/teamplan-app/teamplan/internal/domain/team"
)

type UpdateAvailabilityInput struct {
	MemberID   string
	MatchID    string
	Status     availability.Status
	AccessCode string
}

// AvailabilityUpdate names the team so the caller knows where to fan the
// change out; the request itself only carries member and match.
type AvailabilityUpdate struct {
	TeamID string
	Entry  availability.Entry
}

type AvailabilityService struct {
	teamRepo team.Repository
}

func NewAvailabilityService(teamRepo team.Repository) *AvailabilityService {
	return &AvailabilityService{teamRepo: teamRepo}
}

// Update upserts one (member, match) answer. The owning team is resolved
// through the match index; match IDs are globally unique so at most one
// team can match.
func (s *AvailabilityService) Update(ctx context.Context, input UpdateAvailabilityInput) (AvailabilityUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.Update")
	defer span.End()

	input.MemberID = strings.TrimSpace(input.MemberID)
	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MemberID == "" {
		return AvailabilityUpdate{}, fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	if input.MatchID == "" {
		return AvailabilityUpdate{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if _, err := availability.ParseStatus(string(input.Status)); err != nil {
		return AvailabilityUpdate{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	teamID, found, err := s.teamRepo.TeamByMatch(ctx, input.MatchID)
	if err != nil {
		return AvailabilityUpdate{}, fmt.Errorf("resolve match owner: %w", err)
	}
	if !found {
		return AvailabilityUpdate{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}

	aggregate, err := loadAuthorizedTeam(ctx, s.teamRepo, teamID, input.AccessCode)
	if err != nil {
		return AvailabilityUpdate{}, err
	}

	if _, ok := aggregate.Members[input.MemberID]; !ok {
		return AvailabilityUpdate{}, fmt.Errorf("%w: member=%s in team=%s", ErrNotFound, input.MemberID, teamID)
	}

	key := availability.Key{MemberID: input.MemberID, MatchID: input.MatchID}
	aggregate.Availability[key] = input.Status

	if err := s.teamRepo.Save(ctx, aggregate); err != nil {
		return AvailabilityUpdate{}, fmt.Errorf("save team: %w", err)
	}

	return AvailabilityUpdate{
		TeamID: teamID,
		Entry: availability.Entry{
			MemberID: input.MemberID,
			MatchID:  input.MatchID,
			Status:   input.Status,
		},
	}, nil
}
