package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/teamplan-app/teamplan/internal/domain/match"
	"github.com/teamplan-app/teamplan/internal/domain/team"
)

// MatchForm is the client-supplied part of a match. Season and half are
// derived server-side from the date at creation time.
type MatchForm struct {
	Opponent string
	Date     string
	Time     string
	IsHome   bool
	Venue    string
	Matchday int
}

type CreateMatchInput struct {
	TeamID     string
	AccessCode string
	Form       MatchForm
}

type ChangeMatchDateInput struct {
	TeamID     string
	MatchID    string
	NewDate    string
	AccessCode string
}

// DateChange reports a rewritten match date and how many availability
// entries were invalidated by it.
type DateChange struct {
	MatchID string
	NewDate string
	Cleared int
}

type MatchService struct {
	teamRepo team.Repository
}

func NewMatchService(teamRepo team.Repository) *MatchService {
	return &MatchService{teamRepo: teamRepo}
}

// CreateMatch classifies the form's date into a season and half, then
// prepends the match to that bucket. An unparsable date degrades to the
// fallback season instead of failing.
func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch")
	defer span.End()

	input.Form.Opponent = strings.TrimSpace(input.Form.Opponent)
	input.Form.Date = strings.TrimSpace(input.Form.Date)
	if input.Form.Opponent == "" {
		return match.Match{}, fmt.Errorf("%w: opponent is required", ErrInvalidInput)
	}
	if input.Form.Date == "" {
		return match.Match{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	aggregate, err := loadAuthorizedTeam(ctx, s.teamRepo, input.TeamID, input.AccessCode)
	if err != nil {
		return match.Match{}, err
	}

	matchID, err := s.teamRepo.AllocateMatchID(ctx)
	if err != nil {
		return match.Match{}, fmt.Errorf("allocate match id: %w", err)
	}

	season, half := match.Classify(input.Form.Date)
	created := match.Match{
		ID:         matchID,
		Opponent:   input.Form.Opponent,
		Date:       input.Form.Date,
		Time:       strings.TrimSpace(input.Form.Time),
		IsHome:     input.Form.IsHome,
		Venue:      strings.TrimSpace(input.Form.Venue),
		Season:     season,
		SeasonHalf: half,
		Matchday:   input.Form.Matchday,
	}

	aggregate.AddMatch(created)
	if err := s.teamRepo.Save(ctx, aggregate); err != nil {
		return match.Match{}, fmt.Errorf("save team: %w", err)
	}

	return created, nil
}

// ChangeMatchDate rewrites the date in place and clears every availability
// answer for the match: a moved match invalidates all prior responses.
// Season and half keep their creation-time classification on purpose.
func (s *MatchService) ChangeMatchDate(ctx context.Context, input ChangeMatchDateInput) (DateChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ChangeMatchDate")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.NewDate = strings.TrimSpace(input.NewDate)
	if input.MatchID == "" {
		return DateChange{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.NewDate == "" {
		return DateChange{}, fmt.Errorf("%w: new date is required", ErrInvalidInput)
	}

	aggregate, err := loadAuthorizedTeam(ctx, s.teamRepo, input.TeamID, input.AccessCode)
	if err != nil {
		return DateChange{}, err
	}

	if !aggregate.RewriteMatchDate(input.MatchID, input.NewDate) {
		return DateChange{}, fmt.Errorf("%w: match=%s in team=%s", ErrNotFound, input.MatchID, input.TeamID)
	}
	cleared := aggregate.ClearAvailabilityForMatch(input.MatchID)

	if err := s.teamRepo.Save(ctx, aggregate); err != nil {
		return DateChange{}, fmt.Errorf("save team: %w", err)
	}

	return DateChange{
		MatchID: input.MatchID,
		NewDate: input.NewDate,
		Cleared: cleared,
	}, nil
}
