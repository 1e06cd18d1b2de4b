package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/teamplan-app/teamplan/internal/domain/team"
	teammock "github.com/teamplan-app/teamplan/internal/mocks/domain/team"
)

func TestTeamService_CreateMember_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo)

	stored := team.NewAggregate(team.Team{
		ID:         "lions9abcd",
		Name:       "Lions",
		AccessCode: "CODE1234",
	})

	teamRepo.
		On("Get", mock.Anything, "lions9abcd").
		Return(stored, true, nil).
		Once()
	teamRepo.
		On("AllocateMemberID", mock.Anything).
		Return("mbr-000007", nil).
		Once()
	teamRepo.
		On("Save", mock.Anything, mock.MatchedBy(func(a team.Aggregate) bool {
			member, ok := a.Members["mbr-000007"]
			return ok && member.Name == "Dana" && member.TeamID == "lions9abcd"
		})).
		Return(nil).
		Once()

	member, err := service.CreateMember(ctx, "lions9abcd", "CODE1234", "Dana")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if member.ID != "mbr-000007" {
		t.Fatalf("unexpected member id: %s", member.ID)
	}
}

func TestTeamService_CreateMember_SaveErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo)

	stored := team.NewAggregate(team.Team{
		ID:         "lions9abcd",
		Name:       "Lions",
		AccessCode: "CODE1234",
	})
	storeErr := errors.New("store unavailable")

	teamRepo.
		On("Get", mock.Anything, "lions9abcd").
		Return(stored, true, nil).
		Once()
	teamRepo.
		On("AllocateMemberID", mock.Anything).
		Return("mbr-000007", nil).
		Once()
	teamRepo.
		On("Save", mock.Anything, mock.Anything).
		Return(storeErr).
		Once()

	_, err := service.CreateMember(ctx, "lions9abcd", "CODE1234", "Dana")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestTeamService_CreateMember_WrongCodeNeverSavesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo)

	stored := team.NewAggregate(team.Team{
		ID:         "lions9abcd",
		Name:       "Lions",
		AccessCode: "CODE1234",
	})

	teamRepo.
		On("Get", mock.Anything, "lions9abcd").
		Return(stored, true, nil).
		Once()

	_, err := service.CreateMember(ctx, "lions9abcd", "WRONGCODE", "Dana")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
