package realtime

import (
	"encoding/json"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/teamplan-app/teamplan/internal/infrastructure/repository/memory"
	"github.com/teamplan-app/teamplan/internal/usecase"
)

type routerFixture struct {
	router *Router
	hub    *Hub
	repo   *memory.TeamRepository
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()

	repo := memory.NewTeamRepository(42)
	hub, err := NewHub(2, nil)
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	t.Cleanup(hub.Close)

	router := NewRouter(
		usecase.NewTeamService(repo),
		usecase.NewMatchService(repo),
		usecase.NewAvailabilityService(repo),
		hub,
		16,
		nil,
	)

	return routerFixture{router: router, hub: hub, repo: repo}
}

func request(t *testing.T, sessionID, kind string, payload any) Request {
	t.Helper()

	data, err := sonic.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	return Request{
		SessionID: sessionID,
		Envelope:  Envelope{Type: kind, Data: json.RawMessage(data)},
	}
}

func createTeam(t *testing.T, f routerFixture, sessionID string) TeamCreatedPayload {
	t.Helper()

	deliveries := f.router.dispatch(t.Context(), request(t, sessionID, TypeCreateTeam, CreateTeamRequest{
		Name:             "FC Blue Lions",
		CreatorName:      "Alice",
		OtherMemberNames: []string{"Bob", "Cara"},
		PlayersNeeded:    10,
	}))
	if len(deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(deliveries))
	}

	payload, ok := deliveries[0].Message.Data.(TeamCreatedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", deliveries[0].Message.Data)
	}

	return payload
}

func TestRouter_CreateTeam_RepliesToCallerOnly(t *testing.T) {
	f := newRouterFixture(t)

	deliveries := f.router.dispatch(t.Context(), request(t, "session-1", TypeCreateTeam, CreateTeamRequest{
		Name:        "Lions",
		CreatorName: "Alice",
	}))

	if len(deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(deliveries))
	}
	if deliveries[0].SessionID != "session-1" || deliveries[0].TeamID != "" {
		t.Fatalf("team creation must reply to the caller, got %+v", deliveries[0])
	}
	if deliveries[0].Message.Type != TypeTeamCreated {
		t.Fatalf("unexpected message type: %s", deliveries[0].Message.Type)
	}

	payload := deliveries[0].Message.Data.(TeamCreatedPayload)
	if payload.AccessCode == "" {
		t.Fatal("creator reply must carry the access code")
	}
	if payload.CreatorMemberID == "" {
		t.Fatal("creator reply must carry the creator member id")
	}
}

func TestRouter_CreateTeam_InvalidPayloadDropped(t *testing.T) {
	f := newRouterFixture(t)

	deliveries := f.router.dispatch(t.Context(), request(t, "session-1", TypeCreateTeam, CreateTeamRequest{
		Name: "Lions",
	}))

	if len(deliveries) != 0 {
		t.Fatalf("missing creator name must be dropped, got %d deliveries", len(deliveries))
	}
}

func TestRouter_LoadTeam_UnknownTeam(t *testing.T) {
	f := newRouterFixture(t)

	deliveries := f.router.dispatch(t.Context(), request(t, "session-1", TypeGetTeam, GetTeamRequest{
		TeamID: "missing99",
	}))

	if len(deliveries) != 1 || deliveries[0].Message.Type != TypeTeamNotFound {
		t.Fatalf("expected teamNotFound reply, got %+v", deliveries)
	}
	if deliveries[0].SessionID != "session-1" {
		t.Fatal("not-found reply must target the caller")
	}
}

func TestRouter_LoadTeam_WrongCodeAsksForAccessCode(t *testing.T) {
	f := newRouterFixture(t)
	created := createTeam(t, f, "owner")

	deliveries := f.router.dispatch(t.Context(), request(t, "session-2", TypeGetTeam, GetTeamRequest{
		TeamID:     created.Team.ID,
		AccessCode: "WRONGCODE",
	}))

	if len(deliveries) != 1 || deliveries[0].Message.Type != TypeAccessCodeRequired {
		t.Fatalf("expected accessCodeRequired reply, got %+v", deliveries)
	}
	payload := deliveries[0].Message.Data.(AccessCodeRequiredPayload)
	if payload.TeamID != created.Team.ID {
		t.Fatalf("unexpected team in reply: %s", payload.TeamID)
	}
	if f.hub.SubscriberCount(created.Team.ID) != 0 {
		t.Fatal("rejected load must not subscribe the session")
	}
}

func TestRouter_LoadTeam_SubscribesAndReturnsSnapshot(t *testing.T) {
	f := newRouterFixture(t)
	created := createTeam(t, f, "owner")

	for _, kind := range []string{TypeGetTeam, TypeSubmitAccessCode} {
		deliveries := f.router.dispatch(t.Context(), request(t, "session-2", kind, GetTeamRequest{
			TeamID:     created.Team.ID,
			AccessCode: created.AccessCode,
		}))

		if len(deliveries) != 1 || deliveries[0].Message.Type != TypeTeamLoaded {
			t.Fatalf("%s: expected teamLoaded reply, got %+v", kind, deliveries)
		}
		payload := deliveries[0].Message.Data.(TeamLoadedPayload)
		if len(payload.Members) != 3 {
			t.Fatalf("%s: unexpected member count %d", kind, len(payload.Members))
		}
	}

	// Two successful loads from the same session subscribe it once.
	if f.hub.SubscriberCount(created.Team.ID) != 1 {
		t.Fatalf("unexpected subscriber count: %d", f.hub.SubscriberCount(created.Team.ID))
	}
}

func TestRouter_CreateMatch_BroadcastsToTeam(t *testing.T) {
	f := newRouterFixture(t)
	created := createTeam(t, f, "owner")

	deliveries := f.router.dispatch(t.Context(), request(t, "owner", TypeCreateMatch, CreateMatchRequest{
		TeamID:     created.Team.ID,
		AccessCode: created.AccessCode,
		Match:      MatchFormPayload{Opponent: "FC Oak", Date: "2024-09-14"},
	}))

	if len(deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(deliveries))
	}
	if deliveries[0].TeamID != created.Team.ID || deliveries[0].SessionID != "" {
		t.Fatalf("match creation must broadcast, got %+v", deliveries[0])
	}
	payload := deliveries[0].Message.Data.(MatchDTO)
	if payload.Season != 2024 || payload.SeasonHalf != "FIRST_HALF" {
		t.Fatalf("unexpected classification: %d/%s", payload.Season, payload.SeasonHalf)
	}
}

func TestRouter_CreateMatch_WrongCodeFailsSilently(t *testing.T) {
	f := newRouterFixture(t)
	created := createTeam(t, f, "owner")

	deliveries := f.router.dispatch(t.Context(), request(t, "intruder", TypeCreateMatch, CreateMatchRequest{
		TeamID:     created.Team.ID,
		AccessCode: "WRONGCODE",
		Match:      MatchFormPayload{Opponent: "FC Oak", Date: "2024-09-14"},
	}))

	if len(deliveries) != 0 {
		t.Fatalf("rejected mutation must produce no deliveries, got %+v", deliveries)
	}
}

func TestRouter_UpdateAvailability_BroadcastsToOwningTeam(t *testing.T) {
	f := newRouterFixture(t)
	created := createTeam(t, f, "owner")

	matchDeliveries := f.router.dispatch(t.Context(), request(t, "owner", TypeCreateMatch, CreateMatchRequest{
		TeamID:     created.Team.ID,
		AccessCode: created.AccessCode,
		Match:      MatchFormPayload{Opponent: "FC Oak", Date: "2024-09-14"},
	}))
	matchID := matchDeliveries[0].Message.Data.(MatchDTO).ID

	deliveries := f.router.dispatch(t.Context(), request(t, "owner", TypeUpdateAvailability, UpdateAvailabilityRequest{
		MemberID:   created.CreatorMemberID,
		MatchID:    matchID,
		Status:     "AVAILABLE",
		AccessCode: created.AccessCode,
	}))

	if len(deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(deliveries))
	}
	if deliveries[0].TeamID != created.Team.ID {
		t.Fatalf("availability update must broadcast to the owning team, got %+v", deliveries[0])
	}
	payload := deliveries[0].Message.Data.(AvailabilityEntryDTO)
	if payload.MemberID != created.CreatorMemberID || payload.Status != "AVAILABLE" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestRouter_ChangeMatchDate_BroadcastsAndClearsAvailability(t *testing.T) {
	f := newRouterFixture(t)
	created := createTeam(t, f, "owner")

	matchDeliveries := f.router.dispatch(t.Context(), request(t, "owner", TypeCreateMatch, CreateMatchRequest{
		TeamID:     created.Team.ID,
		AccessCode: created.AccessCode,
		Match:      MatchFormPayload{Opponent: "FC Oak", Date: "2024-09-14"},
	}))
	matchID := matchDeliveries[0].Message.Data.(MatchDTO).ID

	f.router.dispatch(t.Context(), request(t, "owner", TypeUpdateAvailability, UpdateAvailabilityRequest{
		MemberID:   created.CreatorMemberID,
		MatchID:    matchID,
		Status:     "AVAILABLE",
		AccessCode: created.AccessCode,
	}))

	deliveries := f.router.dispatch(t.Context(), request(t, "owner", TypeChangeMatchDate, ChangeMatchDateRequest{
		TeamID:     created.Team.ID,
		MatchID:    matchID,
		NewDate:    "2025-01-10",
		AccessCode: created.AccessCode,
	}))

	if len(deliveries) != 1 || deliveries[0].Message.Type != TypeMatchDateChanged {
		t.Fatalf("expected matchDateChanged broadcast, got %+v", deliveries)
	}
	payload := deliveries[0].Message.Data.(MatchDateChangedPayload)
	if payload.NewDate != "2025-01-10" || payload.MatchID != matchID {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	loaded := f.router.dispatch(t.Context(), request(t, "owner", TypeGetTeam, GetTeamRequest{
		TeamID:     created.Team.ID,
		AccessCode: created.AccessCode,
	}))
	snapshot := loaded[0].Message.Data.(TeamLoadedPayload)
	if len(snapshot.Availability) != 0 {
		t.Fatalf("date change must clear the match's availability, got %d entries", len(snapshot.Availability))
	}
}

func TestRouter_UnknownType_Dropped(t *testing.T) {
	f := newRouterFixture(t)

	deliveries := f.router.dispatch(t.Context(), Request{
		SessionID: "session-1",
		Envelope:  Envelope{Type: "renameTeam"},
	})

	if deliveries != nil {
		t.Fatalf("unknown request kinds must be dropped, got %+v", deliveries)
	}
}

func TestRouter_Submit_DropsMalformedFrames(t *testing.T) {
	f := newRouterFixture(t)

	f.router.Submit(t.Context(), "session-1", []byte("{not json"))
	f.router.Submit(t.Context(), "session-1", []byte(`{"data":{}}`))

	if queued := len(f.router.requests); queued != 0 {
		t.Fatalf("malformed frames must not enqueue, got %d", queued)
	}

	f.router.Submit(t.Context(), "session-1", []byte(`{"type":"getTeam","data":{"teamId":"x"}}`))
	if queued := len(f.router.requests); queued != 1 {
		t.Fatalf("valid frame should enqueue, got %d", queued)
	}
}
