package realtime

import (
	"context"
	"errors"
	"log/slog"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/teamplan-app/teamplan/internal/domain/availability"
	"github.com/teamplan-app/teamplan/internal/usecase"
)

// Request is one inbound envelope tied to the session that sent it.
type Request struct {
	SessionID string
	Envelope  Envelope
}

// Delivery targets either the calling session (SessionID set) or every
// subscriber of a team (TeamID set).
type Delivery struct {
	SessionID string
	TeamID    string
	Message   Outbound
}

// Router is the single entry point for mutation requests. One goroutine
// consumes the queue in Run, so every request is processed to completion
// before the next starts: no partial-update visibility, no store races.
type Router struct {
	teamService         *usecase.TeamService
	matchService        *usecase.MatchService
	availabilityService *usecase.AvailabilityService
	hub                 *Hub
	logger              *slog.Logger
	validator           *validator.Validate
	requests            chan Request
}

func NewRouter(
	teamService *usecase.TeamService,
	matchService *usecase.MatchService,
	availabilityService *usecase.AvailabilityService,
	hub *Hub,
	queueSize int,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	return &Router{
		teamService:         teamService,
		matchService:        matchService,
		availabilityService: availabilityService,
		hub:                 hub,
		logger:              logger,
		validator:           validator.New(),
		requests:            make(chan Request, queueSize),
	}
}

// Submit parses a raw frame and queues it. Malformed envelopes are logged
// and dropped; a full queue blocks the transport's read pump, which is the
// backpressure we want.
func (r *Router) Submit(ctx context.Context, sessionID string, raw []byte) {
	var envelope Envelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		r.logger.Warn("dropping malformed envelope", "session_id", sessionID, "error", err)
		return
	}
	if envelope.Type == "" {
		r.logger.Warn("dropping envelope without type", "session_id", sessionID)
		return
	}

	select {
	case r.requests <- Request{SessionID: sessionID, Envelope: envelope}:
	case <-ctx.Done():
	}
}

// Run processes requests until the context is cancelled. It is the only
// goroutine that drives mutations, giving the store its one-mutation-in-
// flight guarantee. Deliveries are handed to the hub after the store work
// for a request has completed.
func (r *Router) Run(ctx context.Context) {
	r.logger.Info("request router started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("request router stopped")
			return
		case request := <-r.requests:
			for _, delivery := range r.dispatch(ctx, request) {
				if delivery.SessionID != "" {
					r.hub.SendTo(delivery.SessionID, delivery.Message)
					continue
				}
				r.hub.Broadcast(delivery.TeamID, delivery.Message)
			}
		}
	}
}

// dispatch applies the per-kind authorization and fan-out policy:
//
//	createTeam          -> reply to caller only (team, creator id, code)
//	getTeam             -> subscribe + snapshot; NotFound and bad code get
//	submitAccessCode       explicit replies
//	createMatch         -> broadcast to subscribers; failures are silent
//	createMember        -> broadcast; failures silent
//	updateAvailability  -> broadcast to the owning team; failures silent
//	changeMatchDate     -> broadcast; failures silent
//
// The silent-failure path on mutating kinds mirrors the explicit
// accessCodeRequired reply on the two load kinds; the asymmetry is kept
// deliberately.
func (r *Router) dispatch(ctx context.Context, request Request) []Delivery {
	switch request.Envelope.Type {
	case TypeCreateTeam:
		return r.handleCreateTeam(ctx, request)
	case TypeGetTeam, TypeSubmitAccessCode:
		return r.handleLoadTeam(ctx, request)
	case TypeCreateMatch:
		return r.handleCreateMatch(ctx, request)
	case TypeCreateMember:
		return r.handleCreateMember(ctx, request)
	case TypeUpdateAvailability:
		return r.handleUpdateAvailability(ctx, request)
	case TypeChangeMatchDate:
		return r.handleChangeMatchDate(ctx, request)
	default:
		r.logger.Warn("unknown request type",
			"session_id", request.SessionID, "type", request.Envelope.Type)
		return nil
	}
}

func (r *Router) handleCreateTeam(ctx context.Context, request Request) []Delivery {
	var payload CreateTeamRequest
	if !r.decode(request, &payload) {
		return nil
	}

	created, err := r.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		Name:             payload.Name,
		CreatorName:      payload.CreatorName,
		OtherMemberNames: payload.OtherMemberNames,
		PlayersNeeded:    payload.PlayersNeeded,
	})
	if err != nil {
		r.logger.Warn("create team rejected", "session_id", request.SessionID, "error", err)
		return nil
	}

	return []Delivery{{
		SessionID: request.SessionID,
		Message: Outbound{
			Type: TypeTeamCreated,
			Data: TeamCreatedPayload{
				Team:            teamToDTO(created.Team),
				CreatorMemberID: created.CreatorMemberID,
				AccessCode:      created.AccessCode,
			},
		},
	}}
}

// handleLoadTeam serves both getTeam and submitAccessCode; they share
// authorization, subscription and response shape.
func (r *Router) handleLoadTeam(ctx context.Context, request Request) []Delivery {
	var payload GetTeamRequest
	if !r.decode(request, &payload) {
		return nil
	}

	snapshot, err := r.teamService.Snapshot(ctx, payload.TeamID, payload.AccessCode)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return []Delivery{{
			SessionID: request.SessionID,
			Message:   Outbound{Type: TypeTeamNotFound},
		}}
	case errors.Is(err, usecase.ErrUnauthorized):
		return []Delivery{{
			SessionID: request.SessionID,
			Message: Outbound{
				Type: TypeAccessCodeRequired,
				Data: AccessCodeRequiredPayload{TeamID: payload.TeamID},
			},
		}}
	case err != nil:
		r.logger.Warn("load team rejected", "session_id", request.SessionID, "error", err)
		return nil
	}

	r.hub.Subscribe(snapshot.Team.ID, request.SessionID)

	return []Delivery{{
		SessionID: request.SessionID,
		Message: Outbound{
			Type: TypeTeamLoaded,
			Data: snapshotToPayload(snapshot),
		},
	}}
}

func (r *Router) handleCreateMatch(ctx context.Context, request Request) []Delivery {
	var payload CreateMatchRequest
	if !r.decode(request, &payload) {
		return nil
	}

	created, err := r.matchService.CreateMatch(ctx, usecase.CreateMatchInput{
		TeamID:     payload.TeamID,
		AccessCode: payload.AccessCode,
		Form: usecase.MatchForm{
			Opponent: payload.Match.Opponent,
			Date:     payload.Match.Date,
			Time:     payload.Match.Time,
			IsHome:   payload.Match.IsHome,
			Venue:    payload.Match.Venue,
			Matchday: payload.Match.Matchday,
		},
	})
	if err != nil {
		r.silentFailure("create match", request, err)
		return nil
	}

	return []Delivery{{
		TeamID:  payload.TeamID,
		Message: Outbound{Type: TypeMatchCreated, Data: matchToDTO(created)},
	}}
}

func (r *Router) handleCreateMember(ctx context.Context, request Request) []Delivery {
	var payload CreateMemberRequest
	if !r.decode(request, &payload) {
		return nil
	}

	created, err := r.teamService.CreateMember(ctx, payload.TeamID, payload.AccessCode, payload.Name)
	if err != nil {
		r.silentFailure("create member", request, err)
		return nil
	}

	return []Delivery{{
		TeamID:  payload.TeamID,
		Message: Outbound{Type: TypeMemberCreated, Data: memberToDTO(created)},
	}}
}

func (r *Router) handleUpdateAvailability(ctx context.Context, request Request) []Delivery {
	var payload UpdateAvailabilityRequest
	if !r.decode(request, &payload) {
		return nil
	}

	updated, err := r.availabilityService.Update(ctx, usecase.UpdateAvailabilityInput{
		MemberID:   payload.MemberID,
		MatchID:    payload.MatchID,
		Status:     availability.Status(payload.Status),
		AccessCode: payload.AccessCode,
	})
	if err != nil {
		r.silentFailure("update availability", request, err)
		return nil
	}

	return []Delivery{{
		TeamID:  updated.TeamID,
		Message: Outbound{Type: TypeAvailabilityUpdated, Data: entryToDTO(updated.Entry)},
	}}
}

func (r *Router) handleChangeMatchDate(ctx context.Context, request Request) []Delivery {
	var payload ChangeMatchDateRequest
	if !r.decode(request, &payload) {
		return nil
	}

	change, err := r.matchService.ChangeMatchDate(ctx, usecase.ChangeMatchDateInput{
		TeamID:     payload.TeamID,
		MatchID:    payload.MatchID,
		NewDate:    payload.NewDate,
		AccessCode: payload.AccessCode,
	})
	if err != nil {
		r.silentFailure("change match date", request, err)
		return nil
	}

	return []Delivery{{
		TeamID: payload.TeamID,
		Message: Outbound{
			Type: TypeMatchDateChanged,
			Data: MatchDateChangedPayload{
				TeamID:  payload.TeamID,
				MatchID: change.MatchID,
				NewDate: change.NewDate,
			},
		},
	}}
}

// decode unmarshals and validates a request payload. Invalid payloads are
// dropped without a reply, same as any other failed mutation.
func (r *Router) decode(request Request, payload any) bool {
	if err := sonic.Unmarshal(request.Envelope.Data, payload); err != nil {
		r.logger.Warn("dropping undecodable payload",
			"session_id", request.SessionID, "type", request.Envelope.Type, "error", err)
		return false
	}
	if err := r.validator.Struct(payload); err != nil {
		r.logger.Warn("dropping invalid payload",
			"session_id", request.SessionID, "type", request.Envelope.Type, "error", err)
		return false
	}

	return true
}

// silentFailure logs a rejected mutating request. By design the caller
// receives nothing: only the two load kinds answer bad codes explicitly.
func (r *Router) silentFailure(operation string, request Request, err error) {
	r.logger.Warn(operation+" rejected",
		"session_id", request.SessionID, "error", err)
}
