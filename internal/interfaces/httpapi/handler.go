package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teamplan-app/teamplan/internal/usecase"
)

type Handler struct {
	teamService *usecase.TeamService
	logger      *slog.Logger
	validator   *validator.Validate
}

func NewHandler(teamService *usecase.TeamService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		teamService: teamService,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type snapshotQuery struct {
	TeamID     string `validate:"required"`
	AccessCode string `validate:"required"`
}

// GetTeamSnapshot is the read-only convenience path: same authorization as
// the realtime load, same denormalized shape, but no subscription. The
// access code travels as a query parameter.
func (h *Handler) GetTeamSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSnapshot")
	defer span.End()

	query := snapshotQuery{
		TeamID:     r.PathValue("teamID"),
		AccessCode: r.URL.Query().Get("code"),
	}
	if err := h.validator.StructCtx(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err))
		return
	}

	snapshot, err := h.teamService.Snapshot(ctx, query.TeamID, query.AccessCode)
	if err != nil {
		h.logger.WarnContext(ctx, "team snapshot failed", "team_id", query.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snapshot))
}

type teamDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	PlayersNeeded int       `json:"playersNeeded"`
	CreatedAt     time.Time `json:"createdAt"`
}

type memberDTO struct {
	ID     string `json:"id"`
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
}

type matchDTO struct {
	ID         string `json:"id"`
	Opponent   string `json:"opponent"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	IsHome     bool   `json:"isHome"`
	Venue      string `json:"venue"`
	Season     int    `json:"season"`
	SeasonHalf string `json:"seasonHalf"`
	Matchday   int    `json:"matchday"`
}

type availabilityEntryDTO struct {
	MemberID string `json:"memberId"`
	MatchID  string `json:"matchId"`
	Status   string `json:"status"`
}

type snapshotDTO struct {
	Team         teamDTO                `json:"team"`
	Matches      []matchDTO             `json:"matches"`
	Members      []memberDTO            `json:"members"`
	Availability []availabilityEntryDTO `json:"availability"`
}

func snapshotToDTO(s usecase.Snapshot) snapshotDTO {
	out := snapshotDTO{
		Team: teamDTO{
			ID:            s.Team.ID,
			Name:          s.Team.Name,
			Slug:          s.Team.Slug,
			PlayersNeeded: s.Team.PlayersNeeded,
			CreatedAt:     s.Team.CreatedAt,
		},
		Matches:      make([]matchDTO, 0, len(s.Matches)),
		Members:      make([]memberDTO, 0, len(s.Members)),
		Availability: make([]availabilityEntryDTO, 0, len(s.Availability)),
	}
	for _, m := range s.Matches {
		out.Matches = append(out.Matches, matchDTO{
			ID:         m.ID,
			Opponent:   m.Opponent,
			Date:       m.Date,
			Time:       m.Time,
			IsHome:     m.IsHome,
			Venue:      m.Venue,
			Season:     m.Season,
			SeasonHalf: string(m.SeasonHalf),
			Matchday:   m.Matchday,
		})
	}
	for _, m := range s.Members {
		out.Members = append(out.Members, memberDTO{ID: m.ID, TeamID: m.TeamID, Name: m.Name})
	}
	for _, e := range s.Availability {
		out.Availability = append(out.Availability, availabilityEntryDTO{
			MemberID: e.MemberID,
			MatchID:  e.MatchID,
			Status:   string(e.Status),
		})
	}

	return out
}
