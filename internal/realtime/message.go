package realtime

import (
	"encoding/json"
	"time"

	"github.com/teamplan-app/teamplan/internal/domain/availability"
	"github.com/teamplan-app/teamplan/internal/domain/match"
	"github.com/teamplan-app/teamplan/internal/domain/team"
	"github.com/teamplan-app/teamplan/internal/usecase"
)

// Inbound request kinds.
const (
	TypeCreateTeam         = "createTeam"
	TypeGetTeam            = "getTeam"
	TypeCreateMatch        = "createMatch"
	TypeCreateMember       = "createMember"
	TypeUpdateAvailability = "updateAvailability"
	TypeChangeMatchDate    = "changeMatchDate"
	TypeSubmitAccessCode   = "submitAccessCode"
)

// Outbound message kinds.
const (
	TypeTeamCreated         = "teamCreated"
	TypeTeamLoaded          = "teamLoaded"
	TypeAccessCodeRequired  = "accessCodeRequired"
	TypeTeamNotFound        = "teamNotFound"
	TypeMatchCreated        = "matchCreated"
	TypeMemberCreated       = "memberCreated"
	TypeAvailabilityUpdated = "availabilityUpdated"
	TypeMatchDateChanged    = "matchDateChanged"
)

// Envelope is the tagged wire frame both directions: a request kind plus
// its raw payload inbound, a message kind plus a concrete payload outbound.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Outbound pairs a message kind with an encodable payload; the hub owns
// the actual encoding.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type CreateTeamRequest struct {
	Name             string   `json:"name" validate:"required"`
	CreatorName      string   `json:"creatorName" validate:"required"`
	OtherMemberNames []string `json:"otherMemberNames"`
	PlayersNeeded    int      `json:"playersNeeded" validate:"gte=0"`
}

type GetTeamRequest struct {
	TeamID     string `json:"teamId" validate:"required"`
	AccessCode string `json:"accessCode"`
}

type MatchFormPayload struct {
	Opponent string `json:"opponent" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time"`
	IsHome   bool   `json:"isHome"`
	Venue    string `json:"venue"`
	Matchday int    `json:"matchday" validate:"gte=0"`
}

type CreateMatchRequest struct {
	TeamID     string           `json:"teamId" validate:"required"`
	AccessCode string           `json:"accessCode"`
	Match      MatchFormPayload `json:"match" validate:"required"`
}

type CreateMemberRequest struct {
	TeamID     string `json:"teamId" validate:"required"`
	AccessCode string `json:"accessCode"`
	Name       string `json:"name" validate:"required"`
}

type UpdateAvailabilityRequest struct {
	MemberID   string `json:"memberId" validate:"required"`
	MatchID    string `json:"matchId" validate:"required"`
	Status     string `json:"status" validate:"required"`
	AccessCode string `json:"accessCode"`
}

type ChangeMatchDateRequest struct {
	TeamID     string `json:"teamId" validate:"required"`
	MatchID    string `json:"matchId" validate:"required"`
	NewDate    string `json:"newDate" validate:"required"`
	AccessCode string `json:"accessCode"`
}

type TeamDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	PlayersNeeded int       `json:"playersNeeded"`
	CreatedAt     time.Time `json:"createdAt"`
}

type MemberDTO struct {
	ID     string `json:"id"`
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
}

type MatchDTO struct {
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

type AvailabilityEntryDTO struct {
	MemberID string `json:"memberId"`
	MatchID  string `json:"matchId"`
	Status   string `json:"status"`
}

type TeamCreatedPayload struct {
	Team            TeamDTO `json:"team"`
	CreatorMemberID string  `json:"creatorMemberId"`
	AccessCode      string  `json:"accessCode"`
}

type TeamLoadedPayload struct {
	Team         TeamDTO                `json:"team"`
	Matches      []MatchDTO             `json:"matches"`
	Members      []MemberDTO            `json:"members"`
	Availability []AvailabilityEntryDTO `json:"availability"`
}

type AccessCodeRequiredPayload struct {
	TeamID string `json:"teamId"`
}

type MatchDateChangedPayload struct {
	TeamID  string `json:"teamId"`
	MatchID string `json:"matchId"`
	NewDate string `json:"newDate"`
}

func teamToDTO(t team.Team) TeamDTO {
	return TeamDTO{
		ID:            t.ID,
		Name:          t.Name,
		Slug:          t.Slug,
		PlayersNeeded: t.PlayersNeeded,
		CreatedAt:     t.CreatedAt,
	}
}

func memberToDTO(m team.Member) MemberDTO {
	return MemberDTO{ID: m.ID, TeamID: m.TeamID, Name: m.Name}
}

func matchToDTO(m match.Match) MatchDTO {
	return MatchDTO{
		ID:         m.ID,
		Opponent:   m.Opponent,
		Date:       m.Date,
		Time:       m.Time,
		IsHome:     m.IsHome,
		Venue:      m.Venue,
		Season:     m.Season,
		SeasonHalf: string(m.SeasonHalf),
		Matchday:   m.Matchday,
	}
}

func entryToDTO(e availability.Entry) AvailabilityEntryDTO {
	return AvailabilityEntryDTO{
		MemberID: e.MemberID,
		MatchID:  e.MatchID,
		Status:   string(e.Status),
	}
}

func snapshotToPayload(s usecase.Snapshot) TeamLoadedPayload {
	matches := make([]MatchDTO, 0, len(s.Matches))
	for _, m := range s.Matches {
		matches = append(matches, matchToDTO(m))
	}
	members := make([]MemberDTO, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, memberToDTO(m))
	}
	entries := make([]AvailabilityEntryDTO, 0, len(s.Availability))
	for _, e := range s.Availability {
		entries = append(entries, entryToDTO(e))
	}

	return TeamLoadedPayload{
		Team:         teamToDTO(s.Team),
		Matches:      matches,
		Members:      members,
		Availability: entries,
	}
}
