package match

import (
	"fmt"
	"strconv"
	"strings"
)

// SeasonHalf splits a season around the winter break.
type SeasonHalf string

const (
	FirstHalf  SeasonHalf = "FIRST_HALF"
	SecondHalf SeasonHalf = "SECOND_HALF"
)

// FallbackSeason is used when a match date carries no parsable year.
const FallbackSeason = 2000

// Match is one scheduled game of a team.
type Match struct {
	ID       string
	Opponent string
	// Date is a YYYY-MM-DD string, the only wire format requiring parsing.
	Date       string
	Time       string
	IsHome     bool
	Venue      string
	Season     int
	SeasonHalf SeasonHalf
	Matchday   int
}

// SeasonSchedule holds one season's matches split by half. New matches are
// prepended, so each slice runs newest-first.
type SeasonSchedule struct {
	FirstHalf  []Match
	SecondHalf []Match
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.Opponent == "" {
		return fmt.Errorf("match opponent is required")
	}
	if m.Date == "" {
		return fmt.Errorf("match date is required")
	}

	return nil
}

// SeasonFromDate reads the 4-digit year prefix of a YYYY-MM-DD date.
// Unparsable input degrades to FallbackSeason rather than erroring; the
// caller never surfaces the failure.
func SeasonFromDate(date string) int {
	if len(date) < 4 {
		return FallbackSeason
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return FallbackSeason
	}

	return year
}

// HalfFromDate classifies a date into a season half by month: July through
// December sit before the winter break, January through June after it.
// Dates without a readable month classify as FirstHalf.
func HalfFromDate(date string) SeasonHalf {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 {
		return FirstHalf
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return FirstHalf
	}
	if month >= 7 {
		return FirstHalf
	}

	return SecondHalf
}

// Classify derives the season bucket for a match date at creation time.
// Date edits later on do NOT reclassify; see MatchService.ChangeMatchDate.
func Classify(date string) (season int, half SeasonHalf) {
	return SeasonFromDate(date), HalfFromDate(date)
}
