package rating

import "github.com/mauv0809/matchday/internal/model"

// Config holds the tunables of the rating pass and the mismatch penalty policy.
type Config struct {
	// K is the maximum number of points a single match can move a rating.
	K float64
	// MarginBonus is awarded to winners per goal of difference.
	MarginBonus float64
	// UnderdogBonus is the largest consolation a heavy underdog can get for losing.
	UnderdogBonus float64
	// UnderdogThreshold is the expected score under which a losing team is an underdog.
	UnderdogThreshold float64
	// A draw costs the favourite and rewards the underdog DrawSwing points
	// once the expected score leaves [DrawLowerBound, DrawUpperBound].
	DrawUpperBound float64
	DrawLowerBound float64
	DrawSwing      int
	// MinContribution and MaxContribution clamp the individual scaling factor.
	MinContribution float64
	MaxContribution float64
	// MismatchPenalty is the flat base deduction on a forced draw.
	MismatchPenalty float64
}

// DefaultConfig returns the production tunables.
func DefaultConfig() Config {
	return Config{
		K:                 100,
		MarginBonus:       0.1,
		UnderdogBonus:     15,
		UnderdogThreshold: 0.3,
		DrawUpperBound:    0.55,
		DrawLowerBound:    0.45,
		DrawSwing:         10,
		MinContribution:   0.5,
		MaxContribution:   1.5,
		MismatchPenalty:   10,
	}
}

// Player is the mutable rating state of one participant.
type Player struct {
	ID                 string
	Rating             int
	GamesPlayed        int
	GamesWon           int
	ScoreMismatchCount int
}

// Match is the input of a rating or penalty pass.
type Match struct {
	TeamA    []*Player
	TeamB    []*Player
	CaptainA string
	CaptainB string
	ScoreA   int
	ScoreB   int
}

// Outcome is the applied result of the rating pass for one player.
type Outcome struct {
	PlayerID     string       `json:"playerId" msgpack:"player_id"`
	Team         model.Team   `json:"team" msgpack:"team"`
	Result       model.Result `json:"result" msgpack:"result"`
	WasCaptain   bool         `json:"wasCaptain" msgpack:"was_captain"`
	Delta        int          `json:"delta" msgpack:"delta"`
	RatingBefore int          `json:"ratingBefore" msgpack:"rating_before"`
	RatingAfter  int          `json:"ratingAfter" msgpack:"rating_after"`
}

// WasWinner reports whether the player's team won.
func (o Outcome) WasWinner() bool {
	return o.Result == model.ResultWin
}

// Penalty is the applied mismatch deduction for one player.
type Penalty struct {
	PlayerID    string
	Team        model.Team
	WasCaptain  bool
	Coefficient float64
	Delta       int
}
