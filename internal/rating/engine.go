package rating

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/model"
)

// Engine computes rating adjustments. It holds no state besides its
// configuration and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// NewDefault creates an Engine with DefaultConfig.
func NewDefault() *Engine {
	return New(DefaultConfig())
}

// TeamStrength is the mean rating of a team, 0 for an empty team.
func TeamStrength(team []*Player) float64 {
	if len(team) == 0 {
		return 0
	}
	total := 0
	for _, p := range team {
		total += p.Rating
	}
	return float64(total) / float64(len(team))
}

// Expected is the Elo win expectation of a team of strength own against opp.
func Expected(own, opp float64) float64 {
	return 1 / (1 + math.Pow(10, (opp-own)/400))
}

// Contribution scales a player's share of the team result by their rating
// relative to the team average.
func (e *Engine) Contribution(rating int, teamAvg float64) float64 {
	if teamAvg <= 0 {
		return 1
	}
	c := float64(rating) / teamAvg
	return math.Max(e.cfg.MinContribution, math.Min(e.cfg.MaxContribution, c))
}

// Delta is the unclamped rating change for one player, truncated toward zero.
func (e *Engine) Delta(result model.Result, expected, contribution float64, margin int) int {
	var points float64
	switch result {
	case model.ResultWin:
		points = e.cfg.K*(1-expected) + float64(margin)*e.cfg.MarginBonus
		points *= contribution
	case model.ResultLoss:
		points = -e.cfg.K / 2 * expected
		if expected < e.cfg.UnderdogThreshold {
			points += e.cfg.UnderdogBonus * (1 - expected/e.cfg.UnderdogThreshold)
		}
		points *= contribution
	case model.ResultDraw:
		switch {
		case expected > e.cfg.DrawUpperBound:
			return -e.cfg.DrawSwing
		case expected < e.cfg.DrawLowerBound:
			return e.cfg.DrawSwing
		}
		return 0
	}
	return int(points)
}

// Rate runs the rating pass over a finished match. Players are updated in
// place; team strengths and contributions are taken from the ratings as
// they were before the pass.
func (e *Engine) Rate(m Match) []Outcome {
	strengthA := TeamStrength(m.TeamA)
	strengthB := TeamStrength(m.TeamB)
	margin := m.ScoreA - m.ScoreB
	if margin < 0 {
		margin = -margin
	}
	log.Debug("Rating match", "strengthA", strengthA, "strengthB", strengthB, "score", FormatScore(m.ScoreA, m.ScoreB))

	outcomes := make([]Outcome, 0, len(m.TeamA)+len(m.TeamB))
	outcomes = append(outcomes, e.rateTeam(m.TeamA, model.TeamA, m.CaptainA, resultOf(m.ScoreA, m.ScoreB), Expected(strengthA, strengthB), strengthA, margin)...)
	outcomes = append(outcomes, e.rateTeam(m.TeamB, model.TeamB, m.CaptainB, resultOf(m.ScoreB, m.ScoreA), Expected(strengthB, strengthA), strengthB, margin)...)
	return outcomes
}

func (e *Engine) rateTeam(team []*Player, label model.Team, captainID string, result model.Result, expected, avg float64, margin int) []Outcome {
	outcomes := make([]Outcome, 0, len(team))
	for _, p := range team {
		delta := e.Delta(result, expected, e.Contribution(p.Rating, avg), margin)
		if p.Rating+delta < 0 {
			delta = -p.Rating
		}
		before := p.Rating
		p.Rating += delta
		p.GamesPlayed++
		if result == model.ResultWin {
			p.GamesWon++
		}
		outcomes = append(outcomes, Outcome{
			PlayerID:     p.ID,
			Team:         label,
			Result:       result,
			WasCaptain:   captainID != "" && p.ID == captainID,
			Delta:        delta,
			RatingBefore: before,
			RatingAfter:  p.Rating,
		})
	}
	return outcomes
}

func resultOf(own, opp int) model.Result {
	switch {
	case own > opp:
		return model.ResultWin
	case own < opp:
		return model.ResultLoss
	}
	return model.ResultDraw
}

// MismatchCoefficient maps a captain's mismatch count, including the
// current incident, to their penalty multiplier.
func MismatchCoefficient(count int) float64 {
	switch {
	case count <= 1:
		return 0
	case count == 2:
		return 0.5
	case count == 3:
		return 1.0
	}
	return 1.5
}

// Penalize applies the forced-draw penalties after repeated score mismatches.
// Each captain's mismatch count is incremented before their coefficient is
// looked up; everyone else loses the flat base penalty. Every player's
// games played goes up by one.
func (e *Engine) Penalize(m Match) []Penalty {
	penalties := make([]Penalty, 0, len(m.TeamA)+len(m.TeamB))
	penalties = append(penalties, e.penalizeTeam(m.TeamA, model.TeamA, m.CaptainA)...)
	penalties = append(penalties, e.penalizeTeam(m.TeamB, model.TeamB, m.CaptainB)...)
	return penalties
}

func (e *Engine) penalizeTeam(team []*Player, label model.Team, captainID string) []Penalty {
	penalties := make([]Penalty, 0, len(team))
	for _, p := range team {
		pen := Penalty{PlayerID: p.ID, Team: label, Coefficient: 1}
		if captainID != "" && p.ID == captainID {
			p.ScoreMismatchCount++
			pen.WasCaptain = true
			pen.Coefficient = MismatchCoefficient(p.ScoreMismatchCount)
		}
		deduction := int(e.cfg.MismatchPenalty * pen.Coefficient)
		if deduction > p.Rating {
			deduction = p.Rating
		}
		p.Rating -= deduction
		p.GamesPlayed++
		pen.Delta = -deduction
		penalties = append(penalties, pen)
	}
	return penalties
}
