package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/pubsub"
	"github.com/mauv0809/matchday/internal/rating"
)

// SubmitScore records a captain's "A:B" score. Matching submissions from
// both captains complete the room; differing ones count as a failed attempt,
// and the last allowed failure closes the room as a penalised 0:0 draw.
func (s *service) SubmitScore(ctx context.Context, roomID, callerID, score string) (*SubmitResult, error) {
	scoreA, scoreB, err := rating.ParseScore(score)
	if err != nil {
		return nil, err
	}

	var (
		result    *SubmitResult
		completed *CompletedEvent
		mismatch  *MismatchEvent
	)
	err = s.mutate(ctx, "submit_score", roomID, func(tx *sql.Tx, r *model.Room) error {
		team, ok := r.CaptainTeam(callerID)
		if !ok {
			return ErrNotCaptain
		}
		if r.Status != model.StatusInProgress && r.Status != model.StatusScoreSubmission {
			return &TransitionError{From: r.Status, Action: "submit score"}
		}

		recordSubmission(r, team, score)
		if r.Status == model.StatusInProgress {
			if r.EndTime == nil {
				now := s.timestamp()
				r.EndTime = &now
			}
			s.transition(r, model.StatusScoreSubmission)
		}
		result = &SubmitResult{Room: r, Outcome: OutcomeAwaitingOpponent}

		if !r.CaptainASubmitted || !r.CaptainBSubmitted {
			return saveRoom(ctx, tx, r)
		}

		if r.CaptainASubmission == r.CaptainBSubmission {
			result.Outcome = OutcomeAgreed
			c, err := s.complete(ctx, tx, r, scoreA, scoreB, OutcomeAgreed, result)
			completed = c
			return err
		}

		r.ScoreMismatch = true
		r.ScoreSubmissionAttempts++
		mismatch = &MismatchEvent{
			RoomID:      r.ID,
			RoomName:    r.Name,
			SubmissionA: r.CaptainASubmission,
			SubmissionB: r.CaptainBSubmission,
			Attempt:     r.ScoreSubmissionAttempts,
		}
		if r.ScoreSubmissionAttempts >= MaxSubmissionAttempts {
			result.Outcome = OutcomeForcedDraw
			c, err := s.complete(ctx, tx, r, 0, 0, OutcomeForcedDraw, result)
			completed = c
			return err
		}
		result.Outcome = OutcomeMismatch
		r.CaptainASubmitted, r.CaptainBSubmitted = false, false
		return saveRoom(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Score submitted", "roomID", roomID, "callerID", callerID, "score", score, "outcome", result.Outcome)
	if mismatch != nil {
		s.metrics.IncScoreMismatch()
		log.Warn("Captains disagree on score", "roomID", roomID, "attempt", mismatch.Attempt,
			"submissionA", mismatch.SubmissionA, "submissionB", mismatch.SubmissionB)
		s.publish(pubsub.EventScoreMismatch, *mismatch)
	}
	if completed != nil {
		s.afterCompletion(*completed)
	}
	return result, nil
}

// ExpireStaleSubmissions completes every room that has been waiting for
// captain scores since before cutoff as a 0:0 draw without penalties.
func (s *service) ExpireStaleSubmissions(ctx context.Context, cutoff time.Time) ([]string, error) {
	ids, err := staleSubmissionRoomIDs(ctx, s.db, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale rooms: %w", err)
	}

	expired := make([]string, 0, len(ids))
	for _, id := range ids {
		var completed *CompletedEvent
		err := s.mutate(ctx, "expire_submission", id, func(tx *sql.Tx, r *model.Room) error {
			// Re-checked under the lock; a captain may have finished it meanwhile.
			if r.Status != model.StatusScoreSubmission || r.EndTime == nil || r.EndTime.After(cutoff) {
				return nil
			}
			c, err := s.complete(ctx, tx, r, 0, 0, OutcomeExpired, &SubmitResult{Room: r})
			completed = c
			return err
		})
		switch {
		case errors.Is(err, ErrRoomNotFound):
			continue
		case err != nil:
			return expired, fmt.Errorf("failed to expire room %s: %w", id, err)
		}
		if completed != nil {
			log.Warn("Score submission expired, closed as draw", "roomID", id)
			s.afterCompletion(*completed)
			expired = append(expired, id)
		}
	}
	return expired, nil
}

// complete finalises r with the given score. Ratings are read inside tx so
// the pass works on the stored values. A forced draw first applies the
// mismatch penalties, which count a played game of their own. Every player gets one history row carrying the total
// change applied to their rating.
func (s *service) complete(ctx context.Context, tx *sql.Tx, r *model.Room, scoreA, scoreB int, reason Outcome, result *SubmitResult) (*CompletedEvent, error) {
	ids := append(slices.Clone(r.TeamA), r.TeamB...)
	users, err := player.LoadMany(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	toPlayers := func(team []string) ([]*rating.Player, error) {
		out := make([]*rating.Player, 0, len(team))
		for _, id := range team {
			u, ok := users[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
			}
			out = append(out, &rating.Player{
				ID:                 u.ID,
				Rating:             u.Rating,
				GamesPlayed:        u.GamesPlayed,
				GamesWon:           u.GamesWon,
				ScoreMismatchCount: u.ScoreMismatchCount,
			})
		}
		return out, nil
	}
	teamA, err := toPlayers(r.TeamA)
	if err != nil {
		return nil, err
	}
	teamB, err := toPlayers(r.TeamB)
	if err != nil {
		return nil, err
	}

	match := rating.Match{
		TeamA:    teamA,
		TeamB:    teamB,
		CaptainA: r.CaptainA,
		CaptainB: r.CaptainB,
		ScoreA:   scoreA,
		ScoreB:   scoreB,
	}
	applied := make(map[string]int, len(ids))
	if reason == OutcomeForcedDraw {
		result.Penalties = s.engine.Penalize(match)
		for _, p := range result.Penalties {
			applied[p.PlayerID] += p.Delta
		}
	}
	result.Ratings = s.engine.Rate(match)

	now := s.timestamp()
	if r.EndTime == nil {
		r.EndTime = &now
	}
	r.ScoreA, r.ScoreB = &scoreA, &scoreB
	s.transition(r, model.StatusCompleted)

	history := make([]model.GameHistory, 0, len(result.Ratings))
	updated := make([]*model.User, 0, len(result.Ratings))
	for _, p := range append(teamA, teamB...) {
		u := users[p.ID]
		u.Rating, u.GamesPlayed, u.GamesWon, u.ScoreMismatchCount = p.Rating, p.GamesPlayed, p.GamesWon, p.ScoreMismatchCount
		updated = append(updated, u)
	}
	for _, o := range result.Ratings {
		applied[o.PlayerID] += o.Delta
		history = append(history, model.GameHistory{
			UserID:        o.PlayerID,
			RoomID:        r.ID,
			Team:          o.Team,
			ScoreA:        scoreA,
			ScoreB:        scoreB,
			WasCaptain:    o.WasCaptain,
			WasWinner:     o.WasWinner(),
			Result:        o.Result,
			PointsEarned:  applied[o.PlayerID],
			PlayedAt:      now,
			GameStartTime: r.StartTime,
			GameEndTime:   r.EndTime,
		})
	}

	if err := player.SaveStats(ctx, tx, updated...); err != nil {
		return nil, err
	}
	if err := player.AppendHistory(ctx, tx, history); err != nil {
		return nil, err
	}
	if err := saveRoom(ctx, tx, r); err != nil {
		return nil, err
	}

	return &CompletedEvent{
		RoomID:    r.ID,
		RoomName:  r.Name,
		Location:  r.Location,
		ScoreA:    scoreA,
		ScoreB:    scoreB,
		Reason:    reason,
		CaptainA:  r.CaptainA,
		CaptainB:  r.CaptainB,
		Outcomes:  result.Ratings,
		Usernames: usernames(users),
		EndedAt:   *r.EndTime,
	}, nil
}

func (s *service) afterCompletion(event CompletedEvent) {
	s.metrics.IncRoomCompleted(string(event.Reason))
	for _, o := range event.Outcomes {
		s.metrics.ObserveRatingDelta(float64(o.Delta))
	}
	log.Info("Room completed", "roomID", event.RoomID, "score", rating.FormatScore(event.ScoreA, event.ScoreB),
		"reason", event.Reason, "players", len(event.Outcomes))
	s.publish(pubsub.EventRoomCompleted, event)
}
