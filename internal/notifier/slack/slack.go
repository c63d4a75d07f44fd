package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchday/internal/metrics"
	"github.com/mauv0809/matchday/internal/model"
	"github.com/mauv0809/matchday/internal/notifier"
	"github.com/mauv0809/matchday/internal/player"
	"github.com/mauv0809/matchday/internal/room"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// displayZone is where the players are; message times are shown in it.
const displayZone = "Europe/Moscow"

// Notifier posts room events to the moderators' Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	// logOnly is set when no bot token is configured.
	logOnly bool
}

// NewNotifier creates a new Notifier.
// Without a token every message is only logged, as in a dry run.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	n := NewNotifierWithAPI(slack.New(token), channelID, metrics)
	if token == "" {
		log.Warn("No Slack token configured, notifications will only be logged")
		n.logOnly = true
	}
	return n
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.logOnly {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchResult(event room.CompletedEvent, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchResult(event), dryRun)
	return err
}

func (s *Notifier) SendScoreMismatch(event room.MismatchEvent, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatScoreMismatch(event), dryRun)
	return err
}

func (s *Notifier) SendComplaint(event room.ReportedEvent, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatComplaint(event), dryRun)
	return err
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(plainText(text), nil, nil)
}

func formatTime(t time.Time) string {
	if loc, err := time.LoadLocation(displayZone); err == nil {
		t = t.In(loc)
	}
	return t.Format("Monday 02 Jan, 15:04")
}

func nameOf(usernames map[string]string, id string) string {
	if name, ok := usernames[id]; ok && name != "" {
		return name
	}
	return id
}

// formatMatchResult creates the Slack message for a completed room using Block Kit.
func (s *Notifier) formatMatchResult(event room.CompletedEvent) slack.Message {
	blocks := make([]slack.Block, 0, 4)
	blocks = append(blocks, slack.NewHeaderBlock(plainText("⚽ Match finished! ⚽")))

	details := fmt.Sprintf("%s\nEnded: %s", event.RoomName, formatTime(event.EndedAt))
	if event.Location != "" {
		details = fmt.Sprintf("%s @ %s\nEnded: %s", event.RoomName, event.Location, formatTime(event.EndedAt))
	}
	blocks = append(blocks, section(details))

	teams := map[model.Team][]string{}
	for _, o := range event.Outcomes {
		line := fmt.Sprintf("• %s (%+d)", nameOf(event.Usernames, o.PlayerID), o.Delta)
		if o.WasCaptain {
			line += " ©"
		}
		teams[o.Team] = append(teams[o.Team], line)
	}
	fields := []*slack.TextBlockObject{
		plainText("Team A\n" + strings.Join(teams[model.TeamA], "\n")),
		plainText("Team B\n" + strings.Join(teams[model.TeamB], "\n")),
	}
	blocks = append(blocks, slack.NewSectionBlock(plainText(resultHeadline(event)), fields, nil))

	switch event.Reason {
	case room.OutcomeForcedDraw:
		blocks = append(blocks, slack.NewContextBlock("", plainText("⚠️ Captains disagreed three times. Recorded as 0:0 with penalties.")))
	case room.OutcomeExpired:
		blocks = append(blocks, slack.NewContextBlock("", plainText("⏰ No agreed score in time. Recorded as 0:0.")))
	}
	return slack.NewBlockMessage(blocks...)
}

func resultHeadline(event room.CompletedEvent) string {
	switch {
	case event.ScoreA > event.ScoreB:
		return fmt.Sprintf("Result: %d:%d, Team A won! 🏆", event.ScoreA, event.ScoreB)
	case event.ScoreB > event.ScoreA:
		return fmt.Sprintf("Result: %d:%d, Team B won! 🏆", event.ScoreA, event.ScoreB)
	}
	return fmt.Sprintf("Result: %d:%d, draw", event.ScoreA, event.ScoreB)
}

// formatScoreMismatch creates the Slack message for a round of disagreeing captain scores.
func (s *Notifier) formatScoreMismatch(event room.MismatchEvent) slack.Message {
	text := fmt.Sprintf("%s: captain A says %s, captain B says %s (attempt %d of %d)",
		event.RoomName, event.SubmissionA, event.SubmissionB, event.Attempt, room.MaxSubmissionAttempts)
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(plainText("🤔 Score mismatch")),
		section(text),
	)
}

// formatComplaint creates the Slack message for a player report.
func (s *Notifier) formatComplaint(event room.ReportedEvent) slack.Message {
	details := fmt.Sprintf("Reported: %s\nBy: %s\nRoom: %s",
		nameOf(event.Usernames, event.ReportedUserID),
		nameOf(event.Usernames, event.ReporterID),
		event.RoomName,
	)
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(plainText("🚩 New player report")),
		section(details),
		section("Reason:\n"+event.Reason),
		slack.NewContextBlock("", plainText(fmt.Sprintf("Complaint #%d, %s", event.ComplaintID, formatTime(event.CreatedAt)))),
	)
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(users []player.RankedUser) (any, error) {
	return s.formatLeaderboard(users), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(user *model.User, query string) (any, error) {
	return s.formatPlayerStats(user), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

func winRate(won, played int) float64 {
	if played == 0 {
		return 0
	}
	return 100 * float64(won) / float64(played)
}

func (s *Notifier) formatLeaderboard(users []player.RankedUser) slack.Message {
	blocks := []slack.Block{slack.NewHeaderBlock(plainText("🏆 Player Leaderboard 🏆"))}
	if len(users) == 0 {
		blocks = append(blocks, section("No players yet. Go play some matches!"))
		return slack.NewBlockMessage(blocks...)
	}
	for _, u := range users {
		text := fmt.Sprintf("%d. %s %s: %d\n> Win %%: %.1f%% (%d/%d)",
			u.Rank, medal(u.Rank), u.Username, u.Rating, 100*u.WinRate, u.GamesWon, u.GamesPlayed)
		blocks = append(blocks, section(text))
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPlayerStats(user *model.User) slack.Message {
	text := fmt.Sprintf("> *Rating*: %d\n> *Win %%*: %.1f%% (%d/%d)\n> *Score mismatches*: %d",
		user.Rating,
		winRate(user.GamesWon, user.GamesPlayed),
		user.GamesWon,
		user.GamesPlayed,
		user.ScoreMismatchCount,
	)
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(plainText(fmt.Sprintf("📊 Stats for %s", user.Username))),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player named *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
