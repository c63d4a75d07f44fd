package model

import (
	"slices"
	"time"
)

// RoomStatus is the lifecycle state of a game room.
type RoomStatus string

const (
	StatusWaiting         RoomStatus = "waiting"
	StatusTeamSelection   RoomStatus = "team_selection"
	StatusInProgress      RoomStatus = "in_progress"
	StatusScoreSubmission RoomStatus = "score_submission"
	StatusCompleted       RoomStatus = "completed"
)

// Team labels one side of a match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Result is a player's personal result of a completed match.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// Theme is the mini-app colour scheme a user prefers.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is one of the supported themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// User is a registered player and their running statistics.
// Rating is serialised as "score" to match the mini-app client.
type User struct {
	ID                 string    `json:"id"`
	TelegramID         int64     `json:"telegramId"`
	Username           string    `json:"username"`
	PhotoURL           string    `json:"photoUrl,omitempty"`
	Rating             int       `json:"score"`
	GamesPlayed        int       `json:"gamesPlayed"`
	GamesWon           int       `json:"gamesWon"`
	ScoreMismatchCount int       `json:"scoreMismatchCount"`
	Theme              Theme     `json:"themePreference"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Room is a single planned, running or finished match.
// Captain fields are empty when no captain is assigned.
type Room struct {
	ID                      string
	Name                    string
	CreatorID               string
	MaxPlayers              int
	Location                string
	TimeRange               string
	CreatedAt               time.Time
	Status                  RoomStatus
	Players                 []string
	TeamA                   []string
	TeamB                   []string
	CaptainA                string
	CaptainB                string
	ScoreA                  *int
	ScoreB                  *int
	CaptainASubmission      string
	CaptainBSubmission      string
	CaptainASubmitted       bool
	CaptainBSubmitted       bool
	ScoreSubmissionAttempts int
	ScoreMismatch           bool
	StartTime               *time.Time
	EndTime                 *time.Time
}

func (r *Room) HasPlayer(userID string) bool {
	return slices.Contains(r.Players, userID)
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// Active reports whether the room still counts towards its members' single active room.
func (r *Room) Active() bool {
	return r.Status != StatusCompleted
}

// CaptainTeam returns the team userID captains, if any.
func (r *Room) CaptainTeam(userID string) (Team, bool) {
	switch {
	case userID == "":
		return "", false
	case r.CaptainA == userID:
		return TeamA, true
	case r.CaptainB == userID:
		return TeamB, true
	}
	return "", false
}

// TeamOf returns the team userID is assigned to, if any.
func (r *Room) TeamOf(userID string) (Team, bool) {
	if slices.Contains(r.TeamA, userID) {
		return TeamA, true
	}
	if slices.Contains(r.TeamB, userID) {
		return TeamB, true
	}
	return "", false
}

// GameHistory is the per-player audit record of a completed room.
type GameHistory struct {
	ID            int64      `json:"id"`
	UserID        string     `json:"userId"`
	RoomID        string     `json:"gameRoomId"`
	RoomName      string     `json:"gameRoomName,omitempty"`
	Team          Team       `json:"team"`
	ScoreA        int        `json:"scoreA"`
	ScoreB        int        `json:"scoreB"`
	WasCaptain    bool       `json:"wasCaptain"`
	WasWinner     bool       `json:"wasWinner"`
	Result        Result     `json:"result"`
	PointsEarned  int        `json:"pointsEarned"`
	PlayedAt      time.Time  `json:"playedAt"`
	GameStartTime *time.Time `json:"gameStartTime"`
	GameEndTime   *time.Time `json:"gameEndTime"`
}

// Duration is the played time of the match, zero when either end is unknown.
func (h GameHistory) Duration() time.Duration {
	if h.GameStartTime == nil || h.GameEndTime == nil {
		return 0
	}
	return h.GameEndTime.Sub(*h.GameStartTime)
}

// Complaint is a player report filed from inside a room.
type Complaint struct {
	ID             int64     `json:"id"`
	ReporterID     string    `json:"reporterId"`
	ReportedUserID string    `json:"reportedUserId"`
	RoomID         string    `json:"gameRoomId"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"createdAt"`
}
