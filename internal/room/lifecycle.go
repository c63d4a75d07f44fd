package room

import (
	"slices"

	"github.com/mauv0809/matchday/internal/model"
)

// assignTeams shuffles the players into two halves. Team A gets the smaller
// half when the count is odd. The first player of each half captains it.
func assignTeams(r *model.Room, rng Rand) {
	shuffled := slices.Clone(r.Players)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	half := len(shuffled) / 2
	r.TeamA = slices.Clone(shuffled[:half])
	r.TeamB = slices.Clone(shuffled[half:])
	r.CaptainA, r.CaptainB = "", ""
	if len(r.TeamA) > 0 {
		r.CaptainA = r.TeamA[0]
	}
	if len(r.TeamB) > 0 {
		r.CaptainB = r.TeamB[0]
	}
	resetSubmissions(r)
}

func resetSubmissions(r *model.Room) {
	r.CaptainASubmitted, r.CaptainBSubmitted = false, false
	r.CaptainASubmission, r.CaptainBSubmission = "", ""
}

// removeMember takes userID out of the room. When the creator leaves, a
// random remaining member becomes creator and inherits the vacated captaincy
// only if they play on that team. Any other vacated captaincy stays empty.
// It returns the new creator id, if the role changed hands.
func removeMember(r *model.Room, userID string, rng Rand) string {
	captainOf, wasCaptain := r.CaptainTeam(userID)

	r.Players = slices.DeleteFunc(r.Players, func(id string) bool { return id == userID })
	r.TeamA = slices.DeleteFunc(r.TeamA, func(id string) bool { return id == userID })
	r.TeamB = slices.DeleteFunc(r.TeamB, func(id string) bool { return id == userID })

	if wasCaptain {
		setCaptain(r, captainOf, "")
	}

	if r.CreatorID != userID || len(r.Players) == 0 {
		return ""
	}
	newCreator := r.Players[rng.Intn(len(r.Players))]
	r.CreatorID = newCreator
	if wasCaptain {
		if team, ok := r.TeamOf(newCreator); ok && team == captainOf {
			setCaptain(r, captainOf, newCreator)
		}
	}
	return newCreator
}

// setCaptain changes the captain of team and drops any score the previous
// captain had pending.
func setCaptain(r *model.Room, team model.Team, userID string) {
	switch team {
	case model.TeamA:
		r.CaptainA = userID
		r.CaptainASubmitted, r.CaptainASubmission = false, ""
	case model.TeamB:
		r.CaptainB = userID
		r.CaptainBSubmitted, r.CaptainBSubmission = false, ""
	}
}

// recordSubmission stores score as the pending submission of team's captain.
func recordSubmission(r *model.Room, team model.Team, score string) {
	switch team {
	case model.TeamA:
		r.CaptainASubmission, r.CaptainASubmitted = score, true
	case model.TeamB:
		r.CaptainBSubmission, r.CaptainBSubmitted = score, true
	}
}
