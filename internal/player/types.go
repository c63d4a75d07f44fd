package player

import (
	"errors"

	"github.com/mauv0809/matchday/internal/model"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidTheme = errors.New("invalid theme preference")
)

// MaxPerPage bounds every paginated listing.
const MaxPerPage = 50

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// RankedUser is a leaderboard row.
type RankedUser struct {
	Rank int `json:"rank"`
	model.User
	WinRate float64 `json:"winRate"`
}

type LeaderboardPage struct {
	Users      []RankedUser `json:"users"`
	Pagination Pagination   `json:"pagination"`
}

type HistoryPage struct {
	History    []model.GameHistory `json:"history"`
	Pagination Pagination          `json:"pagination"`
}

// normalizePage clamps page and perPage into their valid ranges.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func newPagination(page, perPage, total int) Pagination {
	pages := (total + perPage - 1) / perPage
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}
