package rating

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidScoreFormat is returned for anything that is not "<int>:<int>".
var ErrInvalidScoreFormat = errors.New("invalid score format, expected X:Y")

var scorePattern = regexp.MustCompile(`^\d+:\d+$`)

// ParseScore parses a submitted score such as "3:2".
func ParseScore(s string) (int, int, error) {
	if !scorePattern.MatchString(s) {
		return 0, 0, ErrInvalidScoreFormat
	}
	left, right, _ := strings.Cut(s, ":")
	a, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidScoreFormat, s)
	}
	b, err := strconv.Atoi(right)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidScoreFormat, s)
	}
	return a, b, nil
}

// FormatScore is the inverse of ParseScore.
func FormatScore(a, b int) string {
	return strconv.Itoa(a) + ":" + strconv.Itoa(b)
}
