package models

import (
	"strings"
	"time"
)

// HandleNone is the sentinel stored for a platform the user is not
// registered with.
const HandleNone = "none"

// RatingSnapshot is the complete set of rating values computed for a user
// in one refresh run. It has no identity of its own; it is overwritten as a
// unit on every refresh.
type RatingSnapshot struct {
	CodeforcesRating         int `json:"codeforcesRating"`
	CodeforcesProblemsSolved int `json:"codeforcesProblemsSolved"`
	LeetcodeRating           int `json:"leetcodeRating"`
	LeetcodeProblemsSolved   int `json:"leetcodeProblemsSolved"`
	CodechefRating           int `json:"codechefRating"`
	CodechefProblemsSolved   int `json:"codechefProblemsSolved"`
	TotalScore               int `json:"totalScore"`
}

// User is the persisted record the pipeline reads handles from and writes
// snapshots to.
type User struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	CodeforcesHandle string         `json:"codeforcesHandle"`
	LeetcodeHandle   string         `json:"leetcodeHandle"`
	CodechefHandle   string         `json:"codechefHandle"`
	Snapshot         RatingSnapshot `json:"snapshot"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// IsValidHandle reports whether a handle names a real platform account:
// non-empty, non-whitespace, and not the "none" sentinel (case-insensitive).
func IsValidHandle(handle string) bool {
	trimmed := strings.TrimSpace(handle)
	if trimmed == "" {
		return false
	}
	return !strings.EqualFold(trimmed, HandleNone)
}

// NormalizeHandle trims a submitted handle and maps empty input to the
// "none" sentinel.
func NormalizeHandle(handle string) string {
	trimmed := strings.TrimSpace(handle)
	if trimmed == "" {
		return HandleNone
	}
	return trimmed
}
