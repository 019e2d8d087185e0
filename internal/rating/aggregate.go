package rating

import (
	"rating-tracker/internal/models"
	"rating-tracker/internal/provider"
)

// HandleValidity records which platform handles were valid for this run.
// The aggregate only counts a CodeChef rating when the handle was valid,
// which guards against a nonzero value from an adapter that should never
// have been queried.
type HandleValidity struct {
	Codeforces bool
	LeetCode   bool
	CodeChef   bool
}

// Aggregate merges the three per-platform partials into one snapshot.
// Pure and deterministic: identical partials and validity always produce
// an identical snapshot.
//
// totalScore = cfRating + lcRating + ccRating·[ccHandleValid]
//   + 2·(cfSolved + lcSolved + ccSolved)
func Aggregate(cf, lc, cc provider.PartialRating, validity HandleValidity) models.RatingSnapshot {
	snap := models.RatingSnapshot{
		CodeforcesRating:         cf.Rating,
		CodeforcesProblemsSolved: cf.ProblemsSolved,
		LeetcodeRating:           lc.Rating,
		LeetcodeProblemsSolved:   lc.ProblemsSolved,
		CodechefRating:           cc.Rating,
		CodechefProblemsSolved:   cc.ProblemsSolved,
	}

	snap.TotalScore = snap.CodeforcesRating + snap.LeetcodeRating
	if validity.CodeChef {
		snap.TotalScore += snap.CodechefRating
	}
	snap.TotalScore += 2 * (snap.CodeforcesProblemsSolved + snap.LeetcodeProblemsSolved + snap.CodechefProblemsSolved)

	return snap
}
