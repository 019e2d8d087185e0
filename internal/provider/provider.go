// Package provider defines the normalized result every platform adapter
// produces and the interface the refresh pipeline consumes.
package provider

import "context"

// PartialRating is one platform's contribution to a user's snapshot.
// Present is false when the platform could not be queried at all; the zero
// values then contribute nothing to the aggregate.
type PartialRating struct {
	Rating         int
	ProblemsSolved int
	Present        bool
}

// Provider translates one external platform's API into a PartialRating.
// Implementations absorb transient fetch failures internally and only
// return an error when the platform yielded nothing at all this run; the
// orchestrator logs that error and degrades the contribution to zero.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, handle string) (PartialRating, error)
}
