package seed

import (
	"context"

	"collabia/internal/models"
	"collabia/internal/observability"
)

// Outcome is what a reconciliation policy did to one record.
type Outcome string

// Policy outcomes. Skipped is only produced by the reconciler itself when a
// referenced record cannot be resolved.
const (
	OutcomeCreated   Outcome = observability.OutcomeCreated
	OutcomeUpdated   Outcome = observability.OutcomeUpdated
	OutcomeUnchanged Outcome = observability.OutcomeUnchanged
	OutcomeSkipped   Outcome = observability.OutcomeSkipped
)

// lookupFunc finds an existing record. A miss must be a models not-found error.
type lookupFunc[T any] func(ctx context.Context) (*T, error)

// createFunc persists a new record and returns it with its generated id.
type createFunc[T any] func(ctx context.Context) (*T, error)

// updateFunc overwrites the refreshable part of an existing record.
type updateFunc[T any] func(ctx context.Context, existing *T) error

// createIfAbsent is the write-once policy: an existing record is returned
// untouched, a missing one is created. Fixture changes to existing records
// are never applied.
func createIfAbsent[T any](ctx context.Context, lookup lookupFunc[T], create createFunc[T]) (*T, Outcome, error) {
	existing, err := lookup(ctx)
	if err == nil {
		return existing, OutcomeUnchanged, nil
	}
	if !models.IsNotFound(err) {
		return nil, "", err
	}

	created, err := create(ctx)
	if err != nil {
		return nil, "", err
	}
	return created, OutcomeCreated, nil
}

// upsertOverwrite is the write-every-run policy: a missing record is created,
// an existing one has update applied on every call.
func upsertOverwrite[T any](ctx context.Context, lookup lookupFunc[T], create createFunc[T], update updateFunc[T]) (*T, Outcome, error) {
	existing, err := lookup(ctx)
	switch {
	case err == nil:
		if err := update(ctx, existing); err != nil {
			return nil, "", err
		}
		return existing, OutcomeUpdated, nil
	case models.IsNotFound(err):
		created, err := create(ctx)
		if err != nil {
			return nil, "", err
		}
		return created, OutcomeCreated, nil
	default:
		return nil, "", err
	}
}
