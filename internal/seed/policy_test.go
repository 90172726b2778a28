package seed

import (
	"context"
	"errors"
	"testing"

	"collabia/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Value string
}

func TestCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	tests := []struct {
		name        string
		lookupErr   error
		createErr   error
		wantOutcome Outcome
		wantValue   string
		wantCreate  bool
		wantErr     error
	}{
		{name: "existing record is left alone", wantOutcome: OutcomeUnchanged, wantValue: "existing"},
		{name: "missing record is created", lookupErr: models.NewNotFoundError("record", 1), wantOutcome: OutcomeCreated, wantValue: "new", wantCreate: true},
		{name: "lookup fault aborts", lookupErr: storeErr, wantErr: storeErr},
		{name: "create fault aborts", lookupErr: models.NewNotFoundError("record", 1), createErr: storeErr, wantCreate: true, wantErr: storeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			got, outcome, err := createIfAbsent(ctx,
				func(context.Context) (*record, error) {
					if tt.lookupErr != nil {
						return nil, tt.lookupErr
					}
					return &record{Value: "existing"}, nil
				},
				func(context.Context) (*record, error) {
					created = true
					return &record{Value: "new"}, tt.createErr
				},
			)

			assert.Equal(t, tt.wantCreate, created)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantValue, got.Value)
		})
	}
}

func TestUpsertOverwrite(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	t.Run("existing record is overwritten", func(t *testing.T) {
		got, outcome, err := upsertOverwrite(ctx,
			func(context.Context) (*record, error) { return &record{Value: "old"}, nil },
			func(context.Context) (*record, error) {
				t.Fatal("create must not run for an existing record")
				return nil, nil
			},
			func(_ context.Context, r *record) error {
				r.Value = "refreshed"
				return nil
			},
		)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome)
		assert.Equal(t, "refreshed", got.Value)
	})

	t.Run("missing record is created", func(t *testing.T) {
		got, outcome, err := upsertOverwrite(ctx,
			func(context.Context) (*record, error) { return nil, models.NewNotFoundError("record", "k") },
			func(context.Context) (*record, error) { return &record{Value: "new"}, nil },
			func(context.Context, *record) error {
				t.Fatal("update must not run for a missing record")
				return nil
			},
		)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, outcome)
		assert.Equal(t, "new", got.Value)
	})

	t.Run("update fault aborts", func(t *testing.T) {
		_, _, err := upsertOverwrite(ctx,
			func(context.Context) (*record, error) { return &record{}, nil },
			func(context.Context) (*record, error) { return nil, nil },
			func(context.Context, *record) error { return storeErr },
		)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("lookup fault aborts", func(t *testing.T) {
		_, _, err := upsertOverwrite(ctx,
			func(context.Context) (*record, error) { return nil, models.NewInternalError(storeErr) },
			func(context.Context) (*record, error) { return nil, nil },
			func(context.Context, *record) error { return nil },
		)
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, models.IsNotFound(err))
	})
}

type stubRandom int

func (s stubRandom) Number(_, _ int) int { return int(s) }

func TestLikeCount_Clamps(t *testing.T) {
	assert.Equal(t, 1, likeCount(stubRandom(0)))
	assert.Equal(t, 3, likeCount(stubRandom(3)))
	assert.Equal(t, 4, likeCount(stubRandom(9)))
}

func TestNewRandomSource_Deterministic(t *testing.T) {
	a := NewRandomSource(7)
	b := NewRandomSource(7)
	for i := 0; i < 20; i++ {
		n := a.Number(minLikes, maxLikes)
		assert.Equal(t, n, b.Number(minLikes, maxLikes))
		assert.GreaterOrEqual(t, n, minLikes)
		assert.LessOrEqual(t, n, maxLikes)
	}
}

func TestReport_Record(t *testing.T) {
	r := newReport()
	r.record(EntityUser, OutcomeCreated)
	r.record(EntityUser, OutcomeUpdated)
	r.record(EntityPost, OutcomeSkipped)
	r.record(EntityPost, OutcomeUnchanged)

	assert.Equal(t, Counts{Created: 1, Updated: 1}, r.Get(EntityUser))
	assert.Equal(t, Counts{Unchanged: 1, Skipped: 1}, r.Get(EntityPost))
	assert.Equal(t, 2, r.Get(EntityPost).Total())
	assert.Equal(t, Counts{}, r.Get("unknown"))
	assert.Len(t, r.LogAttrs(), len(reportEntities)+2)
}
