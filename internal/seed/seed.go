// Package seed reconciles the database with the Collabia fixture set.
//
// A run walks five phases in order: users, structured interests, posts,
// interest posts with their likes, and comments. Every record goes through an
// existence check first, so runs can be repeated without duplicating rows.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"collabia/internal/models"
	"collabia/internal/observability"
	"collabia/internal/repository"
	"collabia/internal/security"

	"go.opentelemetry.io/otel/attribute"
)

// Phase names, also used as log and metric labels.
const (
	PhaseUsers         = "users"
	PhaseInterests     = "interests"
	PhasePosts         = "posts"
	PhaseInterestPosts = "interest_posts"
	PhaseComments      = "comments"
)

// ErrNoPassword is returned by NewReconciler when no seed password is set.
var ErrNoPassword = errors.New("seed password must not be empty")

// Reconciler brings the store in line with a fixture set.
type Reconciler struct {
	store    *repository.Store
	hasher   security.Hasher
	random   RandomSource
	fixtures *Fixtures
	password string
	metrics  *observability.SeedMetrics
	logger   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithFixtures replaces the embedded fixtures. The value is used as is.
func WithFixtures(f *Fixtures) Option {
	return func(r *Reconciler) { r.fixtures = f }
}

// WithLogger sets the logger used for progress lines.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *observability.SeedMetrics) Option {
	return func(r *Reconciler) { r.metrics = m }
}

// NewReconciler wires a Reconciler. Unless WithFixtures is given the embedded
// fixtures are loaded and validated here.
func NewReconciler(store *repository.Store, hasher security.Hasher, random RandomSource, password string, opts ...Option) (*Reconciler, error) {
	if password == "" {
		return nil, ErrNoPassword
	}
	r := &Reconciler{
		store:    store,
		hasher:   hasher,
		random:   random,
		password: password,
		metrics:  observability.NewSeedMetrics(),
		logger:   observability.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fixtures == nil {
		f, err := LoadFixtures()
		if err != nil {
			return nil, err
		}
		r.fixtures = f
	}
	return r, nil
}

// runState carries values between phases of one run.
type runState struct {
	report       *Report
	passwordHash string
	userIDs      map[string]uint
}

// Run executes all phases in order and stops at the first store or hashing
// error. The returned report reflects the work done up to that point.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	span, ctx := observability.NewSpan(ctx, "seed.run")
	defer span.End()

	start := time.Now()
	state := &runState{
		report:  newReport(),
		userIDs: make(map[string]uint, len(r.fixtures.Users)),
	}
	r.logger.InfoContext(ctx, "seeding started",
		slog.Int("users", len(r.fixtures.Users)),
		slog.Int("posts", len(r.fixtures.Posts)),
		slog.Int("interest_posts", len(r.fixtures.InterestPosts)),
		slog.Int("comments", len(r.fixtures.Comments)),
	)

	phases := []struct {
		name string
		run  func(context.Context, *runState) error
	}{
		{PhaseUsers, r.seedUsers},
		{PhaseInterests, r.seedInterests},
		{PhasePosts, r.seedPosts},
		{PhaseInterestPosts, r.seedInterestPosts},
		{PhaseComments, r.seedComments},
	}
	for _, p := range phases {
		if err := r.runPhase(ctx, p.name, p.run, state); err != nil {
			state.report.Duration = time.Since(start)
			span.SetError(err)
			return state.report, err
		}
	}

	state.report.Duration = time.Since(start)
	span.AddAttributes(attribute.Int("seed.likes", state.report.Likes))
	r.logger.InfoContext(ctx, "seeding completed", state.report.LogAttrs()...)
	return state.report, nil
}

func (r *Reconciler) runPhase(ctx context.Context, name string, fn func(context.Context, *runState) error, state *runState) error {
	span, ctx := observability.NewSpan(ctx, "seed."+name)
	defer span.End()
	defer r.metrics.TrackPhase(name)()

	ctx = observability.WithPhase(ctx, name)
	if err := fn(ctx, state); err != nil {
		span.SetError(err)
		return fmt.Errorf("%s phase: %w", name, err)
	}
	return nil
}

func (r *Reconciler) record(ctx context.Context, state *runState, entity string, outcome Outcome, attrs ...any) {
	state.report.record(entity, outcome)
	r.metrics.RecordOutcome(entity, string(outcome))
	if outcome == OutcomeUnchanged {
		r.logger.DebugContext(ctx, entity+" already present", attrs...)
		return
	}
	r.logger.InfoContext(ctx, entity+" "+string(outcome), attrs...)
}

func (r *Reconciler) skip(ctx context.Context, state *runState, entity, reason string, attrs ...any) {
	state.report.record(entity, OutcomeSkipped)
	r.metrics.RecordOutcome(entity, string(OutcomeSkipped))
	r.logger.WarnContext(ctx, entity+" skipped: "+reason, attrs...)
}

// resolveUser looks up a user by email. A missing user is not an error.
func (r *Reconciler) resolveUser(ctx context.Context, email string) (*models.User, bool, error) {
	user, err := r.store.Users.GetByEmail(ctx, email)
	if models.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (r *Reconciler) seedUsers(ctx context.Context, state *runState) error {
	hash, err := r.hasher.Hash(r.password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	state.passwordHash = hash

	for _, fu := range r.fixtures.Users {
		discovery := fu.Discovery.fields()
		user, outcome, err := upsertOverwrite(ctx,
			func(ctx context.Context) (*models.User, error) {
				return r.store.Users.GetByEmail(ctx, fu.Email)
			},
			func(ctx context.Context) (*models.User, error) {
				u := fu.user(state.passwordHash)
				return u, r.store.Users.Create(ctx, u)
			},
			func(ctx context.Context, u *models.User) error {
				if err := r.store.Users.UpdateDiscovery(ctx, u.ID, discovery); err != nil {
					return err
				}
				u.ApplyDiscovery(discovery)
				return nil
			},
		)
		if err != nil {
			return fmt.Errorf("user %s: %w", fu.Email, err)
		}
		state.userIDs[fu.Email] = user.ID
		r.record(ctx, state, EntityUser, outcome, slog.String("email", fu.Email), slog.Uint64("user_id", uint64(user.ID)))
	}
	return nil
}

func (r *Reconciler) seedInterests(ctx context.Context, state *runState) error {
	interests := r.store.Interests
	for _, fu := range r.fixtures.Users {
		userID, ok := state.userIDs[fu.Email]
		if !ok {
			continue
		}
		attrs := []any{slog.String("email", fu.Email), slog.Uint64("user_id", uint64(userID))}

		if b := fu.Book; b != nil {
			_, outcome, err := createIfAbsent(ctx,
				func(ctx context.Context) (*models.CurrentBook, error) { return interests.GetBookByUser(ctx, userID) },
				func(ctx context.Context) (*models.CurrentBook, error) {
					row := b.model(userID)
					return row, interests.CreateBook(ctx, row)
				},
			)
			if err != nil {
				return fmt.Errorf("current book for %s: %w", fu.Email, err)
			}
			r.record(ctx, state, EntityCurrentBook, outcome, append(attrs, slog.String("title", b.Title))...)
		}

		if s := fu.Skill; s != nil {
			_, outcome, err := createIfAbsent(ctx,
				func(ctx context.Context) (*models.CurrentSkill, error) { return interests.GetSkillByUser(ctx, userID) },
				func(ctx context.Context) (*models.CurrentSkill, error) {
					row := s.model(userID)
					return row, interests.CreateSkill(ctx, row)
				},
			)
			if err != nil {
				return fmt.Errorf("current skill for %s: %w", fu.Email, err)
			}
			r.record(ctx, state, EntityCurrentSkill, outcome, append(attrs, slog.String("name", s.Name))...)
		}

		if g := fu.Game; g != nil {
			_, outcome, err := createIfAbsent(ctx,
				func(ctx context.Context) (*models.CurrentGame, error) { return interests.GetGameByUser(ctx, userID) },
				func(ctx context.Context) (*models.CurrentGame, error) {
					row := g.model(userID)
					return row, interests.CreateGame(ctx, row)
				},
			)
			if err != nil {
				return fmt.Errorf("current game for %s: %w", fu.Email, err)
			}
			r.record(ctx, state, EntityCurrentGame, outcome, append(attrs, slog.String("name", g.Name))...)
		}
	}
	return nil
}

func (r *Reconciler) seedPosts(ctx context.Context, state *runState) error {
	for _, fp := range r.fixtures.Posts {
		attrs := []any{slog.String("author", fp.Author), slog.String("title", fp.Title)}

		author, ok, err := r.resolveUser(ctx, fp.Author)
		if err != nil {
			return fmt.Errorf("post %q author: %w", fp.Title, err)
		}
		if !ok {
			r.skip(ctx, state, EntityPost, "author not found", attrs...)
			continue
		}

		_, outcome, err := createIfAbsent(ctx,
			func(ctx context.Context) (*models.Post, error) {
				return r.store.Posts.GetByAuthorAndTitle(ctx, author.ID, fp.Title)
			},
			func(ctx context.Context) (*models.Post, error) {
				post := fp.model(author.ID)
				return post, r.store.Posts.Create(ctx, post)
			},
		)
		if err != nil {
			return fmt.Errorf("post %q: %w", fp.Title, err)
		}
		r.record(ctx, state, EntityPost, outcome, attrs...)
	}
	return nil
}

func (r *Reconciler) seedInterestPosts(ctx context.Context, state *runState) error {
	for _, fp := range r.fixtures.InterestPosts {
		attrs := []any{slog.String("author", fp.Author), slog.String("type", string(fp.Type)), slog.String("value", fp.InterestValue)}

		author, ok, err := r.resolveUser(ctx, fp.Author)
		if err != nil {
			return fmt.Errorf("interest post by %s author: %w", fp.Author, err)
		}
		if !ok {
			r.skip(ctx, state, EntityInterestPost, "author not found", attrs...)
			continue
		}

		likes := 0
		_, outcome, err := createIfAbsent(ctx,
			func(ctx context.Context) (*models.InterestPost, error) {
				return r.store.InterestPosts.GetByUserAndContent(ctx, author.ID, fp.Content)
			},
			func(ctx context.Context) (*models.InterestPost, error) {
				post := fp.model(author.ID)
				err := r.store.Transaction(ctx, func(tx *repository.Store) error {
					if err := tx.InterestPosts.Create(ctx, post); err != nil {
						return err
					}
					n, err := r.fanOutLikes(ctx, tx, post)
					likes = n
					return err
				})
				return post, err
			},
		)
		if err != nil {
			return fmt.Errorf("interest post by %s (%s %q): %w", fp.Author, fp.Type, fp.InterestValue, err)
		}
		if outcome == OutcomeCreated {
			state.report.Likes += likes
			r.metrics.RecordLikes(likes)
			attrs = append(attrs, slog.Int("likes", likes))
		}
		r.record(ctx, state, EntityInterestPost, outcome, attrs...)
	}
	return nil
}

// fanOutLikes adds between minLikes and maxLikes likes to a new post from
// users other than its author, taken in ascending id order.
func (r *Reconciler) fanOutLikes(ctx context.Context, tx *repository.Store, post *models.InterestPost) (int, error) {
	likers, err := tx.Users.ListExcluding(ctx, post.UserID, likeCount(r.random))
	if err != nil {
		return 0, fmt.Errorf("list likers: %w", err)
	}
	for _, u := range likers {
		if err := tx.InterestPosts.CreateLike(ctx, &models.InterestLike{PostID: post.ID, UserID: u.ID}); err != nil {
			return 0, fmt.Errorf("like from user %d: %w", u.ID, err)
		}
	}
	return len(likers), nil
}

func (r *Reconciler) seedComments(ctx context.Context, state *runState) error {
	for _, fc := range r.fixtures.Comments {
		attrs := []any{slog.String("author", fc.Author), slog.String("snippet", fc.PostSnippet)}

		target, err := r.store.InterestPosts.FindFirstContaining(ctx, fc.PostSnippet)
		if models.IsNotFound(err) {
			r.skip(ctx, state, EntityInterestComment, "no interest post matches snippet", attrs...)
			continue
		}
		if err != nil {
			return fmt.Errorf("comment target %q: %w", fc.PostSnippet, err)
		}

		commenter, ok, err := r.resolveUser(ctx, fc.Author)
		if err != nil {
			return fmt.Errorf("comment on %q author: %w", fc.PostSnippet, err)
		}
		if !ok {
			r.skip(ctx, state, EntityInterestComment, "author not found", attrs...)
			continue
		}

		_, outcome, err := createIfAbsent(ctx,
			func(ctx context.Context) (*models.InterestComment, error) {
				return r.store.Comments.Get(ctx, target.ID, commenter.ID, fc.Content)
			},
			func(ctx context.Context) (*models.InterestComment, error) {
				c := &models.InterestComment{PostID: target.ID, UserID: commenter.ID, Content: fc.Content}
				return c, r.store.Comments.Create(ctx, c)
			},
		)
		if err != nil {
			return fmt.Errorf("comment by %s on %q: %w", fc.Author, fc.PostSnippet, err)
		}
		r.record(ctx, state, EntityInterestComment, outcome, append(attrs, slog.Uint64("post_id", uint64(target.ID)))...)
	}
	return nil
}
