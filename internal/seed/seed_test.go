package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"collabia/internal/database"
	"collabia/internal/models"
	"collabia/internal/observability"
	"collabia/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

type countingHasher struct {
	calls int
	err   error
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plaintext, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestReconciler(t *testing.T, db *gorm.DB, hasher *countingHasher, random RandomSource, opts ...Option) *Reconciler {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	r, err := NewReconciler(repository.NewStore(db), hasher, random, testPassword, opts...)
	require.NoError(t, err)
	return r
}

type tableCounts struct {
	Users, Books, Skills, Games, Posts, InterestPosts, Likes, Comments int64
}

func countRows(t *testing.T, db *gorm.DB) tableCounts {
	t.Helper()
	var c tableCounts
	for _, q := range []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &c.Users},
		{&models.CurrentBook{}, &c.Books},
		{&models.CurrentSkill{}, &c.Skills},
		{&models.CurrentGame{}, &c.Games},
		{&models.Post{}, &c.Posts},
		{&models.InterestPost{}, &c.InterestPosts},
		{&models.InterestLike{}, &c.Likes},
		{&models.InterestComment{}, &c.Comments},
	} {
		require.NoError(t, db.Model(q.model).Count(q.dest).Error)
	}
	return c
}

func TestRun_EmptyStore(t *testing.T) {
	db := setupTestDB(t)
	likesBefore := testutil.ToFloat64(observability.SeedLikes)

	report, err := newTestReconciler(t, db, &countingHasher{}, NewRandomSource(42)).Run(context.Background())
	require.NoError(t, err)

	got := countRows(t, db)
	assert.Equal(t, int64(10), got.Users)
	assert.Equal(t, int64(10), got.Books)
	assert.Equal(t, int64(10), got.Skills)
	assert.Equal(t, int64(10), got.Games)
	assert.Equal(t, int64(8), got.Posts)
	assert.Equal(t, int64(18), got.InterestPosts)
	assert.Equal(t, int64(6), got.Comments)

	assert.Equal(t, Counts{Created: 10}, report.Get(EntityUser))
	assert.Equal(t, Counts{Created: 18}, report.Get(EntityInterestPost))
	assert.Equal(t, Counts{Created: 6}, report.Get(EntityInterestComment))
	assert.Equal(t, int(got.Likes), report.Likes)
	assert.Equal(t, float64(report.Likes), testutil.ToFloat64(observability.SeedLikes)-likesBefore)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.NotEmpty(t, u.CurrentBook, u.Email)
		assert.NotEmpty(t, u.CurrentGame, u.Email)
		assert.NotEmpty(t, u.CurrentSkill, u.Email)
		assert.NotEmpty(t, u.WhatImBuilding, u.Email)
		assert.NotEmpty(t, u.LookingFor, u.Email)
	}
}

func TestRun_LikesAreOneToFourAndNeverByAuthor(t *testing.T) {
	db := setupTestDB(t)

	_, err := newTestReconciler(t, db, &countingHasher{}, NewRandomSource(0)).Run(context.Background())
	require.NoError(t, err)

	var posts []models.InterestPost
	require.NoError(t, db.Find(&posts).Error)
	var likes []models.InterestLike
	require.NoError(t, db.Find(&likes).Error)

	author := make(map[uint]uint, len(posts))
	perPost := make(map[uint]int, len(posts))
	for _, p := range posts {
		author[p.ID] = p.UserID
	}
	for _, l := range likes {
		perPost[l.PostID]++
		assert.NotEqual(t, author[l.PostID], l.UserID, "post %d liked by its author", l.PostID)
	}
	for _, p := range posts {
		assert.GreaterOrEqual(t, perPost[p.ID], minLikes, "post %d", p.ID)
		assert.LessOrEqual(t, perPost[p.ID], maxLikes, "post %d", p.ID)
	}
}

func TestRun_FixedRandomPicksLowestIDs(t *testing.T) {
	db := setupTestDB(t)

	report, err := newTestReconciler(t, db, &countingHasher{}, stubRandom(3)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 18*3, report.Likes)

	var maya models.User
	require.NoError(t, db.Where("email = ?", "maya.chen@stanford.edu").First(&maya).Error)
	var post models.InterestPost
	require.NoError(t, db.Where("user_id = ?", maya.ID).Order("id").First(&post).Error)

	var likerIDs []uint
	require.NoError(t, db.Model(&models.InterestLike{}).Where("post_id = ?", post.ID).Order("user_id").Pluck("user_id", &likerIDs).Error)

	var wantIDs []uint
	require.NoError(t, db.Model(&models.User{}).Where("id <> ?", maya.ID).Order("id").Limit(3).Pluck("id", &wantIDs).Error)
	assert.Equal(t, wantIDs, likerIDs)
}

func TestRun_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	r := newTestReconciler(t, db, &countingHasher{}, NewRandomSource(42))

	_, err := r.Run(ctx)
	require.NoError(t, err)
	first := countRows(t, db)

	report, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, countRows(t, db))

	assert.Equal(t, Counts{Updated: 10}, report.Get(EntityUser))
	assert.Equal(t, Counts{Unchanged: 10}, report.Get(EntityCurrentBook))
	assert.Equal(t, Counts{Unchanged: 10}, report.Get(EntityCurrentSkill))
	assert.Equal(t, Counts{Unchanged: 10}, report.Get(EntityCurrentGame))
	assert.Equal(t, Counts{Unchanged: 8}, report.Get(EntityPost))
	assert.Equal(t, Counts{Unchanged: 18}, report.Get(EntityInterestPost))
	assert.Equal(t, Counts{Unchanged: 6}, report.Get(EntityInterestComment))
	assert.Zero(t, report.Likes)
}

func TestRun_RerunRefreshesOnlyDiscoveryFields(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := newTestReconciler(t, db, &countingHasher{}, NewRandomSource(42)).Run(ctx)
	require.NoError(t, err)

	var before models.User
	require.NoError(t, db.Where("email = ?", "maya.chen@stanford.edu").First(&before).Error)

	changed, err := LoadFixtures()
	require.NoError(t, err)
	maya := &changed.Users[0]
	require.Equal(t, "maya.chen@stanford.edu", maya.Email)
	maya.Name = "Maya C."
	maya.Skills = []string{"Haskell"}
	maya.OpenToMentoring = true
	maya.Discovery.CurrentBook = "Thinking, Fast and Slow"
	maya.Discovery.LookingFor = "A co-author"
	maya.Book.Title = "Thinking, Fast and Slow"

	report, err := newTestReconciler(t, db, &countingHasher{}, NewRandomSource(42), WithFixtures(changed)).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Unchanged: 10}, report.Get(EntityCurrentBook))

	var after models.User
	require.NoError(t, db.Where("email = ?", "maya.chen@stanford.edu").First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "Thinking, Fast and Slow", after.CurrentBook)
	assert.Equal(t, "A co-author", after.LookingFor)
	assert.Equal(t, before.CurrentGame, after.CurrentGame)

	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Skills, after.Skills)
	assert.Equal(t, before.OpenToMentoring, after.OpenToMentoring)
	assert.Equal(t, before.Password, after.Password)

	var book models.CurrentBook
	require.NoError(t, db.Where("user_id = ?", after.ID).First(&book).Error)
	assert.Equal(t, "Atomic Habits", book.Title, "structured interests are write-once")

	var books int64
	require.NoError(t, db.Model(&models.CurrentBook{}).Where("user_id = ?", after.ID).Count(&books).Error)
	assert.Equal(t, int64(1), books)
}

func TestRun_RecreatesDeletedCurrentBook(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	r := newTestReconciler(t, db, &countingHasher{}, NewRandomSource(42))

	_, err := r.Run(ctx)
	require.NoError(t, err)

	var ethan models.User
	require.NoError(t, db.Where("email = ?", "ethan.brooks@umich.edu").First(&ethan).Error)
	require.NoError(t, db.Where("user_id = ?", ethan.ID).Delete(&models.CurrentBook{}).Error)

	report, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Created: 1, Unchanged: 9}, report.Get(EntityCurrentBook))
	assert.Equal(t, Counts{Updated: 10}, report.Get(EntityUser))

	var again models.User
	require.NoError(t, db.Where("email = ?", "ethan.brooks@umich.edu").First(&again).Error)
	assert.Equal(t, ethan.ID, again.ID)

	var book models.CurrentBook
	require.NoError(t, db.Where("user_id = ?", ethan.ID).First(&book).Error)
	assert.Equal(t, "Clean Code", book.Title)
	assert.Equal(t, int64(10), countRows(t, db).Books)
}

func TestRun_HashesPasswordOncePerRun(t *testing.T) {
	db := setupTestDB(t)
	hasher := &countingHasher{}

	_, err := newTestReconciler(t, db, hasher, NewRandomSource(1)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hasher.calls)

	var hashes []string
	require.NoError(t, db.Model(&models.User{}).Distinct("password").Pluck("password", &hashes).Error)
	assert.Equal(t, []string{"hashed:" + testPassword}, hashes)
}

func TestRun_DuplicateSnippetAttachesToLowestID(t *testing.T) {
	db := setupTestDB(t)

	f := &Fixtures{
		Users: []UserFixture{
			{Email: "a@collabia.dev", Name: "A"},
			{Email: "b@collabia.dev", Name: "B"},
		},
		InterestPosts: []InterestPostFixture{
			{Author: "a@collabia.dev", Type: models.InterestTypeGame, InterestValue: "Chess", Content: "First to 1500 in chess"},
			{Author: "b@collabia.dev", Type: models.InterestTypeGame, InterestValue: "Chess", Content: "Also reached 1500 in chess"},
		},
		Comments: []CommentFixture{
			{PostSnippet: "1500 in chess", Author: "b@collabia.dev", Content: "Congrats"},
		},
	}

	_, err := newTestReconciler(t, db, &countingHasher{}, stubRandom(1), WithFixtures(f)).Run(context.Background())
	require.NoError(t, err)

	var first models.InterestPost
	require.NoError(t, db.Order("id").First(&first).Error)
	var comment models.InterestComment
	require.NoError(t, db.First(&comment).Error)
	assert.Equal(t, first.ID, comment.PostID)
}

func TestRun_SkipsUnresolvedReferences(t *testing.T) {
	db := setupTestDB(t)

	f := &Fixtures{
		Users: []UserFixture{{Email: "a@collabia.dev", Name: "A"}, {Email: "b@collabia.dev", Name: "B"}},
		Posts: []PostFixture{
			{Author: "ghost@collabia.dev", Title: "Orphan"},
			{Author: "a@collabia.dev", Title: "Kept"},
		},
		InterestPosts: []InterestPostFixture{
			{Author: "ghost@collabia.dev", Type: models.InterestTypeBook, InterestValue: "Dune", Content: "Nobody wrote this"},
			{Author: "a@collabia.dev", Type: models.InterestTypeBook, InterestValue: "Dune", Content: "Reading Dune"},
		},
		Comments: []CommentFixture{
			{PostSnippet: "no such post", Author: "b@collabia.dev", Content: "Lost"},
			{PostSnippet: "Reading Dune", Author: "ghost@collabia.dev", Content: "Lost"},
			{PostSnippet: "Reading Dune", Author: "b@collabia.dev", Content: "Same here"},
		},
	}

	report, err := newTestReconciler(t, db, &countingHasher{}, stubRandom(4), WithFixtures(f)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Counts{Created: 1, Skipped: 1}, report.Get(EntityPost))
	assert.Equal(t, Counts{Created: 1, Skipped: 1}, report.Get(EntityInterestPost))
	assert.Equal(t, Counts{Created: 1, Skipped: 2}, report.Get(EntityInterestComment))
	assert.Equal(t, Counts{}, report.Get(EntityCurrentBook))
	assert.Equal(t, 1, report.Likes, "only one other user can like the post")
}

func TestRun_HashFailureAbortsBeforeWrites(t *testing.T) {
	db := setupTestDB(t)
	hashErr := errors.New("entropy exhausted")

	_, err := newTestReconciler(t, db, &countingHasher{err: hashErr}, NewRandomSource(1)).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, hashErr)
	assert.Contains(t, err.Error(), "users phase")
	assert.Zero(t, countRows(t, db).Users)
}

func TestRun_StoreFailureNamesPhaseAndRecord(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Post{}))

	report, err := newTestReconciler(t, db, &countingHasher{}, NewRandomSource(1)).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posts phase")
	assert.Contains(t, err.Error(), "Looking for a frontend partner")

	assert.Equal(t, Counts{Created: 10}, report.Get(EntityUser), "earlier phases are not rolled back")
	assert.Equal(t, Counts{}, report.Get(EntityInterestPost), "later phases never run")
}

func TestNewReconciler_RequiresPassword(t *testing.T) {
	_, err := NewReconciler(nil, &countingHasher{}, stubRandom(1), "")
	assert.ErrorIs(t, err, ErrNoPassword)
}
