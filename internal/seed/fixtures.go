package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"collabia/internal/models"
	"collabia/internal/validation"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// fixtureFiles are decoded in order into a single Fixtures value. Each file
// owns one top-level key.
var fixtureFiles = []string{"users.yaml", "posts.yaml", "interest_posts.yaml", "comments.yaml"}

// Fixtures is the desired seeded state.
type Fixtures struct {
	Users         []UserFixture         `yaml:"users"`
	Posts         []PostFixture         `yaml:"posts"`
	InterestPosts []InterestPostFixture `yaml:"interest_posts"`
	Comments      []CommentFixture      `yaml:"comments"`
}

// UserFixture describes one member profile and its structured interests.
type UserFixture struct {
	Email             string           `yaml:"email"`
	Name              string           `yaml:"name"`
	School            string           `yaml:"school"`
	Location          string           `yaml:"location"`
	Bio               string           `yaml:"bio"`
	Skills            []string         `yaml:"skills"`
	Interests         []string         `yaml:"interests"`
	OpenToCollaborate bool             `yaml:"open_to_collaborate"`
	OpenToMentoring   bool             `yaml:"open_to_mentoring"`
	OpenToStudyGroup  bool             `yaml:"open_to_study_group"`
	SchoolVerified    bool             `yaml:"school_verified"`
	Discovery         DiscoveryFixture `yaml:"discovery"`
	Book              *BookFixture     `yaml:"book"`
	Skill             *SkillFixture    `yaml:"skill"`
	Game              *GameFixture     `yaml:"game"`
}

// DiscoveryFixture holds the free-text discovery fields.
type DiscoveryFixture struct {
	CurrentBook    string `yaml:"current_book"`
	CurrentGame    string `yaml:"current_game"`
	CurrentSkill   string `yaml:"current_skill"`
	WhatImBuilding string `yaml:"what_im_building"`
	LookingFor     string `yaml:"looking_for"`
}

type BookFixture struct {
	Title      string            `yaml:"title"`
	TotalPages int               `yaml:"total_pages"`
	PagesRead  int               `yaml:"pages_read"`
	Status     models.BookStatus `yaml:"status"`
}

type SkillFixture struct {
	Name  string            `yaml:"name"`
	Level models.SkillLevel `yaml:"level"`
	Notes *string           `yaml:"notes"`
}

type GameFixture struct {
	Name      string                `yaml:"name"`
	Rank      *string               `yaml:"rank"`
	Frequency *models.GameFrequency `yaml:"frequency"`
}

// PostFixture is a general post keyed by (author, title).
type PostFixture struct {
	Author           string               `yaml:"author"`
	Title            string               `yaml:"title"`
	Description      string               `yaml:"description"`
	Tags             []string             `yaml:"tags"`
	InterestType     *models.InterestType `yaml:"interest_type"`
	InterestValue    *string              `yaml:"interest_value"`
	ProgressSnapshot *float64             `yaml:"progress_snapshot"`
}

// InterestPostFixture is an interest update keyed by (author, content).
type InterestPostFixture struct {
	Author           string              `yaml:"author"`
	Type             models.InterestType `yaml:"type"`
	InterestValue    string              `yaml:"interest_value"`
	Content          string              `yaml:"content"`
	ProgressSnapshot *float64            `yaml:"progress_snapshot"`
}

// CommentFixture targets the first interest post whose content contains
// PostSnippet.
type CommentFixture struct {
	PostSnippet string `yaml:"post_snippet"`
	Author      string `yaml:"author"`
	Content     string `yaml:"content"`
}

// LoadFixtures decodes and validates the embedded fixture set.
func LoadFixtures() (*Fixtures, error) {
	return loadFixtures(fixtureFS, "fixtures")
}

func loadFixtures(fsys fs.FS, dir string) (*Fixtures, error) {
	var f Fixtures
	for _, name := range fixtureFiles {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", name, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode fixture %s: %w", name, err)
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks field formats, enum membership and cross references. All
// problems are reported together.
func (f *Fixtures) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	emails := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		if err := validation.ValidateEmail(u.Email); err != nil {
			add("users[%d]: %w", i, err)
		}
		if emails[u.Email] {
			add("users[%d]: duplicate email %q", i, u.Email)
		}
		emails[u.Email] = true
		if err := validation.ValidateRequired("name", u.Name); err != nil {
			add("users[%d]: %w", i, err)
		}
		if b := u.Book; b != nil {
			if err := validation.ValidateRequired("book title", b.Title); err != nil {
				add("users[%d]: %w", i, err)
			}
			if err := validation.ValidatePages(b.PagesRead, b.TotalPages); err != nil {
				add("users[%d] book: %w", i, err)
			}
			if !b.Status.Valid() {
				add("users[%d]: unknown book status %q", i, b.Status)
			}
		}
		if s := u.Skill; s != nil {
			if err := validation.ValidateRequired("skill name", s.Name); err != nil {
				add("users[%d]: %w", i, err)
			}
			if !s.Level.Valid() {
				add("users[%d]: unknown skill level %q", i, s.Level)
			}
		}
		if g := u.Game; g != nil {
			if err := validation.ValidateRequired("game name", g.Name); err != nil {
				add("users[%d]: %w", i, err)
			}
			if g.Frequency != nil && !g.Frequency.Valid() {
				add("users[%d]: unknown game frequency %q", i, *g.Frequency)
			}
		}
	}

	checkAuthor := func(kind string, i int, email string) {
		if !emails[email] {
			add("%s[%d]: author %q is not a fixture user", kind, i, email)
		}
	}
	checkProgress := func(kind string, i int, p *float64) {
		if p == nil {
			return
		}
		if err := validation.ValidateProgress(*p); err != nil {
			add("%s[%d]: %w", kind, i, err)
		}
	}

	postKeys := make(map[string]bool, len(f.Posts))
	for i, p := range f.Posts {
		checkAuthor("posts", i, p.Author)
		if err := validation.ValidateRequired("title", p.Title); err != nil {
			add("posts[%d]: %w", i, err)
		}
		key := p.Author + "\x00" + p.Title
		if postKeys[key] {
			add("posts[%d]: duplicate title %q for %s", i, p.Title, p.Author)
		}
		postKeys[key] = true
		if p.InterestType != nil && !p.InterestType.Valid() {
			add("posts[%d]: unknown interest type %q", i, *p.InterestType)
		}
		checkProgress("posts", i, p.ProgressSnapshot)
	}

	interestKeys := make(map[string]bool, len(f.InterestPosts))
	for i, p := range f.InterestPosts {
		checkAuthor("interest_posts", i, p.Author)
		if !p.Type.Valid() {
			add("interest_posts[%d]: unknown interest type %q", i, p.Type)
		}
		if err := validation.ValidateRequired("interest value", p.InterestValue); err != nil {
			add("interest_posts[%d]: %w", i, err)
		}
		if err := validation.ValidateRequired("content", p.Content); err != nil {
			add("interest_posts[%d]: %w", i, err)
		}
		key := p.Author + "\x00" + p.Content
		if interestKeys[key] {
			add("interest_posts[%d]: duplicate content for %s", i, p.Author)
		}
		interestKeys[key] = true
		checkProgress("interest_posts", i, p.ProgressSnapshot)
	}

	for i, c := range f.Comments {
		checkAuthor("comments", i, c.Author)
		if err := validation.ValidateRequired("post snippet", c.PostSnippet); err != nil {
			add("comments[%d]: %w", i, err)
		}
		if err := validation.ValidateRequired("content", c.Content); err != nil {
			add("comments[%d]: %w", i, err)
		}
	}

	if len(errs) > 0 {
		return &models.AppError{
			Code:    models.CodeValidation,
			Message: "invalid fixtures",
			Err:     errors.Join(errs...),
		}
	}
	return nil
}

// user builds the model for a first-time insert.
func (u UserFixture) user(passwordHash string) *models.User {
	m := &models.User{
		Email:             u.Email,
		Name:              u.Name,
		Password:          passwordHash,
		School:            u.School,
		Location:          u.Location,
		Bio:               u.Bio,
		Skills:            u.Skills,
		Interests:         u.Interests,
		OpenToCollaborate: u.OpenToCollaborate,
		OpenToMentoring:   u.OpenToMentoring,
		OpenToStudyGroup:  u.OpenToStudyGroup,
		SchoolVerified:    u.SchoolVerified,
	}
	m.ApplyDiscovery(u.Discovery.fields())
	return m
}

func (d DiscoveryFixture) fields() models.DiscoveryFields {
	return models.DiscoveryFields{
		CurrentBook:    d.CurrentBook,
		CurrentGame:    d.CurrentGame,
		CurrentSkill:   d.CurrentSkill,
		WhatImBuilding: d.WhatImBuilding,
		LookingFor:     d.LookingFor,
	}
}

func (b BookFixture) model(userID uint) *models.CurrentBook {
	return &models.CurrentBook{
		UserID:     userID,
		Title:      b.Title,
		TotalPages: b.TotalPages,
		PagesRead:  b.PagesRead,
		Status:     b.Status,
	}
}

func (s SkillFixture) model(userID uint) *models.CurrentSkill {
	return &models.CurrentSkill{UserID: userID, Name: s.Name, Level: s.Level, Notes: s.Notes}
}

func (g GameFixture) model(userID uint) *models.CurrentGame {
	return &models.CurrentGame{UserID: userID, Name: g.Name, Rank: g.Rank, Frequency: g.Frequency}
}

func (p PostFixture) model(authorID uint) *models.Post {
	return &models.Post{
		AuthorID:         authorID,
		Title:            p.Title,
		Description:      p.Description,
		Tags:             p.Tags,
		InterestType:     p.InterestType,
		InterestValue:    p.InterestValue,
		ProgressSnapshot: p.ProgressSnapshot,
	}
}

func (p InterestPostFixture) model(userID uint) *models.InterestPost {
	return &models.InterestPost{
		UserID:           userID,
		Type:             p.Type,
		InterestValue:    p.InterestValue,
		Content:          p.Content,
		ProgressSnapshot: p.ProgressSnapshot,
	}
}
