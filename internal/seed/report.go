package seed

import (
	"log/slog"
	"time"
)

// Entities tracked in a Report, in phase order.
const (
	EntityUser            = "user"
	EntityCurrentBook     = "current_book"
	EntityCurrentSkill    = "current_skill"
	EntityCurrentGame     = "current_game"
	EntityPost            = "post"
	EntityInterestPost    = "interest_post"
	EntityInterestComment = "interest_comment"
)

var reportEntities = []string{
	EntityUser,
	EntityCurrentBook,
	EntityCurrentSkill,
	EntityCurrentGame,
	EntityPost,
	EntityInterestPost,
	EntityInterestComment,
}

// Counts tallies policy outcomes for one entity.
type Counts struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// Total is the number of fixture records seen.
func (c Counts) Total() int {
	return c.Created + c.Updated + c.Unchanged + c.Skipped
}

// Report summarizes one reconciliation run.
type Report struct {
	Entities map[string]*Counts `json:"entities"`
	Likes    int                `json:"likes"`
	Duration time.Duration      `json:"duration"`
}

func newReport() *Report {
	r := &Report{Entities: make(map[string]*Counts, len(reportEntities))}
	for _, e := range reportEntities {
		r.Entities[e] = &Counts{}
	}
	return r
}

// Get returns the counts for entity. Unknown entities have zero counts.
func (r *Report) Get(entity string) Counts {
	if c, ok := r.Entities[entity]; ok {
		return *c
	}
	return Counts{}
}

func (r *Report) record(entity string, outcome Outcome) {
	c, ok := r.Entities[entity]
	if !ok {
		c = &Counts{}
		r.Entities[entity] = c
	}
	switch outcome {
	case OutcomeCreated:
		c.Created++
	case OutcomeUpdated:
		c.Updated++
	case OutcomeUnchanged:
		c.Unchanged++
	case OutcomeSkipped:
		c.Skipped++
	}
}

// LogAttrs renders the report as slog attributes, one group per entity.
func (r *Report) LogAttrs() []any {
	attrs := make([]any, 0, len(reportEntities)+2)
	for _, e := range reportEntities {
		c := r.Get(e)
		attrs = append(attrs, slog.Group(e,
			slog.Int("created", c.Created),
			slog.Int("updated", c.Updated),
			slog.Int("unchanged", c.Unchanged),
			slog.Int("skipped", c.Skipped),
		))
	}
	attrs = append(attrs, slog.Int("likes", r.Likes), slog.Duration("duration", r.Duration))
	return attrs
}
