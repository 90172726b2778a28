package seed

import "github.com/brianvoe/gofakeit/v6"

// RandomSource draws the like fan-out size.
type RandomSource interface {
	// Number returns an integer in [min, max].
	Number(min, max int) int
}

var _ RandomSource = (*gofakeit.Faker)(nil)

// NewRandomSource returns a gofakeit generator seeded with seed. A zero seed
// asks gofakeit for a random one, so runs differ.
func NewRandomSource(seed int64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

// Like fan-out bounds, inclusive.
const (
	minLikes = 1
	maxLikes = 4
)

func likeCount(src RandomSource) int {
	n := src.Number(minLikes, maxLikes)
	if n < minLikes {
		return minLikes
	}
	if n > maxLikes {
		return maxLikes
	}
	return n
}
