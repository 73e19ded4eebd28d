package client

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/okian/scoring/internal/domain/field"
)

// Interests is the catalogue seeded into the store.
var Interests = []string{
	"cars", "pets", "travel", "hi-tech", "sport", "music",
	"books", "tv", "cinema", "geek", "otus",
}

const (
	maxAgeYears = 60
	daysPerYear = 365
	phoneDigits = 10
)

var firstNames = []string{"Ivan", "Maria", "Olga", "Petr", "Anna", "Sergey"}
var lastNames = []string{"Ivanov", "Petrova", "Sidorov", "Smirnova", "Kuznetsov"}

// randIntn returns a uniform integer in [0, n) using crypto/rand.
func randIntn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func pick(list []string) string {
	return list[randIntn(len(list))]
}

// RandomInterests returns two distinct interests for one client.
func RandomInterests() []string {
	first := randIntn(len(Interests))
	second := (first + 1 + randIntn(len(Interests)-1)) % len(Interests)
	return []string{Interests[first], Interests[second]}
}

// RandomScoreArgs returns arguments carrying at least one valid pair.
func RandomScoreArgs(now time.Time) ScoreArgs {
	var a ScoreArgs
	pairs := 1 + randIntn(3)
	for i := 0; i < pairs; i++ {
		switch randIntn(3) {
		case 0:
			a.Phone = "7" + fmt.Sprintf("%0*d", phoneDigits, randIntn(1_000_000_000))
			a.Email = fmt.Sprintf("user%d@example.com", randIntn(100_000))
		case 1:
			a.FirstName = pick(firstNames)
			a.LastName = pick(lastNames)
		default:
			g := randIntn(3)
			a.Gender = &g
			a.Birthday = now.AddDate(0, 0, -randIntn(maxAgeYears*daysPerYear)).Format(field.DateLayout)
		}
	}
	return a
}

// RandomClientIDs returns between one and five ids in [1, maxID].
func RandomClientIDs(maxID int) []int {
	if maxID < 1 {
		maxID = 1
	}
	n := 1 + randIntn(5)
	ids := make([]int, n)
	for i := range ids {
		ids[i] = 1 + randIntn(maxID)
	}
	return ids
}

// InterestsWriter stores interests for a client id.
type InterestsWriter interface {
	Set(ctx context.Context, id string, interests []string) error
}

// Seed writes random interests for ids 1..count and returns what it wrote.
func Seed(ctx context.Context, w InterestsWriter, count int) (map[string][]string, error) {
	seeded := make(map[string][]string, count)
	for i := 1; i <= count; i++ {
		id := strconv.Itoa(i)
		interests := RandomInterests()
		if err := w.Set(ctx, id, interests); err != nil {
			return seeded, fmt.Errorf("seed client %s: %w", id, err)
		}
		seeded[id] = interests
	}
	return seeded, nil
}
