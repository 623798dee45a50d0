// Command storyhive-seed fills the primary store with generated novels for
// local development. Generated ratings are real per-user votes, so the
// derived stats always agree with the vote set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storyhive/storyhive/internal/config"
	"github.com/storyhive/storyhive/internal/storage/mongo"
	"github.com/storyhive/storyhive/pkg/model"
)

var genres = []string{
	"fantasy", "science-fiction", "romance", "mystery", "thriller",
	"horror", "historical-fiction", "adventure", "contemporary",
	"literary-fiction", "coming-of-age", "dystopian", "paranormal",
	"urban-fantasy", "epic-fantasy",
}

var tags = []string{
	"magic", "dragons", "space", "time-travel", "love", "war",
	"mystery", "supernatural", "politics", "kingdom", "epic",
	"young-adult", "dark", "adventure", "quest", "ancient",
	"future", "technology", "prophecy", "heroes", "villains",
	"mythology", "legends", "empire", "rebellion", "survival",
	"friendship", "family", "revenge", "journey",
}

var statuses = []model.NovelStatus{model.NovelOngoing, model.NovelCompleted, model.NovelHiatus}

var titleWords = []string{
	"Crown", "Shadow", "Ember", "Tide", "Oath", "Throne", "Cinder",
	"Relic", "Storm", "Hollow", "Versal", "Iron", "Whisper", "Dawn",
	"Ruin", "Veil", "Sigil", "Frost", "Wander", "Echo",
}

var authorNames = []string{
	"inkwraith", "quillheart", "nightscribe", "pageturner", "fablesmith",
	"loreweaver", "plotforge", "versecaller",
}

func main() {
	count := flag.Int("count", 100, "Number of novels to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider, err := mongo.Connect(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer provider.Close(context.Background())

	if err := provider.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	authors := generateAuthors(rng, 8)

	log.Printf("Seeding %d novels...", *count)
	inserted := 0
	for i := 0; i < *count; i++ {
		novel := generateNovel(rng, authors)
		if err := provider.Novels.Create(ctx, novel); err != nil {
			log.Printf("Failed to insert %q: %v", novel.Title, err)
			continue
		}
		inserted++
	}
	log.Printf("Successfully inserted %d novels", inserted)
}

func generateAuthors(rng *rand.Rand, n int) []model.Author {
	out := make([]model.Author, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Author{
			ID:       uuid.New().String(),
			Username: authorNames[i%len(authorNames)],
		})
	}
	return out
}

func generateNovel(rng *rand.Rand, authors []model.Author) *model.Novel {
	title := generateTitle(rng)
	status := statuses[rng.Intn(len(statuses))]
	created := time.Now().UTC().AddDate(0, 0, -rng.Intn(730))

	return &model.Novel{
		Title:         title,
		Description:   generateDescription(rng, title),
		Author:        authors[rng.Intn(len(authors))],
		Genres:        sample(rng, genres, 1+rng.Intn(4)),
		Tags:          sample(rng, tags, 3+rng.Intn(6)),
		Status:        status,
		TotalChapters: rng.Intn(51),
		ViewCount:     int64(rng.Intn(10000)),
		Ratings:       generateRatings(rng),
		CreatedAt:     created,
	}
}

func generateTitle(rng *rand.Rand) string {
	words := sample(rng, titleWords, 2+rng.Intn(3))
	return "The " + strings.Join(words, " ")
}

func generateDescription(rng *rand.Rand, title string) string {
	genre := genres[rng.Intn(len(genres))]
	tag := tags[rng.Intn(len(tags))]
	return fmt.Sprintf("%s is a %s tale of %s, where nothing is quite what it seems.",
		title, genre, tag)
}

// generateRatings produces the vote set itself rather than invented
// aggregates. The store derives the stats from these on insert.
func generateRatings(rng *rand.Rand) []model.Rating {
	n := rng.Intn(40)
	out := make([]model.Rating, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Rating{
			UserID: uuid.New().String(),
			Value:  model.RatingMin + rng.Intn(model.RatingMax-model.RatingMin+1),
		})
	}
	return out
}

func sample(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}
