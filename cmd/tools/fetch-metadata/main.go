package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"findmyanime/internal/metadata"
	"findmyanime/pkg/models"
)

// Snapshots the Jikan top lists to a JSON file the frontend can serve as a
// fallback when the API is down. Goes through the rate-governed client, so
// it is safe to run back to back.
type snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	TopAnime    []models.Anime `json:"top_anime"`
	TopManga    []models.Manga `json:"top_manga"`
}

func main() {
	outPath := flag.String("out", "data/metadata.json", "output json path")
	n := flag.Int("n", 24, "entries per list")
	filter := flag.String("filter", "", "top anime filter (airing, bypopularity, ...)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall fetch timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := metadata.New()

	anime, err := client.TopAnime(ctx, *filter, *n)
	if err != nil {
		panic(err)
	}
	manga, err := client.TopManga(ctx, *n)
	if err != nil {
		panic(err)
	}

	snap := snapshot{GeneratedAt: time.Now().UTC(), TopAnime: anime, TopManga: manga}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0755); err != nil {
		panic(err)
	}
	j, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(*outPath, j, 0644); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d anime, %d manga -> %s\n", len(anime), len(manga), *outPath)
}
