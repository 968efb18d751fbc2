package main

import (
	"context"
	"flag"
	"log"
	"os"

	"blog-api/core"
)

func main() {
	path := flag.String("file", "seed.yaml", "path to YAML seed file")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}

	doc, err := core.ParseSeedFile(data)
	if err != nil {
		log.Fatalf("invalid seed file: %v", err)
	}

	cfg := core.Load()
	ctx := context.Background()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	users := core.NewPgUserRepository(db)
	posts := core.NewPgPostRepository(db)
	comments := core.NewPgCommentRepository(db)

	if err := core.ApplySeed(ctx, doc, users, posts, comments); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Printf("seeded %d users, %d posts from %s", len(doc.Users), len(doc.Posts), *path)
}
