package core

import (
	"context"
	"strings"
	"testing"
)

const validSeed = `
users:
  - username: alice
    password: secret
  - username: bob
    password: secret
    role: ADMIN
posts:
  - title: "First post"
    author: alice
    content: "hello"
    comments:
      - author: bob
        content: "welcome"
`

func TestParseSeedFile(t *testing.T) {
	doc, err := ParseSeedFile([]byte(validSeed))
	if err != nil {
		t.Fatalf("ParseSeedFile error: %v", err)
	}
	if len(doc.Users) != 2 || len(doc.Posts) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if len(doc.Posts[0].Comments) != 1 || doc.Posts[0].Comments[0].Author != "bob" {
		t.Fatalf("comments = %+v", doc.Posts[0].Comments)
	}
}

func TestParseSeedFileRejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"duplicate user", "users:\n  - username: a\n    password: p\n  - username: a\n    password: p\n"},
		{"bad role", "users:\n  - username: a\n    password: p\n    role: ROOT\n"},
		{"unknown post author", "users:\n  - username: a\n    password: p\nposts:\n  - title: t\n    author: ghost\n    content: c\n"},
		{"unknown comment author", "users:\n  - username: a\n    password: p\nposts:\n  - title: t\n    author: a\n    content: c\n    comments:\n      - author: ghost\n        content: hi\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSeedFile([]byte(tc.yaml)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestApplySeed(t *testing.T) {
	doc, err := ParseSeedFile([]byte(validSeed))
	if err != nil {
		t.Fatalf("ParseSeedFile error: %v", err)
	}

	ctx := context.Background()
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	comments := newFakeCommentRepo()

	if err := ApplySeed(ctx, doc, users, posts, comments); err != nil {
		t.Fatalf("ApplySeed error: %v", err)
	}

	u, err := users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("alice missing: %v", err)
	}
	if strings.Contains(u.PasswordHash, "secret") {
		t.Fatal("password stored unhashed")
	}

	all, _ := posts.List(ctx)
	if len(all) != 1 || all[0].Author != "alice" {
		t.Fatalf("posts = %+v", all)
	}
	cms, _ := comments.ListByPost(ctx, all[0].ID)
	if len(cms) != 1 || cms[0].Author != "bob" {
		t.Fatalf("comments = %+v", cms)
	}

	// Re-running must not duplicate users.
	if err := ApplySeed(ctx, doc, users, posts, comments); err != nil {
		t.Fatalf("second ApplySeed error: %v", err)
	}
	if len(users.users) != 2 {
		t.Fatalf("users duplicated on re-run: %d", len(users.users))
	}
}
