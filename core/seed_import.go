package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const maxSeedFileSize = 4 * 1024 * 1024

// SeedDocument is the YAML layout consumed by cmd/seed:
//
//	users:
//	  - username: alice
//	    password: secret
//	    role: USER        # optional, defaults to USER
//	posts:
//	  - title: "..."
//	    author: alice     # must be listed under users
//	    content: "..."
//	    comments:
//	      - author: bob
//	        content: "..."
type SeedDocument struct {
	Users []SeedUser `yaml:"users"`
	Posts []SeedPost `yaml:"posts"`
}

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type SeedPost struct {
	Title    string        `yaml:"title"`
	Author   string        `yaml:"author"`
	Content  string        `yaml:"content"`
	Comments []SeedComment `yaml:"comments"`
}

type SeedComment struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// ParseSeedFile parses and validates a YAML seed document.
func ParseSeedFile(data []byte) (SeedDocument, error) {
	if len(data) == 0 {
		return SeedDocument{}, errors.New("シードファイルが空です")
	}
	if len(data) > maxSeedFileSize {
		return SeedDocument{}, errors.New("シードファイルが大きすぎます")
	}

	var doc SeedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return SeedDocument{}, fmt.Errorf("YAML の解析に失敗しました: %w", err)
	}

	known := map[string]struct{}{}
	for i, u := range doc.Users {
		username := strings.TrimSpace(u.Username)
		if username == "" || u.Password == "" {
			return SeedDocument{}, fmt.Errorf("users[%d]: username, password は必須です", i)
		}
		if _, dup := known[username]; dup {
			return SeedDocument{}, fmt.Errorf("users[%d]: username %q が重複しています", i, username)
		}
		known[username] = struct{}{}
		switch Role(u.Role) {
		case RoleUser, RoleAdmin, "":
		default:
			return SeedDocument{}, fmt.Errorf("users[%d]: role %q は USER か ADMIN のみ対応しています", i, u.Role)
		}
		doc.Users[i].Username = username
	}

	for i, p := range doc.Posts {
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
			return SeedDocument{}, fmt.Errorf("posts[%d]: title, content は必須です", i)
		}
		if _, ok := known[p.Author]; !ok {
			return SeedDocument{}, fmt.Errorf("posts[%d]: author %q が users にありません", i, p.Author)
		}
		for j, cm := range p.Comments {
			if strings.TrimSpace(cm.Content) == "" {
				return SeedDocument{}, fmt.Errorf("posts[%d].comments[%d]: content は必須です", i, j)
			}
			if _, ok := known[cm.Author]; !ok {
				return SeedDocument{}, fmt.Errorf("posts[%d].comments[%d]: author %q が users にありません", i, j, cm.Author)
			}
		}
	}

	return doc, nil
}

// ApplySeed inserts the document's users, posts, and comments. Users that
// already exist are skipped so the seeder can be re-run.
func ApplySeed(ctx context.Context, doc SeedDocument, users UserRepository, posts PostRepository, comments CommentRepository) error {
	for _, u := range doc.Users {
		exists, err := users.ExistsByUsername(ctx, u.Username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		role := u.Role
		if role == "" {
			role = string(RoleUser)
		}
		hash, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		if _, err := users.Create(ctx, u.Username, hash, role); err != nil {
			return err
		}
	}

	for _, p := range doc.Posts {
		created, err := posts.Create(ctx, p.Title, p.Author, p.Content)
		if err != nil {
			return err
		}
		for _, cm := range p.Comments {
			if _, err := comments.Create(ctx, created.ID, cm.Author, cm.Content); err != nil {
				return err
			}
		}
	}

	return nil
}
