package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
)

// PostService orchestrates identity resolution and the ownership policy
// around the post repository. Every mutating operation follows the same
// order: resolve identity, load target, authorize, then mutate. Reads are
// public and skip resolution entirely.
type PostService struct {
	resolver *IdentityResolver
	posts    PostRepository
	users    UserRepository
	stats    *StatsService
}

func NewPostService(resolver *IdentityResolver, posts PostRepository, users UserRepository, stats *StatsService) *PostService {
	return &PostService{resolver: resolver, posts: posts, users: users, stats: stats}
}

// List returns all posts, newest first. Public.
func (s *PostService) List(ctx context.Context) ([]Post, error) {
	return s.posts.List(ctx)
}

// Get returns one post by id and bumps its view counter. Public.
func (s *PostService) Get(ctx context.Context, id int64) (*Post, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if s.stats != nil {
		if err := s.stats.RecordPostView(ctx, id); err != nil {
			// View counting is best-effort; never fail the read.
			log.Printf("failed to record post view id=%d: %v", id, err)
		}
	}
	return p, nil
}

// Create makes a new post owned by the resolved identity.
func (s *PostService) Create(ctx context.Context, rawHeader, title, content string) (*Post, error) {
	identity, err := s.resolver.Resolve(rawHeader)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	return s.posts.Create(ctx, title, identity.Subject, content)
}

// Update modifies a post after the owner-or-admin check.
func (s *PostService) Update(ctx context.Context, rawHeader string, id int64, title, content string) (*Post, error) {
	identity, err := s.resolver.Resolve(rawHeader)
	if err != nil {
		return nil, err
	}
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !CanActOnPost(identity, *p) {
		return nil, ErrForbidden
	}
	return s.posts.Update(ctx, id, title, content)
}

// Delete removes a post after the owner-or-admin check.
func (s *PostService) Delete(ctx context.Context, rawHeader string, id int64) error {
	identity, err := s.resolver.Resolve(rawHeader)
	if err != nil {
		return err
	}
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	if !CanActOnPost(identity, *p) {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}

// HasPermission reports whether the caller may act on the post. The subject
// must still exist as an account; a token can outlive its user row.
func (s *PostService) HasPermission(ctx context.Context, rawHeader string, id int64) (bool, error) {
	identity, err := s.resolver.Resolve(rawHeader)
	if err != nil {
		return false, err
	}
	exists, err := s.users.ExistsByUsername(ctx, identity.Subject)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrInvalidCredential
	}
	if identity.IsAdmin() {
		return true, nil
	}
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return false, notFoundOr(err)
	}
	return identity.Subject == p.Author, nil
}

// notFoundOr maps a missing-row error onto ErrNotFound and passes through
// everything else.
func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return err
}
