package core

import (
	"context"
	"fmt"
	"strings"
)

// CommentService orchestrates identity resolution and the comment policy
// around the comment and post repositories. Authorization on a comment also
// consults its parent post: the post owner may moderate comments on their
// own post.
type CommentService struct {
	resolver *IdentityResolver
	comments CommentRepository
	posts    PostRepository
}

func NewCommentService(resolver *IdentityResolver, comments CommentRepository, posts PostRepository) *CommentService {
	return &CommentService{resolver: resolver, comments: comments, posts: posts}
}

// ListByPost returns the comments of a post. Public.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.comments.ListByPost(ctx, postID)
}

// Create attaches a new comment to the post, owned by the resolved identity.
func (s *CommentService) Create(ctx context.Context, rawHeader string, postID int64, content string) (*Comment, error) {
	identity, err := s.resolver.Resolve(rawHeader)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return nil, notFoundOr(err)
	}
	return s.comments.Create(ctx, postID, identity.Subject, content)
}

// Update modifies a comment after the comment policy check.
func (s *CommentService) Update(ctx context.Context, rawHeader string, id int64, content string) (*Comment, error) {
	identity, cm, parent, err := s.resolveTarget(ctx, rawHeader, id)
	if err != nil {
		return nil, err
	}
	if !CanActOnComment(identity, *cm, *parent) {
		return nil, ErrForbidden
	}
	return s.comments.Update(ctx, id, content)
}

// Delete removes a comment after the comment policy check.
func (s *CommentService) Delete(ctx context.Context, rawHeader string, id int64) error {
	identity, cm, parent, err := s.resolveTarget(ctx, rawHeader, id)
	if err != nil {
		return err
	}
	if !CanActOnComment(identity, *cm, *parent) {
		return ErrForbidden
	}
	return s.comments.Delete(ctx, id)
}

// HasPermission reports whether the caller may act on the comment, under
// the same rule Update and Delete enforce.
func (s *CommentService) HasPermission(ctx context.Context, rawHeader string, id int64) (bool, error) {
	identity, cm, parent, err := s.resolveTarget(ctx, rawHeader, id)
	if err != nil {
		return false, err
	}
	return CanActOnComment(identity, *cm, *parent), nil
}

// resolveTarget runs the shared front half of every protected comment
// operation: resolve identity, load the comment, then its parent post.
func (s *CommentService) resolveTarget(ctx context.Context, rawHeader string, id int64) (Identity, *Comment, *Post, error) {
	identity, err := s.resolver.Resolve(rawHeader)
	if err != nil {
		return Identity{}, nil, nil, err
	}
	cm, err := s.comments.Get(ctx, id)
	if err != nil {
		return Identity{}, nil, nil, notFoundOr(err)
	}
	parent, err := s.posts.Get(ctx, cm.PostID)
	if err != nil {
		return Identity{}, nil, nil, notFoundOr(err)
	}
	return identity, cm, parent, nil
}
