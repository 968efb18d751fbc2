package core

// Authorization predicates. Pure functions of (identity, resource); they
// never touch storage and never mutate their inputs. ADMIN is a strict
// superset of USER for every protected operation.

// CanActOnPost reports whether id may modify or delete p.
func CanActOnPost(id Identity, p Post) bool {
	return id.IsAdmin() || id.Subject == p.Author
}

// CanActOnComment reports whether id may modify or delete c. The owner of
// the parent post may moderate comments on their own post, so the check
// covers admin, comment owner, and parent-post owner.
func CanActOnComment(id Identity, c Comment, parent Post) bool {
	return id.IsAdmin() || id.Subject == c.Author || id.Subject == parent.Author
}
