package core

import "testing"

func TestCanActOnPost(t *testing.T) {
	post := Post{ID: 1, Author: "alice"}

	// Full admin × owner matrix.
	cases := []struct {
		name string
		id   Identity
		want bool
	}{
		{"owner non-admin", Identity{Subject: "alice", Roles: []Role{RoleUser}}, true},
		{"owner admin", Identity{Subject: "alice", Roles: []Role{RoleAdmin}}, true},
		{"non-owner admin", Identity{Subject: "bob", Roles: []Role{RoleAdmin}}, true},
		{"non-owner non-admin", Identity{Subject: "bob", Roles: []Role{RoleUser}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanActOnPost(tc.id, post); got != tc.want {
				t.Fatalf("CanActOnPost = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanActOnComment(t *testing.T) {
	parent := Post{ID: 1, Author: "alice"}
	comment := Comment{ID: 7, PostID: 1, Author: "bob"}

	cases := []struct {
		name string
		id   Identity
		want bool
	}{
		{"comment owner", Identity{Subject: "bob", Roles: []Role{RoleUser}}, true},
		{"post owner moderates", Identity{Subject: "alice", Roles: []Role{RoleUser}}, true},
		{"admin", Identity{Subject: "carol", Roles: []Role{RoleAdmin}}, true},
		{"stranger", Identity{Subject: "carol", Roles: []Role{RoleUser}}, false},
		{"stranger no roles", Identity{Subject: "carol"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanActOnComment(tc.id, comment, parent); got != tc.want {
				t.Fatalf("CanActOnComment = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsAdminDerivedFromRoles(t *testing.T) {
	if (Identity{Subject: "x", Roles: []Role{RoleUser}}).IsAdmin() {
		t.Fatal("USER-only identity reported as admin")
	}
	if !(Identity{Subject: "x", Roles: []Role{RoleUser, RoleAdmin}}).IsAdmin() {
		t.Fatal("identity holding ADMIN not reported as admin")
	}
}
