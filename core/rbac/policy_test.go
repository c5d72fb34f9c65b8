package rbac

import (
	"testing"

	"bgpanel/core/auth"
)

func TestRealmPolicy(t *testing.T) {
	p, err := NewPolicy()
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}

	cases := []struct {
		role  string
		realm string
		want  bool
	}{
		{auth.RoleAdmin, RealmAdmin, true},
		{auth.RoleAdmin, RealmCommon, true},
		{auth.RoleAdmin, RealmUser, false},
		{auth.RoleUser, RealmUser, true},
		{auth.RoleUser, RealmCommon, true},
		{auth.RoleUser, RealmAdmin, false},
		{"Ghost", RealmCommon, true},
		{"Ghost", RealmAdmin, false},
		{"Ghost", RealmUser, false},
	}
	for _, tc := range cases {
		if got := p.Allowed(tc.role, tc.realm); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.role, tc.realm, got, tc.want)
		}
	}
}

func TestHomeRealm(t *testing.T) {
	if HomeRealm(auth.RoleAdmin) != RealmAdmin {
		t.Fatalf("admins land in the admin realm")
	}
	if HomeRealm(auth.RoleUser) != RealmUser {
		t.Fatalf("users land in the user realm")
	}
	if HomeRealm("Ghost") != RealmUser {
		t.Fatalf("unknown roles default to the user realm")
	}
}

func TestIsRealm(t *testing.T) {
	for _, realm := range []string{RealmAdmin, RealmUser, RealmCommon} {
		if !IsRealm(realm) {
			t.Errorf("IsRealm(%q) = false", realm)
		}
	}
	for _, seg := range []string{"", "login", "404", "Admin"} {
		if IsRealm(seg) {
			t.Errorf("IsRealm(%q) = true", seg)
		}
	}
}
