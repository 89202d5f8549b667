package services

import "testing"

func TestAuthorizeMatrix(t *testing.T) {
	anon := Identity{}
	member := Identity{UserID: "u1", Role: RoleMember}
	admin := Identity{UserID: "boss", Role: RoleAdmin}

	cases := []struct {
		name    string
		caller  Identity
		action  Action
		ownerID string
		want    ErrorCode // "" means allowed
	}{
		{"settings read anonymous", anon, ActionSettingsRead, "", ""},
		{"settings write anonymous", anon, ActionSettingsWrite, "", ErrorUnauthenticated},
		{"settings write member", member, ActionSettingsWrite, "", ""},
		{"catalog read anonymous", anon, ActionCatalogRead, "", ErrorUnauthenticated},
		{"catalog read member", member, ActionCatalogRead, "", ""},
		{"catalog write member", member, ActionCatalogWrite, "", ""},
		{"catalog delete member", member, ActionCatalogDelete, "", ErrorForbidden},
		{"catalog delete admin", admin, ActionCatalogDelete, "", ""},
		{"result create self", member, ActionResultCreate, "u1", ""},
		{"result create other", member, ActionResultCreate, "u2", ErrorForbidden},
		{"result read own", member, ActionResultRead, "u1", ""},
		{"result read other", member, ActionResultRead, "u2", ErrorNotFound},
		{"result read other as admin", admin, ActionResultRead, "u1", ErrorNotFound},
		{"result delete other", member, ActionResultDelete, "u2", ErrorNotFound},
		{"result delete own", member, ActionResultDelete, "u1", ""},
		{"result read anonymous", anon, ActionResultRead, "u1", ErrorUnauthenticated},
	}
	p := NewPolicy()
	for _, c := range cases {
		err := p.Authorize(c.caller, c.action, c.ownerID)
		if c.want == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", c.name, err)
			}
			continue
		}
		se, ok := AsServiceError(err)
		if !ok || se.Code != c.want {
			t.Fatalf("%s: error = %v, want %s", c.name, err, c.want)
		}
	}
}

// Ownership misses on results must be indistinguishable from missing records.
func TestAuthorizeResultMismatchDoesNotLeak(t *testing.T) {
	p := NewPolicy()
	member := Identity{UserID: "u1", Role: RoleMember}

	err := p.Authorize(member, ActionResultRead, "someone-else")
	se, ok := AsServiceError(err)
	if !ok {
		t.Fatalf("expected service error, got %v", err)
	}
	if se.Code != ErrorNotFound {
		t.Fatalf("code = %s, want not_found", se.Code)
	}
	if se.Message != "result not found" {
		t.Fatalf("message = %q, want the plain not-found text", se.Message)
	}
}
