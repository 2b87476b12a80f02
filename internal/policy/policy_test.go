package policy

import "testing"

func TestCheckRegionEnforcement(t *testing.T) {
	auth := NewAuthorizer()
	user := User{ID: "ops", Role: RoleRegional, AllowedRegions: []string{"us-east-1"}}

	if err := auth.CheckRegion(user, "us-east-1"); err != nil {
		t.Fatalf("expected region allowed, got error: %v", err)
	}
	if err := auth.CheckRegion(user, "eu-west-1"); err == nil {
		t.Fatalf("expected region denied")
	}
	if err := auth.CheckRegion(user, ""); err == nil {
		t.Fatalf("expected region required error")
	}
}

func TestCheckRegionAccountRole(t *testing.T) {
	auth := NewAuthorizer()
	user := User{ID: "admin", Role: RoleAccount}

	if err := auth.CheckRegion(user, ""); err != nil {
		t.Fatalf("expected empty region allowed, got %v", err)
	}
	if err := auth.CheckRegion(user, "any-region"); err != nil {
		t.Fatalf("expected any region allowed, got %v", err)
	}
}

func TestFilterRegions(t *testing.T) {
	auth := NewAuthorizer()
	user := User{ID: "ops", Role: RoleRegional, AllowedRegions: []string{"us-east-1", "us-west-2"}}
	filtered := auth.FilterRegions(user, []string{"us-east-1", "eu-west-1", "us-west-2"})
	if len(filtered) != 2 {
		t.Fatalf("unexpected filtered regions: %#v", filtered)
	}

	account := User{ID: "admin", Role: RoleAccount}
	all := auth.FilterRegions(account, []string{"us-east-1", "eu-west-1"})
	if len(all) != 2 {
		t.Fatalf("account role should see all regions: %#v", all)
	}
}

func TestAuthenticateLocal(t *testing.T) {
	auth := NewAuthorizer()
	user, err := auth.Authenticate("")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Role != RoleAccount || user.ID != "local" {
		t.Fatalf("unexpected user: %#v", user)
	}
}
