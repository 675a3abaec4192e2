package tenancy

import (
	"context"
	"testing"
)

func TestOrgIDRoundTrip(t *testing.T) {
	ctx := WithOrgID(context.Background(), "org-123")
	got, ok := OrgIDFromContext(ctx)
	if !ok || got != "org-123" {
		t.Fatalf("OrgIDFromContext = %q, %v; want org-123, true", got, ok)
	}
}

func TestOrgIDMissing(t *testing.T) {
	if _, ok := OrgIDFromContext(context.Background()); ok {
		t.Fatal("expected ok=false for empty context")
	}
}

func TestOrgIDEmptyValue(t *testing.T) {
	ctx := WithOrgID(context.Background(), "")
	if _, ok := OrgIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for empty org id")
	}
}

func TestRoleRoundTrip(t *testing.T) {
	ctx := WithRole(context.Background(), "staff")
	got, ok := RoleFromContext(ctx)
	if !ok || got != "staff" {
		t.Fatalf("RoleFromContext = %q, %v; want staff, true", got, ok)
	}
}

func TestRoleMissing(t *testing.T) {
	if _, ok := RoleFromContext(context.Background()); ok {
		t.Fatal("expected ok=false for empty context")
	}
}
