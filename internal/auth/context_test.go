// ABOUTME: Unit tests for principal context propagation
// ABOUTME: Verifies WithPrincipal, FromContext, and MustFromContext behavior

package auth

import (
	"context"
	"testing"
)

func TestPrincipalContext_RoundTrip(t *testing.T) {
	principal := &Principal{ID: "user-1", Email: "a@example.com"}
	ctx := WithPrincipal(context.Background(), principal)

	got := FromContext(ctx)
	if got == nil {
		t.Fatal("FromContext() = nil, want principal")
	}
	if got.ID != principal.ID || got.Email != principal.Email {
		t.Errorf("FromContext() = %+v, want %+v", got, principal)
	}
}

func TestFromContext_Empty(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() on empty context = %+v, want nil", got)
	}
}

func TestMustFromContext_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFromContext() on empty context should panic")
		}
	}()
	MustFromContext(context.Background())
}

func TestMustFromContext_Present(t *testing.T) {
	principal := &Principal{ID: "user-2"}
	ctx := WithPrincipal(context.Background(), principal)

	if got := MustFromContext(ctx); got.ID != "user-2" {
		t.Errorf("MustFromContext() = %+v, want %+v", got, principal)
	}
}
