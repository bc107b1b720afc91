package correlation

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithIDAndFromContext(t *testing.T) {
	ctx := context.Background()
	if got := FromContext(ctx); got != "" {
		t.Fatalf("empty context should yield empty id, got %q", got)
	}

	ctx = WithID(ctx, "abc-123")
	if got := FromContext(ctx); got != "abc-123" {
		t.Fatalf("FromContext = %q", got)
	}
}

func TestNewID_IsUUID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewID() = %q not a UUID: %v", id, err)
	}
	if NewID() == id {
		t.Fatal("ids should be random")
	}
}

func TestScoping_NoLeakBetweenContexts(t *testing.T) {
	a := WithID(context.Background(), "a")
	b := WithID(context.Background(), "b")
	if FromContext(a) == FromContext(b) {
		t.Fatal("ids leaked across contexts")
	}
}
