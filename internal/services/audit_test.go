package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-wishlist-backend/internal/correlation"
)

func TestAuditor_EmitsActionMetadata(t *testing.T) {
	var buf bytes.Buffer
	a := NewAuditor(zerolog.New(&buf))

	ctx := correlation.WithID(context.Background(), "audit-cid-9")
	a.Record(ctx, "create", 42, true)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if ev["component"] != "audit" {
		t.Fatalf("component = %v", ev["component"])
	}
	if ev["action"] != "create" || ev["wish_id"] != float64(42) || ev["success"] != true {
		t.Fatalf("event fields: %s", buf.String())
	}
	if ev["correlation_id"] != "audit-cid-9" {
		t.Fatalf("correlation_id = %v", ev["correlation_id"])
	}
}

func TestAudit_MutationsNeverLogFieldValues(t *testing.T) {
	svc := newTestService(t)

	var buf bytes.Buffer
	svc.Audit = NewAuditor(zerolog.New(&buf))
	ctx := correlation.WithID(context.Background(), "cid-values")

	w, err := svc.Create(ctx, WishInput{
		Title: raw(`"secret birthday drone"`),
		Notes: raw(`"do not tell alice"`),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, w.ID, WishInput{Notes: raw(`"changed plan"`)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Delete(ctx, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, `"audit"`); got != 3 {
		t.Fatalf("expected 3 audit events, got %d:\n%s", got, out)
	}
	for _, leaked := range []string{"drone", "alice", "changed plan"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("audit stream leaked %q:\n%s", leaked, out)
		}
	}
	for _, action := range []string{`"action":"create"`, `"action":"update"`, `"action":"delete"`} {
		if !strings.Contains(out, action) {
			t.Fatalf("missing %s:\n%s", action, out)
		}
	}
}
