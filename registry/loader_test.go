package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeDefinitions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write definitions: %v", err)
	}
	return path
}

func TestLoaderSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	path := writeDefinitions(t, `{"services": {"login": {"external": "1.2.3.4:443"}}}`)

	applied, err := NewLoader(reg, path, nil).Started(ctx)
	if err != nil {
		t.Fatalf("Started: %v", err)
	}
	if !applied {
		t.Fatal("expected definitions applied to empty store")
	}
	if loc, _ := reg.GetService(ctx, "login", External); loc != "1.2.3.4:443" {
		t.Errorf("unexpected location %q", loc)
	}
}

func TestLoaderSkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	reg, store := newTestRegistry(t)
	seed(t, store, "game", map[string]string{Internal: "10.0.0.9"})
	path := writeDefinitions(t, `{"services": {"login": {"external": "1.2.3.4:443"}}}`)

	applied, err := NewLoader(reg, path, nil).Started(ctx)
	if err != nil || applied {
		t.Fatalf("expected skip, got applied=%v err=%v", applied, err)
	}
	if _, err := reg.GetService(ctx, "login", External); err == nil {
		t.Error("definitions must not be applied to a populated store")
	}
}

func TestLoaderWithoutFile(t *testing.T) {
	reg, _ := newTestRegistry(t)
	applied, err := NewLoader(reg, "", nil).Started(context.Background())
	if err != nil || applied {
		t.Fatalf("expected no-op, got applied=%v err=%v", applied, err)
	}
}

func TestLoaderMalformedFileAppliesNothing(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	path := writeDefinitions(t, `{"services": {"a": {"internal": "x"}, "b": "oops"}}`)

	if _, err := NewLoader(reg, path, nil).Started(ctx); err == nil {
		t.Fatal("expected error for malformed definitions")
	}
	if empty, _ := reg.IsEmpty(ctx); !empty {
		t.Error("no service may be applied from a malformed document")
	}
}
