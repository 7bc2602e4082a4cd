package component

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// journal records lifecycle calls across several fake components.
type journal struct{ calls []string }

type fake struct {
	name     string
	j        *journal
	startErr error
	stopErr  error
	status   HealthStatus
}

func (f *fake) Name() string { return f.name }

func (f *fake) Start(context.Context) error {
	if f.j != nil {
		f.j.calls = append(f.j.calls, "start:"+f.name)
	}
	return f.startErr
}

func (f *fake) Stop(context.Context) error {
	if f.j != nil {
		f.j.calls = append(f.j.calls, "stop:"+f.name)
	}
	return f.stopErr
}

func (f *fake) Health(context.Context) Health {
	status := f.status
	if status == "" {
		status = StatusHealthy
	}
	return Health{Name: f.name, Status: status}
}

func register(t *testing.T, r *Registry, cs ...Component) {
	t.Helper()
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			t.Fatalf("register %s: %v", c.Name(), err)
		}
	}
}

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	r := NewRegistry(nil)
	register(t, r, &fake{name: "store"})

	err := r.Register(&fake{name: "store"})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if got := len(r.All()); got != 1 {
		t.Errorf("expected 1 component, got %d", got)
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry(nil)
	store := &fake{name: "store"}
	register(t, r, store)

	if r.Get("store") != Component(store) {
		t.Error("expected the registered component back")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for an unknown name")
	}
}

func TestLifecycleOrdering(t *testing.T) {
	j := &journal{}
	r := NewRegistry(nil)
	register(t, r, &fake{name: "store", j: j}, &fake{name: "cache", j: j}, &fake{name: "http", j: j})

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{"start:store", "start:cache", "start:http", "stop:http", "stop:cache", "stop:store"}
	if !reflect.DeepEqual(j.calls, want) {
		t.Errorf("expected %v, got %v", want, j.calls)
	}
}

func TestStartAllOnlyStartsNewcomers(t *testing.T) {
	j := &journal{}
	r := NewRegistry(nil)
	ctx := context.Background()

	register(t, r, &fake{name: "store", j: j})
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("first StartAll: %v", err)
	}
	register(t, r, &fake{name: "http", j: j})
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("second StartAll: %v", err)
	}
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("idle StartAll: %v", err)
	}

	if want := []string{"start:store", "start:http"}; !reflect.DeepEqual(j.calls, want) {
		t.Errorf("expected %v, got %v", want, j.calls)
	}
	if !r.Running("store") || !r.Running("http") {
		t.Error("expected both components running")
	}
}

func TestStartFailureLeavesEarlierComponentsForStop(t *testing.T) {
	j := &journal{}
	r := NewRegistry(nil)
	register(t, r,
		&fake{name: "store", j: j},
		&fake{name: "http", j: j, startErr: errors.New("bind: address in use")},
		&fake{name: "late", j: j},
	)
	ctx := context.Background()

	err := r.StartAll(ctx)
	if err == nil || !strings.Contains(err.Error(), "failed to start http") {
		t.Fatalf("expected start failure for http, got %v", err)
	}
	if r.Running("http") || r.Running("late") {
		t.Error("failed and unreached components must not count as running")
	}

	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	want := []string{"start:store", "start:http", "stop:store"}
	if !reflect.DeepEqual(j.calls, want) {
		t.Errorf("expected %v, got %v", want, j.calls)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := NewRegistry(nil)
	closeErr := errors.New("close: broken pipe")
	register(t, r, &fake{name: "store", stopErr: closeErr}, &fake{name: "http"})
	ctx := context.Background()
	_ = r.StartAll(ctx)

	err := r.StopAll(ctx)
	if !errors.Is(err, closeErr) {
		t.Fatalf("expected wrapped stop error, got %v", err)
	}
	if r.Running("store") {
		t.Error("a component whose Stop failed is still considered stopped")
	}
	if err := r.StopAll(ctx); err != nil {
		t.Errorf("second StopAll should be a no-op, got %v", err)
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry(nil)
	register(t, r, &fake{name: "store", status: StatusUnhealthy}, &fake{name: "http"})

	got := r.HealthAll(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(got))
	}
	if got[0].Name != "store" || got[0].OK() {
		t.Errorf("expected unhealthy store first, got %+v", got[0])
	}
	if !got[1].OK() {
		t.Errorf("expected healthy http, got %+v", got[1])
	}
}
