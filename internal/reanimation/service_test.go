package reanimation

import (
	"context"
	"errors"
	"testing"
	"time"

	"callcenter-dashboard/internal/analytics"
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
)

func newStore() *MemoryStore {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.Projects = []projects.Project{{ID: "p1"}, {ID: "p2"}}
	s.Calls = []calls.Call{
		{ProjectID: "p1", PhoneNormalized: "79990000001", Status: "Занято", CallAt: at},
		{ProjectID: "p1", PhoneNormalized: "79990000002", Status: "answered", DurationSeconds: 3, CallAt: at},
		{ProjectID: "p1", PhoneNormalized: "79990000003", Status: "answered", DurationSeconds: 90, CallAt: at},
		{ProjectID: "p2", PhoneNormalized: "79990000004", Status: "answered", DurationSeconds: 90, IsLead: true, CallAt: at},
	}
	return s
}

func TestCreateExport_SkipsAlreadyExported(t *testing.T) {
	store := newStore()
	svc := NewService(store, Options{})
	ctx := context.Background()

	e, err := svc.CreateExport(ctx, "p1", "u1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.BusyCount != 1 || e.EarlyHangupCount != 1 || len(e.Phones) != 2 {
		t.Fatalf("unexpected export: %+v", e)
	}
	if e.Phones[0].Reason != analytics.ReasonBusy || e.CreatedBy != "u1" || e.ID == "" {
		t.Fatalf("unexpected export details: %+v", e)
	}

	if _, err := svc.CreateExport(ctx, "p1", "u1"); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}

	store.Calls = append(store.Calls, calls.Call{ProjectID: "p1", PhoneNormalized: "79990000005", Status: "busy", CallAt: time.Now()})
	next, err := svc.CreateExport(ctx, "p1", "u2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(next.Phones) != 1 || next.Phones[0].Phone != "79990000005" {
		t.Fatalf("expected only the new phone, got %+v", next.Phones)
	}
}

func TestCreateExport_Errors(t *testing.T) {
	svc := NewService(newStore(), Options{})
	ctx := context.Background()

	if _, err := svc.CreateExport(ctx, "", "u"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := svc.CreateExport(ctx, "missing", "u"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateExport(ctx, "p2", "u"); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestCreateExport_EarlyHangupThreshold(t *testing.T) {
	svc := NewService(newStore(), Options{EarlyHangupSeconds: 120})

	e, err := svc.CreateExport(context.Background(), "p1", "u")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.EarlyHangupCount != 2 {
		t.Fatalf("expected 2 early hang-ups, got %d", e.EarlyHangupCount)
	}
}

func TestListAndGetExports(t *testing.T) {
	store := newStore()
	svc := NewService(store, Options{})
	ctx := context.Background()

	e, err := svc.CreateExport(ctx, "p1", "u1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	list, err := svc.ListExports(ctx, "p1", 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 1 || list[0].ID != e.ID || list[0].Phones != nil {
		t.Fatalf("unexpected list: %+v", list)
	}

	got, err := svc.GetExport(ctx, "p1", e.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Phones) != 2 {
		t.Fatalf("expected phones on single export, got %d", len(got.Phones))
	}
	if _, err := svc.GetExport(ctx, "p2", e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across projects, got %v", err)
	}
}
