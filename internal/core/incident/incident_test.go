package incident

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeIncidentRepo struct {
	incidents []*Incident
}

func (r *fakeIncidentRepo) Create(_ context.Context, i *Incident) (*Incident, error) {
	clone := *i
	r.incidents = append(r.incidents, &clone)
	result := clone
	return &result, nil
}

func (r *fakeIncidentRepo) ListByEmployee(_ context.Context, employeeID string) ([]*Incident, error) {
	var result []*Incident
	for _, i := range r.incidents {
		if i.EmployeeID == employeeID {
			clone := *i
			result = append(result, &clone)
		}
	}
	return result, nil
}

type stubEmployeeFinder struct {
	known map[string]bool
}

func (s *stubEmployeeFinder) EmployeeExists(_ context.Context, employeeID string) (bool, error) {
	return s.known[employeeID], nil
}

func TestService_ReportIncident_DefaultsToToday(t *testing.T) {
	t.Parallel()

	repo := &fakeIncidentRepo{}
	now := time.Date(2025, 5, 12, 14, 30, 0, 0, time.UTC)
	svc := NewService(repo, &stubEmployeeFinder{known: map[string]bool{"emp-1": true}}, &stubClock{now: now})

	created, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		EmployeeID:  "emp-1",
		Description: " Minor slip on wet floor, no injury. ",
		Type:        TypeNearMiss,
	})
	if err != nil {
		t.Fatalf("ReportIncident returned error: %v", err)
	}

	if !created.Date.Equal(time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected date defaulted to today, got %v", created.Date)
	}
	if created.Description != "Minor slip on wet floor, no injury." {
		t.Fatalf("expected trimmed description, got %q", created.Description)
	}
}

func TestService_ReportIncident_InvalidType(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeIncidentRepo{}, nil, nil)

	_, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		EmployeeID:  "emp-1",
		Description: "something happened",
		Type:        "Explosion",
	})
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestService_ReportIncident_UnknownEmployee(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeIncidentRepo{}, &stubEmployeeFinder{known: map[string]bool{}}, nil)

	_, err := svc.ReportIncident(context.Background(), ReportIncidentInput{
		EmployeeID:  "missing",
		Description: "cut on hand",
		Type:        TypeInjury,
	})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_ListForEmployee_FiltersByEmployee(t *testing.T) {
	t.Parallel()

	repo := &fakeIncidentRepo{}
	svc := NewService(repo, nil, &stubClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)})

	for _, in := range []ReportIncidentInput{
		{EmployeeID: "emp-1", Description: "near miss at press", Type: TypeNearMiss},
		{EmployeeID: "emp-2", Description: "paint batch disposed", Type: TypePropertyDamage},
		{EmployeeID: "emp-1", Description: "cut on hand", Type: TypeInjury},
	} {
		if _, err := svc.ReportIncident(context.Background(), in); err != nil {
			t.Fatalf("ReportIncident returned error: %v", err)
		}
	}

	listed, err := svc.ListForEmployee(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("ListForEmployee returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 incidents for emp-1, got %d", len(listed))
	}
}
