package org

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
)

type fakeOrgRepo struct {
	departments map[string]*Department
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{departments: make(map[string]*Department)}
}

func (r *fakeOrgRepo) key(name string) string {
	return strings.ToLower(name)
}

func (r *fakeOrgRepo) CreateDepartment(_ context.Context, d *Department) (*Department, error) {
	clone := CloneDepartment(d)
	r.departments[r.key(clone.Name)] = clone
	return CloneDepartment(clone), nil
}

func (r *fakeOrgRepo) SaveDepartment(_ context.Context, currentName string, d *Department) (*Department, error) {
	if _, ok := r.departments[r.key(currentName)]; !ok {
		return nil, ErrDepartmentNotFound
	}
	delete(r.departments, r.key(currentName))
	clone := CloneDepartment(d)
	r.departments[r.key(clone.Name)] = clone
	return CloneDepartment(clone), nil
}

func (r *fakeOrgRepo) DeleteDepartment(_ context.Context, name string) error {
	if _, ok := r.departments[r.key(name)]; !ok {
		return ErrDepartmentNotFound
	}
	delete(r.departments, r.key(name))
	return nil
}

func (r *fakeOrgRepo) FindDepartment(_ context.Context, name string) (*Department, error) {
	d, ok := r.departments[r.key(name)]
	if !ok {
		return nil, ErrDepartmentNotFound
	}
	return CloneDepartment(d), nil
}

func (r *fakeOrgRepo) ListDepartments(_ context.Context) ([]*Department, error) {
	result := make([]*Department, 0, len(r.departments))
	for _, d := range r.departments {
		result = append(result, CloneDepartment(d))
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

type assignment struct {
	department string
	position   string
}

type fakeDirectory struct {
	assignments map[string]assignment
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{assignments: make(map[string]assignment)}
}

func (f *fakeDirectory) CountByDepartment(_ context.Context, department string) (int, error) {
	count := 0
	for _, a := range f.assignments {
		if a.department == department {
			count++
		}
	}
	return count, nil
}

func (f *fakeDirectory) CountByDepartmentAndPosition(_ context.Context, department, position string) (int, error) {
	count := 0
	for _, a := range f.assignments {
		if a.department == department && a.position == position {
			count++
		}
	}
	return count, nil
}

func (f *fakeDirectory) RenameDepartment(_ context.Context, oldName, newName string) error {
	for id, a := range f.assignments {
		if a.department == oldName {
			a.department = newName
			f.assignments[id] = a
		}
	}
	return nil
}

func (f *fakeDirectory) RenamePosition(_ context.Context, department, oldName, newName string) error {
	for id, a := range f.assignments {
		if a.department == department && a.position == oldName {
			a.position = newName
			f.assignments[id] = a
		}
	}
	return nil
}

func seedProduction(t *testing.T, repo *fakeOrgRepo) {
	t.Helper()
	repo.departments["production"] = &Department{
		Name: "Production",
		Positions: []*Position{
			{ID: "prod-asm", Name: "Assembly Line Worker", RiskLevel: RiskMedium},
			{
				ID:        "prod-sup",
				Name:      "Production Supervisor",
				RiskLevel: RiskMedium,
				SubPositions: []*Position{
					{ID: "prod-weld", Name: "Welder", RiskLevel: RiskHigh},
				},
			},
		},
	}
}

func TestService_AddDepartment_DuplicateCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	svc := NewService(repo, nil, nil)

	if _, err := svc.AddDepartment(context.Background(), " Production "); err != nil {
		t.Fatalf("AddDepartment returned error: %v", err)
	}

	_, err := svc.AddDepartment(context.Background(), "production")
	if !errors.Is(err, ErrDepartmentAlreadyExists) {
		t.Fatalf("expected ErrDepartmentAlreadyExists, got %v", err)
	}

	if _, err := svc.AddDepartment(context.Background(), "   "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestService_EditDepartment_CascadesEmployeeRename(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	dir := newFakeDirectory()
	dir.assignments["e1"] = assignment{department: "Production", position: "Welder"}
	dir.assignments["e2"] = assignment{department: "Safety", position: "EHS Manager"}
	svc := NewService(repo, dir, nil)

	updated, err := svc.EditDepartment(context.Background(), "Production", "Manufacturing")
	if err != nil {
		t.Fatalf("EditDepartment returned error: %v", err)
	}
	if updated.Name != "Manufacturing" {
		t.Fatalf("expected renamed department, got %s", updated.Name)
	}

	if dir.assignments["e1"].department != "Manufacturing" {
		t.Fatalf("expected cascade to employee department, got %s", dir.assignments["e1"].department)
	}
	if dir.assignments["e2"].department != "Safety" {
		t.Fatalf("unrelated employee must not change, got %s", dir.assignments["e2"].department)
	}

	if _, err := repo.FindDepartment(context.Background(), "Production"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("old department name should be gone, got %v", err)
	}
}

func TestService_RemoveDepartment_InUse(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	dir := newFakeDirectory()
	dir.assignments["e1"] = assignment{department: "Production", position: "Welder"}
	svc := NewService(repo, dir, nil)

	if err := svc.RemoveDepartment(context.Background(), "Production"); !errors.Is(err, ErrDepartmentInUse) {
		t.Fatalf("expected ErrDepartmentInUse, got %v", err)
	}
	if _, err := repo.FindDepartment(context.Background(), "Production"); err != nil {
		t.Fatalf("guarded delete must leave department intact: %v", err)
	}

	delete(dir.assignments, "e1")
	if err := svc.RemoveDepartment(context.Background(), "Production"); err != nil {
		t.Fatalf("RemoveDepartment returned error: %v", err)
	}
}

func TestService_AddPosition_AtRootAndUnderParent(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	svc := NewService(repo, nil, nil)

	saved, err := svc.AddPosition(context.Background(), AddPositionInput{
		DepartmentName: "Production",
		Data:           PositionData{Name: "Paint Shop Operator", RiskLevel: RiskHigh},
	})
	if err != nil {
		t.Fatalf("AddPosition returned error: %v", err)
	}

	names := make([]string, 0, len(saved.Positions))
	for _, p := range saved.Positions {
		names = append(names, p.Name)
	}
	want := []string{"Assembly Line Worker", "Paint Shop Operator", "Production Supervisor"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("expected sorted siblings %v, got %v", want, names)
		}
	}

	saved, err = svc.AddPosition(context.Background(), AddPositionInput{
		DepartmentName: "Production",
		ParentID:       "prod-sup",
		Data:           PositionData{Name: "Apprentice Welder"},
	})
	if err != nil {
		t.Fatalf("AddPosition under parent returned error: %v", err)
	}

	parent, _, _ := findPosition(saved, "prod-sup")
	if parent == nil || len(parent.SubPositions) != 2 {
		t.Fatalf("expected two children under supervisor, got %+v", parent)
	}
	if parent.SubPositions[0].Name != "Apprentice Welder" {
		t.Fatalf("expected children sorted by name, got %s first", parent.SubPositions[0].Name)
	}

	_, err = svc.AddPosition(context.Background(), AddPositionInput{
		DepartmentName: "Production",
		ParentID:       "missing",
		Data:           PositionData{Name: "Inspector"},
	})
	if !errors.Is(err, ErrParentPositionNotFound) {
		t.Fatalf("expected ErrParentPositionNotFound, got %v", err)
	}
}

func TestService_AddPosition_DuplicateSiblingName(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	svc := NewService(repo, nil, nil)

	_, err := svc.AddPosition(context.Background(), AddPositionInput{
		DepartmentName: "Production",
		Data:           PositionData{Name: " assembly line worker "},
	})
	if !errors.Is(err, ErrPositionNameAlreadyExists) {
		t.Fatalf("expected ErrPositionNameAlreadyExists, got %v", err)
	}

	// 同名でも別の階層なら許される
	if _, err := svc.AddPosition(context.Background(), AddPositionInput{
		DepartmentName: "Production",
		ParentID:       "prod-sup",
		Data:           PositionData{Name: "Assembly Line Worker"},
	}); err != nil {
		t.Fatalf("same name at different level should be allowed, got %v", err)
	}
}

func TestService_EditPosition_RenameCascadesByOldName(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	dir := newFakeDirectory()
	dir.assignments["e1"] = assignment{department: "Production", position: "Welder"}
	dir.assignments["e2"] = assignment{department: "Production", position: "Assembly Line Worker"}
	svc := NewService(repo, dir, nil)

	newName := "Certified Welder"
	saved, err := svc.EditPosition(context.Background(), EditPositionInput{
		DepartmentName: "Production",
		PositionID:     "prod-weld",
		Name:           &newName,
	})
	if err != nil {
		t.Fatalf("EditPosition returned error: %v", err)
	}

	renamed, _, _ := findPosition(saved, "prod-weld")
	if renamed == nil || renamed.Name != "Certified Welder" {
		t.Fatalf("expected renamed node, got %+v", renamed)
	}

	if dir.assignments["e1"].position != "Certified Welder" {
		t.Fatalf("expected cascade by old name, got %s", dir.assignments["e1"].position)
	}
	if dir.assignments["e2"].position != "Assembly Line Worker" {
		t.Fatalf("other positions must not change, got %s", dir.assignments["e2"].position)
	}
}

func TestService_EditPosition_RenameCollision(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	svc := NewService(repo, nil, nil)

	colliding := "production supervisor"
	_, err := svc.EditPosition(context.Background(), EditPositionInput{
		DepartmentName: "Production",
		PositionID:     "prod-asm",
		Name:           &colliding,
	})
	if !errors.Is(err, ErrPositionNameAlreadyExists) {
		t.Fatalf("expected ErrPositionNameAlreadyExists, got %v", err)
	}
}

func TestService_EditPosition_PartialMerge(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	svc := NewService(repo, nil, nil)

	years := 1.5
	level := RiskHigh
	risks := []RiskAndMeasure{{Risk: "UV radiation exposure", Measure: "Welding helmets"}}

	saved, err := svc.EditPosition(context.Background(), EditPositionInput{
		DepartmentName:   "Production",
		PositionID:       "prod-weld",
		MedicalExamYears: &years,
		RiskLevel:        &level,
		RisksAndMeasures: &risks,
	})
	if err != nil {
		t.Fatalf("EditPosition returned error: %v", err)
	}

	node, _, _ := findPosition(saved, "prod-weld")
	if node.Name != "Welder" {
		t.Fatalf("name must be untouched, got %s", node.Name)
	}
	if node.MedicalExamYears != 1.5 || node.RiskLevel != RiskHigh {
		t.Fatalf("unexpected merged fields: %+v", node)
	}
	if len(node.RisksAndMeasures) != 1 || node.RisksAndMeasures[0].ID == "" {
		t.Fatalf("expected risk entry with generated id, got %+v", node.RisksAndMeasures)
	}
}

func TestService_RemovePosition_Guards(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	dir := newFakeDirectory()
	dir.assignments["e1"] = assignment{department: "Production", position: "Welder"}
	svc := NewService(repo, dir, nil)

	if _, err := svc.RemovePosition(context.Background(), "Production", "prod-weld"); !errors.Is(err, ErrPositionHasEmployees) {
		t.Fatalf("expected ErrPositionHasEmployees, got %v", err)
	}

	if _, err := svc.RemovePosition(context.Background(), "Production", "prod-sup"); !errors.Is(err, ErrPositionHasChildren) {
		t.Fatalf("expected ErrPositionHasChildren, got %v", err)
	}

	// ガードに失敗してもツリーは変わらない
	department, err := repo.FindDepartment(context.Background(), "Production")
	if err != nil {
		t.Fatalf("FindDepartment returned error: %v", err)
	}
	if node, _, _ := findPosition(department, "prod-weld"); node == nil {
		t.Fatalf("guarded removal must leave tree unchanged")
	}

	delete(dir.assignments, "e1")
	saved, err := svc.RemovePosition(context.Background(), "Production", "prod-weld")
	if err != nil {
		t.Fatalf("RemovePosition returned error: %v", err)
	}
	if node, _, _ := findPosition(saved, "prod-weld"); node != nil {
		t.Fatalf("expected node spliced out")
	}

	flat, err := svc.FlattenPositions(context.Background(), "Production")
	if err != nil {
		t.Fatalf("FlattenPositions returned error: %v", err)
	}
	for _, p := range flat {
		if p.ID == "prod-weld" {
			t.Fatalf("removed position still present in flattened view")
		}
	}
}

func TestService_FlattenPositions_PreOrderWithLevels(t *testing.T) {
	t.Parallel()

	repo := newFakeOrgRepo()
	seedProduction(t, repo)
	svc := NewService(repo, nil, nil)

	flat, err := svc.FlattenPositions(context.Background(), "Production")
	if err != nil {
		t.Fatalf("FlattenPositions returned error: %v", err)
	}

	want := []FlatPosition{
		{ID: "prod-asm", Name: "Assembly Line Worker", Level: 0},
		{ID: "prod-sup", Name: "Production Supervisor", Level: 0},
		{ID: "prod-weld", Name: "Welder", Level: 1},
	}
	if len(flat) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(flat))
	}
	for i, w := range want {
		if flat[i] != w {
			t.Fatalf("entry %d: expected %+v, got %+v", i, w, flat[i])
		}
	}
}
