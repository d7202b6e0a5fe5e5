package memory

import (
	"context"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
)

// IncidentRepository は安全インシデントログへのアクセスを提供します。
// ログは追記専用で、挿入順が保存されます。
type IncidentRepository struct {
	store *Store
}

// NewIncidentRepository は IncidentRepository を生成します。
func NewIncidentRepository(store *Store) *IncidentRepository {
	return &IncidentRepository{store: store}
}

// Create はインシデントを追記します。
func (r *IncidentRepository) Create(_ context.Context, in *incident.Incident) (*incident.Incident, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := cloneIncident(in)
	r.store.incidents = append(r.store.incidents, clone)
	return cloneIncident(clone), nil
}

// ListByEmployee は従業員のインシデント一覧を挿入順で返します。
func (r *IncidentRepository) ListByEmployee(_ context.Context, employeeID string) ([]*incident.Incident, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*incident.Incident, 0)
	for _, in := range r.store.incidents {
		if in.EmployeeID == employeeID {
			result = append(result, cloneIncident(in))
		}
	}
	return result, nil
}

func cloneIncident(in *incident.Incident) *incident.Incident {
	clone := *in
	return &clone
}
