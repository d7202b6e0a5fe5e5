package memory

import (
	"context"
	"sort"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

// TrainingRepository はトレーニングモジュールへのアクセスを提供します。
type TrainingRepository struct {
	store *Store
}

// NewTrainingRepository は TrainingRepository を生成します。
func NewTrainingRepository(store *Store) *TrainingRepository {
	return &TrainingRepository{store: store}
}

// Create はモジュールを保存します。
func (r *TrainingRepository) Create(_ context.Context, m *training.Module) (*training.Module, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := cloneModule(m)
	r.store.trainings[clone.ID] = clone
	return cloneModule(clone), nil
}

// Update はモジュールを置き換えます。
func (r *TrainingRepository) Update(_ context.Context, m *training.Module) (*training.Module, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.trainings[m.ID]; !ok {
		return nil, training.ErrModuleNotFound
	}

	clone := cloneModule(m)
	r.store.trainings[clone.ID] = clone
	return cloneModule(clone), nil
}

// FindByID はモジュールを取得します。
func (r *TrainingRepository) FindByID(_ context.Context, id string) (*training.Module, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.trainings[id]
	if !ok {
		return nil, training.ErrModuleNotFound
	}
	return cloneModule(m), nil
}

// ListByEmployee は従業員のモジュール一覧を期日順で返します。
func (r *TrainingRepository) ListByEmployee(_ context.Context, employeeID string) ([]*training.Module, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*training.Module, 0)
	for _, m := range r.store.trainings {
		if m.EmployeeID == employeeID {
			result = append(result, cloneModule(m))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].Name < result[j].Name
		}
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func cloneModule(m *training.Module) *training.Module {
	clone := *m
	if m.CompletionDate != nil {
		d := *m.CompletionDate
		clone.CompletionDate = &d
	}
	if m.Score != nil {
		s := *m.Score
		clone.Score = &s
	}
	return &clone
}
