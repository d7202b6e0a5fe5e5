// Package memory はインメモリのストレージバックエンドを提供します。
// すべてのコレクションを単一の Store が所有し、1 本の RWMutex で直列化
// するため、各リポジトリ操作は不可分に適用されます。読み出しは常に
// 深い複製を返し、呼び出し側の変更がストアへ漏れることはありません。
package memory

import (
	"sync"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

// Store は全コレクションを保持するインメモリストアです。
type Store struct {
	// txMu は TransactionManager がユースケース単位で取得するロックです。
	// mu はリポジトリ操作単位のロックで、コールバック内から再取得される
	// ため両者は分離しています。
	txMu sync.RWMutex
	mu   sync.RWMutex

	employees   map[string]*employee.Employee
	trainings   map[string]*training.Module
	incidents   []*incident.Incident
	equipment   map[string]*ppe.Equipment
	checkouts   map[string]*ppe.Checkout
	deliveries  []*ppe.InboundDelivery
	departments map[string]*org.Department
}

// NewStore は空の Store を生成します。
func NewStore() *Store {
	return &Store{
		employees:   make(map[string]*employee.Employee),
		trainings:   make(map[string]*training.Module),
		equipment:   make(map[string]*ppe.Equipment),
		checkouts:   make(map[string]*ppe.Checkout),
		departments: make(map[string]*org.Department),
	}
}
