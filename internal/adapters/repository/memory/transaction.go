package memory

import "context"

// TransactionManager はユースケース単位の複合操作をストア全体で直列化
// します。個々のリポジトリ操作は Store の mu で不可分ですが、存在確認と
// 書き込みのように複数操作にまたがる不変条件はコールバック全体を 1 本の
// ロックで覆う必要があります。
type TransactionManager struct {
	store *Store
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

// WithinReadOnly は読み取り共有ロックの下でコールバックを実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	m.store.txMu.RLock()
	defer m.store.txMu.RUnlock()
	return fn(ctx)
}

// WithinReadWrite は排他ロックの下でコールバックを実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()
	return fn(ctx)
}
