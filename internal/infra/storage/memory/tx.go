package memory

import (
	"context"
	"fmt"
)

type txKey struct{}

// TxManager менеджер транзакций in-memory хранилища.
// Транзакция держит txMu до конца и при ошибке восстанавливает снимок данных.
type TxManager struct {
	store *Store
}

// Do выполняет функцию в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, fn)
}

// DoSerializable выполняет функцию в транзакции.
// Транзакции хранилища и так выполняются последовательно.
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, fn)
}

// DoReadOnly выполняет функцию в транзакции только для чтения
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, fn)
}

func (m *TxManager) do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов присоединяется к внешней транзакции
	if inTx(ctx) {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	var snapshot *state
	m.store.read(func(d *state) { snapshot = d.clone() })

	rollback := func() {
		m.store.write(func(d *state) { *d = *snapshot })
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}

	if err := ctx.Err(); err != nil {
		rollback()
		return fmt.Errorf("memory: transaction aborted: %w", err)
	}

	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}
