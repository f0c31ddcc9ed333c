// Package memstore là record store in-memory dùng cho STORE_DRIVER=memory và test.
// Mọi write được serialize bằng một mutex; transaction giữ mutex tới khi kết thúc
// và rollback bằng snapshot nếu fn trả về error.
package memstore

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type snapshotter interface {
	snapshot() (restore func())
}

type Store struct {
	mu     sync.RWMutex
	tables []snapshotter
	seq    atomic.Int64
}

func New() *Store {
	return &Store{}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// WithinTx implements database.TxManager
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restores := make([]func(), 0, len(s.tables))
	for _, t := range s.tables {
		restores = append(restores, t.snapshot())
	}

	err := fn(context.WithValue(ctx, txKey{}, s))
	if err != nil {
		for _, restore := range restores {
			restore()
		}
	}
	return err
}

// NextSeq cấp sequence tăng dần, giống BIGSERIAL (không rollback)
func (s *Store) NextSeq() int64 {
	return s.seq.Add(1)
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) read(ctx context.Context, fn func()) {
	if s.inTx(ctx) {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func()) {
	if s.inTx(ctx) {
		fn()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Table là một collection keyed theo UUID
// Giá trị được lưu theo value, caller nhận về bản copy
type Table[T any] struct {
	store *Store
	rows  map[uuid.UUID]T
}

func NewTable[T any](s *Store) *Table[T] {
	t := &Table[T]{store: s, rows: make(map[uuid.UUID]T)}
	s.mu.Lock()
	s.tables = append(s.tables, t)
	s.mu.Unlock()
	return t
}

func (t *Table[T]) snapshot() func() {
	saved := maps.Clone(t.rows)
	return func() { t.rows = saved }
}

func (t *Table[T]) Get(ctx context.Context, id uuid.UUID) (T, bool) {
	var (
		v  T
		ok bool
	)
	t.store.read(ctx, func() { v, ok = t.rows[id] })
	return v, ok
}

func (t *Table[T]) Put(ctx context.Context, id uuid.UUID, v T) {
	t.store.write(ctx, func() { t.rows[id] = v })
}

func (t *Table[T]) Delete(ctx context.Context, id uuid.UUID) bool {
	var ok bool
	t.store.write(ctx, func() {
		_, ok = t.rows[id]
		delete(t.rows, id)
	})
	return ok
}

// List trả về toàn bộ rows, thứ tự không xác định
func (t *Table[T]) List(ctx context.Context) []T {
	var out []T
	t.store.read(ctx, func() {
		out = make([]T, 0, len(t.rows))
		for _, v := range t.rows {
			out = append(out, v)
		}
	})
	return out
}

// Mutate chạy fn với quyền ghi trên toàn bộ rows (dùng cho bulk update/delete)
func (t *Table[T]) Mutate(ctx context.Context, fn func(rows map[uuid.UUID]T)) {
	t.store.write(ctx, func() { fn(t.rows) })
}
