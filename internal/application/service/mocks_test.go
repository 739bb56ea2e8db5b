package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

// Mock record store. Every call is appended to calls as "op target".
type mockRecordStore struct {
	searchFunc func(ctx context.Context, report, criteria string, page int) (*port.SearchResult, error)
	createFunc func(ctx context.Context, form string, data interface{}) (*port.CreateResult, error)
	updateFunc func(ctx context.Context, report, id string, data interface{}) (*port.Result, error)
	uploadFunc func(ctx context.Context, report, id, field string, file port.File) (*port.Result, error)

	mu     sync.Mutex
	calls  []string
	nextID int
}

func (m *mockRecordStore) record(op, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op+" "+target)
}

func (m *mockRecordStore) newID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return fmt.Sprintf("%d", 1000+m.nextID)
}

func (m *mockRecordStore) Search(ctx context.Context, report, criteria string, page int) (*port.SearchResult, error) {
	m.record("search", report)
	if m.searchFunc != nil {
		return m.searchFunc(ctx, report, criteria, page)
	}
	return &port.SearchResult{Code: port.CodeNoRecords}, nil
}

func (m *mockRecordStore) Create(ctx context.Context, form string, data interface{}) (*port.CreateResult, error) {
	m.record("create", form)
	if m.createFunc != nil {
		return m.createFunc(ctx, form, data)
	}
	return m.succeed(data), nil
}

// succeed returns one success per record, as the store does for lists
func (m *mockRecordStore) succeed(data interface{}) *port.CreateResult {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return &port.CreateResult{Result: port.Result{Code: port.CodeSuccess, ID: m.newID()}}
	}
	out := &port.CreateResult{Result: port.Result{Code: port.CodeSuccess}}
	for i := 0; i < v.Len(); i++ {
		out.Results = append(out.Results, port.Result{Code: port.CodeSuccess, ID: m.newID()})
	}
	return out
}

func (m *mockRecordStore) Update(ctx context.Context, report, id string, data interface{}) (*port.Result, error) {
	m.record("update", report+"/"+id)
	if m.updateFunc != nil {
		return m.updateFunc(ctx, report, id, data)
	}
	return &port.Result{Code: port.CodeSuccess, ID: id}, nil
}

func (m *mockRecordStore) UploadFile(ctx context.Context, report, id, field string, file port.File) (*port.Result, error) {
	m.record("upload", report+"/"+id+"/"+field)
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, report, id, field, file)
	}
	return &port.Result{Code: port.CodeSuccess}, nil
}

func (m *mockRecordStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockRecordStore) count(op string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

// Mock save lock
type mockLock struct {
	tryLockFunc func(ctx context.Context, key string) (func(), error)
	released    int
}

func (m *mockLock) TryLock(ctx context.Context, key string) (func(), error) {
	if m.tryLockFunc != nil {
		return m.tryLockFunc(ctx, key)
	}
	return func() { m.released++ }, nil
}

// Mock blob store backed by a map
type mockBlobStore struct {
	blobs map[string][]byte
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (m *mockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", key)
	}
	return data, nil
}

func (m *mockBlobStore) Exists(ctx context.Context, key string) bool {
	_, ok := m.blobs[key]
	return ok
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	delete(m.blobs, key)
	return nil
}

// Mock logger
type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
