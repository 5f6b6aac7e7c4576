package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/awakening/pkg/story"
)

// MockStorage is an in-memory Storage for tests.
type MockStorage struct {
	mu       sync.RWMutex
	contents map[string]*story.Content
	listErr  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{contents: make(map[string]*story.Content)}
}

// AddContent registers content under a file name.
func (m *MockStorage) AddContent(filename string, c *story.Content) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[filename] = c
}

// SetListError makes ListContent fail with err.
func (m *MockStorage) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *MockStorage) ListContent(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}

	out := make(map[string]string, len(m.contents))
	for filename, c := range m.contents {
		out[c.Name] = filename
	}
	return out, nil
}

func (m *MockStorage) GetContent(ctx context.Context, filename string) (*story.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contents[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentNotFound, filename)
	}
	copied := *c
	copied.FileName = filename
	return &copied, nil
}
