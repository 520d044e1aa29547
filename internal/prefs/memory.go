package prefs

import "context"

// Memory is an in-process store used by tests and when the database cannot
// be opened.
type Memory struct {
	values map[string]any

	// GetErr, when set, is returned by every Get call.
	GetErr error
	// SetErr, when set, is returned by every Set call.
	SetErr error
	// Sets records every successful Set call in order.
	Sets []Entry
}

// Entry is a recorded Set call.
type Entry struct {
	Key   string
	Value any
}

// NewMemory creates a store seeded with values.
func NewMemory(values map[string]any) *Memory {
	m := &Memory{values: make(map[string]any, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (any, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return Default(key)
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	if err := checkType(key, value); err != nil {
		return err
	}
	m.values[key] = value
	m.Sets = append(m.Sets, Entry{Key: key, Value: value})
	return nil
}

var _ Interface = (*Memory)(nil)
