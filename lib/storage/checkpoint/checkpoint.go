// Package checkpoint persists session cursors to a YAML file so iteration can resume after a restart.
package checkpoint

import (
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/artie-labs/dataset/lib/dsindex"
)

type Store struct {
	filePath string
	mu       sync.Mutex
	data     map[string]dsindex.SessionState
}

func NewStore(filePath string) (*Store, error) {
	data, err := loadFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoints from %q: %w", filePath, err)
	}

	if data == nil {
		data = make(map[string]dsindex.SessionState)
	}

	return &Store{
		filePath: filePath,
		data:     data,
	}, nil
}

// Save records the state under name and rewrites the file.
func (s *Store) Save(name string, state dsindex.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[name] = state
	return s.flush()
}

func (s *Store) Get(name string) (dsindex.SessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, isOk := s.data[name]
	return state, isOk
}

func (s *Store) flush() error {
	yamlBytes, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err = file.Write(yamlBytes); err != nil {
		file.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return file.Close()
}

func loadFromFile(filePath string) (map[string]dsindex.SessionState, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	defer file.Close()
	readBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var data map[string]dsindex.SessionState
	if err = yaml.Unmarshal(readBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return data, nil
}

// Resume restores the saved state of name onto session, if there is one.
func Resume[T comparable](store *Store, name string, session *dsindex.Session[T]) (bool, error) {
	state, isOk := store.Get(name)
	if !isOk {
		return false, nil
	}

	if err := session.Restore(state); err != nil {
		return false, fmt.Errorf("failed to restore checkpoint %q: %w", name, err)
	}
	return true, nil
}
