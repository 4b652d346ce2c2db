// Package manifest stores index items as JSON lines, one item per line, so large indices can be streamed.
package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/artie-labs/dataset/lib/dsindex"
)

const maxLineSize = 1024 * 1024

func Write[T any](filePath string, items []T) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writer := bufio.NewWriter(file)
	for _, item := range items {
		bytes, err := json.Marshal(item)
		if err != nil {
			file.Close()
			return fmt.Errorf("failed to marshal item: %w", err)
		}

		bytes = append(bytes, '\n')
		if _, err = writer.Write(bytes); err != nil {
			file.Close()
			return fmt.Errorf("failed to write to file: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush file: %w", err)
	}

	return file.Close()
}

// Load reads back a manifest. A missing file has no items.
func Load[T any](filePath string) ([]T, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	defer file.Close()

	var items []T
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var item T
		if err = json.Unmarshal(scanner.Bytes(), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal line %d: %w", lineNumber, err)
		}
		items = append(items, item)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return items, nil
}

// Source loads the manifest when the index is built.
func Source[T comparable](filePath string) dsindex.Source[T] {
	return dsindex.Deferred(func() ([]T, error) {
		return Load[T](filePath)
	})
}

// WriteIndex persists the items of an index.
func WriteIndex[T comparable](filePath string, index *dsindex.Index[T]) error {
	return Write(filePath, index.Items())
}
