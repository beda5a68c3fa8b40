package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/jobmatch/internal/models"
)

// ReadJobs reads a JSON array of jobs from path.
func ReadJobs(path string) ([]models.Job, error) {
	return readArray[models.Job](path)
}

// ReadHistory reads a JSON array of history entries from path.
func ReadHistory(path string) ([]Entry, error) {
	return readArray[Entry](path)
}

// ReadHistoryAllowMissing reads history and treats a missing file as empty.
func ReadHistoryAllowMissing(path string) ([]Entry, error) {
	entries, err := ReadHistory(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, err
	}
	return entries, nil
}

// WriteJobs writes jobs as pretty JSON.
func WriteJobs(path string, jobs []models.Job) error {
	if jobs == nil {
		jobs = []models.Job{}
	}
	return writeArray(path, jobs)
}

// WriteHistory writes history entries as pretty JSON.
func WriteHistory(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	return writeArray(path, entries)
}

func readArray[T any](path string) ([]T, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

func writeArray[T any](path string, items []T) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
