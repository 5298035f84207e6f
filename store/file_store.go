package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/pharmaops/shiftcheck/models"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultDataFile   = "tasks.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// ErrTaskNotFound is returned when a task ID has no definition on file.
var ErrTaskNotFound = errors.New("task not found")

// taskFile is the on-disk shape of the checklist configuration.
type taskFile struct {
	Tasks []models.TaskDefinition `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// FileTaskStore implements TaskStore on a single data file. It supports
// JSON, YAML and TOML formats, guards concurrent processes with a file
// lock, and keeps a SHA-256 sidecar checksum to detect corruption.
type FileTaskStore struct {
	filePath string
	format   string
	tasks    map[string]models.TaskDefinition
	flk      *flock.Flock
}

// NewFileTaskStore creates an uninitialized store; call Initialize before use.
func NewFileTaskStore() *FileTaskStore {
	return &FileTaskStore{tasks: make(map[string]models.TaskDefinition)}
}

// Initialize configures the store. Recognized keys: dataFile (path) and
// dataFileFormat (json, yaml or toml). It loads existing tasks and takes
// the file lock for the duration of the load.
func (s *FileTaskStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		format := strings.ToLower(val)
		switch format {
		case formatJSON, formatYAML, formatTOML:
			s.format = format
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s (want json, yaml or toml)", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if dir := filepath.Dir(s.filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)
	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock for %s: %w", s.filePath, err)
	}
	if !locked {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("acquire blocking lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.tasks = make(map[string]models.TaskDefinition)
	return s.loadLocked()
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// loadLocked reads the data file, verifies the sidecar checksum when one
// exists, and unmarshals the task list. Caller holds the lock.
func (s *FileTaskStore) loadLocked() error {
	checksumPath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Fresh store: create an empty file and matching checksum.
			if f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644); createErr != nil {
				return fmt.Errorf("create data file %s: %w", s.filePath, createErr)
			} else {
				_ = f.Close()
			}
			_ = os.WriteFile(checksumPath, []byte(checksum(nil)), 0o644)
			return nil
		}
		return fmt.Errorf("read data file %s: %w", s.filePath, err)
	}

	if expected, readErr := os.ReadFile(checksumPath); readErr == nil {
		if got := checksum(data); got != strings.TrimSpace(string(expected)) {
			return fmt.Errorf("checksum mismatch for %s: file is corrupt or was edited outside the store", s.filePath)
		}
	}

	if len(data) == 0 {
		return nil
	}

	var file taskFile
	switch s.format {
	case formatJSON:
		err = json.Unmarshal(data, &file)
	case formatYAML:
		err = yaml.Unmarshal(data, &file)
	case formatTOML:
		err = toml.Unmarshal(data, &file)
	}
	if err != nil {
		return fmt.Errorf("unmarshal %s from %s: %w", s.format, s.filePath, err)
	}

	for _, task := range file.Tasks {
		s.tasks[task.ID] = task
	}
	return nil
}

// saveLocked marshals the task list, writes it to a temp file, then
// atomically renames data and checksum into place. Caller holds the lock.
func (s *FileTaskStore) saveLocked() error {
	file := taskFile{Tasks: make([]models.TaskDefinition, 0, len(s.tasks))}
	for _, task := range s.tasks {
		file.Tasks = append(file.Tasks, task)
	}

	var data []byte
	var err error
	switch s.format {
	case formatJSON:
		data, err = json.MarshalIndent(file, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(file)
	case formatTOML:
		buf := new(bytes.Buffer)
		err = toml.NewEncoder(buf).Encode(file)
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("marshal tasks to %s: %w", s.format, err)
	}

	tempPath := s.filePath + ".tmp"
	checksumPath := s.filePath + checksumSuffix
	tempChecksumPath := checksumPath + ".tmp"
	defer func() { _ = os.Remove(tempPath) }()
	defer func() { _ = os.Remove(tempChecksumPath) }()

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err := os.WriteFile(tempChecksumPath, []byte(checksum(data)), 0o644); err != nil {
		return fmt.Errorf("write temp checksum file: %w", err)
	}
	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("rename data file into place: %w", err)
	}
	if err := os.Rename(tempChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("rename checksum file into place: %w", err)
	}
	return nil
}

func (s *FileTaskStore) withLock(fn func() error) error {
	if s.flk == nil {
		return errors.New("store not initialized")
	}
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()
	return fn()
}

// CreateTask validates and stores a new task definition, assigning an ID
// and timestamps when absent.
func (s *FileTaskStore) CreateTask(task models.TaskDefinition) (models.TaskDefinition, error) {
	now := time.Now().UTC()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	if task.CustomOrder == 0 {
		task.CustomOrder = models.CustomOrderUnset
	}

	if err := task.Validate(); err != nil {
		return models.TaskDefinition{}, fmt.Errorf("validate task: %w", err)
	}

	err := s.withLock(func() error {
		if _, exists := s.tasks[task.ID]; exists {
			return fmt.Errorf("task %s already exists", task.ID)
		}
		s.tasks[task.ID] = task
		return s.saveLocked()
	})
	if err != nil {
		return models.TaskDefinition{}, err
	}
	return task, nil
}

// GetTask retrieves one task definition by ID.
func (s *FileTaskStore) GetTask(id string) (models.TaskDefinition, error) {
	task, ok := s.tasks[id]
	if !ok {
		return models.TaskDefinition{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return task, nil
}

// UpdateTask replaces an existing definition, refreshing UpdatedAt.
func (s *FileTaskStore) UpdateTask(task models.TaskDefinition) (models.TaskDefinition, error) {
	task.UpdatedAt = time.Now().UTC()
	if err := task.Validate(); err != nil {
		return models.TaskDefinition{}, fmt.Errorf("validate task: %w", err)
	}
	err := s.withLock(func() error {
		if _, ok := s.tasks[task.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, task.ID)
		}
		s.tasks[task.ID] = task
		return s.saveLocked()
	})
	if err != nil {
		return models.TaskDefinition{}, err
	}
	return task, nil
}

// DeleteTask removes a definition by ID.
func (s *FileTaskStore) DeleteTask(id string) error {
	return s.withLock(func() error {
		if _, ok := s.tasks[id]; !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		delete(s.tasks, id)
		return s.saveLocked()
	})
}

// ListTasks returns definitions matching the filter; nil matches all.
func (s *FileTaskStore) ListTasks(filterFn func(models.TaskDefinition) bool) ([]models.TaskDefinition, error) {
	out := make([]models.TaskDefinition, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filterFn == nil || filterFn(task) {
			out = append(out, task)
		}
	}
	return out, nil
}

// Close releases the file lock.
func (s *FileTaskStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
