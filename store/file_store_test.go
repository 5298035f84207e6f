package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmaops/shiftcheck/models"
)

func newTestStore(t *testing.T, format string) *FileTaskStore {
	t.Helper()
	s := NewFileTaskStore()
	path := filepath.Join(t.TempDir(), "tasks."+format)
	if err := s.Initialize(map[string]string{
		"dataFile":       path,
		"dataFileFormat": format,
	}); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTask(title string) models.TaskDefinition {
	return models.TaskDefinition{
		Title:            title,
		Responsibilities: []string{"dispensary"},
		RecurrenceCodes:  []models.RecurrenceCode{models.RecurrenceEveryDay},
	}
}

func TestFileTaskStore_CRUD(t *testing.T) {
	s := newTestStore(t, "json")

	created, err := s.CreateTask(sampleTask("Check fridge temperatures"))
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateTask() did not assign an ID")
	}
	if created.CustomOrder != models.CustomOrderUnset {
		t.Errorf("CustomOrder = %d, want sentinel", created.CustomOrder)
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask() error: %v", err)
	}
	if got.Title != created.Title {
		t.Errorf("GetTask() title = %q, want %q", got.Title, created.Title)
	}

	got.DueTime = "08:30"
	if _, err := s.UpdateTask(got); err != nil {
		t.Fatalf("UpdateTask() error: %v", err)
	}
	updated, _ := s.GetTask(created.ID)
	if updated.DueTime != "08:30" {
		t.Errorf("DueTime after update = %q, want 08:30", updated.DueTime)
	}

	if err := s.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask() error: %v", err)
	}
	if _, err := s.GetTask(created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetTask() after delete = %v, want ErrTaskNotFound", err)
	}
}

func TestFileTaskStore_RejectsInvalidTask(t *testing.T) {
	s := newTestStore(t, "json")

	bad := sampleTask("Once-off without due date")
	bad.RecurrenceCodes = []models.RecurrenceCode{models.RecurrenceOnceOff}
	if _, err := s.CreateTask(bad); err == nil {
		t.Error("CreateTask() accepted a once-off task without a due date")
	}
}

func TestFileTaskStore_Formats(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			s := NewFileTaskStore()
			path := filepath.Join(t.TempDir(), "tasks."+format)
			cfg := map[string]string{"dataFile": path, "dataFileFormat": format}
			if err := s.Initialize(cfg); err != nil {
				t.Fatalf("Initialize() error: %v", err)
			}
			created, err := s.CreateTask(sampleTask("Round trip"))
			if err != nil {
				t.Fatalf("CreateTask() error: %v", err)
			}
			_ = s.Close()

			// Reload from disk and confirm the task survived the format.
			reopened := NewFileTaskStore()
			if err := reopened.Initialize(cfg); err != nil {
				t.Fatalf("reopen Initialize() error: %v", err)
			}
			defer func() { _ = reopened.Close() }()
			got, err := reopened.GetTask(created.ID)
			if err != nil {
				t.Fatalf("GetTask() after reload error: %v", err)
			}
			if got.Title != "Round trip" {
				t.Errorf("reloaded title = %q", got.Title)
			}
		})
	}
}

func TestFileTaskStore_ChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	cfg := map[string]string{"dataFile": path, "dataFileFormat": "json"}

	s := NewFileTaskStore()
	if err := s.Initialize(cfg); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if _, err := s.CreateTask(sampleTask("Tamper target")); err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	_ = s.Close()

	// Edit the file behind the store's back.
	if err := os.WriteFile(path, []byte(`{"tasks":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tampered := NewFileTaskStore()
	if err := tampered.Initialize(cfg); err == nil {
		t.Error("Initialize() accepted a file with a stale checksum")
		_ = tampered.Close()
	}
}

func TestFileTaskStore_ListTasksFilter(t *testing.T) {
	s := newTestStore(t, "json")
	for _, title := range []string{"Fridge check", "Till balance", "Stock take"} {
		if _, err := s.CreateTask(sampleTask(title)); err != nil {
			t.Fatalf("CreateTask(%q) error: %v", title, err)
		}
	}

	all, err := s.ListTasks(nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListTasks(nil) = %d tasks, err %v, want 3", len(all), err)
	}

	only, err := s.ListTasks(func(task models.TaskDefinition) bool {
		return task.Title == "Stock take"
	})
	if err != nil || len(only) != 1 {
		t.Fatalf("filtered ListTasks = %d tasks, err %v, want 1", len(only), err)
	}
}

func TestFileTaskStore_PreservesExistingID(t *testing.T) {
	s := newTestStore(t, "json")
	id := uuid.New().String()
	task := sampleTask("Keeps its ID")
	task.ID = id
	task.CreatedAt = time.Now().UTC().Add(-time.Hour)

	created, err := s.CreateTask(task)
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	if created.ID != id {
		t.Errorf("ID = %s, want %s", created.ID, id)
	}
}
