package store

import "github.com/pharmaops/shiftcheck/models"

// TaskStore defines the interface for task-definition persistence.
// It outlines the contract for managing the checklist configuration:
// CRUD operations, initialization, and resource cleanup.
type TaskStore interface {
	// Initialize configures the store with backend-specific settings such
	// as file path and data format. It must be called before any other
	// store operation.
	Initialize(config map[string]string) error

	// CreateTask adds a new task definition. It returns the stored task,
	// potentially with store-generated fields, or an error.
	CreateTask(task models.TaskDefinition) (models.TaskDefinition, error)

	// GetTask retrieves a task definition by ID.
	GetTask(id string) (models.TaskDefinition, error)

	// UpdateTask replaces an existing task definition identified by its ID.
	UpdateTask(task models.TaskDefinition) (models.TaskDefinition, error)

	// DeleteTask removes a task definition by ID.
	DeleteTask(id string) error

	// ListTasks retrieves task definitions, optionally filtered. A nil
	// filter returns everything.
	ListTasks(filterFn func(models.TaskDefinition) bool) ([]models.TaskDefinition, error)

	// Close releases any resources held by the store, like file locks.
	Close() error
}
