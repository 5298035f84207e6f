package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultDueTime applies when a task has no explicit due time.
	DefaultDueTime = "17:00"

	// DefaultDueTimeMinutes is DefaultDueTime as minutes since midnight.
	DefaultDueTimeMinutes = 17 * 60

	// CustomOrderUnset is the sentinel meaning "no administrator-assigned
	// display order"; tasks carrying it sort by the default policy.
	CustomOrderUnset = 999999
)

// TaskDefinition is the configuration for a recurring or one-off piece of
// work on the shift checklist.
type TaskDefinition struct {
	ID          string `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Title       string `json:"title" yaml:"title" toml:"title" validate:"required,min=3,max=255"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`

	// Responsibilities are the position identifiers that may complete this
	// task. A task shared by several positions is completed independently
	// per position.
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities" toml:"responsibilities" validate:"required,min=1,dive,min=1"`
	Categories       []string `json:"categories,omitempty" yaml:"categories,omitempty" toml:"categories,omitempty"`

	// RecurrenceCodes lists one or more recurrence vocabulary entries. The
	// engine evaluates every code and keeps the most severe status.
	RecurrenceCodes []RecurrenceCode `json:"recurrenceCodes" yaml:"recurrenceCodes" toml:"recurrenceCodes"`

	// DueTime is an HH:MM time of day; empty means DefaultDueTime.
	DueTime string `json:"dueTime,omitempty" yaml:"dueTime,omitempty" toml:"dueTime,omitempty"`

	// DueDateOverride is required for once-off recurrence and ignored by
	// every other family.
	DueDateOverride *time.Time `json:"dueDateOverride,omitempty" yaml:"dueDateOverride,omitempty" toml:"dueDateOverride,omitempty"`

	CustomOrder int `json:"customOrder" yaml:"customOrder" toml:"customOrder"`

	// StartDate and PublishDelayUntil feed the visibility anchor; the task
	// is never shown before the latest of {creation date, publish delay,
	// start date}.
	StartDate         *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty" toml:"startDate,omitempty"`
	PublishDelayUntil *time.Time `json:"publishDelayUntil,omitempty" yaml:"publishDelayUntil,omitempty" toml:"publishDelayUntil,omitempty"`

	// VisibilityEnd hides the task on any later date.
	VisibilityEnd *time.Time `json:"visibilityEnd,omitempty" yaml:"visibilityEnd,omitempty" toml:"visibilityEnd,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// TaskInstance anchors a TaskDefinition to a nominal date. The instance
// date may differ from the effective due date once frequency rules apply.
type TaskInstance struct {
	TaskID       string            `json:"taskId" yaml:"taskId"`
	InstanceDate time.Time         `json:"instanceDate" yaml:"instanceDate"`
	Completion   *CompletionRecord `json:"completion,omitempty" yaml:"completion,omitempty"`
}

// CompletionRecord holds the completions recorded against one instance,
// one entry per position.
type CompletionRecord struct {
	Positions []PositionCompletion `json:"positions" yaml:"positions"`
}

// PositionCompletion is one position's completion of a shared task.
type PositionCompletion struct {
	PositionName   string     `json:"positionName" yaml:"positionName"`
	CompletedBy    string     `json:"completedBy,omitempty" yaml:"completedBy,omitempty"`
	CompletedAtUTC *time.Time `json:"completedAtUtc,omitempty" yaml:"completedAtUtc,omitempty"`
	IsCompleted    bool       `json:"isCompleted" yaml:"isCompleted"`
}

// ForPosition returns the completion entry for the named position, or nil.
func (r *CompletionRecord) ForPosition(name string) *PositionCompletion {
	if r == nil {
		return nil
	}
	for i := range r.Positions {
		if r.Positions[i].PositionName == name {
			return &r.Positions[i]
		}
	}
	return nil
}

// Completed returns the entries that are actually marked complete.
func (r *CompletionRecord) Completed() []PositionCompletion {
	if r == nil {
		return nil
	}
	var out []PositionCompletion
	for _, p := range r.Positions {
		if p.IsCompleted {
			out = append(out, p)
		}
	}
	return out
}

// VisibilityAnchor derives the first date the task may be shown: the latest
// of the creation date, the publish-delay date and the explicit start date,
// normalized to midnight in loc.
func (t *TaskDefinition) VisibilityAnchor(loc *time.Location) time.Time {
	anchor := dateIn(t.CreatedAt, loc)
	if t.PublishDelayUntil != nil {
		if d := dateIn(*t.PublishDelayUntil, loc); d.After(anchor) {
			anchor = d
		}
	}
	if t.StartDate != nil {
		if d := dateIn(*t.StartDate, loc); d.After(anchor) {
			anchor = d
		}
	}
	return anchor
}

// DueTimeMinutes returns the task's due time as minutes since midnight,
// falling back to the default when absent or unparseable.
func (t *TaskDefinition) DueTimeMinutes() int {
	m, err := ParseDueTime(t.DueTime)
	if err != nil {
		return DefaultDueTimeMinutes
	}
	return m
}

// HasCustomOrder reports whether an administrator assigned a display order.
func (t *TaskDefinition) HasCustomOrder() bool {
	return t.CustomOrder >= 0 && t.CustomOrder < CustomOrderUnset
}

// ParseDueTime parses an HH:MM time of day into minutes since midnight.
// An empty string yields the default due time.
func ParseDueTime(s string) (int, error) {
	if s == "" {
		return DefaultDueTimeMinutes, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("due time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("due time %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("due time %q: bad minute", s)
	}
	return h*60 + m, nil
}

func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Validate checks the invariants struct tags cannot express: the recurrence
// vocabulary, the due time format, and the once-off due-date requirement.
// A missing once-off due date is reported here even though the engine
// degrades gracefully at resolve time; administrators should fix it.
func (t *TaskDefinition) Validate() error {
	if err := ValidateStruct(t); err != nil {
		return err
	}
	if len(t.RecurrenceCodes) == 0 {
		return fmt.Errorf("task %q: at least one recurrence code required", t.Title)
	}
	for _, c := range t.RecurrenceCodes {
		if !c.Known() {
			return fmt.Errorf("task %q: unknown recurrence code %q", t.Title, c)
		}
	}
	if t.DueTime != "" {
		if _, err := ParseDueTime(t.DueTime); err != nil {
			return fmt.Errorf("task %q: %w", t.Title, err)
		}
	}
	for _, c := range t.RecurrenceCodes {
		if c.IsOnceOff() && t.DueDateOverride == nil {
			return fmt.Errorf("task %q: once-off recurrence requires a due date", t.Title)
		}
	}
	return nil
}
