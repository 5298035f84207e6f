package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pharmaops/shiftcheck/internal/schedule"
	"github.com/pharmaops/shiftcheck/internal/ui"
	"github.com/pharmaops/shiftcheck/models"
	"github.com/pharmaops/shiftcheck/store"
)

var (
	boardDate     string
	boardPosition string
	boardAsOf     string
)

// boardCmd represents the board command
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the checklist board for a date",
	Long: `Resolve every task against a viewing date and render the board.

The board defaults to today in the configured timezone and to the
administrator's all-positions view. Pass --position to see the board
the way one responsibility sees it, or --date to look backwards or
forwards in time.`,
	Example: `  # Today's board, all positions
  shiftcheck board

  # The dispensary's view of a past date
  shiftcheck board --date 2026-01-05 --position dispensary`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().StringVarP(&boardDate, "date", "d", "", "viewing date as yyyy-mm-dd (default today)")
	boardCmd.Flags().StringVarP(&boardPosition, "position", "p", "", "resolve for one position instead of all")
	boardCmd.Flags().StringVar(&boardAsOf, "as-of", "", "pretend the clock reads HH:MM (default the real time)")
}

// boardEntry is one resolved task, shaped for both JSON and the rendered board.
type boardEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueTime     string   `json:"dueTime"`
	Status      string   `json:"status"`
	NextDue     string   `json:"nextDue,omitempty"`
	CompletedBy []string `json:"completedBy,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func runBoard(cmd *cobra.Command, args []string) error {
	loc, err := boardLocation()
	if err != nil {
		return err
	}

	now := time.Now().In(loc)
	viewing, err := parseViewDate(boardDate, now, loc)
	if err != nil {
		return err
	}
	if boardAsOf != "" {
		minutes, err := models.ParseDueTime(boardAsOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of %q, expected HH:MM", boardAsOf)
		}
		// The pretend clock reads the given wall time on today's date; a
		// shifted viewing date still resolves as a non-today vantage.
		now = time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, loc)
	}

	view := schedule.AllView()
	positionLabel := "all positions"
	if boardPosition != "" {
		view = schedule.PositionView(boardPosition)
		positionLabel = boardPosition
	}

	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	completionStore, err := GetCompletionStore()
	if err != nil {
		return err
	}
	defer func() { _ = completionStore.Close() }()

	cal, err := newCalendar(loc, viewing)
	if err != nil {
		return err
	}

	entries, err := resolveBoard(cal, taskStore, completionStore, now, viewing, view)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{
			"date":     viewing.Format("2006-01-02"),
			"position": positionLabel,
			"tasks":    entries,
		})
	}

	rows := make([]ui.BoardRow, 0, len(entries))
	for _, e := range entries {
		due := e.DueTime
		if e.NextDue != "" {
			due = e.NextDue
		}
		rows = append(rows, ui.BoardRow{
			ID:          e.ID,
			Title:       e.Title,
			DueTime:     due,
			Status:      statusFromName(e.Status),
			CompletedBy: e.CompletedBy,
			Warnings:    e.Warnings,
		})
	}
	fmt.Print(ui.RenderBoard(viewing, positionLabel, rows))
	return nil
}

// resolveBoard resolves every visible task for the viewing date, in board
// order. Hidden tasks are dropped rather than shown as not_visible rows.
func resolveBoard(cal *schedule.Calendar, taskStore store.TaskStore, completions *store.CompletionStore, asOf, viewing time.Time, view schedule.View) ([]boardEntry, error) {
	tasks, err := taskStore.ListTasks(nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	positions := positionOrderFromConfig()
	schedule.SortTasks(tasks, positions)

	entries := make([]boardEntry, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]

		completion, err := completions.Latest(task.ID)
		if err != nil {
			return nil, fmt.Errorf("load completions for %s: %w", task.ID, err)
		}
		inst := models.TaskInstance{
			TaskID:       task.ID,
			InstanceDate: cal.Date(viewing),
			Completion:   completion,
		}

		status := schedule.EffectiveStatus(cal, task, inst, asOf, viewing, view)
		if status == schedule.StatusNotVisible {
			continue
		}

		entry := boardEntry{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			DueTime:     task.DueTime,
			Status:      status.String(),
		}
		if entry.DueTime == "" {
			entry.DueTime = models.DefaultDueTime
		}
		if status == schedule.StatusCompleted {
			entry.CompletedBy = schedule.CompletedPositions(cal, task, inst, asOf, viewing)
		}
		if status == schedule.StatusNotDueYet {
			entry.NextDue = schedule.NextOccurrenceHint(cal, task, inst.InstanceDate)
		}
		for _, co := range schedule.CutoffsFor(cal, task, inst.InstanceDate) {
			entry.Warnings = append(entry.Warnings, co.Warnings...)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// positionOrderFromConfig maps configured positions to their display rank.
func positionOrderFromConfig() schedule.PositionOrder {
	order := schedule.PositionOrder{}
	for i, p := range GetConfig().Board.Positions {
		order[p] = i
	}
	return order
}
