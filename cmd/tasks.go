package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/pharmaops/shiftcheck/internal/schedule"
	"github.com/pharmaops/shiftcheck/internal/ui"
	"github.com/pharmaops/shiftcheck/models"
)

// tasksCmd groups the checklist configuration commands.
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the checklist's task definitions",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all task definitions",
	RunE:  runTasksList,
}

var (
	addDescription      string
	addResponsibilities []string
	addCategories       []string
	addRecurrence       []string
	addDueTime          string
	addDueDate          string
	addOrder            int
	addStartDate        string
)

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task definition",
	Example: `  # A daily task for the dispensary
  shiftcheck tasks add "Check fridge temperatures" \
    --for dispensary --recur every_day --due-time 08:30

  # A once-off with a fixed due date
  shiftcheck tasks add "Submit annual licence renewal" \
    --for dispensary --recur once_off --due-date 2026-03-31`,
	Args: cobra.ExactArgs(1),
	RunE: runTasksAdd,
}

var rmYes bool

var tasksRmCmd = &cobra.Command{
	Use:   "rm [task_id]",
	Short: "Remove a task definition",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTasksRm,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksRmCmd)

	tasksAddCmd.Flags().StringVar(&addDescription, "desc", "", "task description")
	tasksAddCmd.Flags().StringSliceVar(&addResponsibilities, "for", nil, "responsible positions (repeatable)")
	tasksAddCmd.Flags().StringSliceVar(&addCategories, "category", nil, "categories (repeatable)")
	tasksAddCmd.Flags().StringSliceVar(&addRecurrence, "recur", nil, "recurrence codes (repeatable)")
	tasksAddCmd.Flags().StringVar(&addDueTime, "due-time", "", "due time as HH:MM (default "+models.DefaultDueTime+")")
	tasksAddCmd.Flags().StringVar(&addDueDate, "due-date", "", "due date for once-off tasks, yyyy-mm-dd")
	tasksAddCmd.Flags().IntVar(&addOrder, "order", 0, "pinned board position (lower sorts first)")
	tasksAddCmd.Flags().StringVar(&addStartDate, "start", "", "date before which the task stays hidden, yyyy-mm-dd")

	tasksRmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "skip the confirmation prompt")
}

func runTasksList(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	tasks, err := taskStore.ListTasks(nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	schedule.SortTasks(tasks, positionOrderFromConfig())

	if jsonOutput {
		return printJSON(tasks)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks defined yet. Add one with: shiftcheck tasks add")
		return nil
	}

	tbl := ui.Table{
		Headers: []string{"ID", "Title", "Recurrence", "Due", "For"},
	}
	for i := range tasks {
		t := &tasks[i]
		codes := make([]string, 0, len(t.RecurrenceCodes))
		for _, c := range t.RecurrenceCodes {
			codes = append(codes, string(c))
		}
		due := t.DueTime
		if due == "" {
			due = models.DefaultDueTime
		}
		tbl.Rows = append(tbl.Rows, []string{
			ui.TruncateID(t.ID),
			ui.Truncate(t.Title, 48),
			strings.Join(codes, ","),
			due,
			strings.Join(t.Responsibilities, ","),
		})
	}
	fmt.Print(tbl.Render())
	return nil
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	loc, err := boardLocation()
	if err != nil {
		return err
	}

	task := models.TaskDefinition{
		Title:            args[0],
		Description:      addDescription,
		Responsibilities: addResponsibilities,
		Categories:       addCategories,
		DueTime:          addDueTime,
		CustomOrder:      addOrder,
	}
	for _, c := range addRecurrence {
		task.RecurrenceCodes = append(task.RecurrenceCodes, models.RecurrenceCode(c))
	}
	if addDueDate != "" {
		d, err := time.ParseInLocation("2006-01-02", addDueDate, loc)
		if err != nil {
			return fmt.Errorf("invalid --due-date %q, expected yyyy-mm-dd", addDueDate)
		}
		task.DueDateOverride = &d
	}
	if addStartDate != "" {
		d, err := time.ParseInLocation("2006-01-02", addStartDate, loc)
		if err != nil {
			return fmt.Errorf("invalid --start %q, expected yyyy-mm-dd", addStartDate)
		}
		task.StartDate = &d
	}

	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	created, err := taskStore.CreateTask(task)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	if jsonOutput {
		return printJSON(created)
	}
	fmt.Printf("Added task '%s' (ID: %s)\n", created.Title, ui.TruncateID(created.ID))
	return nil
}

func runTasksRm(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return fmt.Errorf("could not initialize the task store: %w", err)
	}
	defer func() { _ = taskStore.Close() }()

	var task models.TaskDefinition
	if len(args) > 0 {
		taskPtr, err := resolveTaskReference(taskStore, args[0])
		if err != nil {
			return err
		}
		task = *taskPtr
	} else {
		task, err = selectTaskInteractive(taskStore, nil, "Select task to remove")
		if err != nil {
			if err == promptui.ErrInterrupt {
				fmt.Println("Operation cancelled.")
				return nil
			}
			if err == ErrNoTasksFound {
				fmt.Println("No tasks to remove.")
				return nil
			}
			return err
		}
	}

	if !rmYes && ui.IsInteractive() {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Remove '%s'", task.Title),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	if err := taskStore.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	fmt.Printf("Removed task '%s' (ID: %s)\n", task.Title, ui.TruncateID(task.ID))
	return nil
}
