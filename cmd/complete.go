package cmd

import (
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/pharmaops/shiftcheck/internal/schedule"
	"github.com/pharmaops/shiftcheck/models"
)

var (
	completePosition string
	completeBy       string
	completeUndo     bool
)

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:   "complete [task_id]",
	Short: "Mark a task completed for a position",
	Long: `Record that a position has completed a task. Without a task_id an
interactive list is shown. Completions are recorded per position; other
positions keep their own state.

Use --undo to withdraw a completion recorded by mistake.`,
	Example: `  # Interactive mode
  shiftcheck complete --position dispensary --by Thandi

  # Complete a specific task
  shiftcheck complete abc123 --position front-shop --by Sipho

  # Withdraw a completion
  shiftcheck complete abc123 --position front-shop --undo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)

	completeCmd.Flags().StringVarP(&completePosition, "position", "p", "", "position recording the completion (required)")
	completeCmd.Flags().StringVar(&completeBy, "by", "", "name of the person completing the task")
	completeCmd.Flags().BoolVar(&completeUndo, "undo", false, "withdraw the position's completion instead")
	_ = completeCmd.MarkFlagRequired("position")
}

func runComplete(cmd *cobra.Command, args []string) error {
	loc, err := boardLocation()
	if err != nil {
		return err
	}

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
		label := fmt.Sprintf("Select task to complete as %s", completePosition)
		if completeUndo {
			label = fmt.Sprintf("Select task to un-complete as %s", completePosition)
		}
		task, err = selectTaskInteractive(taskStore, nil, label)
		if err != nil {
			if err == promptui.ErrInterrupt {
				fmt.Println("Operation cancelled.")
				return nil
			}
			if err == ErrNoTasksFound {
				fmt.Println("No tasks available.")
				return nil
			}
			return err
		}
	}

	completionStore, err := GetCompletionStore()
	if err != nil {
		return err
	}
	defer func() { _ = completionStore.Close() }()

	if completeUndo {
		if err := completionStore.Clear(task.ID, completePosition); err != nil {
			return err
		}
		fmt.Printf("Withdrew %s's completion of '%s'\n", completePosition, task.Title)
		return nil
	}

	now := time.Now().In(loc)
	if err := completionStore.Record(task.ID, completePosition, completeBy, now.UTC()); err != nil {
		return err
	}

	// Report the status the position will now see on today's board.
	cal, err := newCalendar(loc, now)
	if err != nil {
		LogError("could not resolve post-completion status", err)
		fmt.Printf("Completed '%s' as %s\n", task.Title, completePosition)
		return nil
	}
	completion, err := completionStore.Latest(task.ID)
	if err != nil {
		return err
	}
	inst := models.TaskInstance{
		TaskID:       task.ID,
		InstanceDate: cal.Date(now),
		Completion:   completion,
	}
	status := schedule.EffectiveStatus(cal, &task, inst, now, cal.Date(now), schedule.PositionView(completePosition))
	fmt.Printf("Completed '%s' as %s (status now: %s)\n", task.Title, completePosition, status)
	return nil
}
