package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pharmaops/shiftcheck/internal/logger"
	"github.com/pharmaops/shiftcheck/internal/schedule"
	"github.com/pharmaops/shiftcheck/models"
	"github.com/pharmaops/shiftcheck/store"
	"github.com/pharmaops/shiftcheck/types"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// jsonOutput switches command output to JSON.
	jsonOutput bool
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shiftcheck",
	Short: "shiftcheck runs the pharmacy's daily operations checklist.",
	Long: `shiftcheck is the scheduling and status engine behind the pharmacy
operations checklist. It resolves which tasks appear on which day, when
each one falls due, and whether a completion still counts, then renders
the result as a per-day board.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.shiftcheck/.shiftcheck.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of the rendered board")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// GetTaskFilePath returns the full path to the task definitions file
func GetTaskFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Data.File)
}

// GetStore initializes and returns the task store.
func GetStore() (store.TaskStore, error) {
	s := store.NewFileTaskStore()
	config := GetConfig()

	taskFilePath := GetTaskFilePath()

	err := s.Initialize(map[string]string{
		"dataFile":       taskFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", taskFilePath, err)
	}
	return s, nil
}

// GetHolidayStore returns the per-year public-holiday store.
func GetHolidayStore() *store.HolidayStore {
	config := GetConfig()
	return store.NewOsHolidayStore(filepath.Join(config.Project.RootDir, config.Project.HolidaysDir))
}

// GetCompletionStore opens the completion log.
func GetCompletionStore() (*store.CompletionStore, error) {
	config := GetConfig()
	path := filepath.Join(config.Project.RootDir, config.Data.CompletionsDB)
	cs, err := store.NewCompletionStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open completion log at %s: %w", path, err)
	}
	return cs, nil
}

// boardLocation resolves the configured timezone.
func boardLocation() (*time.Location, error) {
	config := GetConfig()
	loc, err := time.LoadLocation(config.Board.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid board timezone %q: %w", config.Board.Timezone, err)
	}
	return loc, nil
}

// newCalendar builds a business-day calendar loaded around the given date.
func newCalendar(loc *time.Location, date time.Time) (*schedule.Calendar, error) {
	cal := schedule.NewCalendar(loc, GetHolidayStore())
	if err := cal.Load(date.Year()); err != nil {
		return nil, fmt.Errorf("load holidays for %d: %w", date.Year(), err)
	}
	return cal, nil
}

// selectTaskInteractive presents a prompt to the user to select a task from a list.
// It can be filtered using the provided filter function.
func selectTaskInteractive(taskStore store.TaskStore, filterFn func(models.TaskDefinition) bool, label string) (models.TaskDefinition, error) {
	tasks, err := taskStore.ListTasks(filterFn)
	if err != nil {
		return models.TaskDefinition{}, fmt.Errorf("failed to list tasks for selection: %w", err)
	}

	if len(tasks) == 0 {
		return models.TaskDefinition{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} (due {{ .DueTime }})`,
		Inactive: `  {{ .Title | faint }} (due {{ .DueTime }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }} (ID: {{ .ID }})`,
		Details: `
--------- Task Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Title:\t" | faint }} {{ .Title }}
{{ "Description:\t" | faint }} {{ .Description }}
{{ "Due time:\t" | faint }} {{ .DueTime }}`,
	}

	searcher := func(input string, index int) bool {
		task := tasks[index]
		name := strings.ToLower(task.Title)
		id := task.ID
		input = strings.ToLower(input)
		return strings.Contains(name, input) || strings.Contains(id, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.TaskDefinition{}, err // includes promptui.ErrInterrupt
	}

	return tasks[i], nil
}

// resolveTaskReference finds a task by full ID or unique ID prefix.
func resolveTaskReference(taskStore store.TaskStore, ref string) (*models.TaskDefinition, error) {
	if task, err := taskStore.GetTask(ref); err == nil {
		return &task, nil
	}

	matches, err := taskStore.ListTasks(func(t models.TaskDefinition) bool {
		return strings.HasPrefix(t.ID, ref)
	})
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, types.NewEngineError("task_not_found", fmt.Sprintf("no task matches %q", ref), nil)
	case 1:
		return &matches[0], nil
	default:
		return nil, types.NewEngineError("ambiguous_task_reference",
			fmt.Sprintf("task reference %q is ambiguous", ref),
			map[string]interface{}{"matches": len(matches)})
	}
}
