package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pharmaops/shiftcheck/internal/ui"
	"github.com/pharmaops/shiftcheck/store"
)

// holidaysCmd groups the public-holiday calendar commands.
var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Manage the public-holiday calendar",
	Long: `Public holidays shift every business-day calculation: appearance
dates, due dates, and month-end Saturdays all route around them.
Holidays are kept per year, one file per year.`,
}

var holidaysListCmd = &cobra.Command{
	Use:   "list [year]",
	Short: "List the holidays on file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHolidaysList,
}

var holidaysSetCmd = &cobra.Command{
	Use:   "set <date> [name]",
	Short: "Add or rename a holiday (date as yyyy-mm-dd)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runHolidaysSet,
}

var holidaysRmCmd = &cobra.Command{
	Use:   "rm <date>",
	Short: "Remove a holiday",
	Args:  cobra.ExactArgs(1),
	RunE:  runHolidaysRm,
}

func init() {
	rootCmd.AddCommand(holidaysCmd)
	holidaysCmd.AddCommand(holidaysListCmd)
	holidaysCmd.AddCommand(holidaysSetCmd)
	holidaysCmd.AddCommand(holidaysRmCmd)
}

func runHolidaysList(cmd *cobra.Command, args []string) error {
	hs := GetHolidayStore()

	var years []int
	if len(args) > 0 {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}
		years = []int{year}
	} else {
		var err error
		years, err = hs.Years()
		if err != nil {
			return err
		}
	}

	type yearEntries struct {
		Year     int             `json:"year"`
		Holidays []store.Holiday `json:"holidays"`
	}
	var all []yearEntries
	for _, year := range years {
		entries, err := hs.Entries(year)
		if err != nil {
			return err
		}
		all = append(all, yearEntries{Year: year, Holidays: entries})
	}

	if jsonOutput {
		return printJSON(all)
	}
	if len(all) == 0 {
		fmt.Println("No holidays on file. Add one with: shiftcheck holidays set 2026-01-01 \"New Year's Day\"")
		return nil
	}

	tbl := ui.Table{Headers: []string{"Date", "Day", "Name"}}
	for _, ye := range all {
		for _, h := range ye.Holidays {
			day := ""
			if d, err := time.Parse("2006-01-02", h.Date); err == nil {
				day = d.Format("Mon")
			}
			tbl.Rows = append(tbl.Rows, []string{h.Date, day, h.Name})
		}
	}
	fmt.Print(tbl.Render())
	return nil
}

func runHolidaysSet(cmd *cobra.Command, args []string) error {
	date := args[0]
	name := ""
	if len(args) > 1 {
		name = args[1]
	}

	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected yyyy-mm-dd", date)
	}

	hs := GetHolidayStore()
	entries, err := hs.Entries(d.Year())
	if err != nil {
		return err
	}

	updated := false
	for i := range entries {
		if entries[i].Date == date {
			entries[i].Name = name
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, store.Holiday{Date: date, Name: name})
	}

	if err := hs.SetEntries(d.Year(), entries); err != nil {
		return err
	}
	if updated {
		fmt.Printf("Updated holiday %s\n", date)
	} else {
		fmt.Printf("Added holiday %s\n", date)
	}
	return nil
}

func runHolidaysRm(cmd *cobra.Command, args []string) error {
	date := args[0]
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected yyyy-mm-dd", date)
	}

	hs := GetHolidayStore()
	entries, err := hs.Entries(d.Year())
	if err != nil {
		return err
	}

	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.Date == date {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return fmt.Errorf("no holiday on file for %s", date)
	}

	if err := hs.SetEntries(d.Year(), kept); err != nil {
		return err
	}
	fmt.Printf("Removed holiday %s\n", date)
	return nil
}
