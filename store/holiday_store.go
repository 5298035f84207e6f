package store

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

// Holiday is one public-holiday entry in a year file.
type Holiday struct {
	Date string `yaml:"date" json:"date"` // ISO yyyy-mm-dd
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// HolidayStore reads and writes per-year public-holiday files from a
// directory, one YAML file per year (e.g. 2026.yaml). It satisfies the
// engine's schedule.HolidaySource contract.
//
// It uses an afero.Fs so tests can run against an in-memory filesystem.
type HolidayStore struct {
	fs      afero.Fs
	baseDir string
}

// NewHolidayStore creates a store over the given filesystem and directory.
func NewHolidayStore(fs afero.Fs, baseDir string) *HolidayStore {
	return &HolidayStore{fs: fs, baseDir: baseDir}
}

// NewOsHolidayStore creates a store over the real filesystem.
func NewOsHolidayStore(baseDir string) *HolidayStore {
	return NewHolidayStore(afero.NewOsFs(), baseDir)
}

func (h *HolidayStore) yearPath(year int) string {
	return filepath.Join(h.baseDir, fmt.Sprintf("%d.yaml", year))
}

// Holidays returns the ISO dates for the year. A missing year file is not
// an error: the calendar simply carries no holidays for it.
func (h *HolidayStore) Holidays(year int) ([]string, error) {
	entries, err := h.Entries(year)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.Date)
	}
	return dates, nil
}

// Entries returns the full holiday entries for the year, names included.
func (h *HolidayStore) Entries(year int) ([]Holiday, error) {
	path := h.yearPath(year)
	exists, err := afero.Exists(h.fs, path)
	if err != nil {
		return nil, fmt.Errorf("check holiday file %s: %w", path, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file %s: %w", path, err)
	}

	var entries []Holiday
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal holiday file %s: %w", path, err)
	}
	for _, e := range entries {
		if _, err := time.Parse("2006-01-02", e.Date); err != nil {
			return nil, fmt.Errorf("holiday file %s: bad date %q", path, e.Date)
		}
	}
	return entries, nil
}

// SetEntries writes the year's holiday file, replacing what was there.
func (h *HolidayStore) SetEntries(year int, entries []Holiday) error {
	for _, e := range entries {
		if _, err := time.Parse("2006-01-02", e.Date); err != nil {
			return fmt.Errorf("bad holiday date %q", e.Date)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal holidays: %w", err)
	}
	if err := h.fs.MkdirAll(h.baseDir, 0o755); err != nil {
		return fmt.Errorf("create holiday directory: %w", err)
	}
	if err := afero.WriteFile(h.fs, h.yearPath(year), data, 0o644); err != nil {
		return fmt.Errorf("write holiday file: %w", err)
	}
	return nil
}

// Years lists the years that have a holiday file, ascending.
func (h *HolidayStore) Years() ([]int, error) {
	exists, err := afero.DirExists(h.fs, h.baseDir)
	if err != nil || !exists {
		return nil, err
	}
	infos, err := afero.ReadDir(h.fs, h.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read holiday directory: %w", err)
	}
	var years []int
	for _, info := range infos {
		name := strings.TrimSuffix(info.Name(), ".yaml")
		if year, err := strconv.Atoi(name); err == nil && name != info.Name() {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}
