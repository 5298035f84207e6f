package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	JSON    bool          `mapstructure:"json"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	Board   BoardConfig   `mapstructure:"board" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir       string `mapstructure:"rootDir" validate:"required"`
	HolidaysDir   string `mapstructure:"holidaysDir" validate:"required"`
	OutputLogPath string `mapstructure:"outputLogPath" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File          string `mapstructure:"file" validate:"required"`
	Format        string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
	CompletionsDB string `mapstructure:"completionsDb" validate:"required"`
}

// BoardConfig holds the settings the status board resolves against.
type BoardConfig struct {
	// Timezone is the IANA name of the pharmacy's local timezone. Every
	// due-time and viewing-date comparison happens in this zone.
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
	// DefaultDueTime applies to tasks that carry no due time, as HH:MM.
	DefaultDueTime string `mapstructure:"defaultDueTime" validate:"required"`
	// Positions lists staff positions in display-priority order. The
	// first entry sorts first when tasks tie on everything else.
	Positions []string `mapstructure:"positions" validate:"required,min=1,dive,min=1"`
}
