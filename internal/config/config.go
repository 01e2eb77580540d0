// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and env overrides in Load.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// MoneyEventsPath and BurnEventsPath locate the JSON event files
	// loaded at session start. Comma-separated paths are merged with
	// duplicate event IDs dropped.
	MoneyEventsPath string `koanf:"money_events_path"`
	BurnEventsPath  string `koanf:"burn_events_path"`

	// SessionDBPath locates the SQLite session store. ":memory:" keeps
	// state for the process lifetime only.
	SessionDBPath string `koanf:"session_db_path"`

	// MinBaselineEvents filters people with too little history out of
	// the baseline set.
	MinBaselineEvents int `koanf:"min_baseline_events"`

	// WeightWindowWeeks bounds the project weight trailing window.
	WeightWindowWeeks int `koanf:"weight_window_weeks"`

	// KPIWindowDays bounds the rolling KPI trailing window.
	KPIWindowDays int `koanf:"kpi_window_days"`

	// GroupSizeMin and GroupSizeMax bound group synergy aggregation.
	GroupSizeMin int `koanf:"group_size_min"`
	GroupSizeMax int `koanf:"group_size_max"`

	// CandidatePoolSize caps the top-K pool fed to best-team search.
	// C(pool, team) is enumerated exhaustively; keep this small.
	CandidatePoolSize int `koanf:"candidate_pool_size"`

	// TeamSize fixes the size of searched teams.
	TeamSize int `koanf:"team_size"`

	// BootstrapRosterSize selects the initial top-N roster when no
	// persisted session exists.
	BootstrapRosterSize int `koanf:"bootstrap_roster_size"`

	// EditQueueSize bounds the pending edit queue.
	EditQueueSize int `koanf:"edit_queue_size"`

	// NATSURL enables the NATS audit sink when non-empty.
	NATSURL string `koanf:"nats_url"`

	// AuditSubjectPrefix prefixes audit subjects, e.g. "crewcast.audit".
	AuditSubjectPrefix string `koanf:"audit_subject_prefix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		MoneyEventsPath:     "data/money_events.json",
		BurnEventsPath:      "data/burn_events.json",
		SessionDBPath:       "data/session.db",
		MinBaselineEvents:   3,
		WeightWindowWeeks:   12,
		KPIWindowDays:       30,
		GroupSizeMin:        3,
		GroupSizeMax:        5,
		CandidatePoolSize:   12,
		TeamSize:            4,
		BootstrapRosterSize: 6,
		EditQueueSize:       256,
		NATSURL:             "",
		AuditSubjectPrefix:  "crewcast.audit",
	}
}
