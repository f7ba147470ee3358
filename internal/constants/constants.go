package constants

import "time"

const (
	// PeriodSeconds is the regulation length of one period.
	PeriodSeconds = 720

	// CountdownWindow is the remaining-seconds range [1, CountdownWindow]
	// in which the clock announces each second out loud.
	CountdownWindow = 10

	ClockTickInterval = 1 * time.Second
)

const (
	// Reaction drill tuning.
	CountdownBeeps    = 5
	CountdownSpacing  = 1 * time.Second
	GoDelayMin        = 500 * time.Millisecond
	GoDelayMax        = 1500 * time.Millisecond
	FramePollInterval = 33 * time.Millisecond
	MotionThreshold   = 12.0
	RepRestPause      = 3 * time.Second
)

const (
	ExternalAPITimeout = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// AnalysisConcurrency bounds parallel AI player-analysis calls.
	AnalysisConcurrency = 4

	DrillHistoryLimit = 50
)
