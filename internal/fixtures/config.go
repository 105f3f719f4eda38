package fixtures

import "time"

// Config holds configuration for a fixture run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Seed         int64         // Seed for the league generator
	Players      int           // Number of players in the league
	Managers     int           // Number of managers in the league
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between report polls
	OutputFile   string        // Optional file for the generated league
	AsOf         time.Time     // Snapshot day; zero means today
}

// Stats holds run statistics.
type Stats struct {
	Players   int
	Managers  int
	Jobs      int
	ReportID  string
	Duplicate bool
	Status    string
	Expected  int
	Completed int
	Failures  int
	Polls     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// submission mirrors the service's batch acknowledgement.
type submission struct {
	ReportID  string `json:"report_id"`
	Jobs      int    `json:"jobs"`
	Duplicate bool   `json:"duplicate"`
}

// reportState is the part of a report the runner inspects.
type reportState struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Expected  int               `json:"expected_cohorts"`
	Completed int               `json:"completed_cohorts"`
	Failures  map[string]string `json:"failures"`
}
