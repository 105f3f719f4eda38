package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/batch"
	"github.com/okian/kickbase-analytics/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

const (
	defaultPollInterval = 200 * time.Millisecond
	pendingStatus       = "pending"
	completeStatus      = "complete"
)

// Run generates a league, submits it twice and waits for its report.
// The second submission must be recognised as a duplicate of the first.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("fixtures")

	log.Info(ctx, "starting fixture run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int64("seed", cfg.Seed),
		logger.Int("players", cfg.Players),
		logger.Int("managers", cfg.Managers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.Timeout)

	if err := checkServiceHealth(ctx, client, cfg); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	var opts []Option
	if !cfg.AsOf.IsZero() {
		opts = append(opts, WithAsOf(cfg.AsOf))
	}
	league, err := NewGenerator(NewRand(cfg.Seed), opts...).League(cfg.Players, cfg.Managers)
	if err != nil {
		return stats, fmt.Errorf("league generation failed: %w", err)
	}
	stats.Players = len(league.Players)
	stats.Managers = len(league.Managers)

	if cfg.OutputFile != "" {
		if err := saveLeague(ctx, cfg.OutputFile, &league); err != nil {
			log.Warn(ctx, "failed to save league to file", logger.Error(err))
		}
	}

	first, err := submitLeague(ctx, client, cfg, &league)
	if err != nil {
		return stats, fmt.Errorf("league submission failed: %w", err)
	}
	stats.ReportID = first.ReportID
	stats.Jobs = first.Jobs

	again, err := submitLeague(ctx, client, cfg, &league)
	if err != nil {
		return stats, fmt.Errorf("league resubmission failed: %w", err)
	}
	stats.Duplicate = again.Duplicate
	if !again.Duplicate || again.ReportID != first.ReportID {
		return stats, fmt.Errorf("%w: resubmission got report %s (duplicate=%t), want %s",
			ErrVerification, again.ReportID, again.Duplicate, first.ReportID)
	}

	rep, err := waitForReport(ctx, client, cfg, first.ReportID, stats)
	if err != nil {
		return stats, fmt.Errorf("report retrieval failed: %w", err)
	}
	stats.Status = rep.Status
	stats.Expected = rep.Expected
	stats.Completed = rep.Completed
	stats.Failures = len(rep.Failures)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if err := verifyReport(rep, first); err != nil {
		return stats, err
	}
	log.Info(ctx, "fixture run completed successfully")
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient, cfg *Config) error {
	resp, err := client.Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if err := decodeResponse(resp, nil, http.StatusOK); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

func submitLeague(ctx context.Context, client *HTTPClient, cfg *Config, l *batch.League) (submission, error) {
	var sub submission
	resp, err := client.Post(ctx, cfg.BaseURL+"/v1/leagues", l)
	if err != nil {
		return sub, err
	}
	if err := decodeResponse(resp, &sub, http.StatusAccepted, http.StatusOK); err != nil {
		return sub, err
	}
	return sub, nil
}

// waitForReport polls until the report leaves the pending state.
func waitForReport(ctx context.Context, client *HTTPClient, cfg *Config, id string, stats *Stats) (reportState, error) {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var rep reportState
		resp, err := client.Get(ctx, cfg.BaseURL+"/v1/reports/"+id)
		if err != nil {
			return rep, err
		}
		if err := decodeResponse(resp, &rep, http.StatusOK); err != nil {
			return rep, err
		}
		stats.Polls++
		if rep.Status != pendingStatus {
			return rep, nil
		}

		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		case <-ticker.C:
		}
	}
}

func verifyReport(rep reportState, sub submission) error {
	switch {
	case rep.ID != sub.ReportID:
		return fmt.Errorf("%w: report id %s, want %s", ErrVerification, rep.ID, sub.ReportID)
	case rep.Status != completeStatus:
		return fmt.Errorf("%w: status %s with %d failures", ErrVerification, rep.Status, len(rep.Failures))
	case rep.Expected != sub.Jobs || rep.Completed != sub.Jobs:
		return fmt.Errorf("%w: %d/%d cohorts, submitted %d jobs", ErrVerification, rep.Completed, rep.Expected, sub.Jobs)
	}
	return nil
}

// saveLeague writes the generated league as indented JSON.
func saveLeague(ctx context.Context, filename string, l *batch.League) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal league: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write league: %w", err)
	}
	logger.Get().Info(ctx, "league saved to file", logger.String("filename", filename))
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var jobsPerSecond float64
	if stats.Duration > 0 {
		jobsPerSecond = float64(stats.Completed) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.String("reportID", stats.ReportID),
		logger.String("status", stats.Status),
		logger.Int("players", stats.Players),
		logger.Int("managers", stats.Managers),
		logger.Int("jobs", stats.Jobs),
		logger.Int("completed", stats.Completed),
		logger.Int("failures", stats.Failures),
		logger.Int("polls", stats.Polls),
		logger.Duration("duration", stats.Duration),
		logger.Float64("jobsPerSecond", jobsPerSecond))
}
