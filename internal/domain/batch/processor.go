package batch

import (
	"context"
	"fmt"

	"github.com/okian/kickbase-analytics/internal/domain/cohort"
	"github.com/okian/kickbase-analytics/internal/domain/forecast"
	"github.com/okian/kickbase-analytics/internal/domain/model"
	"github.com/okian/kickbase-analytics/internal/domain/performance"
	"github.com/okian/kickbase-analytics/internal/domain/portfolio"
	"github.com/okian/kickbase-analytics/internal/domain/ranking"
	"github.com/okian/kickbase-analytics/internal/domain/regression"
	"github.com/okian/kickbase-analytics/internal/domain/similarity"
)

const defaultPicks = 5

// Outlook is a player's value direction and where the forecast ends.
type Outlook struct {
	PlayerID string                  `json:"player_id"`
	Trends   performance.ValueTrends `json:"trends"`
	Trend    forecast.Trend          `json:"trend"`
	End      forecast.Point          `json:"end"`
}

// PositionResult is the analytics of one position cohort.
type PositionResult struct {
	Position     model.Position                `json:"position"`
	Stats        cohort.Stats                  `json:"stats"`
	Regression   regression.Model              `json:"regression"`
	OverPerform  []regression.Residual         `json:"over_performers"`
	UnderPerform []regression.Residual         `json:"under_performers"`
	Rankings     []ranking.Entry               `json:"rankings"`
	Alternatives map[string][]similarity.Match `json:"alternatives"`
	Outlook      []Outlook                     `json:"outlook"`
}

// Result is the output of one job.
type Result struct {
	JobID    string            `json:"job_id"`
	ReportID string            `json:"report_id"`
	Cohort   string            `json:"cohort"`
	Position *PositionResult   `json:"position,omitempty"`
	Manager  *portfolio.Report `json:"manager,omitempty"`
}

// Processor computes job results. It holds configuration only.
type Processor struct {
	metric       performance.Metric
	horizon      int
	similarLimit int
	picks        int
	analyzer     *portfolio.Analyzer
}

// NewProcessor creates a Processor.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		metric:       performance.MetricAvgPoints,
		horizon:      forecast.DefaultHorizon,
		similarLimit: similarity.DefaultLimit,
		picks:        defaultPicks,
		analyzer:     portfolio.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process computes one job. It returns early if ctx is already done.
func (p *Processor) Process(ctx context.Context, j *Job) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("process %s: %w", j.Cohort(), err)
	}
	res := Result{JobID: j.ID, ReportID: j.ReportID, Cohort: j.Cohort()}

	switch j.Kind {
	case KindPosition:
		res.Position = p.position(j.League, j.Position)
	case KindManager:
		m, ok := findManager(j.League, j.ManagerID)
		if !ok {
			return Result{}, fmt.Errorf("process %s: %w", j.Cohort(), ErrNoSuchTarget)
		}
		r := p.analyzer.Analyze(m, model.Index(j.League.Players))
		res.Manager = &r
	default:
		return Result{}, fmt.Errorf("process %q: %w", j.Kind, ErrUnknownKind)
	}
	return res, nil
}

func (p *Processor) position(l *League, pos model.Position) *PositionResult {
	players := cohort.Scope(l.Players, pos)
	points := regression.PointsFor(players, p.metric)
	fit := regression.Fit(points)
	residuals := regression.Residuals(points, fit)

	n := min(p.picks, len(residuals))
	under := make([]regression.Residual, n)
	for i := range n {
		under[i] = residuals[len(residuals)-1-i]
	}

	out := &PositionResult{
		Position:     pos,
		Regression:   fit,
		OverPerform:  residuals[:n],
		UnderPerform: under,
		Rankings:     ranking.Table(players, p.metric, pos),
		Alternatives: make(map[string][]similarity.Match, n),
		Outlook:      make([]Outlook, 0, len(players)),
	}
	if stats := cohort.PositionStats(players); len(stats) == 1 {
		out.Stats = stats[0]
	}

	top := out.Rankings[:min(p.picks, len(out.Rankings))]
	byID := model.Index(players)
	for _, e := range top {
		out.Alternatives[e.PlayerID] = similarity.Find(byID[e.PlayerID], players, p.similarLimit)
	}

	for i := range players {
		pl := &players[i]
		if len(pl.Values) == 0 {
			continue
		}
		tr := performance.Trends(pl.Values, l.AsOf)
		trend := forecast.TrendOf(tr)
		series := forecast.New(tr.Value, trend, l.AsOf, p.horizon)
		out.Outlook = append(out.Outlook, Outlook{
			PlayerID: pl.ID,
			Trends:   tr,
			Trend:    trend,
			End:      series.At(series.Len()),
		})
	}
	return out
}

func findManager(l *League, id string) (*model.ManagerPortfolio, bool) {
	for i := range l.Managers {
		if l.Managers[i].ManagerID == id {
			return &l.Managers[i], true
		}
	}
	return nil, false
}
