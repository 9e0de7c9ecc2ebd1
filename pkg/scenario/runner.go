package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/zen-systems/routesim/pkg/router"
)

// Result captures the outcome of one replayed case.
type Result struct {
	Case     *Case
	Decision *router.Decision
	Err      error
	Passed   bool
	Failure  string
}

// Report summarizes a scenario replay.
type Report struct {
	Scenario     *Scenario
	Results      []Result
	Passed       int
	Failed       int
	Errors       int
	MethodCounts map[router.Method]int
}

// Accuracy returns the fraction of non-errored cases that met their
// expectations. Cases without expectations count as passed.
func (r *Report) Accuracy() float64 {
	checked := len(r.Results) - r.Errors
	if checked == 0 {
		return 0
	}
	return float64(r.Passed) / float64(checked)
}

// Run replays every case of a scenario through one simulator instance.
// Synthetic failures are recorded per case, not fatal; any other error
// aborts the run.
func Run(ctx context.Context, sc *Scenario, svc *router.Service) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		Scenario:     sc,
		MethodCounts: make(map[router.Method]int),
	}

	for _, c := range sc.Cases {
		var rctx *router.RequestContext
		if c.PreviousAgent != "" {
			rctx = &router.RequestContext{PreviousAgent: router.Agent(c.PreviousAgent)}
		}

		decision, err := svc.Simulate(ctx, c.Query, rctx)
		if err != nil {
			if errors.Is(err, router.ErrUnavailable) {
				report.Errors++
				report.Results = append(report.Results, Result{Case: c, Err: err})
				continue
			}
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}

		result := Result{Case: c, Decision: decision}
		result.Passed, result.Failure = check(c.Expect, decision)
		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		report.MethodCounts[decision.Method]++
		report.Results = append(report.Results, result)
	}

	return report, nil
}

// check evaluates a case expectation against a decision.
func check(expect *Expectation, d *router.Decision) (bool, string) {
	if expect == nil {
		return true, ""
	}
	if expect.Agent != "" && string(d.SelectedAgent) != expect.Agent {
		return false, fmt.Sprintf("expected agent %s, got %s", expect.Agent, d.SelectedAgent)
	}
	if expect.MinConfidence > 0 && d.Confidence < expect.MinConfidence {
		return false, fmt.Sprintf("confidence %.2f below %.2f", d.Confidence, expect.MinConfidence)
	}
	if expect.Method != "" && string(d.Method) != expect.Method {
		return false, fmt.Sprintf("expected method %s, got %s", expect.Method, d.Method)
	}
	return true, ""
}
