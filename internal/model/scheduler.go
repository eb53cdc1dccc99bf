package model

import "time"

// RunError records one failed recipient within a job run.
type RunError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// SchedulerRunResult summarizes one job execution. Total always equals
// Sent + Failed + Skipped.
type SchedulerRunResult struct {
	Total    int           `json:"total"`
	Sent     int           `json:"sent"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
	Errors   []RunError    `json:"errors,omitempty"`
}

// Merge folds another result into r.
func (r *SchedulerRunResult) Merge(other *SchedulerRunResult) {
	if other == nil {
		return
	}
	r.Total += other.Total
	r.Sent += other.Sent
	r.Failed += other.Failed
	r.Skipped += other.Skipped
	r.Errors = append(r.Errors, other.Errors...)
}

// SchedulerStatus is a point-in-time view of one job's scheduler.
type SchedulerStatus struct {
	Name          string              `json:"name"`
	Running       bool                `json:"running"`
	Processing    bool                `json:"processing"`
	LastRunAt     *time.Time          `json:"last_run_at,omitempty"`
	LastRunResult *SchedulerRunResult `json:"last_run_result,omitempty"`
}
