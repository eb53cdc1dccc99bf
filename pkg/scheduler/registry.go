package scheduler

import (
	"sort"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/pkg/errors"
)

// Registry holds the engine's schedulers keyed by job name and drives their
// shared lifecycle.
type Registry struct {
	schedulers map[string]*Scheduler
}

func NewRegistry() *Registry {
	return &Registry{schedulers: make(map[string]*Scheduler)}
}

func (r *Registry) Register(s *Scheduler) {
	r.schedulers[s.Name()] = s
}

func (r *Registry) Get(name string) (*Scheduler, error) {
	s, ok := r.schedulers[name]
	if !ok {
		return nil, errors.NewNotFound("scheduler", nil)
	}
	return s, nil
}

// StartAll starts every registered scheduler.
func (r *Registry) StartAll() {
	for _, s := range r.schedulers {
		s.Start()
	}
}

// StopAll stops every registered scheduler and waits for their loops.
func (r *Registry) StopAll() {
	for _, s := range r.schedulers {
		s.Stop()
	}
}

// Statuses returns all scheduler statuses sorted by job name.
func (r *Registry) Statuses() []model.SchedulerStatus {
	out := make([]model.SchedulerStatus, 0, len(r.schedulers))
	for _, s := range r.schedulers {
		out = append(out, s.Status())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
