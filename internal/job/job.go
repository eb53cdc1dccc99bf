// Package job implements the periodic reminder scans. Each job reads due
// work from the repositories, groups it per recipient, applies cooldowns
// from the tracking records, and hands notifications to the dispatcher.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/internal/repository"
)

// Tracking domains. One cooldown namespace per reminder kind so a due-soon
// nudge never suppresses an overdue escalation.
const (
	domainNoteDueSoon             = "note_due_soon"
	domainNoteOverdue             = "note_overdue"
	domainNoteCosign              = "note_cosign"
	domainTreatmentPlan           = "treatment_plan"
	domainTreatmentPlanSupervisor = "treatment_plan_supervisor"
)

const (
	staffCacheTTL     = 5 * time.Minute
	staffCacheCleanup = 10 * time.Minute
)

// staffDirectory caches staff rows for the filtering the jobs do between
// runs (active flags, supervisor links). Contact details and notification
// preferences are still resolved fresh by the dispatcher on every send; the
// cache only short-circuits repeated grouping lookups within a scan cycle.
type staffDirectory struct {
	repo  repository.StaffRepository
	cache *gocache.Cache
}

func newStaffDirectory(repo repository.StaffRepository) *staffDirectory {
	return &staffDirectory{
		repo:  repo,
		cache: gocache.New(staffCacheTTL, staffCacheCleanup),
	}
}

// warm batch-loads any uncached ids in one query before a grouping pass.
// Ids the query does not return, and warm failures, fall back to the
// per-ID lookup in Get.
func (d *staffDirectory) warm(ctx context.Context, ids []uuid.UUID) error {
	missing := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := d.cache.Get(id.String()); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	staff, err := d.repo.ListByIDs(ctx, missing)
	if err != nil {
		return err
	}
	for _, s := range staff {
		d.cache.Set(s.ID.String(), s, gocache.DefaultExpiration)
	}
	return nil
}

func (d *staffDirectory) Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	key := id.String()
	if cached, ok := d.cache.Get(key); ok {
		return cached.(*model.StaffMember), nil
	}

	staff, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Set(key, staff, gocache.DefaultExpiration)
	return staff, nil
}

func runError(id uuid.UUID, err error) model.RunError {
	return model.RunError{ID: id.String(), Error: err.Error()}
}

func runErrorf(id uuid.UUID, format string, args ...interface{}) model.RunError {
	return model.RunError{ID: id.String(), Error: fmt.Sprintf(format, args...)}
}
