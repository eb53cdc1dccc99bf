package job

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/reminder-engine/internal/model"
)

func TestStaffDirectoryWarmBatchesLookups(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	staff := &fakeStaff{staff: map[uuid.UUID]*model.StaffMember{
		a: activeStaff(a),
		b: activeStaff(b),
	}}
	dir := newStaffDirectory(staff)

	require.NoError(t, dir.warm(context.Background(), []uuid.UUID{a, b}))
	assert.Equal(t, 1, staff.listCalls)

	// Warmed entries are served from the cache.
	got, err := dir.Get(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, a, got.ID)
	got, err = dir.Get(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, b, got.ID)
	assert.Zero(t, staff.getCalls)

	// A second warm over the same ids issues no query.
	require.NoError(t, dir.warm(context.Background(), []uuid.UUID{a, b}))
	assert.Equal(t, 1, staff.listCalls)
}

func TestStaffDirectoryWarmMissFallsBackToGet(t *testing.T) {
	known, unknown := uuid.New(), uuid.New()
	staff := &fakeStaff{staff: map[uuid.UUID]*model.StaffMember{known: activeStaff(known)}}
	dir := newStaffDirectory(staff)

	require.NoError(t, dir.warm(context.Background(), []uuid.UUID{known, unknown}))

	_, err := dir.Get(context.Background(), unknown)
	assert.Error(t, err)
	assert.Equal(t, 1, staff.getCalls)
}
