package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clawbot-dashboard/internal/config"
	"clawbot-dashboard/internal/model"
)

func openTestStore(t *testing.T, keep int) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(DriverSQLite, path, keep, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func cycle(i int) model.CycleRecord {
	return model.CycleRecord{
		ID:           fmt.Sprintf("00000000-0000-0000-0000-%012d", i),
		Trigger:      "timer",
		StartedAt:    time.Date(2023, 11, 14, 13, 30, i, 0, time.UTC),
		Duration:     time.Duration(i+1) * 1500 * time.Microsecond,
		SignalsOK:    true,
		AuditLogOK:   i%2 == 0,
		ComplianceOK: true,
		SignalCount:  i,
		AuditCount:   2 * i,
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Record(ctx, cycle(i)))
	}

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, cycle(2), got[0])
	assert.Equal(t, cycle(1), got[1])
	assert.Equal(t, cycle(0), got[2])
	assert.False(t, got[1].AuditLogOK)
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, cycle(i)))
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, cycle(4).ID, got[0].ID)
	assert.Equal(t, cycle(3).ID, got[1].ID)
}

func TestRecordPrunesToKeep(t *testing.T) {
	s := openTestStore(t, 3)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		require.NoError(t, s.Record(ctx, cycle(i)))
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, cycle(6).ID, got[0].ID)
	assert.Equal(t, cycle(4).ID, got[2].ID)
}

func TestRecordRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t, 0)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, cycle(1)))
	err := s.Record(ctx, cycle(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert refresh cycle")
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(DriverSQLite, path, 0, time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, cycle(1)))
	require.NoError(t, s.Close())

	s, err = Open(DriverSQLite, path, 0, time.Second)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cycle(1), got[0])
}

func TestOpenValidation(t *testing.T) {
	_, err := Open("postgres", "x", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported history driver")

	_, err = Open(DriverSQLite, "  ", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn required")

	_, err = NewStore(config.Config{HistoryDriver: "oracle"})
	require.Error(t, err)
}

func TestNewStoreDefaultsToSQLite(t *testing.T) {
	s, err := NewStore(config.Config{
		HistorySQLitePath: filepath.Join(t.TempDir(), "h.db"),
		HistoryKeep:       10,
	})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, DriverSQLite, s.Driver())
	require.NoError(t, s.Ping(context.Background()))
}

func TestNilStoreClose(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
