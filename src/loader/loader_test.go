package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/bsm/src/logger"
	"github.com/username/bsm/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func writeTestFile(t *testing.T, records []models.LoanRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loan_data.parquet")
	require.NoError(t, parquet.WriteFile(path, records))
	return path
}

func testRecords() []models.LoanRecord {
	return []models.LoanRecord{
		{
			Date:         time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			FacilityID:   "F0001",
			CustomerName: "Acme Industrials",
			Franchise:    "Corporate",
			Sector:       "Manufacturing",
			Product:      "Term Loan",
			CreditRating: "BBB",
			Balance:      1_000_000,
			Margin:       0.015,
		},
		{
			Date:         time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			FacilityID:   "F0002",
			CustomerName: "Beta Retail",
			Franchise:    "Commercial",
			Sector:       "Retail",
			Product:      "RCF",
			CreditRating: "BB",
			Balance:      250_000,
			Margin:       0.021,
		},
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	l := New(filepath.Join(t.TempDir(), "absent.parquet"))
	table, status := l.Load()

	require.NotNil(t, table)
	assert.Empty(t, table)
	assert.False(t, status.Loaded)
	assert.Contains(t, status.Message, "not found")
	assert.Contains(t, status.Message, "absent.parquet")
}

func TestLoadReadsRecords(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, testRecords())
	l := New(path)

	table, status := l.Load()
	require.True(t, status.Loaded)
	require.Len(t, table, 2)

	assert.Equal(t, "F0001", table[0].FacilityID)
	assert.Equal(t, "2025-01", models.MonthKey(table[0].Date))
	assert.Equal(t, "2025-02", models.MonthKey(table[1].Date))
	assert.InDelta(t, 1_000_000, table[0].Balance, 1e-9)
}

func TestLoadIsMemoized(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, testRecords())
	l := New(path)

	first, status := l.Load()
	require.True(t, status.Loaded)
	require.Len(t, first, 2)

	// Deleting the file must not matter once the table is in memory.
	require.NoError(t, os.Remove(path))

	second, status := l.Load()
	assert.True(t, status.Loaded)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].FacilityID, second[0].FacilityID)
}

func TestLoadFailureIsMemoizedToo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "loan_data.parquet")
	l := New(path)

	_, status := l.Load()
	require.False(t, status.Loaded)

	// Creating the file afterwards does not trigger a re-read; the load
	// happens at most once per process lifetime.
	require.NoError(t, parquet.WriteFile(path, testRecords()))
	table, status := l.Load()
	assert.False(t, status.Loaded)
	assert.Empty(t, table)
}

func TestClassifyCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loan_data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("not a parquet file"), 0o644))

	table, status := New(path).Load()
	assert.Empty(t, table)
	assert.False(t, status.Loaded)
	assert.NotEmpty(t, status.Message)
}
