// backend/src/loader/loader.go
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/username/bsm/src/logger"
	"github.com/username/bsm/src/models"
)

// Status reports the outcome of the one-time data load. When Loaded is false,
// Message carries the user-facing explanation and the table is empty.
type Status struct {
	Loaded  bool   `json:"loaded"`
	Message string `json:"message,omitempty"`
}

// Loader reads the loan data file exactly once per process lifetime and
// memoizes the result. Safe for concurrent use; the first caller performs the
// read, later callers get the same in-memory table.
type Loader struct {
	path   string
	once   sync.Once
	table  models.LoanTable
	status Status
}

// New returns a Loader for the given parquet file path. The file is not
// touched until the first Load call.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the memoized loan table and its load status. Failures never
// propagate as errors; callers always receive a usable (possibly empty)
// table and degrade from the status message.
func (l *Loader) Load() (models.LoanTable, Status) {
	l.once.Do(l.read)
	return l.table, l.status
}

func (l *Loader) read() {
	rows, err := parquet.ReadFile[models.LoanRecord](l.path)
	if err != nil {
		l.table = models.LoanTable{}
		l.status = Status{Loaded: false, Message: classifyLoadError(l.path, err)}
		logger.L.Error("Failed to load loan data", "path", l.path, "error", err)
		return
	}

	// Normalize timestamps so month bucketing is not sensitive to the
	// file's timezone encoding.
	for i := range rows {
		rows[i].Date = rows[i].Date.UTC()
	}

	l.table = models.LoanTable(rows)
	l.status = Status{Loaded: true}
	logger.L.Info("Loan data loaded", "path", l.path, "rows", len(rows))
}

func classifyLoadError(path string, err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("Data file not found at %q. Ensure the data directory exists and contains loan_data.parquet; you may need to run the data generation script first.", path)
	case isDecodeError(err):
		return fmt.Sprintf("The data file at %q uses an encoding this build cannot decode: %v", path, err)
	default:
		return fmt.Sprintf("An error occurred loading the data file: %v", err)
	}
}

// isDecodeError spots failures caused by an unsupported codec or a malformed
// parquet layout rather than plain I/O trouble.
func isDecodeError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"codec", "compression", "unsupported", "invalid magic", "corrupted"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
