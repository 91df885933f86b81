package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tw "github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

const (
	Indent = "  " // Indentation for Json printing
)

// category status
const (
	StatusUpdated = "updated"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// sync status lines
const (
	SyncInProgress = "IN_PROGRESS"
	SyncComplete   = "COMPLETE"
	SyncError      = "ERROR"
	SyncCancelled  = "CANCELLED"
)

type CategoryResult struct {
	Category string        `json:"category"`
	Status   string        `json:"status"`
	Target   string        `json:"target,omitempty"`
	Sources  int           `json:"sources"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

func (r CategoryResult) Failed() bool {
	return r.Status == StatusFailed
}

type SyncReport struct {
	SyncID    string           `json:"sync_id"`
	Timestamp time.Time        `json:"timestamp"`
	Results   []CategoryResult `json:"results"`
}

func (report *SyncReport) SetTime() {
	report.Timestamp = time.Now()
}

func (report *SyncReport) Add(r CategoryResult) {
	if r.Err != nil {
		r.Status = StatusFailed
		r.Error = r.Err.Error()
	}
	report.Results = append(report.Results, r)
}

// Err joins the errors of every failed category.
func (report *SyncReport) Err() error {
	var errs []error
	for _, r := range report.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Category, r.Err))
		}
	}
	return errors.Join(errs...)
}

func (report SyncReport) WriteJSON() error {
	return printJSON(os.Stdout, report)
}

func (report SyncReport) WriteTable() error {
	return WriteTableOutput(os.Stdout, report.Results)
}

func printJSON(w io.Writer, v interface{}) error {
	file, err := json.MarshalIndent(v, "", Indent)
	if err != nil {
		log.Error().Err(err).Msg("printJSON: Couldn't format json output")
		return err
	}

	fmt.Fprintln(w, string(file))

	return nil
}

func WriteTableOutput(w io.Writer, results []CategoryResult) error {
	table := tw.NewWriter(w)
	table.Header("Category", "Status", "Sources", "Records", "Duration", "Error")

	for _, r := range results {
		table.Append(r.Category, r.Status, strconv.Itoa(r.Sources), strconv.Itoa(r.Records), r.Duration.Round(time.Millisecond).String(), r.Error)
	}
	return table.Render()
}

func writeToFile(msg string, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	msg = strings.ReplaceAll(msg, "\n", " ")
	if _, err = f.WriteString(msg + "\n"); err != nil {
		return err
	}
	return nil
}

// WriteSyncStatus appends one json status line for syncID to filename.
// An empty filename disables status logging.
func WriteSyncStatus(filename, status, syncID, message string) {
	if filename == "" {
		return
	}
	var syncLogDoc = make(map[string]interface{})
	syncLogDoc["sync_id"] = syncID
	syncLogDoc["sync_status"] = status
	syncLogDoc["sync_message"] = message
	syncLogDoc["timestamp"] = time.Now().UTC().Format("2006-01-02T15:04:05.000") + "Z"

	byteJSON, err := json.Marshal(syncLogDoc)
	if err != nil {
		log.Error().Err(err).Msg("Error marshalling json for sync status")
		return
	}

	err = writeToFile(string(byteJSON), filename)
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Error writing sync status")
		return
	}
}
