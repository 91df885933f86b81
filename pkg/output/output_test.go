package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncReport(t *testing.T) {
	report := SyncReport{SyncID: "abc"}
	report.SetTime()
	report.Add(CategoryResult{Category: "baseline", Status: StatusSkipped})
	report.Add(CategoryResult{Category: "volatile", Status: StatusUpdated, Records: 3})
	report.Add(CategoryResult{Category: "rule-bundle", Err: errors.New("boom")})

	assert.False(t, report.Timestamp.IsZero())
	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[2].Failed())
	assert.Equal(t, "boom", report.Results[2].Error)

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule-bundle: boom")
}

func TestSyncReportNoErrors(t *testing.T) {
	report := SyncReport{}
	report.Add(CategoryResult{Category: "volatile", Status: StatusUpdated})
	assert.NoError(t, report.Err())
}

func TestWriteTableOutput(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTableOutput(&buf, []CategoryResult{
		{Category: "volatile", Status: StatusUpdated, Sources: 6, Records: 1234},
	})
	require.NoError(t, err)
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "VOLATILE")
	assert.Contains(t, out, "1234")
}

func TestWriteSyncStatus(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "log", "sync_status.log")

	WriteSyncStatus(filename, SyncInProgress, "id-1", "")
	WriteSyncStatus(filename, SyncError, "id-1", "line one\nline two")

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var doc map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
	assert.Equal(t, "id-1", doc["sync_id"])
	assert.Equal(t, SyncError, doc["sync_status"])
	assert.Equal(t, "line one\nline two", doc["sync_message"])
}

func TestWriteSyncStatusDisabled(t *testing.T) {
	assert.NotPanics(t, func() {
		WriteSyncStatus("", SyncComplete, "id", "")
	})
}
