package jobs

import (
	"context"
	"time"

	"github.com/deepfence/IntelSync/pkg/output"
)

var statusInterval = 30 * time.Second

// StartStatusReporter marks syncID as running and writes an IN_PROGRESS line
// to statusLog periodically. The caller sends the sync outcome (nil on
// success) on the returned channel; the final status line follows it.
func StartStatusReporter(ctx context.Context, statusLog, syncID string) (chan<- error, <-chan struct{}) {
	res := make(chan error, 1)
	done := make(chan struct{})
	startSyncJob()
	output.WriteSyncStatus(statusLog, output.SyncInProgress, syncID, "")
	go func() {
		defer close(done)
		defer stopSyncJob()
		var err, abort error
		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
	loop:
		for {
			select {
			case err = <-res:
				break loop
			case <-ctx.Done():
				abort = ctx.Err()
				break loop
			case <-ticker.C:
				output.WriteSyncStatus(statusLog, output.SyncInProgress, syncID, "")
			}
		}
		if abort != nil {
			output.WriteSyncStatus(statusLog, output.SyncCancelled, syncID, abort.Error())
			return
		}
		if err != nil {
			output.WriteSyncStatus(statusLog, output.SyncError, syncID, err.Error())
			return
		}
		output.WriteSyncStatus(statusLog, output.SyncComplete, syncID, "")
	}()
	return res, done
}
