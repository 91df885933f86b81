package jobs

import "sync/atomic"

var (
	runningJobsNum atomic.Int32
)

func startSyncJob() {
	runningJobsNum.Add(1)
}

func stopSyncJob() {
	runningJobsNum.Add(-1)
}

func GetRunningJobCount() int32 {
	return runningJobsNum.Load()
}
