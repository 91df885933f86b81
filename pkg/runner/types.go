package runner

import (
	"context"

	"github.com/deepfence/IntelSync/pkg/output"
	"github.com/deepfence/IntelSync/pkg/threatintel"
	"github.com/deepfence/IntelSync/pkg/yararules"
)

// FeedFetcher is what the updater needs from threatintel.Fetcher.
type FeedFetcher interface {
	Aggregate(ctx context.Context, sources []threatintel.FeedSource) (threatintel.HashSet, error)
	FetchRules(ctx context.Context, src threatintel.FeedSource, dir string) (int, error)
}

type RuleVerifier func(rulesPath string, extensions []string, failOnCompileWarning bool) (yararules.VerifyResult, error)

// Request is the caller's intent for one sync.
type Request struct {
	ForceBaseline        bool
	Volatile             bool
	Rules                bool
	VerifyRules          bool
	FailOnCompileWarning bool
}

type ReportWriter interface {
	WriteJSON() error
	WriteTable() error
	Err() error
}

var _ ReportWriter = &output.SyncReport{}
