package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/deepfence/IntelSync/constants"
	"github.com/deepfence/IntelSync/pkg/jobs"
	"github.com/deepfence/IntelSync/pkg/output"
	"github.com/deepfence/IntelSync/pkg/store"
	"github.com/deepfence/IntelSync/pkg/threatintel"
	"github.com/deepfence/IntelSync/pkg/yararules"
	"github.com/deepfence/IntelSync/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Updater struct {
	registry       *threatintel.Registry
	fetcher        FeedFetcher
	hashesPath     string
	rulesPath      string
	ruleExtensions []string
	verify         RuleVerifier
}

// NewUpdater uses ruleExtensions to find the extracted rule files again when
// listing and verifying the rule directory; it must match the fetcher's.
func NewUpdater(registry *threatintel.Registry, fetcher FeedFetcher, hashesPath, rulesPath string, ruleExtensions []string) *Updater {
	if len(ruleExtensions) == 0 {
		ruleExtensions = constants.RuleExtensions
	}
	return &Updater{
		registry:       registry,
		fetcher:        fetcher,
		hashesPath:     hashesPath,
		rulesPath:      rulesPath,
		ruleExtensions: ruleExtensions,
		verify:         yararules.Verify,
	}
}

func (u *Updater) BaselinePath() string {
	return filepath.Join(u.hashesPath, constants.BaselineHashesFile)
}

func (u *Updater) VolatilePath() string {
	return filepath.Join(u.hashesPath, constants.VolatileHashesFile)
}

func (u *Updater) RulesPath() string {
	return u.rulesPath
}

// Sync runs the requested refreshes. The baseline list is only fetched when
// missing or forced, and always finishes before the volatile list starts.
// Each category fails on its own; a failed category keeps its old cache.
func (u *Updater) Sync(ctx context.Context, req Request) output.SyncReport {
	report := output.SyncReport{SyncID: uuid.New().String()}
	report.SetTime()

	if req.ForceBaseline || !utils.PathExists(u.BaselinePath()) {
		report.Add(u.syncHashes(ctx, threatintel.Baseline, u.BaselinePath()))
	} else {
		log.Info().Str("path", u.BaselinePath()).Msg("baseline hashes present, skipping")
		report.Add(output.CategoryResult{
			Category: string(threatintel.Baseline),
			Status:   output.StatusSkipped,
			Target:   u.BaselinePath(),
		})
	}

	if req.Volatile {
		report.Add(u.syncHashes(ctx, threatintel.Volatile, u.VolatilePath()))
	}

	if req.Rules {
		report.Add(u.syncRules(ctx, req))
	}

	return report
}

func (u *Updater) syncHashes(ctx context.Context, category threatintel.Category, target string) output.CategoryResult {
	start := time.Now()
	sources := u.registry.Sources(category)
	res := output.CategoryResult{
		Category: string(category),
		Target:   target,
		Sources:  len(sources),
	}

	if len(sources) == 0 {
		log.Warn().Str("category", string(category)).Msg("no feeds configured, skipping")
		res.Status = output.StatusSkipped
		return res
	}

	log.Info().Str("category", string(category)).Int("sources", len(sources)).Msg("refreshing hashes")

	set, err := u.fetcher.Aggregate(ctx, sources)
	if err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("hash sync failed, keeping previous list")
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	n, err := store.PersistHashes(set, target)
	res.Duration = time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("path", target).Msg("failed to write hashes")
		res.Err = err
		return res
	}

	log.Info().Str("category", string(category)).Int("records", n).Str("path", target).Msg("hashes updated")
	res.Status = output.StatusUpdated
	res.Records = n
	return res
}

// syncRules extracts the bundles one after the other in configured order,
// which makes the last configured bundle win on basename collisions.
func (u *Updater) syncRules(ctx context.Context, req Request) output.CategoryResult {
	start := time.Now()
	sources := u.registry.Sources(threatintel.RuleBundle)
	res := output.CategoryResult{
		Category: string(threatintel.RuleBundle),
		Target:   u.rulesPath,
		Sources:  len(sources),
	}

	if len(sources) == 0 {
		log.Warn().Msg("no rule bundles configured, skipping")
		res.Status = output.StatusSkipped
		return res
	}

	var errs []error
	for _, src := range sources {
		n, err := u.fetcher.FetchRules(ctx, src, u.rulesPath)
		res.Records += n
		if err != nil {
			log.Error().Err(err).Str("feed", src.String()).Msg("rule bundle sync failed")
			errs = append(errs, err)
		}
	}

	if res.Records > 0 {
		u.logInventory()
	}

	if len(errs) == 0 && req.VerifyRules {
		vr, err := u.verify(u.rulesPath, u.ruleExtensions, req.FailOnCompileWarning)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule verification: %w", err))
		} else {
			log.Info().Int("files", vr.Files).Int("rules", vr.Rules).Int("warnings", vr.Warnings).Msg("rule directory compiles")
		}
	}

	res.Duration = time.Since(start)
	res.Err = errors.Join(errs...)
	if res.Err == nil {
		res.Status = output.StatusUpdated
	}
	return res
}

func (u *Updater) logInventory() {
	infos, err := yararules.Inventory(u.rulesPath, u.ruleExtensions)
	if err != nil {
		log.Warn().Err(err).Str("dir", u.rulesPath).Msg("failed to list rule directory")
		return
	}
	rules, broken := yararules.CountRules(infos)
	log.Info().Int("files", len(infos)).Int("rules", rules).Int("unparsable", broken).Msg("rule directory inventory")
}

// Schedule repeats req every interval until ctx is done. A forced baseline
// refresh only applies to the first run; later runs fetch the baseline again
// only if its file went missing.
func (u *Updater) Schedule(ctx context.Context, req Request, interval time.Duration, statusLog string, onReport func(output.SyncReport)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report := u.runTracked(ctx, req, statusLog)
		if onReport != nil {
			onReport(report)
		}
		req.ForceBaseline = false

		select {
		case <-ctx.Done():
			log.Info().Msg("updater stopped")
			return
		case t := <-ticker.C:
			log.Debug().Time("tick", t).Msg("scheduled sync")
		}
	}
}

func (u *Updater) runTracked(ctx context.Context, req Request, statusLog string) output.SyncReport {
	syncID := uuid.New().String()
	res, done := jobs.StartStatusReporter(ctx, statusLog, syncID)
	report := u.Sync(ctx, req)
	report.SyncID = syncID
	res <- report.Err()
	close(res)
	<-done
	return report
}
