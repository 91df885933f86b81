package runner

import (
	"context"
	"time"

	"github.com/deepfence/IntelSync/pkg/config"
	"github.com/deepfence/IntelSync/pkg/output"
	"github.com/deepfence/IntelSync/pkg/threatintel"
	"github.com/rs/zerolog/log"
)

// StartIntelSync wires the updater from opts and config, then either runs one
// sync or keeps syncing every -update-interval. In one-shot mode the joined
// category errors are returned.
func StartIntelSync(ctx context.Context, opts *config.Options, cfg *config.Config) error {
	updater, err := NewUpdaterFromConfig(opts, cfg)
	if err != nil {
		return err
	}

	req := Request{
		ForceBaseline:        *opts.ForceBaseline,
		Volatile:             *opts.Volatile,
		Rules:                *opts.Rules,
		VerifyRules:          *opts.VerifyRules,
		FailOnCompileWarning: *opts.FailOnCompileWarning,
	}

	if *opts.UpdateInterval > 0 {
		log.Info().Dur("interval", *opts.UpdateInterval).Msg("starting scheduled updater")
		updater.Schedule(ctx, req, *opts.UpdateInterval, *opts.StatusLog, func(report output.SyncReport) {
			if err := writeReport(&report, *opts.OutFormat); err != nil {
				log.Error().Err(err).Msg("error while writing report")
			}
		})
		return nil
	}

	report := updater.runTracked(ctx, req, *opts.StatusLog)
	if err := writeReport(&report, *opts.OutFormat); err != nil {
		log.Error().Err(err).Msg("error while writing report")
	}
	return report.Err()
}

func NewUpdaterFromConfig(opts *config.Options, cfg *config.Config) (*Updater, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if opts.HTTPTimeout != nil {
		timeout = *opts.HTTPTimeout
	}
	fetcher := threatintel.NewFetcher(threatintel.NewHTTPClient(timeout), cfg.RuleExtensions)

	hashesPath, rulesPath := opts.Resolve(cfg)
	log.Debug().Str("hashes", hashesPath).Str("rules", rulesPath).Int("feeds", len(registry.All())).Msg("updater configured")

	return NewUpdater(registry, fetcher, hashesPath, rulesPath, cfg.RuleExtensions), nil
}

func writeReport(report ReportWriter, format string) error {
	if format == config.JSONOutput {
		return report.WriteJSON()
	}
	return report.WriteTable()
}
