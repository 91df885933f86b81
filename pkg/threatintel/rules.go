package threatintel

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/deepfence/IntelSync/pkg/store"
	"github.com/rs/zerolog/log"
)

// FetchRules extracts every rule member of the bundle at src into dir.
// Members are written in archive order, so a basename seen twice keeps the
// content of its last occurrence. Files written before a failure stay on disk.
func (f *Fetcher) FetchRules(ctx context.Context, src FeedSource, dir string) (int, error) {
	body, _, err := download(ctx, f.client, src.URL)
	if err != nil {
		return 0, fmt.Errorf("fetch rules %s: %w", src, err)
	}

	written := 0
	err = WalkArchive(body, func(name string, r io.Reader) error {
		if !f.isRuleFile(name) {
			return nil
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("%w: reading %s: %w", ErrArchive, name, err)
		}
		if err := store.WriteRuleFile(dir, store.RuleFile{Name: RuleBasename(name), Content: content}); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("fetch rules %s: %w", src, err)
	}

	log.Info().Str("feed", src.String()).Int("rule_files", written).Str("dir", dir).Msg("rule bundle extracted")
	return written, nil
}

func (f *Fetcher) isRuleFile(name string) bool {
	for _, ext := range f.ruleExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// RuleBasename strips any directory prefix from an archive member name.
func RuleBasename(name string) string {
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}
