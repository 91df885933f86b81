// Package store writes the on-disk caches read by the scan engine.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/deepfence/IntelSync/constants"
	"github.com/deepfence/IntelSync/utils"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ErrIO wraps every local filesystem failure.
var ErrIO = errors.New("io error")

// PersistHashes replaces path with the sorted records of set, one per line.
// Records carrying the comment marker are dropped. The file is written next to
// path and renamed over it, so readers see either the old or the new list.
func PersistHashes(set map[string]struct{}, path string) (int, error) {
	records := lo.Filter(lo.Keys(set), func(r string, _ int) bool {
		return r != "" && !strings.Contains(r, constants.CommentMarker)
	})
	slices.Sort(records)

	err := writeAtomic(path, func(w *bufio.Writer) error {
		for _, r := range records {
			if _, err := w.WriteString(r); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug().Str("path", path).Int("records", len(records)).Msg("hash cache written")
	return len(records), nil
}

// RuleFile is one rule file taken out of a bundle, directory prefix removed.
type RuleFile struct {
	Name    string
	Content []byte
}

// WriteRuleFile stores rule as dir/<rule.Name>, overwriting any file of that
// name.
func WriteRuleFile(dir string, rule RuleFile) error {
	if rule.Name == "" || rule.Name == "." || rule.Name == ".." || strings.ContainsAny(rule.Name, `/\`) {
		return fmt.Errorf("%w: invalid rule file name %q", ErrIO, rule.Name)
	}
	return writeAtomic(filepath.Join(dir, rule.Name), func(w *bufio.Writer) error {
		_, err := w.Write(rule.Content)
		return err
	})
}

func writeAtomic(path string, fill func(w *bufio.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmpName := base + ".tmp"
	tmp, err := utils.CreateFile(dir, tmpName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	err = fill(w)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if runtime.GOOS != "windows" {
			os.Remove(tmpPath)
			return fmt.Errorf("%w: replacing %s: %w", ErrIO, path, err)
		}
		_ = os.Remove(path)
		if err := os.Rename(tmpPath, path); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("%w: replacing %s: %w", ErrIO, path, err)
		}
	}
	return nil
}
