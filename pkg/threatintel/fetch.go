package threatintel

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deepfence/IntelSync/constants"
	"github.com/rs/zerolog/log"
)

var maxLineSize = 16 * 1024 * 1024

type Fetcher struct {
	client         *http.Client
	ruleExtensions []string
}

// NewFetcher wraps a shared client. The client is only read by fetches so
// one Fetcher may serve any number of concurrent calls.
func NewFetcher(client *http.Client, ruleExtensions []string) *Fetcher {
	if client == nil {
		client = NewHTTPClient(0)
	}
	if len(ruleExtensions) == 0 {
		ruleExtensions = constants.RuleExtensions
	}
	return &Fetcher{client: client, ruleExtensions: ruleExtensions}
}

// Fetch downloads one hash feed and returns its distinct non-empty lines.
// Nothing is returned on error, even if part of the body was parsed.
func (f *Fetcher) Fetch(ctx context.Context, src FeedSource) (HashSet, error) {
	body, contentType, err := download(ctx, f.client, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}

	set := NewHashSet()
	format := Classify(src.Kind, contentType, body)

	switch format {
	case Archive:
		err = WalkArchive(body, func(name string, r io.Reader) error {
			if err := readLines(r, set); err != nil {
				return fmt.Errorf("%w: reading %s: %w", ErrArchive, name, err)
			}
			return nil
		})
	default:
		if err = readLines(bytes.NewReader(body), set); err != nil {
			err = fmt.Errorf("%w: reading body: %w", ErrNetwork, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}

	log.Debug().Str("feed", src.String()).Str("format", format.String()).Int("records", set.Len()).Msg("feed fetched")
	return set, nil
}

func readLines(r io.Reader, set HashSet) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			set.Add(line)
		}
	}
	return scanner.Err()
}
