package threatintel

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type Category string

const (
	Baseline   Category = "baseline"
	Volatile   Category = "volatile"
	RuleBundle Category = "rule-bundle"
)

// ContentKind is the configured hint for how a feed body is shaped.
// KindAuto leaves the decision to the response headers.
type ContentKind string

const (
	KindAuto    ContentKind = "auto"
	KindText    ContentKind = "text"
	KindArchive ContentKind = "archive"
)

type FeedSource struct {
	Name     string      `yaml:"name" json:"name"`
	URL      string      `yaml:"url" json:"url" validate:"required,url"`
	Kind     ContentKind `yaml:"kind" json:"kind" validate:"omitempty,oneof=auto text archive"`
	Category Category    `yaml:"category" json:"category" validate:"required,oneof=baseline volatile rule-bundle"`
}

func (s FeedSource) String() string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}

// Registry is the fixed set of feeds a process syncs from.
type Registry struct {
	sources []FeedSource
}

// NewRegistry validates every source and keeps them in the given order.
// Order matters for rule bundles: later sources overwrite earlier ones.
func NewRegistry(sources []FeedSource) (*Registry, error) {
	validate := validator.New()
	kept := make([]FeedSource, 0, len(sources))
	for i, s := range sources {
		if err := validate.Struct(s); err != nil {
			return nil, fmt.Errorf("feed %d (%s): %w", i, s, err)
		}
		if s.Kind == "" {
			s.Kind = KindAuto
		}
		kept = append(kept, s)
	}
	return &Registry{sources: kept}, nil
}

func (r *Registry) Sources(c Category) []FeedSource {
	return lo.Filter(r.sources, func(s FeedSource, _ int) bool {
		return s.Category == c
	})
}

func (r *Registry) All() []FeedSource {
	return append([]FeedSource(nil), r.sources...)
}

// DefaultSources mirrors the abuse.ch / malicious-hash / yara-forge feeds.
func DefaultSources() []FeedSource {
	return []FeedSource{
		{Name: "bazaar-sha256-full", URL: "https://bazaar.abuse.ch/export/txt/sha256/full/", Kind: KindAuto, Category: Baseline},
		{Name: "bazaar-md5-full", URL: "https://bazaar.abuse.ch/export/txt/md5/full/", Kind: KindAuto, Category: Baseline},
		{Name: "bazaar-sha1-full", URL: "https://bazaar.abuse.ch/export/txt/sha1/full/", Kind: KindAuto, Category: Baseline},

		{Name: "malicious-hash-md5", URL: "https://raw.githubusercontent.com/romainmarcoux/malicious-hash/refs/heads/main/full-hash-md5-aa.txt", Kind: KindText, Category: Volatile},
		{Name: "malicious-hash-sha1", URL: "https://raw.githubusercontent.com/romainmarcoux/malicious-hash/refs/heads/main/full-hash-sha1-aa.txt", Kind: KindText, Category: Volatile},
		{Name: "malicious-hash-sha256", URL: "https://raw.githubusercontent.com/romainmarcoux/malicious-hash/refs/heads/main/full-hash-sha256-aa.txt", Kind: KindText, Category: Volatile},
		{Name: "bazaar-sha256-recent", URL: "https://bazaar.abuse.ch/export/txt/sha256/recent/", Kind: KindAuto, Category: Volatile},
		{Name: "bazaar-md5-recent", URL: "https://bazaar.abuse.ch/export/txt/md5/recent/", Kind: KindAuto, Category: Volatile},
		{Name: "bazaar-sha1-recent", URL: "https://bazaar.abuse.ch/export/txt/sha1/recent/", Kind: KindAuto, Category: Volatile},

		{Name: "yara-forge-full", URL: "https://github.com/YARAHQ/yara-forge/releases/latest/download/yara-forge-rules-full.zip", Kind: KindArchive, Category: RuleBundle},
	}
}
