package threatintel

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	zipped := zipBytes(t, member{"a.txt", "h1\n"})

	tests := []struct {
		name        string
		kind        ContentKind
		contentType string
		body        []byte
		expected    Format
	}{
		{"plain text", KindAuto, "text/plain; charset=utf-8", []byte("h1\n"), LineText},
		{"declared zip", KindAuto, "application/zip", zipped, Archive},
		{"declared zip with params", KindAuto, "application/zip; name=full.zip", zipped, Archive},
		{"declared gzip", KindAuto, "application/x-gzip", nil, Archive},
		{"octet stream zip is sniffed", KindAuto, "application/octet-stream", zipped, Archive},
		{"missing type zip is sniffed", KindAuto, "", zipped, Archive},
		{"octet stream text stays text", KindAuto, "application/octet-stream", []byte("h1\nh2\n"), LineText},
		{"text type wins over zip bytes", KindAuto, "text/plain", zipped, LineText},
		{"text hint wins", KindText, "application/zip", zipped, LineText},
		{"archive hint wins", KindArchive, "text/plain", zipped, Archive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.kind, tt.contentType, tt.body))
		})
	}
}

func TestFetchLineText(t *testing.T) {
	srv := feedServer(t, map[string]route{
		"/feed": {contentType: "text/plain", body: []byte("h1\n  h2  \r\n\n#comment\nh1\n\t\nAbC\n")},
	})
	f := NewFetcher(srv.Client(), nil)

	set, err := f.Fetch(context.Background(), FeedSource{URL: srv.URL + "/feed", Kind: KindAuto, Category: Volatile})
	require.NoError(t, err)

	// comment lines are only dropped on persist
	assert.ElementsMatch(t, []string{"h1", "h2", "#comment", "AbC"}, set.Sorted())
}

func TestFetchArchiveUnion(t *testing.T) {
	body := zipBytes(t,
		member{"full/sha256.txt", "a\nb\nc\n"},
		member{"full/md5.txt", "c\nd\n"},
		member{"full/sha1.txt", "a\nd\ne\n\n"},
	)
	srv := feedServer(t, map[string]route{
		"/declared": {contentType: "application/zip", body: body},
		"/sniffed":  {contentType: "application/octet-stream", body: body},
	})
	f := NewFetcher(srv.Client(), nil)

	for _, p := range []string{"/declared", "/sniffed"} {
		set, err := f.Fetch(context.Background(), FeedSource{URL: srv.URL + p, Kind: KindAuto, Category: Baseline})
		require.NoError(t, err, p)
		assert.Equal(t, 5, set.Len(), p)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, set.Sorted(), p)
	}
}

func TestFetchTarGzArchive(t *testing.T) {
	srv := feedServer(t, map[string]route{
		"/feed.tar.gz": {contentType: "application/gzip", body: tarGzBytes(t,
			member{"x/one.txt", "h1\nh2\n"},
			member{"two.txt", "h2\nh3\n"},
		)},
	})
	f := NewFetcher(srv.Client(), nil)

	set, err := f.Fetch(context.Background(), FeedSource{URL: srv.URL + "/feed.tar.gz", Category: Baseline})
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2", "h3"}, set.Sorted())
}

func TestFetchGzipTextFeed(t *testing.T) {
	srv := feedServer(t, map[string]route{
		"/sha256.txt.gz": {contentType: "application/gzip", body: gzipBytes(t, "sha256.txt", "h1\nh2\n\nh1\n")},
		"/sniffed.gz":    {contentType: "application/octet-stream", body: gzipBytes(t, "", "h3\n")},
	})
	f := NewFetcher(srv.Client(), nil)

	set, err := f.Fetch(context.Background(), FeedSource{URL: srv.URL + "/sha256.txt.gz", Category: Volatile})
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, set.Sorted())

	set, err = f.Fetch(context.Background(), FeedSource{URL: srv.URL + "/sniffed.gz", Category: Volatile})
	require.NoError(t, err)
	assert.Equal(t, []string{"h3"}, set.Sorted())
}

func TestFetchLineTooLong(t *testing.T) {
	saved := maxLineSize
	maxLineSize = 1024
	defer func() { maxLineSize = saved }()

	long := strings.Repeat("a", 4096)
	srv := feedServer(t, map[string]route{
		"/text": {contentType: "text/plain", body: []byte("h1\n" + long + "\n")},
		"/zip":  {contentType: "application/zip", body: zipBytes(t, member{"x.txt", long})},
	})
	f := NewFetcher(srv.Client(), nil)

	set, err := f.Fetch(context.Background(), FeedSource{URL: srv.URL + "/text", Category: Volatile})
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Nil(t, set)

	set, err = f.Fetch(context.Background(), FeedSource{URL: srv.URL + "/zip", Category: Volatile})
	assert.ErrorIs(t, err, ErrArchive)
	assert.Nil(t, set)
}

func TestFetchErrors(t *testing.T) {
	srv := feedServer(t, map[string]route{
		"/down":    {status: http.StatusServiceUnavailable, body: []byte("h1\n")},
		"/corrupt": {contentType: "application/zip", body: []byte("PK\x03\x04 definitely not a zip")},
	})
	f := NewFetcher(srv.Client(), nil)

	tests := []struct {
		name     string
		url      string
		expected error
	}{
		{"bad status", srv.URL + "/down", ErrNetwork},
		{"not found", srv.URL + "/missing", ErrNetwork},
		{"corrupt archive", srv.URL + "/corrupt", ErrArchive},
		{"unreachable", "http://127.0.0.1:1/feed", ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := f.Fetch(context.Background(), FeedSource{URL: tt.url, Category: Volatile})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, set)
		})
	}
}

func TestAggregateUnion(t *testing.T) {
	srv := feedServer(t, map[string]route{
		"/one":   {contentType: "text/plain", body: []byte("h1\nh2\n#comment\nh1\n\n")},
		"/two":   {contentType: "text/plain", body: []byte("h3\nh2\n")},
		"/three": {contentType: "application/zip", body: zipBytes(t, member{"x.txt", "h4\nh1\n"})},
	})
	f := NewFetcher(srv.Client(), nil)

	set, err := f.Aggregate(context.Background(), []FeedSource{
		{URL: srv.URL + "/one", Category: Volatile},
		{URL: srv.URL + "/two", Category: Volatile},
		{URL: srv.URL + "/three", Category: Volatile},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"#comment", "h1", "h2", "h3", "h4"}, set.Sorted())
}

func TestAggregateFailsAsWhole(t *testing.T) {
	srv := feedServer(t, map[string]route{
		"/one":   {contentType: "text/plain", body: []byte("h1\n")},
		"/two":   {status: http.StatusInternalServerError},
		"/three": {contentType: "text/plain", body: []byte("h3\n")},
	})
	f := NewFetcher(srv.Client(), nil)

	set, err := f.Aggregate(context.Background(), []FeedSource{
		{URL: srv.URL + "/one", Category: Volatile},
		{URL: srv.URL + "/two", Category: Volatile},
		{URL: srv.URL + "/three", Category: Volatile},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Nil(t, set)
}

func TestAggregateNoSources(t *testing.T) {
	set, err := NewFetcher(nil, nil).Aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}
