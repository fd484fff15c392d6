package source_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geappliances/erdgen/internal/codegen/source"
)

var testDoc = source.Document{Name: "doc.json"}

func writeDoc(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, testDoc.Name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newResolver(cfg source.Config) (*source.Resolver, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return source.New(cfg, logger), &buf
}

func TestCandidatesOrderAndDedup(t *testing.T) {
	base := t.TempDir()
	local := filepath.Join(base, "local")
	cache := filepath.Join(base, "cache")

	r, _ := newResolver(source.Config{
		LocalDir:  local,
		CacheDirs: []string{cache, cache + "/", filepath.Join(cache, "..", "cache"), ""},
	})
	candidates := r.Candidates(testDoc)
	require.Len(t, candidates, 2)
	assert.Equal(t, "local development copy", candidates[0].Description)
	assert.Equal(t, filepath.Join(local, "doc.json"), candidates[0].Path)
	assert.Equal(t, filepath.Join(cache, "doc.json"), candidates[1].Path)
}

func TestResolveFirstLocalWins(t *testing.T) {
	base := t.TempDir()
	local := filepath.Join(base, "local")
	cache := filepath.Join(base, "cache")
	writeDoc(t, local, `{"from":"local"}`)
	writeDoc(t, cache, `{"from":"cache"}`)

	r, _ := newResolver(source.Config{LocalDir: local, CacheDirs: []string{cache}, Offline: true})
	res, err := r.Resolve(context.Background(), testDoc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"local"}`, string(res.Data))
	assert.Equal(t, "local development copy", res.Source.Description)
}

func TestResolveSkipsMalformedCandidate(t *testing.T) {
	base := t.TempDir()
	local := filepath.Join(base, "local")
	cache := filepath.Join(base, "cache")
	writeDoc(t, local, `{"erds": [`)
	cachePath := writeDoc(t, cache, `{"from":"cache"}`)

	r, logs := newResolver(source.Config{LocalDir: local, CacheDirs: []string{cache}, Offline: true})
	res, err := r.Resolve(context.Background(), testDoc)
	require.NoError(t, err)
	assert.Equal(t, cachePath, res.Source.Location)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "Ignoring unusable candidate")
}

func TestResolveRejectsNonObject(t *testing.T) {
	base := t.TempDir()
	writeDoc(t, base, `[1,2,3]`)

	r, _ := newResolver(source.Config{LocalDir: base, Offline: true})
	_, err := r.Resolve(context.Background(), testDoc)
	assert.ErrorIs(t, err, source.ErrUnresolved)
}

func TestResolveRemoteFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/docs/doc.json", req.URL.Path)
		_, _ = w.Write([]byte(`{"from":"remote"}`))
	}))
	defer srv.Close()

	r, _ := newResolver(source.Config{LocalDir: t.TempDir(), RemoteBase: srv.URL + "/docs"})
	res, err := r.Resolve(context.Background(), testDoc)
	require.NoError(t, err)
	assert.Equal(t, "remote", res.Source.Description)
	assert.Equal(t, srv.URL+"/docs/doc.json", res.Source.Location)
	assert.JSONEq(t, `{"from":"remote"}`, string(res.Data))
}

func TestResolveRemoteFailureKinds(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer notFound.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer garbage.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		base string
		kind source.RemoteKind
	}{
		{name: "status", base: notFound.URL, kind: source.RemoteStatus},
		{name: "transport", base: closedURL, kind: source.RemoteTransport},
		{name: "unexpected", base: garbage.URL, kind: source.RemoteUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, logs := newResolver(source.Config{RemoteBase: tt.base})
			res, err := r.Resolve(context.Background(), testDoc)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, source.ErrUnresolved)

			var re *source.RemoteError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.kind, re.Kind)
			assert.Contains(t, logs.String(), "kind="+string(tt.kind))
		})
	}
}

func TestResolveRemoteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-release:
		case <-req.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r, _ := newResolver(source.Config{RemoteBase: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := r.Resolve(context.Background(), testDoc)
	assert.Less(t, time.Since(start), 5*time.Second)

	var re *source.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, source.RemoteTransport, re.Kind)
}

func TestResolveOffline(t *testing.T) {
	r, _ := newResolver(source.Config{LocalDir: t.TempDir(), Offline: true})
	_, err := r.Resolve(context.Background(), testDoc)
	assert.ErrorIs(t, err, source.ErrUnresolved)
}

func TestRemoteURL(t *testing.T) {
	assert.Equal(t, source.DefaultRemoteBase+"/appliance_api.json", source.ApplianceAPI.RemoteURL(""))
	assert.Equal(t, "http://mirror/x/appliance_api.json", source.ApplianceAPI.RemoteURL("http://mirror/x/"))

	pinned := source.Document{Name: "a.json", URL: "http://pinned/a.json"}
	assert.Equal(t, "http://pinned/a.json", pinned.RemoteURL(""))
	assert.Equal(t, "http://mirror/a.json", pinned.RemoteURL("http://mirror"))
}

func TestStoreReplacesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	path, err := source.Store(dir, testDoc, []byte(`{"v":1}`))
	require.NoError(t, err)

	_, err = source.Store(dir, testDoc, []byte(`not json`))
	var me *source.MalformedError
	assert.True(t, errors.As(err, &me))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
