package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/geappliances/erdgen/internal/configpaths"
)

// DefaultTimeout bounds a single remote fetch.
const DefaultTimeout = 10 * time.Second

// maxDocumentSize caps remote bodies; the published documents are a few MiB.
const maxDocumentSize = 64 << 20

// Config controls where documents are looked up.
type Config struct {
	// LocalDir holds the development copy. Empty disables it.
	LocalDir string
	// CacheDirs are machine-local caches, tried in order after LocalDir.
	CacheDirs []string
	// RemoteBase overrides DefaultRemoteBase.
	RemoteBase string
	// Timeout bounds the remote fetch. Zero means DefaultTimeout.
	Timeout time.Duration
	// Offline skips the remote fetch.
	Offline bool
	// Client is used for the remote fetch. Nil means a default client.
	Client *http.Client
}

// DefaultConfig looks in the development checkout, then the user, system and
// build-relative caches under buildDir.
func DefaultConfig(buildDir string) Config {
	return Config{
		LocalDir:  DefaultLocalDir,
		CacheDirs: configpaths.MetadataCacheDirs(buildDir),
		Timeout:   DefaultTimeout,
	}
}

// Candidate is one local location a document may be found at.
type Candidate struct {
	Description string
	Path        string
}

// Source records where a resolved document came from.
type Source struct {
	Description string
	Location    string
}

// Result is a resolved document. Data is a syntactically valid JSON object.
type Result struct {
	Document Document
	Source   Source
	Data     []byte
}

// Resolver finds documents. It holds no state between calls.
type Resolver struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Resolver{cfg: cfg, client: client, logger: logger}
}

// Candidates returns the local locations for doc in lookup order, with
// paths that normalize to the same file listed once.
func (r *Resolver) Candidates(doc Document) []Candidate {
	var out []Candidate
	seen := map[string]bool{}
	add := func(desc, dir string) {
		if dir == "" {
			return
		}
		p := normalize(filepath.Join(dir, doc.Name))
		if seen[p] {
			return
		}
		seen[p] = true
		out = append(out, Candidate{Description: desc, Path: p})
	}

	add("local development copy", r.cfg.LocalDir)
	for _, dir := range r.cfg.CacheDirs {
		add("cache", dir)
	}
	return out
}

// Resolve returns the first candidate that parses, falling back to the remote
// URL. Any failure of the remote fetch ends resolution with an error wrapping
// both ErrUnresolved and the *RemoteError.
func (r *Resolver) Resolve(ctx context.Context, doc Document) (*Result, error) {
	logger := r.logger.With("document", doc.Name)

	for _, c := range r.Candidates(doc) {
		if _, err := os.Stat(c.Path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("Candidate missing", "candidate", c.Description, "path", c.Path)
				continue
			}
			logger.Warn("Candidate not accessible", "candidate", c.Description, "path", c.Path, "error", err)
			continue
		}

		data, err := readFile(c.Path)
		if err != nil {
			logger.Warn("Ignoring unusable candidate", "candidate", c.Description, "error", err)
			continue
		}

		logger.Info("Resolved document", "candidate", c.Description, "path", c.Path)
		return &Result{
			Document: doc,
			Source:   Source{Description: c.Description, Location: c.Path},
			Data:     data,
		}, nil
	}

	if r.cfg.Offline {
		return nil, fmt.Errorf("%w: %s: no local candidate and remote fetch disabled", ErrUnresolved, doc.Name)
	}

	url := doc.RemoteURL(r.cfg.RemoteBase)
	logger.Info("No local candidate, fetching remote copy", "url", url, "timeout", r.cfg.Timeout)
	data, err := r.Fetch(ctx, doc)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) {
			logger.Warn("Remote fetch failed", "kind", re.Kind, "url", re.URL, "error", err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUnresolved, doc.Name, err)
	}

	return &Result{
		Document: doc,
		Source:   Source{Description: "remote", Location: url},
		Data:     data,
	}, nil
}

// Fetch downloads doc from its remote URL within the configured timeout.
// Errors are always *RemoteError.
func (r *Resolver) Fetch(ctx context.Context, doc Document) ([]byte, error) {
	url := doc.RemoteURL(r.cfg.RemoteBase)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RemoteError{Kind: RemoteUnexpected, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &RemoteError{Kind: RemoteTransport, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &RemoteError{Kind: RemoteStatus, URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, &RemoteError{Kind: RemoteTransport, URL: url, Err: err}
	}
	if len(data) > maxDocumentSize {
		return nil, &RemoteError{Kind: RemoteUnexpected, URL: url, Err: fmt.Errorf("body exceeds %d bytes", maxDocumentSize)}
	}
	if err := validate(data); err != nil {
		return nil, &RemoteError{Kind: RemoteUnexpected, URL: url, Err: err}
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	if err := validate(data); err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	return data, nil
}

// validate checks that data is a single JSON object.
func validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if obj == nil {
		return errors.New("parse json: document is null")
	}
	if dec.More() {
		return errors.New("parse json: trailing data after document")
	}
	return nil
}

func normalize(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
