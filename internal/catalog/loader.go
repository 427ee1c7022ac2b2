package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/litescript/ls-galaxy/internal/logging"
)

const (
	// SourceBuiltin selects the embedded bright-star catalog.
	SourceBuiltin = "builtin"

	// SourceStdin reads the catalog from standard input.
	SourceStdin = "-"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second
)

//go:embed data/bright_stars.csv
var builtinCSV []byte

// Builtin returns the embedded catalog of bright and nearby stars.
func Builtin() []byte {
	return builtinCSV
}

// Loader fetches and parses catalogs from files, URLs, stdin or the
// embedded data set.
type Loader struct {
	client  *http.Client
	timeout time.Duration
	stdin   io.Reader
	log     *logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// WithStdin replaces os.Stdin as the source for "-".
func WithStdin(r io.Reader) LoaderOption {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log *logging.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader creates a catalog loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		timeout: DefaultTimeout,
		stdin:   os.Stdin,
		log:     logging.Discard(),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.client == nil {
		l.client = &http.Client{
			Timeout: l.timeout,
		}
	}

	return l
}

// Result contains the outcome of a load.
type Result struct {
	Source   string
	Records  []RawRecord
	Skipped  int
	LoadedAt time.Time
	Duration time.Duration
}

// Load reads and validates the catalog named by source. An empty source
// means the embedded catalog. Failure to read the source and a catalog with
// no valid rows are both returned as errors.
func (l *Loader) Load(ctx context.Context, source string) (*Result, error) {
	start := time.Now()
	if source == "" {
		source = SourceBuiltin
	}

	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, skipped, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", source, err)
	}

	result := &Result{
		Source:   source,
		Records:  records,
		Skipped:  skipped,
		LoadedAt: start,
		Duration: time.Since(start),
	}
	l.log.Debug("Loaded %d rows from %s (%d skipped) in %v",
		len(records), source, skipped, result.Duration)

	return result, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == SourceBuiltin:
		return io.NopCloser(bytes.NewReader(builtinCSV)), nil
	case source == SourceStdin:
		return io.NopCloser(l.stdin), nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetch(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		return f, nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-galaxy/1.0 (star field viewer)")
	req.Header.Set("Accept", "text/csv, text/plain")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch catalog: unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
