package convert

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fiiotools/autoeq-fiio/internal/autoeq"
	"github.com/fiiotools/autoeq-fiio/internal/cache"
	"github.com/fiiotools/autoeq-fiio/internal/config"
	"github.com/fiiotools/autoeq-fiio/internal/fiio"
	httpclient "github.com/fiiotools/autoeq-fiio/internal/http"
	ioutils "github.com/fiiotools/autoeq-fiio/internal/io"
	"github.com/fiiotools/autoeq-fiio/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a conversion progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result is one finished conversion, ready to be saved.
type Result struct {
	// Name is the headphone name as listed in the index.
	Name string

	// StyleName is the sanitized label embedded in the document.
	StyleName string

	// XML is the rendered FiiO_DSP document.
	XML string

	// OutputPath is where Save will write the document.
	OutputPath string

	// PreampDb is the preamp value parsed from the profile.
	PreampDb float64

	// SourceBands is the band count before truncation, EmittedBands after.
	SourceBands  int
	EmittedBands int
}

// Manager coordinates the conversion pipeline: index fetch (with ETag
// cache), search, profile fetch (txt with CSV fallback), parsing, XML
// generation and saving.
//
// Progress is reported through the onProgress callback; both the CLI and
// the TUI consume the same events.
type Manager struct {
	settings *config.Settings
	client   *httpclient.Client
	cache    *cache.Cache
	parser   *autoeq.Parser

	entries   []model.Entry
	converted int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new conversion Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		client:     httpclient.NewClient(settings.Timeout()),
		cache:      cache.New(settings.CacheDir),
		parser:     autoeq.NewParser(),
		onProgress: onProgress,
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// LoadIndex fetches and parses the AutoEq headphone index.
//
// The fetch revalidates against the cached ETag; a 304 serves the cached
// body, a 200 refreshes the cache, and a network failure falls back to
// the cached body when one exists. Only a failed fetch with no cached
// copy is fatal.
func (m *Manager) LoadIndex(ctx context.Context) error {
	body, err := m.fetchIndex(ctx)
	if err != nil {
		return err
	}

	entries := autoeq.ParseIndex(body)
	if len(entries) == 0 {
		return errors.New("could not parse any headphones from the index")
	}

	m.entries = entries
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d headphone profiles", len(entries)), Level: LevelInfo})
	return nil
}

func (m *Manager) fetchIndex(ctx context.Context) (string, error) {
	etag := m.cache.ReadETag()

	body, newETag, notModified, err := m.client.GetStringConditional(ctx, m.settings.IndexURL, etag)
	if err != nil {
		cached, cacheErr := m.cache.ReadIndex()
		if cacheErr != nil {
			return "", fmt.Errorf("failed to fetch index and no cached copy available: %w", err)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Index fetch failed (%v), using cached copy", err), Level: LevelWarning})
		return cached, nil
	}

	if notModified {
		cached, cacheErr := m.cache.ReadIndex()
		if cacheErr == nil {
			m.progress(ProgressEvent{Message: "Remote index unchanged, using cached copy", Level: LevelVerbose})
			return cached, nil
		}
		// The ETag matched but the body file is gone; refetch without a
		// validator.
		m.progress(ProgressEvent{Message: "Cached index missing, refetching", Level: LevelWarning})
		body, newETag, _, err = m.client.GetStringConditional(ctx, m.settings.IndexURL, "")
		if err != nil {
			return "", err
		}
	}

	if err := m.cache.WriteIndex(body, newETag); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not write index cache: %v", err), Level: LevelWarning})
	}

	return body, nil
}

// Entries returns all parsed index entries in index order.
func (m *Manager) Entries() []model.Entry {
	return m.entries
}

// Search returns the entries whose name contains term
// (case-insensitive). An empty term returns everything.
func (m *Manager) Search(term string) []model.Entry {
	return autoeq.SearchEntries(m.entries, term)
}

// FetchProfile retrieves the raw EQ document for one headphone.
//
// The per-headphone "<Name> ParametricEQ.txt" file is tried first; when
// that file does not exist (404) the shared "ParametricEQ.csv" in the same
// directory is fetched instead. Any other failure propagates.
func (m *Manager) FetchProfile(ctx context.Context, entry model.Entry) (string, error) {
	txtURL := m.settings.BaseRawURL + entry.Path + url.PathEscape(entry.Name+" ParametricEQ.txt")
	csvURL := m.settings.BaseRawURL + entry.Path + "ParametricEQ.csv"

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching EQ data from %s", txtURL), Level: LevelVerbose})
	content, err := m.client.GetString(ctx, txtURL)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, httpclient.ErrNotFound) {
		return "", err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Text profile not found, trying fallback %s", csvURL), Level: LevelVerbose})
	content, err = m.client.GetString(ctx, csvURL)
	if err != nil {
		return "", err
	}
	return content, nil
}

// Convert fetches, parses and serializes one headphone profile.
//
// Parser diagnostics and band truncation are reported as warnings; only
// fetch failures and fatal parse conditions (empty input, zero bands)
// abort the conversion.
func (m *Manager) Convert(ctx context.Context, entry model.Entry) (*Result, error) {
	content, err := m.FetchProfile(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch EQ data for %s: %w", entry.Name, err)
	}

	profile, diags, err := m.parser.Parse(content)
	for _, d := range diags {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s", entry.Name, d), Level: LevelWarning})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse EQ data for %s: %w", entry.Name, err)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Parsed %d bands, preamp %g dB", len(profile.Bands), profile.PreampDb), Level: LevelVerbose})

	if len(profile.Bands) > fiio.MaxBands {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("%s has %d bands, limiting to %d", entry.Name, len(profile.Bands), fiio.MaxBands),
			Level:   LevelWarning,
		})
	}

	styleName := ioutils.SanitizeFileName(entry.Name)
	doc := fiio.BuildDocument(profile.Bands, styleName, profile.PreampDb, m.settings.DSPModel, m.settings.UsePreampGain)
	xmlText, err := doc.Render()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Name:         entry.Name,
		StyleName:    styleName,
		XML:          xmlText,
		OutputPath:   m.outputPath(styleName),
		PreampDb:     profile.PreampDb,
		SourceBands:  len(profile.Bands),
		EmittedBands: len(doc.Module.EqGroup.EqList.Bands),
	}

	atomic.AddInt32(&m.converted, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Converted %s (%d bands)", entry.Name, result.EmittedBands), Level: LevelSuccess})
	return result, nil
}

// Save writes a conversion result to its output path, creating the output
// directory as needed.
func (m *Manager) Save(result *Result) error {
	if err := ioutils.EnsureDir(filepath.Dir(result.OutputPath)); err != nil {
		return err
	}
	if err := ioutils.WriteFile(result.OutputPath, []byte(result.XML)); err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", result.OutputPath), Level: LevelSuccess})
	return nil
}

// ConvertAll converts every given entry, running up to the configured
// number of conversions concurrently. A failed entry is reported and
// skipped; the successfully converted results come back in entry order.
func (m *Manager) ConvertAll(ctx context.Context, entries []model.Entry) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	limit := m.settings.MaxConcurrentConversions
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	results := make([]*Result, len(entries))
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			result, err := m.Convert(ctx, entry)
			if err != nil {
				m.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
				return nil // Continue with other entries
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var converted []*Result
	for _, r := range results {
		if r != nil {
			converted = append(converted, r)
		}
	}
	return converted, nil
}

// ConvertedCount returns how many conversions have succeeded so far.
func (m *Manager) ConvertedCount() int {
	return int(atomic.LoadInt32(&m.converted))
}

// outputPath computes the save path for a converted profile:
// "<style>_<model>.xml" with spaces collapsed to underscores, under the
// configured output directory.
func (m *Manager) outputPath(styleName string) string {
	base := strings.ReplaceAll(styleName, " ", "_") + "_" + strings.ReplaceAll(m.settings.DSPModel, " ", "_") + ".xml"
	return filepath.Join(m.settings.OutputDir, base)
}
