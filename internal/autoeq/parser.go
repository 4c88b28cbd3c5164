package autoeq

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fiiotools/autoeq-fiio/internal/model"
)

// ErrEmptyInput is returned when there is no EQ content to parse at all.
var ErrEmptyInput = errors.New("no EQ data to parse")

// ErrNoBands is returned when parsing completes but not a single valid
// band survives.
//
// A profile with zero bands is a parse failure, never an empty-but-valid
// result: the caller must abort the conversion attempt.
var ErrNoBands = errors.New("no valid EQ bands found")

// Diagnostic records one recoverable problem encountered while parsing.
//
// Diagnostics never abort a parse. Each covers exactly one skipped unit
// (a filter line, a CSV row, or the preamp feature) and is reported
// alongside the surviving bands.
type Diagnostic struct {
	// Line is the 1-based source line or CSV row the problem occurred on.
	// 0 when the problem is not tied to a specific line.
	Line int

	// Message describes what was skipped and why.
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

// Format identifies which of the two AutoEq publication formats a document
// uses. The decision is made once for the whole document, before any band
// extraction.
type Format int

const (
	// FormatText is the human-readable filter list:
	//
	//	Preamp: -4.7 dB
	//	Filter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41
	FormatText Format = iota

	// FormatCSV is the delimited variant with an optional header row:
	//
	//	Filter Type,Freq,Q,Gain
	//	Peaking,105,1.41,-2.5
	FormatCSV
)

// textFilterRegex matches one filter line of the text format. Groups:
// 1 type abbreviation, 2 frequency, 3 gain (signed), 4 Q.
var textFilterRegex = regexp.MustCompile(
	`(?i)Filter\s+\d+:\s+ON\s+(\w+)\s+Fc\s+([\d.]+)\s+Hz\s+Gain\s+([-\d.]+)\s+dB\s+Q\s+([\d.]+)`)

// Parser converts raw AutoEq EQ documents into model.Profile values.
//
// A Parser handles both publication formats transparently. Malformed
// individual lines or rows never fail a parse; they are skipped and
// reported as Diagnostics. Only two conditions are fatal: empty input and
// zero surviving bands.
//
// Example usage:
//
//	parser := autoeq.NewParser()
//
//	profile, diags, err := parser.Parse(eqText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range diags {
//	    fmt.Println("warning:", d)
//	}
//	fmt.Printf("preamp %.1f dB, %d bands\n", profile.PreampDb, len(profile.Bands))
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts the preamp value and filter bands from raw EQ content.
//
// The pipeline is:
//  1. Scan for a preamp line (missing preamp is not an error; 0 dB).
//  2. Classify the whole document as text or CSV format.
//  3. Extract bands with the matching extractor, normalizing each row to
//     a model.Band and skipping malformed units with a Diagnostic.
//
// Returns ErrEmptyInput for blank content and ErrNoBands when nothing
// parseable survives; the accumulated diagnostics are returned in both
// cases so the caller can report why.
func (p *Parser) Parse(content string) (*model.Profile, []Diagnostic, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, ErrEmptyInput
	}

	lines := splitLines(content)

	preamp, diags := extractPreamp(lines)

	var bands []model.Band
	switch DetectFormat(lines) {
	case FormatText:
		var textDiags []Diagnostic
		bands, textDiags = p.parseText(lines)
		diags = append(diags, textDiags...)
	case FormatCSV:
		var csvDiags []Diagnostic
		bands, csvDiags = p.parseCSV(content)
		diags = append(diags, csvDiags...)
	}

	if len(bands) == 0 {
		return nil, diags, ErrNoBands
	}

	return &model.Profile{PreampDb: preamp, Bands: bands}, diags, nil
}

// DetectFormat classifies an EQ document by testing every line against the
// text filter grammar. A single matching line makes the whole document
// text format; otherwise it is treated as CSV.
func DetectFormat(lines []string) Format {
	for _, line := range lines {
		if textFilterRegex.MatchString(line) {
			return FormatText
		}
	}
	return FormatCSV
}

// extractPreamp scans for the first line containing "preamp:" (any case)
// and parses the first whitespace-delimited token after the colon as the
// preamp value in dB.
//
// A matching line that fails to parse is reported and scanning continues;
// no matching line at all simply yields the 0 dB default.
func extractPreamp(lines []string) (float64, []Diagnostic) {
	var diags []Diagnostic

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "preamp:") {
			continue
		}

		rest := line[strings.Index(line, ":")+1:]
		// Only the segment up to the next colon counts, mirroring the
		// published profiles where the value directly follows "Preamp:".
		if colon := strings.Index(rest, ":"); colon != -1 {
			rest = rest[:colon]
		}

		fields := strings.Fields(rest)
		if len(fields) == 0 {
			diags = append(diags, Diagnostic{Line: i + 1, Message: fmt.Sprintf("could not parse preamp value from line: %s", strings.TrimSpace(line))})
			continue
		}

		value, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			diags = append(diags, Diagnostic{Line: i + 1, Message: fmt.Sprintf("could not parse preamp value from line: %s", strings.TrimSpace(line))})
			continue
		}

		return value, diags
	}

	return 0, diags
}

// parseText extracts bands from a text-format document. Every line is
// matched independently; lines that do not match the grammar are ignored,
// matching lines with an unknown type abbreviation or unparseable numbers
// are skipped with a diagnostic.
func (p *Parser) parseText(lines []string) ([]model.Band, []Diagnostic) {
	var bands []model.Band
	var diags []Diagnostic

	for i, line := range lines {
		m := textFilterRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		shape, ok := model.ShapeFromAbbreviation(m[1])
		if !ok {
			diags = append(diags, Diagnostic{Line: i + 1, Message: fmt.Sprintf("skipping band with unknown type abbreviation %q", m[1])})
			continue
		}

		band, err := normalizeBand(shape, m[2], m[4], m[3])
		if err != nil {
			diags = append(diags, Diagnostic{Line: i + 1, Message: fmt.Sprintf("skipping band: %v in line %q", err, strings.TrimSpace(line))})
			continue
		}

		bands = append(bands, band)
	}

	return bands, diags
}

// parseCSV extracts bands from a CSV-format document.
//
// The delimiter is sniffed from the first 2048 bytes (comma fallback). The
// first row is consumed as a header only when it looks like one (see
// isHeaderRow); otherwise it is treated as data. Rows shorter than four
// cells are skipped. An unrecognized filter-type cell that parses as a
// plain number reinterprets the row as header-less numeric data
// (freq, Q, gain with Peaking assumed), a fallback for files published
// without the type column.
func (p *Parser) parseCSV(content string) ([]model.Band, []Diagnostic) {
	var bands []model.Band
	var diags []Diagnostic

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = sniffDelimiter(content)
	reader.FieldsPerRecord = -1

	row := 0
	sawHeader := false
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("error parsing CSV data: %v", err)})
			break
		}
		row++

		if row == 1 && isHeaderRow(record) {
			sawHeader = true
			continue
		}

		dataRow := row
		if sawHeader {
			dataRow = row - 1
		}

		band, diag, ok := p.normalizeCSVRow(record, dataRow)
		if diag != nil {
			diags = append(diags, *diag)
		}
		if ok {
			bands = append(bands, band)
		}
	}

	return bands, diags
}

// normalizeCSVRow converts one CSV record into a Band.
//
// Returns ok=false when the row is skipped; diag is non-nil when the skip
// deserves a warning (short rows are skipped silently).
func (p *Parser) normalizeCSVRow(record []string, row int) (model.Band, *Diagnostic, bool) {
	if len(record) < 4 {
		return model.Band{}, nil, false
	}

	typeName := strings.TrimSpace(record[0])
	freqStr := strings.TrimSpace(record[1])
	qStr := strings.TrimSpace(record[2])
	gainStr := strings.TrimSpace(record[3])

	shape, ok := model.ShapeFromName(typeName)
	if !ok {
		if isPlainNumber(typeName) && len(record) >= 3 {
			// Header-less numeric variant: the type column is missing and
			// the row starts with the frequency.
			shape = model.ShapePeaking
			freqStr = strings.TrimSpace(record[0])
			qStr = strings.TrimSpace(record[1])
			gainStr = strings.TrimSpace(record[2])
		} else {
			return model.Band{}, &Diagnostic{Line: row, Message: fmt.Sprintf("skipping band with unknown filter type %q", typeName)}, false
		}
	}

	band, err := normalizeBand(shape, freqStr, qStr, gainStr)
	if err != nil {
		return model.Band{}, &Diagnostic{Line: row, Message: fmt.Sprintf("skipping band: %v in row %v", err, record)}, false
	}

	return band, nil, true
}

// normalizeBand coerces the raw per-band fields into their canonical
// types: frequency truncated through float-to-int conversion, gain and Q
// as floats. Any coercion failure drops this single band only.
func normalizeBand(shape model.FilterShape, freqStr, qStr, gainStr string) (model.Band, error) {
	freq, err := strconv.ParseFloat(freqStr, 64)
	if err != nil {
		return model.Band{}, fmt.Errorf("invalid frequency %q", freqStr)
	}
	gain, err := strconv.ParseFloat(gainStr, 64)
	if err != nil {
		return model.Band{}, fmt.Errorf("invalid gain %q", gainStr)
	}
	q, err := strconv.ParseFloat(qStr, 64)
	if err != nil {
		return model.Band{}, fmt.Errorf("invalid Q %q", qStr)
	}

	return model.Band{
		Shape:       shape,
		FrequencyHz: int(freq),
		GainDb:      gain,
		Q:           q,
	}, nil
}

// isHeaderRow decides whether the first CSV record is a header.
//
// A row is a header when every expected keyword (filter type, freq, q,
// gain) appears among its cells, or when any of its first four cells is
// purely alphabetic text. Anything else is data and must not be dropped.
func isHeaderRow(record []string) bool {
	cells := make(map[string]bool, len(record))
	for _, cell := range record {
		cells[strings.ToLower(strings.TrimSpace(cell))] = true
	}

	expected := []string{"filter type", "freq", "q", "gain"}
	allKeywords := true
	for _, kw := range expected {
		if !cells[kw] {
			allKeywords = false
			break
		}
	}
	if allKeywords {
		return true
	}

	limit := len(record)
	if limit > 4 {
		limit = 4
	}
	for _, cell := range record[:limit] {
		if isAlphabetic(cell) {
			return true
		}
	}

	return false
}

// isAlphabetic reports whether s is non-empty and consists only of
// letters. Cells like "Freq" qualify; "Filter Type" (space) and "105" do
// not.
func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isPlainNumber reports whether s is an unsigned decimal number: digits
// with at most one dot. Signed values do not qualify, matching the
// fallback heuristic this feeds.
func isPlainNumber(s string) bool {
	s = strings.Replace(s, ".", "", 1)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// sniffDelimiter inspects up to the first 2048 bytes of content and picks
// the delimiter whose per-line count is consistent across the sampled
// lines. Falls back to comma when nothing qualifies.
func sniffDelimiter(content string) rune {
	sample := content
	if len(sample) > 2048 {
		sample = sample[:2048]
	}

	var sampleLines []string
	for _, line := range strings.Split(sample, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			sampleLines = append(sampleLines, line)
		}
	}
	if len(sampleLines) == 0 {
		return ','
	}

	for _, candidate := range []rune{',', ';', '\t', '|'} {
		count := strings.Count(sampleLines[0], string(candidate))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range sampleLines[1:] {
			if strings.Count(line, string(candidate)) != count {
				consistent = false
				break
			}
		}
		if consistent {
			return candidate
		}
	}

	return ','
}

// splitLines splits content into lines, tolerating both LF and CRLF
// endings and dropping surrounding blank lines the way the publication
// formats are normally consumed.
func splitLines(content string) []string {
	raw := strings.Split(strings.TrimSpace(content), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
