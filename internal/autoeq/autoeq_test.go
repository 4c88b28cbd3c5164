package autoeq

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fiiotools/autoeq-fiio/internal/model"
)

func TestParser_Parse_TextFormat(t *testing.T) {
	content := `Preamp: -4.7 dB
Filter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41
Filter 2: ON LSC Fc 105 Hz Gain 1.5 dB Q 0.71
Filter 3: ON HSC Fc 10000 Hz Gain -3.0 dB Q 0.71
`

	profile, diags, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if profile.PreampDb != -4.7 {
		t.Errorf("PreampDb = %v, want -4.7", profile.PreampDb)
	}
	if len(profile.Bands) != 3 {
		t.Fatalf("got %d bands, want 3", len(profile.Bands))
	}

	want := []model.Band{
		{Shape: model.ShapePeaking, FrequencyHz: 105, GainDb: -2.5, Q: 1.41},
		{Shape: model.ShapeLowShelf, FrequencyHz: 105, GainDb: 1.5, Q: 0.71},
		{Shape: model.ShapeHighShelf, FrequencyHz: 10000, GainDb: -3.0, Q: 0.71},
	}
	for i, band := range profile.Bands {
		if band != want[i] {
			t.Errorf("band %d = %+v, want %+v", i, band, want[i])
		}
	}
}

func TestParser_Parse_TextSingleBand(t *testing.T) {
	profile, _, err := NewParser().Parse("Filter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 1 {
		t.Fatalf("got %d bands, want 1", len(profile.Bands))
	}

	band := profile.Bands[0]
	if band.Shape != model.ShapePeaking || band.Shape.Code() != "0" {
		t.Errorf("Shape = %v (code %s), want Peaking (0)", band.Shape, band.Shape.Code())
	}
	if band.FrequencyHz != 105 {
		t.Errorf("FrequencyHz = %d, want 105", band.FrequencyHz)
	}
	if band.GainDb != -2.5 {
		t.Errorf("GainDb = %v, want -2.5", band.GainDb)
	}
	if band.Q != 1.41 {
		t.Errorf("Q = %v, want 1.41", band.Q)
	}
}

func TestParser_Parse_TextOrderPreserved(t *testing.T) {
	// k well-formed lines with no malformed lines must yield exactly k
	// bands in source order.
	var sb strings.Builder
	freqs := []int{31, 62, 125, 250, 500, 1000, 2000}
	for i, f := range freqs {
		fmt.Fprintf(&sb, "Filter %d: ON PK Fc %d Hz Gain 1.0 dB Q 1.0\n", i+1, f)
	}

	profile, diags, err := NewParser().Parse(sb.String())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(profile.Bands) != len(freqs) {
		t.Fatalf("got %d bands, want %d", len(profile.Bands), len(freqs))
	}
	for i, band := range profile.Bands {
		if band.FrequencyHz != freqs[i] {
			t.Errorf("band %d frequency = %d, want %d", i, band.FrequencyHz, freqs[i])
		}
	}
}

func TestParser_Parse_UnknownAbbreviationSkipped(t *testing.T) {
	content := `Filter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41
Filter 2: ON XYZ Fc 200 Hz Gain 1.0 dB Q 1.0
Filter 3: ON HSC Fc 10000 Hz Gain -3.0 dB Q 0.71`

	profile, diags, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 2 {
		t.Errorf("got %d bands, want 2", len(profile.Bands))
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Line != 2 {
		t.Errorf("diagnostic line = %d, want 2", diags[0].Line)
	}
	if !strings.Contains(diags[0].Message, "XYZ") {
		t.Errorf("diagnostic %q should name the unknown abbreviation", diags[0].Message)
	}
}

func TestDetectFormat_TextTakesPrecedence(t *testing.T) {
	// A document containing both CSV-like rows and one valid text filter
	// line is classified as text format.
	content := `Filter Type,Freq,Q,Gain
Peaking,100,0.7,-3.0
Filter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41`

	if got := DetectFormat(splitLines(content)); got != FormatText {
		t.Errorf("DetectFormat = %v, want FormatText", got)
	}

	profile, _, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 1 {
		t.Errorf("got %d bands, want 1 (only the text filter line)", len(profile.Bands))
	}
}

func TestDetectFormat_CSV(t *testing.T) {
	lines := splitLines("Filter Type,Freq,Q,Gain\nPeaking,100,0.7,-3.0")
	if got := DetectFormat(lines); got != FormatCSV {
		t.Errorf("DetectFormat = %v, want FormatCSV", got)
	}
}

func TestParser_Parse_CSVWithHeader(t *testing.T) {
	content := `Filter Type,Freq,Q,Gain
Peaking,105,1.41,-2.5
Low Shelf,105,0.71,1.5
High Shelf,10000,0.71,-3.0`

	profile, diags, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(profile.Bands) != 3 {
		t.Fatalf("got %d bands, want 3 (header must be excluded)", len(profile.Bands))
	}
	if profile.Bands[1].Shape != model.ShapeLowShelf {
		t.Errorf("band 1 shape = %v, want Low Shelf", profile.Bands[1].Shape)
	}
	if profile.Bands[2].GainDb != -3.0 {
		t.Errorf("band 2 gain = %v, want -3.0", profile.Bands[2].GainDb)
	}
}

func TestParser_Parse_CSVWithoutHeader(t *testing.T) {
	// No recognizable header: the first row is data and must not be
	// dropped.
	content := `Peaking,105,1.41,-2.5
Peaking,210,1.0,1.0`

	profile, _, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 2 {
		t.Fatalf("got %d bands, want 2 (first row is data)", len(profile.Bands))
	}
	if profile.Bands[0].FrequencyHz != 105 {
		t.Errorf("band 0 frequency = %d, want 105", profile.Bands[0].FrequencyHz)
	}
}

func TestParser_Parse_CSVNumericFallback(t *testing.T) {
	// Header-less numeric rows: the type column is missing and the row
	// starts with the frequency. Peaking is assumed and the first three
	// columns are read as freq, Q, gain; trailing columns are ignored.
	content := `100,0.7,-3.2,0
200,1.41,2.0,0`

	profile, diags, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(profile.Bands) != 2 {
		t.Fatalf("got %d bands, want 2", len(profile.Bands))
	}

	band := profile.Bands[0]
	if band.Shape != model.ShapePeaking {
		t.Errorf("Shape = %v, want Peaking", band.Shape)
	}
	if band.FrequencyHz != 100 {
		t.Errorf("FrequencyHz = %d, want 100", band.FrequencyHz)
	}
	if band.Q != 0.7 {
		t.Errorf("Q = %v, want 0.7", band.Q)
	}
	if band.GainDb != -3.2 {
		t.Errorf("GainDb = %v, want -3.2", band.GainDb)
	}
}

func TestParser_Parse_CSVUnknownTypeSkipped(t *testing.T) {
	content := `Filter Type,Freq,Q,Gain
Notch,100,0.7,-3.0
Peaking,200,1.0,1.0`

	profile, diags, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 1 {
		t.Errorf("got %d bands, want 1", len(profile.Bands))
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "Notch") {
		t.Errorf("expected one diagnostic naming Notch, got %v", diags)
	}
}

func TestParser_Parse_CSVShortRowSkipped(t *testing.T) {
	content := `Filter Type,Freq,Q,Gain
Peaking,100
Peaking,200,1.0,1.0`

	profile, _, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 1 {
		t.Errorf("got %d bands, want 1", len(profile.Bands))
	}
}

func TestParser_Parse_CSVBadNumberSkipped(t *testing.T) {
	content := `Filter Type,Freq,Q,Gain
Peaking,oops,0.7,-3.0
Peaking,200,1.0,1.0`

	profile, diags, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 1 {
		t.Errorf("got %d bands, want 1", len(profile.Bands))
	}
	if len(diags) != 1 {
		t.Errorf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
}

func TestParser_Parse_CSVSemicolonDelimiter(t *testing.T) {
	content := `Filter Type;Freq;Q;Gain
Peaking;105;1.41;-2.5`

	profile, _, err := NewParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profile.Bands) != 1 || profile.Bands[0].FrequencyHz != 105 {
		t.Errorf("semicolon-delimited profile not parsed: %+v", profile.Bands)
	}
}

func TestParser_Parse_Preamp(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{
			name:    "standard preamp line",
			content: "Preamp: -4.7 dB\nFilter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41",
			want:    -4.7,
		},
		{
			name:    "case insensitive",
			content: "PREAMP: -6 dB\nFilter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41",
			want:    -6,
		},
		{
			name:    "missing preamp defaults to zero",
			content: "Filter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41",
			want:    0.0,
		},
		{
			name:    "first parseable line wins",
			content: "Preamp: -4.7 dB\nPreamp: -9.9 dB\nFilter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41",
			want:    -4.7,
		},
		{
			name:    "unparseable line reported, scanning continues",
			content: "Preamp: none dB\nPreamp: -3.1 dB\nFilter 1: ON PK Fc 105 Hz Gain -2.5 dB Q 1.41",
			want:    -3.1,
		},
		{
			name:    "preamp in CSV document",
			content: "Preamp: -2.0 dB\nFilter Type,Freq,Q,Gain\nPeaking,100,0.7,-3.0",
			want:    -2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, _, err := NewParser().Parse(tt.content)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if profile.PreampDb != tt.want {
				t.Errorf("PreampDb = %v, want %v", profile.PreampDb, tt.want)
			}
		})
	}
}

func TestParser_Parse_FatalConditions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "empty string",
			content: "",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "whitespace only",
			content: "  \n\t\n",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "header only, no data rows",
			content: "Filter Type,Freq,Q,Gain",
			wantErr: ErrNoBands,
		},
		{
			name:    "only unrecognized rows",
			content: "Notch,100,0.7,-3.0\nBandPass,200,1.0,1.0",
			wantErr: ErrNoBands,
		},
		{
			name:    "preamp line but no bands",
			content: "Preamp: -4.7 dB",
			wantErr: ErrNoBands,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, _, err := NewParser().Parse(tt.content)
			if profile != nil {
				t.Errorf("expected nil profile, got %+v", profile)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsHeaderRow(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   bool
	}{
		{
			name:   "standard header",
			record: []string{"Filter Type", "Freq", "Q", "Gain"},
			want:   true,
		},
		{
			name:   "lowercase keywords",
			record: []string{"filter type", "freq", "q", "gain"},
			want:   true,
		},
		{
			name:   "alphabetic first cell",
			record: []string{"Type", "100", "0.7", "-3.0"},
			want:   true,
		},
		{
			name:   "numeric data row",
			record: []string{"100", "0.7", "-3.0", "x1"},
			want:   false,
		},
		{
			name:   "shape-name data row is not a header",
			record: []string{"Low Shelf", "105", "0.71", "1.5"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHeaderRow(tt.record); got != tt.want {
				t.Errorf("isHeaderRow(%v) = %v, want %v", tt.record, got, tt.want)
			}
		})
	}
}

func TestIsPlainNumber(t *testing.T) {
	valid := []string{"100", "0.7", "105.5", "7"}
	invalid := []string{"", "-3", "1.2.3", "1e3", "abc", "10 0"}

	for _, s := range valid {
		if !isPlainNumber(s) {
			t.Errorf("isPlainNumber(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if isPlainNumber(s) {
			t.Errorf("isPlainNumber(%q) = true, want false", s)
		}
	}
}

func TestParseIndex(t *testing.T) {
	content := `# AutoEq results

Some intro text.

- [Sennheiser HD 650](./oratory1990/harman_over-ear_2018/Sennheiser%20HD%20650/)
- [Moondrop Blessing 2](./crinacle/harman_in-ear_2019v2/Moondrop%20Blessing%202)
* [AKG K701](/oratory1990/harman_over-ear_2018/AKG%20K701/)
Not a list line [ignored](somewhere/)
- [No path]()
`

	entries := ParseIndex(content)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}

	want := []model.Entry{
		{Name: "Sennheiser HD 650", Path: "oratory1990/harman_over-ear_2018/Sennheiser%20HD%20650/"},
		{Name: "Moondrop Blessing 2", Path: "crinacle/harman_in-ear_2019v2/Moondrop%20Blessing%202/"},
		{Name: "AKG K701", Path: "oratory1990/harman_over-ear_2018/AKG%20K701/"},
	}
	for i, entry := range entries {
		if entry != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entry, want[i])
		}
	}
}

func TestParseIndex_DuplicateKeepsLastPath(t *testing.T) {
	content := `- [HD 650](old/path/)
- [HD 650](new/path/)`

	entries := ParseIndex(content)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Path != "new/path/" {
		t.Errorf("Path = %q, want %q", entries[0].Path, "new/path/")
	}
}

func TestSearchEntries(t *testing.T) {
	entries := []model.Entry{
		{Name: "Sennheiser HD 650", Path: "a/"},
		{Name: "Sennheiser HD 600", Path: "b/"},
		{Name: "AKG K701", Path: "c/"},
	}

	if got := SearchEntries(entries, "hd 6"); len(got) != 2 {
		t.Errorf("Search(\"hd 6\") returned %d entries, want 2", len(got))
	}
	if got := SearchEntries(entries, "AKG"); len(got) != 1 || got[0].Name != "AKG K701" {
		t.Errorf("Search(\"AKG\") = %+v", got)
	}
	if got := SearchEntries(entries, ""); len(got) != 3 {
		t.Errorf("empty term should match everything, got %d", len(got))
	}
	if got := SearchEntries(entries, "beyerdynamic"); got != nil {
		t.Errorf("Search with no matches = %+v, want nil", got)
	}
}
