package fiio

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/fiiotools/autoeq-fiio/internal/model"
)

// MaxBands is the number of EQ bands the FiiO DSP engine accepts. Profiles
// with more bands are truncated to the first MaxBands in source order;
// callers should surface that as a warning, not an error.
const MaxBands = 10

// SchemaVersion is the fixed version attribute emitted on the root
// element.
const SchemaVersion = "0.0.1"

// description is the fixed provenance note emitted in every document.
const description = "Converted from AutoEq"

// Document is the root of a FiiO_DSP configuration file.
//
// The structure mirrors the schema the FiiO Control app consumes:
//
//	<FiiO_DSP model="..." version="0.0.1">
//	  <module name="EQ">
//	    <eqGroup>
//	      <param name="masterGain">-4.7</param>
//	      <eqList>
//	        <eq index="0"> ... four params ... </eq>
//	      </eqList>
//	    </eqGroup>
//	  </module>
//	  <styleName>...</styleName>
//	  <description>Converted from AutoEq</description>
//	</FiiO_DSP>
type Document struct {
	XMLName     xml.Name `xml:"FiiO_DSP"`
	Model       string   `xml:"model,attr"`
	Version     string   `xml:"version,attr"`
	Module      Module   `xml:"module"`
	StyleName   string   `xml:"styleName"`
	Description string   `xml:"description"`
}

// Module is the DSP module container; for EQ profiles its name is always
// "EQ".
type Module struct {
	Name    string  `xml:"name,attr"`
	EqGroup EqGroup `xml:"eqGroup"`
}

// EqGroup holds the master gain parameter and the band list.
type EqGroup struct {
	MasterGain Param  `xml:"param"`
	EqList     EqList `xml:"eqList"`
}

// EqList is the ordered list of emitted bands.
type EqList struct {
	Bands []EqBand `xml:"eq"`
}

// EqBand is one emitted band. Index is the 0-based emission order, which
// after truncation may differ from the band's position in the source
// profile only in that later bands are absent.
type EqBand struct {
	Index  string  `xml:"index,attr"`
	Params []Param `xml:"param"`
}

// Param is a named string value, the schema's universal leaf.
type Param struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// BuildDocument assembles a Document from a normalized band sequence.
//
// Parameters:
//   - bands: normalized bands in source order; truncated to MaxBands
//   - styleName: profile label shown by the FiiO app (already sanitized)
//   - preampDb: the profile's preamp value
//   - dspModel: target device model for the root attribute
//   - usePreampGain: when true masterGain carries preampDb, otherwise
//     the literal "0" so the device applies no global offset
//
// BuildDocument is a pure function of its inputs and performs no I/O.
func BuildDocument(bands []model.Band, styleName string, preampDb float64, dspModel string, usePreampGain bool) *Document {
	if len(bands) > MaxBands {
		bands = bands[:MaxBands]
	}

	masterGain := "0"
	if usePreampGain {
		masterGain = formatFloat(preampDb)
	}

	eqBands := make([]EqBand, len(bands))
	for i, band := range bands {
		eqBands[i] = EqBand{
			Index: strconv.Itoa(i),
			Params: []Param{
				{Name: "type", Value: band.Shape.Code()},
				{Name: "freq", Value: strconv.Itoa(band.FrequencyHz)},
				{Name: "gain", Value: formatFloat(band.GainDb)},
				{Name: "q", Value: formatFloat(band.Q)},
			},
		}
	}

	return &Document{
		Model:   dspModel,
		Version: SchemaVersion,
		Module: Module{
			Name: "EQ",
			EqGroup: EqGroup{
				MasterGain: Param{Name: "masterGain", Value: masterGain},
				EqList:     EqList{Bands: eqBands},
			},
		},
		StyleName:   styleName,
		Description: description,
	}
}

// Render serializes the document as pretty-printed XML with 2-space
// indentation and a UTF-8 declaration.
func (d *Document) Render() (string, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render FiiO XML: %w", err)
	}
	return xml.Header + string(body) + "\n", nil
}

// formatFloat renders a float with the shortest decimal representation
// that round-trips, so "-2.5" stays "-2.5" and whole values drop the
// trailing ".0".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
