// Package export turns order data into the posting rows the municipal
// accounting system imports. Each report is a header row followed by data
// rows in a fixed column schema.
package export

import "fmt"

// Headers is the posting schema of the receiving accounting system. Column
// names and order are dictated downstream; changing them breaks the import.
// Only five columns are populated by the exporters, the rest stay blank.
var Headers = []string{
	"Artskonto",
	"Omkostningssted",
	"PSP-element",
	"Profitcenter",
	"Ordre",
	"Debet/kredit",
	"Beløb",
	"Næste agent",
	"Tekst",
	"Betalingsart",
	"Påligningsår",
	"Betalingsmodtagernr.",
	"Betalingsmodtagernr.kode",
	"Ydelsesmodtagernr.",
	"Ydelsesmodtagernr.kode",
	"Ydelsesperiode fra",
	"Ydelsesperiode til",
	"Oplysningspligtnr.",
	"Oplysningspligtmodtagernr.kode",
	"Oplysningspligtkode",
	"Netværk",
	"Operation",
	"Mængde",
	"Mængdeenhed",
	"Referencenøgle",
}

// Row is one output line. A nil cell is an unpopulated field; the receiving
// system expects it blank, not absent.
type Row []*string

// ReportSpec declares the header schema of a posting report and carries the
// derived indices of the fields the exporters populate.
type ReportSpec struct {
	Headers []string

	Artskonto   int
	PSPElement  int
	DebetKredit int
	Amount      int
	Text        int
}

// NewReportSpec derives the field indices from the header list. A header
// list missing one of the expected names is a configuration error.
func NewReportSpec(headers []string) (ReportSpec, error) {
	s := ReportSpec{Headers: headers}

	fields := []struct {
		name  string
		index *int
	}{
		{"Artskonto", &s.Artskonto},
		{"PSP-element", &s.PSPElement},
		{"Debet/kredit", &s.DebetKredit},
		{"Beløb", &s.Amount},
		{"Tekst", &s.Text},
	}
	for _, f := range fields {
		i, err := fieldIndex(headers, f.name)
		if err != nil {
			return ReportSpec{}, err
		}
		*f.index = i
	}

	return s, nil
}

// HeaderRow returns the header names as the report's first row.
func (s ReportSpec) HeaderRow() Row {
	return headerRow(s.Headers)
}

// EmptyRow returns a row of the right width with every field unpopulated.
func (s ReportSpec) EmptyRow() Row {
	return make(Row, len(s.Headers))
}

func fieldIndex(headers []string, name string) (int, error) {
	for i, h := range headers {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("header schema is missing %q", name)
}

func headerRow(headers []string) Row {
	row := make(Row, len(headers))
	for i := range headers {
		row[i] = &headers[i]
	}
	return row
}

func ptr(s string) *string {
	return &s
}
