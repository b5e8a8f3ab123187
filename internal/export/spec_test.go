package export

import (
	"strings"
	"testing"
)

func TestNewReportSpec(t *testing.T) {
	spec, err := NewReportSpec(Headers)
	if err != nil {
		t.Fatalf("NewReportSpec(Headers): %v", err)
	}

	if len(spec.Headers) != 25 {
		t.Fatalf("header count = %d, want 25", len(spec.Headers))
	}

	indices := []struct {
		name string
		got  int
		want int
	}{
		{"Artskonto", spec.Artskonto, 0},
		{"PSP-element", spec.PSPElement, 2},
		{"Debet/kredit", spec.DebetKredit, 5},
		{"Beløb", spec.Amount, 6},
		{"Tekst", spec.Text, 8},
	}
	for _, i := range indices {
		if i.got != i.want {
			t.Errorf("index of %s = %d, want %d", i.name, i.got, i.want)
		}
	}
}

func TestNewReportSpec_MissingField(t *testing.T) {
	headers := []string{"Artskonto", "PSP-element", "Beløb", "Tekst"}
	_, err := NewReportSpec(headers)
	if err == nil {
		t.Fatal("expected error for schema without Debet/kredit")
	}
	if !strings.Contains(err.Error(), "Debet/kredit") {
		t.Errorf("error %q should name the missing field", err)
	}
}

func TestReportSpec_Rows(t *testing.T) {
	spec, err := NewReportSpec(Headers)
	if err != nil {
		t.Fatal(err)
	}

	header := spec.HeaderRow()
	if len(header) != len(Headers) {
		t.Fatalf("header row length = %d, want %d", len(header), len(Headers))
	}
	for i, cell := range header {
		if cell == nil || *cell != Headers[i] {
			t.Fatalf("header cell %d does not match schema", i)
		}
	}

	empty := spec.EmptyRow()
	if len(empty) != len(Headers) {
		t.Fatalf("empty row length = %d, want %d", len(empty), len(Headers))
	}
	for i, cell := range empty {
		if cell != nil {
			t.Fatalf("empty row cell %d is populated", i)
		}
	}
}
