package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestWindow_Contains(t *testing.T) {
	start := time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		w    Window
		t    time.Time
		want bool
	}{
		{"inside bounded window", Between(start, end), start.Add(12 * time.Hour), true},
		{"start is inclusive", Between(start, end), start, true},
		{"end is exclusive", Between(start, end), end, false},
		{"before start", Between(start, end), start.Add(-time.Second), false},
		{"after end", Between(start, end), end.Add(time.Hour), false},
		{"unbounded window", Window{}, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"only start bound", Window{Start: &start}, end.AddDate(10, 0, 0), true},
		{"only end bound", Window{End: &end}, start.AddDate(-10, 0, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.w.Contains(tc.t); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.t, got, tc.want)
			}
		})
	}
}

func TestOrder_Reference(t *testing.T) {
	o := Order{
		Code:  "F8V3X",
		Event: Event{Slug: "festival2018"},
	}
	if got, want := o.Reference(), "festival2018-F8V3X"; got != want {
		t.Errorf("Reference() = %q, want %q", got, want)
	}
}

func TestEvent_CostCenter(t *testing.T) {
	withPSP := Event{Meta: map[string]string{"PSP": "XG-123"}}
	if got := withPSP.CostCenter(); got != "XG-123" {
		t.Errorf("CostCenter() = %q, want %q", got, "XG-123")
	}

	withoutPSP := Event{Meta: map[string]string{"Audience": "500"}}
	if got := withoutPSP.CostCenter(); got != "" {
		t.Errorf("CostCenter() without PSP = %q, want empty", got)
	}

	var nilMeta Event
	if got := nilMeta.CostCenter(); got != "" {
		t.Errorf("CostCenter() with nil meta = %q, want empty", got)
	}
}

func TestOrder_Validate(t *testing.T) {
	valid := Order{
		Code:    "A1B2C",
		Status:  StatusPaid,
		Total:   decimal.New(10000, -2),
		Created: time.Date(2018, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid order: %v", err)
	}

	noCode := valid
	noCode.Code = " "
	if err := noCode.Validate(); err != ErrEmptyCode {
		t.Errorf("blank code: got %v, want %v", err, ErrEmptyCode)
	}

	noCreated := valid
	noCreated.Created = time.Time{}
	if err := noCreated.Validate(); err != ErrZeroCreated {
		t.Errorf("zero created: got %v, want %v", err, ErrZeroCreated)
	}

	badStatus := valid
	badStatus.Status = "shipped"
	if err := badStatus.Validate(); err == nil {
		t.Error("invalid status: expected error")
	}
}
