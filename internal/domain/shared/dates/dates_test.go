package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-04-12")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.String() != "2025-04-12" {
		t.Fatalf("String() = %q", d.String())
	}
	if _, err := Parse("12/04/2025"); err == nil {
		t.Fatal("expected error for non-ISO input")
	}
}

func TestFromTimeDropsClock(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	if got := FromTime(stamp); got.String() != "2025-06-01" {
		t.Fatalf("FromTime = %s", got)
	}
}

func TestAddDaysCalendarSafe(t *testing.T) {
	cases := []struct {
		start string
		days  int
		want  string
	}{
		{"2025-02-28", 1, "2025-03-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2025-12-31", 1, "2026-01-01"},
		{"2025-03-30", 1, "2025-03-31"}, // across a European DST switch weekend
		{"2025-05-04", -3, "2025-05-01"},
	}
	for _, tc := range cases {
		got := MustParse(tc.start).AddDays(tc.days)
		if got.String() != tc.want {
			t.Errorf("%s + %d days = %s, want %s", tc.start, tc.days, got, tc.want)
		}
	}
}

func TestRangeNightsAndContains(t *testing.T) {
	r, err := NewRange(MustParse("2025-06-01"), MustParse("2025-06-03"))
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	if r.Nights() != 2 {
		t.Fatalf("Nights = %d, want 2", r.Nights())
	}
	// Half-open: check-in and the middle night occupied, check-out day free.
	for _, occupied := range []string{"2025-06-01", "2025-06-02"} {
		if !r.ContainsDate(MustParse(occupied)) {
			t.Errorf("expected %s to be occupied", occupied)
		}
	}
	for _, free := range []string{"2025-05-31", "2025-06-03"} {
		if r.ContainsDate(MustParse(free)) {
			t.Errorf("expected %s to be free", free)
		}
	}
}

func TestRangeValidate(t *testing.T) {
	if _, err := NewRange(MustParse("2025-06-03"), MustParse("2025-06-01")); err == nil {
		t.Fatal("inverted range should be rejected")
	}
	if _, err := NewRange(MustParse("2025-06-01"), MustParse("2025-06-01")); err == nil {
		t.Fatal("zero-night range should be rejected")
	}
}

func TestRangeOverlaps(t *testing.T) {
	base := Range{CheckIn: MustParse("2025-06-01"), CheckOut: MustParse("2025-06-05")}
	cases := []struct {
		in, out string
		want    bool
	}{
		{"2025-06-04", "2025-06-06", true},
		{"2025-05-30", "2025-06-02", true},
		{"2025-06-05", "2025-06-07", false}, // back-to-back stays share no night
		{"2025-05-28", "2025-06-01", false},
	}
	for _, tc := range cases {
		other := Range{CheckIn: MustParse(tc.in), CheckOut: MustParse(tc.out)}
		if got := base.Overlaps(other); got != tc.want {
			t.Errorf("Overlaps(%s..%s) = %v, want %v", tc.in, tc.out, got, tc.want)
		}
	}
}

func TestRangeDates(t *testing.T) {
	r := Range{CheckIn: MustParse("2025-05-01"), CheckOut: MustParse("2025-05-04")}
	got := r.Dates()
	want := []string{"2025-05-01", "2025-05-02", "2025-05-03"}
	if len(got) != len(want) {
		t.Fatalf("Dates() returned %d entries, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("Dates()[%d] = %s, want %s", i, got[i], w)
		}
	}
	inverted := Range{CheckIn: MustParse("2025-05-04"), CheckOut: MustParse("2025-05-01")}
	if len(inverted.Dates()) != 0 {
		t.Fatal("inverted range should yield no dates")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type doc struct {
		CheckIn Date `json:"check_in"`
	}
	var d doc
	if err := json.Unmarshal([]byte(`{"check_in":"2025-11-04"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"check_in":"2025-11-04"}` {
		t.Fatalf("round trip = %s", out)
	}
	var empty doc
	if err := json.Unmarshal([]byte(`{"check_in":""}`), &empty); err != nil {
		t.Fatalf("empty unmarshal: %v", err)
	}
	if !empty.CheckIn.IsZero() {
		t.Fatal("empty string should decode to zero date")
	}
}
