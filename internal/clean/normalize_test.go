package clean

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"9876543210", "+91-9876543210"},
		{"98765 43210", "+91-9876543210"},
		{"(987) 654-3210", "+91-9876543210"},
		{"919876543210", "+91-9876543210"},
		{"+91-9876543210", "+91-9876543210"},
		{"0919876543210", "+91-9876543210"},
		{"98765", ""},
		{"", ""},
		{"no digits", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in, "91"); got != c.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"electronics", "Electronics"},
		{"HOME & KITCHEN", "Home & Kitchen"},
		{"  sports gear  ", "Sports Gear"},
		{"électronics", "Electronics"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := TitleCase(c.in); got != c.want {
			t.Fatalf("TitleCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseISODate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2025-12-30", "2025-12-30"},
		{"30-12-2025", "2025-12-30"},
		{"30/12/2025", "2025-12-30"},
		{"12-30-2025", "2025-12-30"},
		{"12/30/2025", "2025-12-30"},
		{"2025/12/30", "2025-12-30"},
		{"invalid", ""},
		{"", ""},
		{"  ", ""},
	}
	for _, c := range cases {
		if got := ParseISODate(c.in); got != c.want {
			t.Fatalf("ParseISODate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// Day <= 12 is ambiguous between the day-first and month-first patterns; the
// day-first pattern sits earlier in the priority list and must win.
func TestParseISODateAmbiguityPriority(t *testing.T) {
	if got := ParseISODate("05-04-2025"); got != "2025-04-05" {
		t.Fatalf("expected day-first reading, got %q", got)
	}
}

func TestToFixedDecimal(t *testing.T) {
	if v, ok := ToFixedDecimal("12.5"); !ok || v != "12.50" {
		t.Fatalf("got %q %v", v, ok)
	}
	if v, ok := ToFixedDecimal(" 100 "); !ok || v != "100.00" {
		t.Fatalf("got %q %v", v, ok)
	}
	if _, ok := ToFixedDecimal("abc"); ok {
		t.Fatalf("abc should not parse")
	}
	if _, ok := ToFixedDecimal(""); ok {
		t.Fatalf("empty should not parse")
	}
}

func TestToInt(t *testing.T) {
	if got := ToInt("42", 0); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := ToInt("3.0", 0); got != 3 {
		t.Fatalf("got %d", got)
	}
	if got := ToInt("3.9", 0); got != 3 {
		t.Fatalf("truncation: got %d", got)
	}
	if got := ToInt("", 7); got != 7 {
		t.Fatalf("default on empty: got %d", got)
	}
	if got := ToInt("x", -1); got != -1 {
		t.Fatalf("default on junk: got %d", got)
	}
}
