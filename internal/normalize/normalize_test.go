package normalize

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestTitle_CreateRequired(t *testing.T) {
	cases := []json.RawMessage{nil, raw(`null`), raw(`""`)}
	for _, c := range cases {
		if _, err := Title(c, false); !IsValidation(err) {
			t.Fatalf("Title(%s) expected validation error, got %v", c, err)
		}
	}
}

func TestTitle_UpdateCannotClear(t *testing.T) {
	for _, c := range []json.RawMessage{raw(`null`), raw(`""`)} {
		_, err := Title(c, true)
		if !IsValidation(err) {
			t.Fatalf("Title(%s, update) expected validation error, got %v", c, err)
		}
		if err.Error() != "title can't be empty" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	}
}

func TestTitle_NonString(t *testing.T) {
	for _, c := range []json.RawMessage{raw(`0`), raw(`[]`), raw(`{"a":1}`), raw(`true`)} {
		if _, err := Title(c, false); !IsValidation(err) {
			t.Fatalf("Title(%s) expected validation error, got %v", c, err)
		}
	}
}

func TestTitle_LengthBoundaries(t *testing.T) {
	if got, err := Title(raw(`"a"`), false); err != nil || got != "a" {
		t.Fatalf("1-char title rejected: %v", err)
	}
	max := strings.Repeat("a", 50)
	if got, err := Title(raw(`"`+max+`"`), false); err != nil || got != max {
		t.Fatalf("50-char title rejected: %v", err)
	}
	over := strings.Repeat("a", 51)
	if _, err := Title(raw(`"`+over+`"`), false); !IsValidation(err) {
		t.Fatalf("51-char title accepted")
	}
}

func TestTitle_CountsRunesNotBytes(t *testing.T) {
	// 50 Cyrillic characters = 100 bytes, still within bounds.
	title := strings.Repeat("ы", 50)
	b, _ := json.Marshal(title)
	if _, err := Title(b, false); err != nil {
		t.Fatalf("50-rune multibyte title rejected: %v", err)
	}
}

func TestLink_SchemeAllowList(t *testing.T) {
	good := []string{"http://example.com", "https://example.com", "https://example.com/path?x=1"}
	for _, l := range good {
		b, _ := json.Marshal(l)
		got, err := Link(b)
		if err != nil || got == nil || *got != l {
			t.Fatalf("Link(%q) rejected: %v", l, err)
		}
	}

	bad := []string{"example.com", "ftp://example.com", "javascript:alert(1)", "http//missing-colon.com", "HTTP://example.com"}
	for _, l := range bad {
		b, _ := json.Marshal(l)
		if _, err := Link(b); !IsValidation(err) {
			t.Fatalf("Link(%q) accepted", l)
		}
	}
}

func TestLink_AbsentAndNull(t *testing.T) {
	if got, err := Link(nil); err != nil || got != nil {
		t.Fatalf("absent link: got %v, %v", got, err)
	}
	if got, err := Link(raw(`null`)); err != nil || got != nil {
		t.Fatalf("null link: got %v, %v", got, err)
	}
}

func TestLink_TooLong(t *testing.T) {
	l := "https://example.com/" + strings.Repeat("a", 200)
	b, _ := json.Marshal(l)
	if _, err := Link(b); !IsValidation(err) {
		t.Fatalf("overlong link accepted")
	}
}

func TestPrice_RoundHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`10.127`, "10.13"},
		{`19.995`, "20.00"},
		{`"19.995"`, "20.00"},
		{`0`, "0.00"},
		{`2.005`, "2.01"},
		{`1`, "1.00"},
	}
	for _, c := range cases {
		p, err := Price(raw(c.in))
		if err != nil {
			t.Fatalf("Price(%s): %v", c.in, err)
		}
		if got := p.StringFixed(2); got != c.want {
			t.Fatalf("Price(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPrice_Negative(t *testing.T) {
	if _, err := Price(raw(`-1`)); !IsValidation(err) {
		t.Fatalf("negative price accepted")
	}
	if _, err := PriceLiteral("-0.01"); !IsValidation(err) {
		t.Fatalf("negative literal accepted")
	}
}

func TestPrice_NonNumeric(t *testing.T) {
	for _, c := range []json.RawMessage{raw(`"abc"`), raw(`[]`), raw(`true`)} {
		if _, err := Price(c); !IsValidation(err) {
			t.Fatalf("Price(%s) accepted", c)
		}
	}
}

func TestPrice_AbsentAndNull(t *testing.T) {
	if p, err := Price(nil); err != nil || p != nil {
		t.Fatalf("absent price: %v, %v", p, err)
	}
	if p, err := Price(raw(`null`)); err != nil || p != nil {
		t.Fatalf("null price: %v, %v", p, err)
	}
}

func TestNotes_Bounds(t *testing.T) {
	okNotes := strings.Repeat("x", 1000)
	b, _ := json.Marshal(okNotes)
	if got, err := Notes(b); err != nil || got == nil || *got != okNotes {
		t.Fatalf("1000-char notes rejected: %v", err)
	}

	tooLong := strings.Repeat("x", 1001)
	b, _ = json.Marshal(tooLong)
	if _, err := Notes(b); !IsValidation(err) {
		t.Fatalf("1001-char notes accepted")
	}

	if _, err := Notes(raw(`0`)); !IsValidation(err) {
		t.Fatalf("numeric notes accepted")
	}
}

func TestSearchTerm_Bounds(t *testing.T) {
	if _, err := SearchTerm(""); !IsValidation(err) {
		t.Fatalf("empty term accepted")
	}
	if _, err := SearchTerm(strings.Repeat("x", 101)); !IsValidation(err) {
		t.Fatalf("101-char term accepted")
	}
	if got, err := SearchTerm("x"); err != nil || got != "x" {
		t.Fatalf("1-char term rejected: %v", err)
	}
	if _, err := SearchTerm(strings.Repeat("x", 100)); err != nil {
		t.Fatalf("100-char term rejected: %v", err)
	}
}

func TestTimestamp_CanonicalFormat(t *testing.T) {
	in := time.Date(2024, 7, 1, 14, 30, 45, 987654321, time.FixedZone("CEST", 2*3600))
	got := Timestamp(in)
	if got != "2024-07-01T12:30:45Z" {
		t.Fatalf("Timestamp = %q", got)
	}
	if !strings.HasSuffix(got, "Z") || strings.Contains(got, ".") {
		t.Fatalf("not canonical: %q", got)
	}
	if _, err := time.Parse(time.RFC3339, got); err != nil {
		t.Fatalf("not RFC3339: %v", err)
	}
}

func TestIsValidation(t *testing.T) {
	if IsValidation(nil) {
		t.Fatal("nil is not a validation error")
	}
	if !IsValidation(NewValidationError("boom")) {
		t.Fatal("ValidationError not detected")
	}
}
