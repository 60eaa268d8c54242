package types

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestLiteralValue_Coercion(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKind ValueKind
		wantNum  float64
	}{
		{"plain integer", "42", KindNumber, 42},
		{"decimal", "2.5", KindNumber, 2.5},
		{"negative", "-100", KindNumber, -100},
		{"zero", "0", KindNumber, 0},
		// Round-trip failures stay strings: the author sees exactly what
		// they typed.
		{"leading zero", "025", KindString, 0},
		{"trailing zero decimal", "42.0", KindString, 0},
		{"scientific notation", "1e10", KindString, 0},
		{"number with suffix", "42a", KindString, 0},
		{"plus sign", "+42", KindString, 0},
		{"empty string", "", KindString, 0},
		{"word", "pdf", KindString, 0},
		{"boolean text stays string", "true", KindString, 0},
		{"date text stays string", "2026-01-15", KindString, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := LiteralValue(tt.text)
			if v.Kind() != tt.wantKind {
				t.Fatalf("LiteralValue(%q).Kind() = %v, want %v", tt.text, v.Kind(), tt.wantKind)
			}
			if tt.wantKind == KindNumber {
				got, _ := v.AsNumber()
				if got != tt.wantNum {
					t.Errorf("AsNumber() = %v, want %v", got, tt.wantNum)
				}
			} else {
				got, _ := v.AsString()
				if got != tt.text {
					t.Errorf("AsString() = %q, want %q", got, tt.text)
				}
			}
		})
	}
}

func TestLiteralValue_RoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("numbers are exactly those texts that round-trip", prop.ForAll(
		func(text string) bool {
			v := LiteralValue(text)
			if f, ok := v.AsNumber(); ok {
				return strconv.FormatFloat(f, 'f', -1, 64) == text
			}
			s, ok := v.AsString()
			return ok && s == text
		},
		gen.AnyString(),
	))

	properties.Property("canonical float text always coerces to a number", prop.ForAll(
		func(f float64) bool {
			text := strconv.FormatFloat(f, 'f', -1, 64)
			v := LiteralValue(text)
			got, ok := v.AsNumber()
			return ok && got == f
		},
		gen.Float64Range(-1e15, 1e15),
	))

	properties.TestingRun(t)
}

func TestValue_Equal(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal strings", StringValue("x"), StringValue("x"), true},
		{"unequal strings", StringValue("x"), StringValue("y"), false},
		{"equal numbers", NumberValue(1), NumberValue(1), true},
		{"equal bools", BoolValue(true), BoolValue(true), true},
		{"equal dates", DateValue(day), DateValue(day.In(time.FixedZone("", 3600))), true},
		{"nulls are equal", NullValue(), NullValue(), true},
		{"mismatched kinds", StringValue("1"), NumberValue(1), false},
		{"null vs string", NullValue(), StringValue(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	values := []Value{
		StringValue("pdf"),
		StringValue(""),
		NumberValue(42),
		NumberValue(-2.5),
		BoolValue(true),
		BoolValue(false),
		NullValue(),
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", v, err)
		}
		var got Value
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if !got.Equal(v) {
			t.Errorf("round trip of %v via %s = %v", v, data, got)
		}
	}
}

func TestValue_MarshalDate(t *testing.T) {
	v := DateValue(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC))
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2026-01-15T10:30:00Z"` {
		t.Errorf("Marshal() = %s, want RFC3339 string", data)
	}
}

func TestValue_UnmarshalRejectsComposites(t *testing.T) {
	for _, data := range []string{`[1, 2]`, `{"a": 1}`} {
		var v Value
		if err := json.Unmarshal([]byte(data), &v); err == nil {
			t.Errorf("Unmarshal(%s) error = nil, want ErrInvalidValueLiteral", data)
		}
	}
}
