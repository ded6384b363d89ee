package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"dompetku/internal/core"
)

func parserFor(body, contentType string) *RequestBodyParser {
	r := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(body))
	r.Header.Set("Content-Type", contentType)
	return NewRequestBodyParser(httptest.NewRecorder(), r)
}

func TestParseTransactionFields(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		want    core.TransactionFields
		wantErr error
	}{
		{
			name: "expense",
			form: url.Values{"type": {"expense"}, "amount": {"25000"}, "description": {" Kopi "}, "category": {"Makan"}},
			want: core.TransactionFields{Type: core.Expense, Amount: core.Money{Units: 25000}, Description: "Kopi", Category: "Makan"},
		},
		{
			name: "income ignores category",
			form: url.Values{"type": {"income"}, "amount": {"5.000.000"}, "description": {"Gaji"}, "category": {"Makan"}},
			want: core.TransactionFields{Type: core.Income, Amount: core.Money{Units: 5000000}, Description: "Gaji", Category: core.IncomeCategory},
		},
		{
			name: "legacy alias",
			form: url.Values{"type": {"pengeluaran"}, "amount": {"0"}, "category": {"Lain"}},
			want: core.TransactionFields{Type: core.Expense, Amount: core.Money{Units: 0}, Category: "Lain"},
		},
		{
			name:    "unknown type",
			form:    url.Values{"type": {"transfer"}, "amount": {"1"}},
			wantErr: core.ErrInvalidType,
		},
		{
			name:    "negative amount",
			form:    url.Values{"type": {"expense"}, "amount": {"-5"}, "category": {"x"}},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "missing amount",
			form:    url.Values{"type": {"income"}},
			wantErr: core.ErrInvalidAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransactionFields(parserFor(tt.form.Encode(), "application/x-www-form-urlencoded"))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseTransactionFieldsJSON(t *testing.T) {
	p := parserFor(`{"type":"expense","amount":15000,"description":"Parkir","category":"Transport"}`, "application/json")
	got, err := ParseTransactionFields(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsJSON() || got.Amount.Units != 15000 || got.Category != "Transport" {
		t.Fatalf("got %+v", got)
	}

	if _, err := ParseTransactionFields(parserFor(`{"type":`, "application/json")); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("malformed JSON must be invalid input, got %v", err)
	}
}

func TestRequestBodyParserLimit(t *testing.T) {
	p := parserFor("description="+strings.Repeat("a", maxBodyBytes+1), "application/x-www-form-urlencoded")
	if err := p.Parse(); err == nil {
		t.Fatal("oversized body must fail")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  hello  ":       "hello",
		"a\x00b\x07c":     "abc",
		"line1\nline2\tx": "line1\nline2\tx",
		"":                "",
	}
	for in, want := range tests {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}
