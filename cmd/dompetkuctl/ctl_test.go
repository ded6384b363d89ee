package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"dompetku/internal/core"
	"dompetku/internal/period"
)

func TestWritePeriods(t *testing.T) {
	calc := period.Calculator{}
	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, period.WITA())

	var buf bytes.Buffer
	if err := writePeriods(&buf, calc.Options(now, 2)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "2025-12-25") || !strings.HasSuffix(lines[1], "*") {
		t.Fatalf("current period row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2025-11-25") || strings.HasSuffix(lines[2], "*") {
		t.Fatalf("previous period row = %q", lines[2])
	}
}

func TestWriteSummary(t *testing.T) {
	calc := period.Calculator{}
	start := time.Date(2025, time.December, 25, 0, 0, 0, 0, period.WITA())
	txs := []core.Transaction{
		{ID: "2", Timestamp: start.Add(48 * time.Hour), TransactionFields: core.TransactionFields{Type: core.Expense, Amount: core.Money{Units: 250000}, Category: "Makan", Description: "Warung"}},
		{ID: "1", Timestamp: start.Add(time.Hour), TransactionFields: core.TransactionFields{Type: core.Income, Amount: core.Money{Units: 1500000}, Category: "Gaji"}},
	}
	s := core.Summarize(calc.Range(start), txs)

	var buf bytes.Buffer
	if err := writeSummary(&buf, calc.OptionFor(start), s, "Rp", true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"25 Dec 2025 - 24 Jan 2026", "Rp 1.500.000", "Rp 250.000", "Rp 1.250.000", "Warung", "2025-12-27 00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
