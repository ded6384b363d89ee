package http

import (
	"errors"
	"strconv"

	"dompetku/internal/core"
	"dompetku/internal/period"
)

const timestampLayout = "02 Jan 2006 15:04"

// Notice texts shown after each action.
const (
	msgAdded         = "Transaksi berhasil ditambahkan!"
	msgUpdated       = "Data berhasil diperbarui!"
	msgDeleted       = "Data telah dihapus."
	msgNotFound      = "Transaksi tidak ditemukan."
	msgInvalidPeriod = "Periode tidak valid."
	msgFailure       = "Terjadi kesalahan pada penyimpanan data. Silakan coba lagi nanti."
)

type transactionRow struct {
	ID          string
	Date        string
	Type        string
	TypeLabel   string
	Amount      string
	RawAmount   string
	Description string
	Category    string
	IsIncome    bool
}

type indexView struct {
	Options     []period.Option
	Selected    string
	PeriodLabel string
	Rows        []transactionRow
	Income      string
	Expense     string
	Balance     string
	Negative    bool
	Flash       *Flash
}

func newIndexView(s core.PeriodSummary, options []period.Option, selected period.Option, currency string) indexView {
	v := indexView{
		Options:     options,
		Selected:    selected.Value,
		PeriodLabel: selected.Label,
		Rows:        make([]transactionRow, 0, len(s.Transactions)),
		Income:      s.Income.Format(currency),
		Expense:     s.Expense.Format(currency),
		Balance:     s.Balance.Format(currency),
		Negative:    s.Balance.Units < 0,
	}
	found := false
	for _, o := range options {
		if o.Value == selected.Value {
			found = true
			break
		}
	}
	if !found {
		v.Options = append(v.Options, selected)
	}
	for _, t := range s.Transactions {
		v.Rows = append(v.Rows, transactionRow{
			ID:          t.ID,
			Date:        t.Timestamp.Format(timestampLayout),
			Type:        t.Type.String(),
			TypeLabel:   typeLabel(t.Type),
			Amount:      t.Amount.Format(currency),
			RawAmount:   strconv.FormatInt(t.Amount.Units, 10),
			Description: t.Description,
			Category:    t.Category,
			IsIncome:    t.Type == core.Income,
		})
	}
	return v
}

func typeLabel(t core.TransactionType) string {
	switch t {
	case core.Income:
		return "Pemasukan"
	case core.Expense:
		return "Pengeluaran"
	default:
		return t.String()
	}
}

// invalidInputMessage turns a validation error into a user notice.
func invalidInputMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Jumlah harus berupa bilangan bulat tidak negatif."
	case errors.Is(err, core.ErrInvalidType):
		return "Jenis transaksi harus pemasukan atau pengeluaran."
	case errors.Is(err, core.ErrMissingCategory):
		return "Kategori wajib diisi untuk pengeluaran."
	default:
		return "Data transaksi tidak valid."
	}
}
