package infra

// pdf.go renders the admin report and the nightly summary with go-pdf/fpdf.
// The core Helvetica font has no naira glyph, so amounts print as "NGN 8,000.00".

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"citycut/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Naira formats an amount with thousands separators and two decimals.
func Naira(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%sNGN %s.%s", sign, b.String(), frac)
}

func newA4() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf
}

func header(pdf *fpdf.Fpdf, title, subtitle string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "CityCut BarberShop", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func kv(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, value, "", 1, "R", false, 0, "")
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func table(pdf *fpdf.Fpdf, widths []float64, head []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range head {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 5, cell, "", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// WriteReportPDF renders a period report to w.
func WriteReportPDF(r *dto.Report, w io.Writer) error {
	pdf := newA4()
	header(pdf, fmt.Sprintf("Business report (%s)", r.Period),
		fmt.Sprintf("%s to %s", r.From.Format("02 Jan 2006"), r.To.AddDate(0, 0, -1).Format("02 Jan 2006")))

	section(pdf, "Summary")
	kv(pdf, "Revenue", Naira(r.Revenue))
	kv(pdf, "Expenses", Naira(r.Expenses))
	kv(pdf, "Net profit", Naira(r.NetProfit))
	kv(pdf, "Profit margin", r.ProfitMargin.StringFixed(1)+"%")
	kv(pdf, "Revenue growth", r.RevenueGrowth.StringFixed(1)+"%")
	kv(pdf, "Services", fmt.Sprintf("%d", r.ServiceCount))
	kv(pdf, "Customers served", fmt.Sprintf("%d", r.CustomerCount))
	kv(pdf, "Average customer value", Naira(r.AvgCustomerValue))
	kv(pdf, "Customer retention", r.RetentionRate.StringFixed(1)+"%")

	if len(r.ByServiceType) > 0 {
		section(pdf, "Revenue by service")
		rows := make([][]string, 0, len(r.ByServiceType))
		for _, s := range r.ByServiceType {
			rows = append(rows, []string{s.ServiceType, fmt.Sprintf("%d", s.Count), Naira(s.Revenue)})
		}
		table(pdf, []float64{90, 30, 60}, []string{"Service", "Count", "Revenue"}, rows)
	}

	if len(r.ByPaymentMethod) > 0 {
		section(pdf, "Payment methods")
		rows := make([][]string, 0, len(r.ByPaymentMethod))
		for _, p := range r.ByPaymentMethod {
			rows = append(rows, []string{p.PaymentMethod, fmt.Sprintf("%d", p.Count), Naira(p.Amount), p.Percentage.StringFixed(1) + "%"})
		}
		table(pdf, []float64{60, 25, 60, 35}, []string{"Method", "Count", "Amount", "Share"}, rows)
	}

	if len(r.TopCustomers) > 0 {
		section(pdf, "Top customers")
		rows := make([][]string, 0, len(r.TopCustomers))
		for _, c := range r.TopCustomers {
			rows = append(rows, []string{c.Name + " (" + c.Phone + ")", fmt.Sprintf("%d", c.Visits), Naira(c.TotalSpent)})
		}
		table(pdf, []float64{90, 30, 60}, []string{"Customer", "Visits", "Spent"}, rows)
	}

	if len(r.Trend) > 0 {
		section(pdf, "Monthly trend")
		rows := make([][]string, 0, len(r.Trend))
		for _, m := range r.Trend {
			rows = append(rows, []string{m.Month, Naira(m.Revenue), Naira(m.Expenses), Naira(m.Profit)})
		}
		table(pdf, []float64{30, 50, 50, 50}, []string{"Month", "Revenue", "Expenses", "Profit"}, rows)
	}

	return pdf.Output(w)
}

// GenerateDailySummaryPDF writes the nightly summary to storagePath and returns
// the file path.
func GenerateDailySummaryPDF(s *dto.DailySummary, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(storagePath, fmt.Sprintf("daily_%s.pdf", s.Date.Format("2006-01-02")))

	pdf := newA4()
	header(pdf, "Daily summary", s.Date.Format("Monday, 02 Jan 2006"))
	kv(pdf, "Services", fmt.Sprintf("%d", s.Services))
	kv(pdf, "Revenue", Naira(s.Revenue))
	kv(pdf, "Expenses", Naira(s.Expenses))
	kv(pdf, "Net", Naira(s.Revenue.Sub(s.Expenses)))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", path, err)
	}
	return path, nil
}
