package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"folha/internal/domain/finance"
	"folha/internal/domain/payroll"
	"folha/internal/domain/records"
)

const (
	pageFont = "Helvetica"
	rowH     = 7.0
)

type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// newDocument returns an A4 page with a cp1252 translator so accented
// pt-BR labels render with the core fonts.
func newDocument(title string) *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetTitle(title, true)
	pdf.SetCreator("folha", true)
	pdf.AddPage()
	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFont(pageFont, "B", 14)
	pdf.SetTextColor(11, 95, 255)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
	return d
}

func (d *document) header(cols []string, widths []float64) {
	d.pdf.SetFont(pageFont, "B", 10)
	d.pdf.SetFillColor(11, 95, 255)
	d.pdf.SetTextColor(255, 255, 255)
	for i, col := range cols {
		d.pdf.CellFormat(widths[i], rowH, d.tr(col), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont(pageFont, "", 10)
}

func (d *document) row(cells []string, widths []float64) {
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		d.pdf.CellFormat(widths[i], rowH, d.tr(cell), "1", 0, align, false, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) write(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

// WritePayslip renders the holerite: earnings, INSS per bracket, IRRF and
// the informational FGTS deposit.
func WritePayslip(w io.Writer, employee records.Employee, result payroll.PayrollResult) error {
	d := newDocument("Holerite - Folha de Pagamento")

	d.pdf.SetFont(pageFont, "", 10)
	info := [][2]string{
		{"Funcionário:", employee.Name},
		{"CPF:", employee.CPF},
		{"Cargo:", employee.Role},
		{"Admissão:", employee.Admission.Format("02/01/2006")},
		{"Dependentes:", fmt.Sprintf("%d", result.Dependents)},
	}
	for _, kv := range info {
		d.pdf.SetFont(pageFont, "B", 10)
		d.pdf.CellFormat(35, 6, d.tr(kv[0]), "", 0, "L", false, 0, "")
		d.pdf.SetFont(pageFont, "", 10)
		d.pdf.CellFormat(0, 6, d.tr(kv[1]), "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(4)

	widths := []float64{96, 45, 45}
	d.header([]string{"Descrição", "Proventos", "Descontos"}, widths)
	d.row([]string{"Salário Base", FormatBRL(result.GrossSalary), ""}, widths)
	d.row([]string{"Benefícios", FormatBRL(result.Benefits), ""}, widths)
	d.row([]string{"INSS - Detalhamento", "", ""}, widths)
	for _, slice := range result.INSSBreakdown {
		label := fmt.Sprintf("Faixa %s - %s (%s)", slice.From.StringFixed(2), slice.To.StringFixed(2), FormatPercent(slice.Rate))
		d.row([]string{label, "", FormatBRL(slice.Amount)}, widths)
	}
	d.row([]string{"Total INSS", "", FormatBRL(result.INSSTotal)}, widths)
	d.row([]string{"Base IR (salário - INSS - dependentes - outras)", FormatBRL(result.IRRFBase), ""}, widths)
	d.row([]string{fmt.Sprintf("IRRF (%s)", FormatPercent(result.IRRFRate)), "", FormatBRL(result.IRRFTotal)}, widths)
	d.row([]string{"Parcela a deduzir (IR)", "", FormatBRL(result.IRRFDeductionParcel)}, widths)
	d.row([]string{"Outras Deduções", "", FormatBRL(result.OtherDeductions)}, widths)
	d.row([]string{"FGTS (8%) - informativo", FormatBRL(result.FGTS), ""}, widths)
	d.row([]string{"Total Bruto", FormatBRL(result.TotalEarnings), ""}, widths)
	d.row([]string{"Total Líquido", FormatBRL(result.NetPay), ""}, widths)

	return d.write(w)
}

func WriteDRE(w io.Writer, summary finance.DRESummary, generatedAt time.Time) error {
	d := newDocument("DRE - Demonstração do Resultado do Exercício")
	d.pdf.SetFont(pageFont, "", 9)
	d.pdf.CellFormat(0, 5, d.tr(fmt.Sprintf("CBS %s | IBS %s | Emitido em %s",
		FormatPercent(summary.Rates.CBS), FormatPercent(summary.Rates.IBS), generatedAt.Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)

	widths := []float64{126, 60}
	d.header([]string{"Item", "Valor"}, widths)
	for _, line := range summary.Lines {
		d.row([]string{line.Label, FormatBRL(line.Value)}, widths)
	}
	return d.write(w)
}
