package pdfexport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

type InvoiceData struct {
	Number         string
	IssuedAt       time.Time
	CompanyName    string
	CompanyEmail   string
	VAName         string
	ContractTitle  string
	MilestoneTitle string
	Description    string
	Amount         float64
	Currency       string
	Status         string
}

func GenerateInvoice(data InvoiceData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateInvoice panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+data.Number, false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	_, lineHt := pdf.GetFontSize()
	lineHt += 2
	pdf.CellFormat(0, lineHt, tr("No. "+data.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHt, "Date: "+data.IssuedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeParty(pdf, tr, lineHt, "Bill to", data.CompanyName, data.CompanyEmail)
	writeParty(pdf, tr, lineHt, "Payee", data.VAName, "")
	pdf.Ln(4)

	// table
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(130, lineHt+2, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, lineHt+2, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	item := data.MilestoneTitle
	if data.ContractTitle != "" {
		item = data.ContractTitle + ": " + item
	}
	pdf.CellFormat(130, lineHt+2, tr(item), "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, lineHt+2, formatAmount(data.Amount, data.Currency), "1", 1, "R", false, 0, "")
	if data.Description != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, lineHt, tr(data.Description), "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, lineHt+2, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(0, lineHt+2, formatAmount(data.Amount, data.Currency), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, lineHt, "Status: "+data.Status, "", 1, "L", false, 0, "")

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeParty(pdf *fpdf.Fpdf, tr func(string) string, lineHt float64, label, name, email string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHt, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, lineHt, tr(name), "", 1, "L", false, 0, "")
	if email != "" {
		pdf.CellFormat(0, lineHt, tr(email), "", 1, "L", false, 0, "")
	}
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}
