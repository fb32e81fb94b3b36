package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/JoshiWorld/rechnungssteller-api/internal/config"
	"github.com/JoshiWorld/rechnungssteller-api/internal/order"
)

const dateLayout = "2006-01-02"

// Renderer produces the invoice PDF for an order. The output is plain drawn
// text, so the document is flattened by construction.
type Renderer struct {
	seller config.InvoiceConfig
	now    func() time.Time
}

func NewRenderer(seller config.InvoiceConfig) *Renderer {
	return &Renderer{seller: seller, now: time.Now}
}

func (r *Renderer) Render(o *order.Detail) ([]byte, error) {
	items, err := BuildLineItems(o.Articles)
	if err != nil {
		return nil, err
	}

	issueDate := r.now()
	dueDate := issueDate.AddDate(0, 0, 7)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Seller block.
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(r.seller.SellerName))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{r.seller.SellerStreet, r.seller.SellerCity, r.seller.SellerCountry} {
		if line == "" {
			continue
		}
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}
	pdf.Ln(8)

	// Payer block.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, tr(o.User.Forename+" "+o.User.Surname))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, tr(o.User.Street))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(o.User.Zip+" "+o.User.City))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(o.User.Country))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, tr("Rechnung Nr. "+o.Invoice))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, "Datum: "+issueDate.Format(dateLayout))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr("Fällig am: "+dueDate.Format(dateLayout)))
	pdf.Ln(10)

	// Line-item table: six fixed rows, filled from the top.
	colWidths := []float64{45, 55, 15, 25, 15, 35}
	headers := []string{"Artikel", "Beschreibung", "Menge", "Einzelpreis", "USt.", "Betrag"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, tr(h), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for row := 0; row < maxLineItems; row++ {
		cells := make([]string, len(headers))
		if row < len(items) {
			item := items[row]
			cells[0] = item.Title
			cells[1] = item.Description
			cells[2] = fmt.Sprintf("%d", item.Quantity)
			cells[3] = formatAmount(item.UnitPrice)
			cells[4] = item.Tax
			cells[5] = formatAmount(item.Amount)
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 7, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	// The total is summed from the article prices directly, not from the
	// rendered rows, mirroring the established invoice output.
	var total float64
	for _, a := range o.Articles {
		total += a.Price
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 8, "Gesamt", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, tr(formatAmount(total)), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice: failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}
