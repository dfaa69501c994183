package invoice

import "time"

type Invoice struct {
	ID            int64     `json:"invoice_id"`
	OrderID       int64     `json:"order_id"`
	InvoiceNumber string    `json:"invoice_number"`
	FilePath      string    `json:"file_path"`
	FileURL       string    `json:"file_url"`
	GeneratedAt   time.Time `json:"generated_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// document is the number and storage location of an invoice file. No file
// is rendered; the path and URL are placeholders for a PDF renderer.
type document struct {
	Number string
	Path   string
	URL    string
}

func newDocument(number, baseURL string) document {
	name := number + ".pdf"
	return document{
		Number: number,
		Path:   "/invoices/" + name,
		URL:    baseURL + "/" + name,
	}
}
