package bill

import "time"

// Status values a bill moves through. A freshly submitted bill is always
// pending; review happens elsewhere.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// ExpenseTypes lists the accepted expense categories.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

// Bill represents one expense-report record
type Bill struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Date       string    `json:"date"` // raw ISO-8601 calendar date (YYYY-MM-DD)
	Amount     int       `json:"amount"` // Amount in cents
	Vat        int       `json:"vat"`
	Pct        int       `json:"pct"`
	Commentary string    `json:"commentary,omitempty"`
	FileURL    string    `json:"fileUrl"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath,omitempty"` // storage-relative path of the receipt
	FileType   string    `json:"fileType,omitempty"` // content type of the receipt
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is one of the known bill statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}
