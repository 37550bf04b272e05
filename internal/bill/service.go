package bill

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator generates unique IDs for bills
type IDGenerator interface {
	Generate() string
}

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultClock provides the current time
type defaultClock struct{}

func (c *defaultClock) Now() time.Time {
	return time.Now()
}

// Update carries the fields an employee fills in on the new-bill form.
// The receipt file fields are owned by the upload step and never move
// through here.
type Update struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	Amount     int    `json:"amount"`
	Vat        int    `json:"vat"`
	Pct        int    `json:"pct"`
	Commentary string `json:"commentary"`
	Status     string `json:"status"`
}

// Service handles bill operations on the store side
type Service struct {
	db          DB
	storage     Storage
	idGenerator IDGenerator
	clock       Clock
}

// NewService creates a new Service with default ID generator and clock
func NewService(db DB, storage Storage) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		clock:       &defaultClock{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, storage Storage, idGen IDGenerator, clock Clock) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		idGenerator: idGen,
		clock:       clock,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "justificatif"
	}

	return base + ext
}

// CreateWithReceipt stores an uploaded receipt file and creates the bill
// record it belongs to. The record starts as a pending draft carrying only
// the owner's email and the receipt reference; the remaining fields arrive
// with the submission update.
func (s *Service) CreateWithReceipt(email, filename string, data []byte, contentType string) (*Bill, error) {
	id := s.idGenerator.Generate()
	now := s.clock.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving receipt file: %w", err)
	}

	b := &Bill{
		ID:        id,
		Email:     email,
		FileURL:   fmt.Sprintf("/api/bills/%s/file", id),
		FileName:  filename,
		FilePath:  savedPath,
		FileType:  contentType,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.SaveBill(b); err != nil {
		// Don't leave an orphaned file behind
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving bill to database: %w", err)
	}

	return b, nil
}

// UpdateBill merges the submitted form fields into an existing bill
func (s *Service) UpdateBill(id string, update Update) (*Bill, error) {
	b, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}

	if update.Status != "" && !ValidStatus(update.Status) {
		return nil, fmt.Errorf("invalid status %q", update.Status)
	}

	b.Type = update.Type
	b.Name = update.Name
	b.Date = update.Date
	b.Amount = update.Amount
	b.Vat = update.Vat
	b.Pct = update.Pct
	b.Commentary = update.Commentary
	if update.Status != "" {
		b.Status = update.Status
	}
	b.UpdatedAt = s.clock.Now()

	if err := s.db.SaveBill(b); err != nil {
		return nil, fmt.Errorf("saving bill to database: %w", err)
	}

	return b, nil
}

// GetBill retrieves a bill by ID
func (s *Service) GetBill(id string) (*Bill, error) {
	b, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}
	return b, nil
}

// ListBills returns all bills, or only the given owner's bills when email is
// non-empty
func (s *Service) ListBills(email string) ([]*Bill, error) {
	bills, err := s.db.ListBills()
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	if email == "" {
		return bills, nil
	}
	owned := make([]*Bill, 0, len(bills))
	for _, b := range bills {
		if b.Email == email {
			owned = append(owned, b)
		}
	}
	return owned, nil
}

// DeleteBill removes a bill and its receipt file
func (s *Service) DeleteBill(id string) error {
	b, err := s.db.GetBill(id)
	if err != nil {
		return fmt.Errorf("getting bill for deletion: %w", err)
	}

	if b.FilePath != "" {
		if err := s.storage.Delete(b.FilePath); err != nil {
			// Keep going; the record still goes away even if the file is already gone
			slog.Warn("Failed to delete receipt file", "path", b.FilePath, "error", err)
		}
	}

	if err := s.db.DeleteBill(id); err != nil {
		return fmt.Errorf("deleting bill from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the receipt file data for a bill
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	b, err := s.db.GetBill(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting bill: %w", err)
	}
	if b.FilePath == "" {
		return nil, "", fmt.Errorf("bill %s has no receipt file", id)
	}

	data, err := s.storage.Get(b.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, b.FileType, nil
}
