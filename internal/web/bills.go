package web

import (
	"context"
	"log/slog"

	"github.com/billed-app/billed/internal/bill"
	"github.com/billed-app/billed/internal/store"
)

// Previewer shows a larger view of a receipt for the given URL
type Previewer func(url string)

// Bills drives the bill-list view: it fetches the session's bills, formats
// them for display, and wires navigation and the receipt preview.
type Bills struct {
	store    store.Store
	navigate Navigator
	preview  Previewer
}

// NewBillsPipeline creates the list pipeline with its injected capabilities.
// A nil store is valid and means offline/demo mode.
func NewBillsPipeline(st store.Store, navigate Navigator, preview Previewer) *Bills {
	return &Bills{
		store:    st,
		navigate: navigate,
		preview:  preview,
	}
}

// GetBills fetches the bill collection and augments each record with display
// date and status. A record whose fields cannot be formatted is kept raw
// rather than failing the batch; store errors propagate to the caller.
func (b *Bills) GetBills(ctx context.Context) ([]bill.Bill, error) {
	if b.store == nil {
		return []bill.Bill{}, nil
	}

	raw, err := b.store.Bills().List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]bill.Bill, 0, len(raw))
	for _, rec := range raw {
		date, err := bill.FormatDate(rec.Date)
		if err != nil {
			slog.Warn("Keeping bill unformatted", "id", rec.ID, "error", err)
			out = append(out, rec)
			continue
		}
		status, err := bill.FormatStatus(rec.Status)
		if err != nil {
			slog.Warn("Keeping bill unformatted", "id", rec.ID, "error", err)
			out = append(out, rec)
			continue
		}

		formatted := rec
		formatted.Date = date
		formatted.Status = status
		out = append(out, formatted)
	}
	return out, nil
}

// HandleClickNewBill navigates to the new-bill view
func (b *Bills) HandleClickNewBill() {
	b.navigate(RouteNewBill)
}

// HandleClickIconEye opens the receipt preview for the given URL. An empty
// URL still opens the preview so the view can show a placeholder.
func (b *Bills) HandleClickIconEye(url string) {
	b.preview(url)
}
