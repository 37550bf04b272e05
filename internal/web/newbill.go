package web

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/billed-app/billed/internal/bill"
	"github.com/billed-app/billed/internal/store"
)

// DraftState tracks a new-bill draft through its forward-only lifecycle
type DraftState int

const (
	DraftEmpty DraftState = iota
	DraftValidated
	DraftUploaded
	DraftSubmitted
)

// Draft is the in-memory, not-yet-persisted bill being assembled. Its file
// fields are set together after a successful upload, never piecemeal.
type Draft struct {
	State    DraftState
	BillID   string
	FileURL  string
	FileName string
}

// Uploaded reports whether the draft holds a stored receipt and can be
// submitted. The submit control stays disabled until this is true.
func (d Draft) Uploaded() bool {
	return d.State == DraftUploaded
}

// DefaultAcceptedFileTypes is the receipt upload whitelist
var DefaultAcceptedFileTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

var acceptedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// SubmissionForm carries the raw new-bill form fields as entered
type SubmissionForm struct {
	Type       string
	Name       string
	Date       string
	Amount     string
	Vat        string
	Pct        string
	Commentary string
}

// NewBill drives the new-bill form: it validates and uploads the receipt,
// then submits the completed bill and navigates back to the list.
type NewBill struct {
	store    store.Store
	navigate Navigator
	session  Session
	accepted map[string]bool
	draft    Draft
}

// NewNewBillPipeline creates the new-bill pipeline for one form session.
// acceptedTypes may be nil to use the default png/jpeg whitelist.
func NewNewBillPipeline(st store.Store, navigate Navigator, session Session, acceptedTypes map[string]bool) *NewBill {
	if acceptedTypes == nil {
		acceptedTypes = DefaultAcceptedFileTypes
	}
	return &NewBill{
		store:    st,
		navigate: navigate,
		session:  session,
		accepted: acceptedTypes,
	}
}

// Draft exposes the current draft for rendering
func (n *NewBill) Draft() Draft {
	return n.draft
}

// RestoreDraft seeds the pipeline with a draft carried over from an earlier
// request of the same form session
func (n *NewBill) RestoreDraft(d Draft) {
	n.draft = d
}

// validateFile checks the selected receipt against the accepted type set
func (n *NewBill) validateFile(fileName, contentType string) error {
	if n.accepted[strings.ToLower(strings.TrimSpace(contentType))] {
		return nil
	}
	// Some browsers send a blank or generic content type; fall back to the
	// extension before rejecting.
	if contentType == "" || contentType == "application/octet-stream" {
		if acceptedExtensions[strings.ToLower(filepath.Ext(fileName))] {
			return nil
		}
	}
	return &ValidationError{Message: "Seuls les justificatifs jpg, jpeg ou png sont acceptés"}
}

// HandleChangeFile validates the selected receipt and uploads it. On success
// the draft records the returned bill id and file reference for submission.
// On upload failure the draft keeps its prior file state.
func (n *NewBill) HandleChangeFile(ctx context.Context, fileName, contentType string, data []byte) error {
	if err := n.validateFile(fileName, contentType); err != nil {
		return err
	}
	if n.store == nil {
		return errors.New("no bill store configured")
	}
	if n.draft.State == DraftEmpty {
		n.draft.State = DraftValidated
	}

	result, err := n.store.Bills().Create(ctx, store.CreateRequest{
		Email:       n.session.Email,
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return err
	}

	// Last write wins on re-selection; the three fields move together.
	n.draft = Draft{
		State:    DraftUploaded,
		BillID:   result.ID,
		FileURL:  result.FileURL,
		FileName: result.FileName,
	}
	return nil
}

// HandleSubmit builds the candidate bill from the form and the draft and
// submits it. Navigation to the bill list happens exactly once, on success;
// submission is at-most-once, with no internal retry.
func (n *NewBill) HandleSubmit(ctx context.Context, form SubmissionForm) error {
	if n.draft.State != DraftUploaded {
		return &ValidationError{Message: "Veuillez d'abord joindre un justificatif"}
	}
	if n.store == nil {
		return errors.New("no bill store configured")
	}

	amount, err := parseAmount(form.Amount)
	if err != nil {
		return err
	}
	vat, err := parseOptionalInt(form.Vat)
	if err != nil {
		return &ValidationError{Message: "TVA invalide"}
	}
	pct, err := parseOptionalInt(form.Pct)
	if err != nil {
		return &ValidationError{Message: "Pourcentage invalide"}
	}

	_, err = n.store.Bills().Update(ctx, store.UpdateRequest{
		ID: n.draft.BillID,
		Fields: bill.Update{
			Type:       form.Type,
			Name:       form.Name,
			Date:       form.Date,
			Amount:     amount,
			Vat:        vat,
			Pct:        pct,
			Commentary: form.Commentary,
			Status:     bill.StatusPending,
		},
	})
	if err != nil {
		return err
	}

	n.draft.State = DraftSubmitted
	n.navigate(RouteBills)
	return nil
}

// parseAmount converts the monetary form field to cents without going
// through floats
func parseAmount(raw string) (int, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, &ValidationError{Message: "Montant requis"}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &ValidationError{Message: "Montant invalide"}
	}
	return int(d.Shift(2).IntPart()), nil
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
