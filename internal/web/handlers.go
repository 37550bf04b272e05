package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxUploadSize bounds receipt uploads on the portal side
const maxUploadSize = int64(20 << 20)

// handleHome sends the employee to the bill list
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request, sess Session) {
	http.Redirect(w, r, s.router.Path(RouteBills), http.StatusSeeOther)
}

// handleBills renders the bill-list view
func (s *Server) handleBills(w http.ResponseWriter, r *http.Request, sess Session) {
	pipeline := NewBillsPipeline(s.scopedStore(sess), s.navigator(w, r), nil)

	bills, err := pipeline.GetBills(r.Context())
	if err != nil {
		slog.Error("Failed to fetch bills", "email", sess.Email, "error", err)
		renderView(w, RenderBills(w, BillsViewData{Error: err.Error()}))
		return
	}

	SortForDisplay(bills)
	renderView(w, RenderBills(w, BillsViewData{Data: bills}))
}

// handleClickNewBill is the new-bill button target; the pipeline dispatches
// the navigation
func (s *Server) handleClickNewBill(w http.ResponseWriter, r *http.Request, sess Session) {
	pipeline := NewBillsPipeline(s.scopedStore(sess), s.navigator(w, r), nil)
	pipeline.HandleClickNewBill()
}

// handlePreview opens the receipt preview for the URL carried by the clicked
// eye icon. Receipt URLs are store-relative; the browser fetches them from
// the store host directly.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, sess Session) {
	pipeline := NewBillsPipeline(nil, s.navigator(w, r), func(url string) {
		if s.store != nil && strings.HasPrefix(url, "/") {
			url = s.store.BaseURL() + url
		}
		renderView(w, RenderPreview(w, PreviewViewData{URL: url}))
	})
	pipeline.HandleClickIconEye(r.URL.Query().Get("url"))
}

// handleNewBillForm opens a fresh new-bill form, discarding any pending draft
func (s *Server) handleNewBillForm(w http.ResponseWriter, r *http.Request, sess Session) {
	s.setDraft(sess, Draft{})
	renderView(w, RenderNewBill(w, NewBillViewData{}))
}

// handleChangeFile validates and uploads the selected receipt, then
// re-renders the form with the outcome
func (s *Server) handleChangeFile(w http.ResponseWriter, r *http.Request, sess Session) {
	pipeline := s.newBillPipeline(w, r, sess)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		renderView(w, RenderNewBill(w, NewBillViewData{
			Draft:     pipeline.Draft(),
			FileError: "Le fichier n'a pas pu être lu",
		}))
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		renderView(w, RenderNewBill(w, NewBillViewData{
			Draft:     pipeline.Draft(),
			FileError: "Aucun fichier sélectionné",
		}))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading uploaded file", "filename", header.Filename, "error", err)
		renderView(w, RenderNewBill(w, NewBillViewData{
			Draft:     pipeline.Draft(),
			FileError: "Le fichier n'a pas pu être lu",
		}))
		return
	}

	uploadErr := pipeline.HandleChangeFile(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	s.setDraft(sess, pipeline.Draft())

	viewData := NewBillViewData{Draft: pipeline.Draft()}
	if uploadErr != nil {
		slog.Warn("Receipt upload failed", "filename", header.Filename, "error", uploadErr)
		viewData.FileError = uploadErr.Error()
	}
	renderView(w, RenderNewBill(w, viewData))
}

// handleSubmit submits the completed bill; the pipeline navigates back to
// the list on success
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, sess Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	pipeline := s.newBillPipeline(w, r, sess)
	form := SubmissionForm{
		Type:       r.FormValue("expense-type"),
		Name:       r.FormValue("expense-name"),
		Date:       r.FormValue("datepicker"),
		Amount:     r.FormValue("amount"),
		Vat:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}

	err := pipeline.HandleSubmit(r.Context(), form)
	if err != nil {
		s.setDraft(sess, pipeline.Draft())
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			renderView(w, RenderNewBill(w, NewBillViewData{
				Draft:     pipeline.Draft(),
				FormError: vErr.Message,
			}))
			return
		}
		slog.Error("Bill submission failed", "email", sess.Email, "error", err)
		renderView(w, RenderBills(w, BillsViewData{Error: err.Error()}))
		return
	}

	// Redirect already written by the pipeline's navigation
	s.clearDraft(sess)
}

// renderView logs template failures; by then part of the response may
// already be out, so there is nothing better to do
func renderView(w http.ResponseWriter, err error) {
	if err != nil {
		slog.Error("Error rendering view", "error", err)
	}
}

// newBillPipeline builds the session's new-bill pipeline around its
// persisted draft
func (s *Server) newBillPipeline(w http.ResponseWriter, r *http.Request, sess Session) *NewBill {
	pipeline := NewNewBillPipeline(s.scopedStore(sess), s.navigator(w, r), sess, s.acceptedTypes)
	pipeline.RestoreDraft(s.draftFor(sess))
	return pipeline
}
