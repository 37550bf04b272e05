package web

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/billed-app/billed/internal/bill"
)

// BillsViewData drives the bill-list view. Exactly one mode wins at render
// time: loading takes precedence over error, error over data.
type BillsViewData struct {
	Data    []bill.Bill
	Loading bool
	Error   string
}

// NewBillViewData drives the new-bill form view
type NewBillViewData struct {
	Types     []string
	Draft     Draft
	FileError string
	FormError string
}

// PreviewViewData drives the receipt preview view
type PreviewViewData struct {
	URL string
}

// SortForDisplay orders bills earliest first. Display dates are fixed-width
// and year-first, so lexicographic order is chronological order; the sort is
// stable for equal dates.
func SortForDisplay(bills []bill.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date < bills[j].Date
	})
}

var viewFuncs = template.FuncMap{
	"euros": func(cents int) string {
		return fmt.Sprintf("%d,%02d €", cents/100, cents%100)
	},
}

var billsTemplate = template.Must(template.New("bills").Funcs(viewFuncs).Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Billed - Mes notes de frais</title></head>
<body>
<div class="layout">
{{if .Loading}}
  <p>Loading...</p>
{{else if .Error}}
  <div data-testid="error-message">
    <h1>Erreur</h1>
    <p>{{.Error}}</p>
  </div>
{{else}}
  <div class="content-header">
    <h1 data-testid="content-title">Mes notes de frais</h1>
    <a href="/bills/actions/new-bill" data-testid="btn-new-bill">Nouvelle note de frais</a>
  </div>
  <table data-testid="tbody">
    <thead>
      <tr><th>Type</th><th>Nom</th><th>Date</th><th>Montant</th><th>Statut</th><th>Actions</th></tr>
    </thead>
    <tbody>
    {{range .Data}}
      <tr>
        <td>{{.Type}}</td>
        <td>{{.Name}}</td>
        <td data-testid="bill-date">{{.Date}}</td>
        <td>{{euros .Amount}}</td>
        <td data-testid="bill-status">{{.Status}}</td>
        <td><a href="/bills/{{.ID}}/preview?url={{.FileURL}}" data-testid="icon-eye">&#128065;</a></td>
      </tr>
    {{end}}
    </tbody>
  </table>
{{end}}
</div>
</body>
</html>
`))

var newBillTemplate = template.Must(template.New("newbill").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Billed - Envoyer une note de frais</title></head>
<body>
<div class="layout">
  <h1 data-testid="content-title">Envoyer une note de frais</h1>
  {{if .FormError}}<p data-testid="form-error">{{.FormError}}</p>{{end}}
  <form data-testid="form-new-bill" action="/bills" method="post">
    <label>Type de dépense
      <select name="expense-type" data-testid="expense-type" required>
      {{range .Types}}<option value="{{.}}">{{.}}</option>{{end}}
      </select>
    </label>
    <label>Nom de la dépense
      <input type="text" name="expense-name" data-testid="expense-name" placeholder="Vol Paris Londres">
    </label>
    <label>Date
      <input type="date" name="datepicker" data-testid="datepicker" required>
    </label>
    <label>Montant TTC
      <input type="text" name="amount" data-testid="amount" placeholder="348" required>
    </label>
    <label>TVA
      <input type="text" name="vat" data-testid="vat" placeholder="70">
    </label>
    <label>%
      <input type="text" name="pct" data-testid="pct" placeholder="20">
    </label>
    <label>Commentaire
      <textarea name="commentary" data-testid="commentary" rows="3"></textarea>
    </label>
    <button type="submit" id="btn-send-bill" {{if not .Draft.Uploaded}}disabled{{end}}>Envoyer</button>
  </form>
  <form data-testid="form-file" action="/bills/new/file" method="post" enctype="multipart/form-data">
    <label>Justificatif
      <input type="file" name="file" data-testid="file" accept="image/png, image/jpeg">
    </label>
    {{if .FileError}}<p data-testid="file-error">{{.FileError}}</p>{{end}}
    {{if .Draft.FileName}}<p data-testid="file-name">{{.Draft.FileName}}</p>{{end}}
    <button type="submit">Ajouter le justificatif</button>
  </form>
</div>
</body>
</html>
`))

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Billed - Justificatif</title></head>
<body>
<div class="modal" data-testid="modale-file">
  <h1>Justificatif</h1>
  {{if .URL}}
  <img src="{{.URL}}" alt="Justificatif de la note de frais">
  {{else}}
  <p>Aucun justificatif disponible</p>
  {{end}}
  <a href="/bills">Retour</a>
</div>
</body>
</html>
`))

// RenderBills writes the bill-list view
func RenderBills(w io.Writer, data BillsViewData) error {
	return billsTemplate.Execute(w, data)
}

// RenderNewBill writes the new-bill form view
func RenderNewBill(w io.Writer, data NewBillViewData) error {
	if data.Types == nil {
		data.Types = bill.ExpenseTypes
	}
	return newBillTemplate.Execute(w, data)
}

// RenderPreview writes the receipt preview view
func RenderPreview(w io.Writer, data PreviewViewData) error {
	return previewTemplate.Execute(w, data)
}
