package web

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/billed-app/billed/internal/bill"
)

var _ = Describe("Views", func() {
	Describe("SortForDisplay", func() {
		It("orders bills earliest first", func() {
			bills := []bill.Bill{
				{ID: "c", Date: "2004-04-04"},
				{ID: "a", Date: "2001-01-01"},
				{ID: "b", Date: "2003-03-03"},
			}
			SortForDisplay(bills)
			Expect(bills[0].ID).To(Equal("a"))
			Expect(bills[1].ID).To(Equal("b"))
			Expect(bills[2].ID).To(Equal("c"))
		})

		It("keeps the incoming order for equal dates", func() {
			bills := []bill.Bill{
				{ID: "first", Date: "2004-04-04"},
				{ID: "second", Date: "2004-04-04"},
			}
			SortForDisplay(bills)
			Expect(bills[0].ID).To(Equal("first"))
			Expect(bills[1].ID).To(Equal("second"))
		})
	})

	Describe("RenderBills", func() {
		var (
			buf  *bytes.Buffer
			data BillsViewData
		)

		BeforeEach(func() {
			buf = &bytes.Buffer{}
			data = BillsViewData{}
		})

		JustBeforeEach(func() {
			Expect(RenderBills(buf, data)).To(Succeed())
		})

		When("bills are available", func() {
			BeforeEach(func() {
				data.Data = []bill.Bill{
					{
						ID:      "id1",
						Type:    "Transports",
						Name:    "Vol Paris Londres",
						Date:    "2004-04-04",
						Amount:  34800,
						Status:  "En attente",
						FileURL: "http://store.test/api/bills/id1/file",
					},
				}
			})

			It("shows the list title", func() {
				Expect(buf.String()).To(ContainSubstring("Mes notes de frais"))
			})

			It("renders each bill row", func() {
				Expect(buf.String()).To(ContainSubstring("Vol Paris Londres"))
				Expect(buf.String()).To(ContainSubstring("2004-04-04"))
				Expect(buf.String()).To(ContainSubstring("En attente"))
			})

			It("formats the amount in euros", func() {
				Expect(buf.String()).To(ContainSubstring("348,00 €"))
			})
		})

		When("loading and error are both set", func() {
			BeforeEach(func() {
				data.Loading = true
				data.Error = "Erreur 500"
			})

			It("loading wins", func() {
				Expect(buf.String()).To(ContainSubstring("Loading..."))
				Expect(buf.String()).NotTo(ContainSubstring("Erreur 500"))
			})
		})

		When("error and data are both set", func() {
			BeforeEach(func() {
				data.Error = "Erreur 500"
				data.Data = []bill.Bill{{Name: "Vol Paris Londres"}}
			})

			It("the error wins and is rendered verbatim", func() {
				Expect(buf.String()).To(ContainSubstring("Erreur 500"))
				Expect(buf.String()).NotTo(ContainSubstring("Vol Paris Londres"))
			})
		})
	})

	Describe("RenderNewBill", func() {
		var (
			buf  *bytes.Buffer
			data NewBillViewData
		)

		BeforeEach(func() {
			buf = &bytes.Buffer{}
			data = NewBillViewData{}
		})

		JustBeforeEach(func() {
			Expect(RenderNewBill(buf, data)).To(Succeed())
		})

		When("no receipt is attached yet", func() {
			It("disables the submit control", func() {
				Expect(buf.String()).To(ContainSubstring(`id="btn-send-bill" disabled`))
			})

			It("lists every expense type", func() {
				for _, t := range bill.ExpenseTypes {
					Expect(buf.String()).To(ContainSubstring(t))
				}
			})
		})

		When("a receipt has been uploaded", func() {
			BeforeEach(func() {
				data.Draft = Draft{
					State:    DraftUploaded,
					BillID:   "bill-id-123",
					FileName: "justificatif.png",
				}
			})

			It("enables the submit control", func() {
				Expect(buf.String()).NotTo(ContainSubstring("disabled"))
			})

			It("shows the attached file name", func() {
				Expect(buf.String()).To(ContainSubstring("justificatif.png"))
			})
		})

		When("the file was rejected", func() {
			BeforeEach(func() {
				data.FileError = "Seuls les justificatifs jpg, jpeg ou png sont acceptés"
			})

			It("shows the message next to the file input", func() {
				Expect(buf.String()).To(ContainSubstring("Seuls les justificatifs jpg, jpeg ou png sont acceptés"))
			})
		})

		When("the submission was rejected", func() {
			BeforeEach(func() {
				data.FormError = "Montant requis"
			})

			It("shows the message on the form", func() {
				Expect(buf.String()).To(ContainSubstring("Montant requis"))
			})
		})
	})

	Describe("RenderPreview", func() {
		It("shows the receipt image when a URL is given", func() {
			buf := &bytes.Buffer{}
			Expect(RenderPreview(buf, PreviewViewData{URL: "http://store.test/api/bills/id1/file"})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(`<img src="http://store.test/api/bills/id1/file"`))
		})

		It("shows a placeholder when there is no receipt", func() {
			buf := &bytes.Buffer{}
			Expect(RenderPreview(buf, PreviewViewData{})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("Aucun justificatif disponible"))
		})
	})
})
