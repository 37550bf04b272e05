package bill

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "billed.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			Expect(db.Close()).To(Succeed())
		}
	})

	Describe("SaveBill and GetBill", func() {
		var saved *Bill

		BeforeEach(func() {
			saved = &Bill{
				ID:       "bill-1",
				Email:    "employee@test.tld",
				Type:     "Transports",
				Name:     "Vol Paris Londres",
				Date:     "2024-04-04",
				Amount:   34800,
				Vat:      70,
				Pct:      20,
				FileURL:  "/api/bills/bill-1/file",
				FileName: "justificatif.png",
				Status:   StatusPending,
			}
			Expect(db.SaveBill(saved)).To(Succeed())
		})

		It("round-trips the record", func() {
			got, err := db.GetBill("bill-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(saved))
		})

		It("overwrites on re-save with the same ID", func() {
			saved.Name = "Train Paris Lyon"
			Expect(db.SaveBill(saved)).To(Succeed())

			got, err := db.GetBill("bill-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Train Paris Lyon"))
		})

		It("survives a close and reopen", func() {
			Expect(db.Close()).To(Succeed())

			reopened, err := NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			db = reopened

			got, err := db.GetBill("bill-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Vol Paris Londres"))
		})
	})

	Describe("GetBill", func() {
		When("the bill does not exist", func() {
			It("returns an error", func() {
				_, err := db.GetBill("nonexistent")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("bill not found"))
			})
		})
	})

	Describe("ListBills", func() {
		When("no bills exist", func() {
			It("returns an empty slice", func() {
				bills, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).To(BeEmpty())
			})
		})

		When("bills exist", func() {
			BeforeEach(func() {
				Expect(db.SaveBill(&Bill{ID: "bill-1", Status: StatusPending})).To(Succeed())
				Expect(db.SaveBill(&Bill{ID: "bill-2", Status: StatusAccepted})).To(Succeed())
			})

			It("returns all of them", func() {
				bills, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteBill", func() {
		BeforeEach(func() {
			Expect(db.SaveBill(&Bill{ID: "bill-1"})).To(Succeed())
		})

		It("removes the record", func() {
			Expect(db.DeleteBill("bill-1")).To(Succeed())
			_, err := db.GetBill("bill-1")
			Expect(err).To(HaveOccurred())
		})

		It("is a no-op for an unknown ID", func() {
			Expect(db.DeleteBill("nonexistent")).To(Succeed())
		})
	})
})
