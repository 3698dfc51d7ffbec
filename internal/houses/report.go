package houses

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// BuildRegisterPDF renders the society house register as a printable table,
// one row per household.
func BuildRegisterPDF(houses []House) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Society House Register", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Society House Register")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Registered houses: %d", len(houses)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(20, 7, "Slot")
	pdf.Cell(60, 7, "Name")
	pdf.Cell(35, 7, "Contact")
	pdf.Cell(25, 7, "Members")
	pdf.Cell(25, 7, "Living")
	pdf.Cell(90, 7, "Vehicles")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, h := range houses {
		vehicles := ""
		for i, v := range h.Vehicles {
			if i > 0 {
				vehicles += ", "
			}
			vehicles += fmt.Sprintf("%s (%s)", v.VehicleRegistrationNumber, v.VehicleType)
		}

		pdf.Cell(20, 7, fmt.Sprintf("%s/%d", h.Slot.Wing, h.Slot.HouseNumber))
		pdf.Cell(60, 7, h.Name)
		pdf.Cell(35, 7, h.ContactNumber)
		pdf.Cell(25, 7, fmt.Sprintf("%d", h.FamilyDetails.TotalFamilyMembers))
		pdf.Cell(25, 7, h.CurrentlyLiving)
		pdf.Cell(90, 7, vehicles)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
