package houses

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atultingre/society-management-backend/internal/users"
)

var contactNumberRe = regexp.MustCompile(`^[0-9]{10}$`)

var vehicleTypes = map[string]bool{
	"Scooter": true,
	"Bike":    true,
	"Car":     true,
	"Bus":     true,
	"Auto":    true,
}

var fuelTypes = map[string]bool{
	"Petrol":                       true,
	"Diesel":                       true,
	"Compressed Natural Gas (CNG)": true,
	"Electric":                     true,
}

type Vehicle struct {
	VehicleType               string `json:"vehicleType"`
	VehicleModel              string `json:"vehicleModel"`
	VehicleFuelType           string `json:"vehicleFuelType"`
	VehicleRegistrationNumber string `json:"vehicleRegistrationNumber"`
}

type FamilyDetails struct {
	Ladies             int `json:"ladies"`
	Gents              int `json:"gents"`
	Boys               int `json:"boys"`
	Girls              int `json:"girls"`
	TotalFamilyMembers int `json:"totalFamilyMembers"`
}

// House is the household record bound to one owning user and their slot.
type House struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	Slot            users.Slot    `json:"house"`
	Name            string        `json:"name"`
	ContactNumber   string        `json:"contactNumber"`
	Vehicles        []Vehicle     `json:"vehicles"`
	FamilyDetails   FamilyDetails `json:"familyDetails"`
	CurrentlyLiving string        `json:"currentlyLiving"`
}

// Payload is the client-supplied portion of a house on create and update.
type Payload struct {
	Name            string        `json:"name"`
	ContactNumber   string        `json:"contactNumber"`
	Vehicles        []Vehicle     `json:"vehicles"`
	FamilyDetails   FamilyDetails `json:"familyDetails"`
	CurrentlyLiving string        `json:"currentlyLiving"`
}

// TotalMembers derives the family-member total from the four counters. It
// is recomputed on every write; the client-supplied total is ignored.
func TotalMembers(f FamilyDetails) int {
	return f.Ladies + f.Gents + f.Boys + f.Girls
}

// Normalize applies the stored-form rules: name and registration numbers
// are upper-cased, and an omitted currentlyLiving defaults to "Yes".
func (p *Payload) Normalize() {
	p.Name = strings.ToUpper(p.Name)
	if p.CurrentlyLiving == "" {
		p.CurrentlyLiving = "Yes"
	}
	for i := range p.Vehicles {
		p.Vehicles[i].VehicleRegistrationNumber = strings.ToUpper(p.Vehicles[i].VehicleRegistrationNumber)
	}
}

// Validate checks the payload shape and returns field-level messages.
// Registration numbers must also be unique within the payload itself.
func (p *Payload) Validate() []string {
	var errs []string
	if p.Name == "" {
		errs = append(errs, "Path `name` is required.")
	}
	if !contactNumberRe.MatchString(p.ContactNumber) {
		errs = append(errs, fmt.Sprintf("Validator failed for path `contactNumber` with value `%s`", p.ContactNumber))
	}

	seen := map[string]bool{}
	for _, v := range p.Vehicles {
		if !vehicleTypes[v.VehicleType] {
			errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `vehicleType`.", v.VehicleType))
		}
		if !fuelTypes[v.VehicleFuelType] {
			errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `vehicleFuelType`.", v.VehicleFuelType))
		}
		if v.VehicleModel == "" {
			errs = append(errs, "Path `vehicleModel` is required.")
		}
		reg := strings.ToUpper(v.VehicleRegistrationNumber)
		if reg == "" {
			errs = append(errs, "Path `vehicleRegistrationNumber` is required.")
		} else if seen[reg] {
			errs = append(errs, fmt.Sprintf("Duplicate vehicle registration number `%s`.", reg))
		}
		seen[reg] = true
	}

	f := p.FamilyDetails
	if f.Ladies < 0 || f.Gents < 0 || f.Boys < 0 || f.Girls < 0 {
		errs = append(errs, "Family member counts must not be negative.")
	}

	if p.CurrentlyLiving != "Yes" && p.CurrentlyLiving != "No" {
		errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `currentlyLiving`.", p.CurrentlyLiving))
	}
	return errs
}
