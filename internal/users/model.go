package users

import "fmt"

// Slot identifies a dwelling unit: one wing plus a house number. A slot
// belongs to at most one user.
type Slot struct {
	Wing        string `json:"wing"`
	HouseNumber int    `json:"houseNumber"`
}

func (s Slot) Validate() []string {
	var errs []string
	if s.Wing != "A" && s.Wing != "B" {
		errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `house.wing`.", s.Wing))
	}
	if s.HouseNumber < 1 || s.HouseNumber > 250 {
		errs = append(errs, fmt.Sprintf("Path `house.houseNumber` (%d) must be between 1 and 250.", s.HouseNumber))
	}
	return errs
}

// User is a resident account. PasswordHash serializes under the "password"
// wire name, so the stored bcrypt hash is echoed in the signup response.
type User struct {
	ID           string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
	House        Slot   `json:"house"`
	Admin        bool   `json:"admin"`
}
