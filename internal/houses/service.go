package houses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atultingre/society-management-backend/internal/users"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("slot does not belong to caller")
)

// ValidationError carries field-level messages for a rejected payload.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// Service orchestrates the household operations. Every mutating or reading
// operation on a single house double-checks ownership: the verified caller
// must be the target user, and the target user's assigned slot must match
// the slot named in the request path.
type Service struct {
	Houses Store
	Users  users.Store
}

func NewService(houses Store, userStore users.Store) *Service {
	return &Service{Houses: houses, Users: userStore}
}

func (s *Service) authorize(ctx context.Context, callerID, userID, wing string, houseNumber int) (*users.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if callerID != user.ID {
		return nil, ErrForbidden
	}
	if user.House.Wing != wing || user.House.HouseNumber != houseNumber {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *Service) Create(ctx context.Context, callerID, userID, wing string, houseNumber int, p Payload) (*House, error) {
	user, err := s.authorize(ctx, callerID, userID, wing, houseNumber)
	if err != nil {
		return nil, err
	}

	p.Normalize()
	if fieldErrs := p.Validate(); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if _, err := s.Houses.FindByUser(ctx, user.ID); err == nil {
		return nil, ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := s.checkRegistrations(ctx, p.Vehicles, ""); err != nil {
		return nil, err
	}

	p.FamilyDetails.TotalFamilyMembers = TotalMembers(p.FamilyDetails)

	return s.Houses.Create(ctx, &House{
		UserID:          user.ID,
		Slot:            user.House,
		Name:            p.Name,
		ContactNumber:   p.ContactNumber,
		Vehicles:        p.Vehicles,
		FamilyDetails:   p.FamilyDetails,
		CurrentlyLiving: p.CurrentlyLiving,
	})
}

func (s *Service) Update(ctx context.Context, callerID, userID, wing string, houseNumber int, p Payload) (*House, error) {
	user, err := s.authorize(ctx, callerID, userID, wing, houseNumber)
	if err != nil {
		return nil, err
	}

	p.Normalize()
	if fieldErrs := p.Validate(); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	existing, err := s.Houses.FindByOwnerSlot(ctx, user.ID, wing, houseNumber)
	if err != nil {
		return nil, err
	}

	if err := s.checkRegistrations(ctx, p.Vehicles, existing.ID); err != nil {
		return nil, err
	}

	existing.Name = p.Name
	existing.ContactNumber = p.ContactNumber
	existing.Vehicles = p.Vehicles
	existing.FamilyDetails = p.FamilyDetails
	existing.FamilyDetails.TotalFamilyMembers = TotalMembers(p.FamilyDetails)
	existing.CurrentlyLiving = p.CurrentlyLiving

	if err := s.Houses.Update(ctx, existing); err != nil {
		return nil, err
	}

	// Return the record as the store holds it, not the in-memory copy.
	return s.Houses.FindByOwnerSlot(ctx, user.ID, wing, houseNumber)
}

func (s *Service) Get(ctx context.Context, callerID, userID, wing string, houseNumber int) (*House, error) {
	user, err := s.authorize(ctx, callerID, userID, wing, houseNumber)
	if err != nil {
		return nil, err
	}
	return s.Houses.FindByOwnerSlot(ctx, user.ID, wing, houseNumber)
}

func (s *Service) Delete(ctx context.Context, callerID, userID, wing string, houseNumber int) error {
	user, err := s.authorize(ctx, callerID, userID, wing, houseNumber)
	if err != nil {
		return err
	}
	return s.Houses.Delete(ctx, user.ID, wing, houseNumber)
}

func (s *Service) ListAll(ctx context.Context) ([]House, error) {
	return s.Houses.ListAll(ctx)
}

func (s *Service) checkRegistrations(ctx context.Context, vehicles []Vehicle, excludeHouseID string) error {
	for _, v := range vehicles {
		taken, err := s.Houses.RegistrationTaken(ctx, v.VehicleRegistrationNumber, excludeHouseID)
		if err != nil {
			return err
		}
		if taken {
			return &ValidationError{Fields: []string{
				fmt.Sprintf("Vehicle registration number `%s` is already registered.", v.VehicleRegistrationNumber),
			}}
		}
	}
	return nil
}
