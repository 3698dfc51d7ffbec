package houses

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atultingre/society-management-backend/internal/users"
)

type fakeUserStore struct {
	byID map[string]*users.User
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*users.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUserStore) FindBySlot(_ context.Context, wing string, houseNumber int) (*users.User, error) {
	for _, u := range f.byID {
		if u.House.Wing == wing && u.House.HouseNumber == houseNumber {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*users.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u *users.User) (*users.User, error) {
	u.ID = uuid.NewString()
	f.byID[u.ID] = u
	return u, nil
}

type fakeHouseStore struct {
	byUser map[string]*House
}

func (f *fakeHouseStore) Create(_ context.Context, h *House) (*House, error) {
	if _, ok := f.byUser[h.UserID]; ok {
		return nil, ErrExists
	}
	stored := *h
	stored.ID = uuid.NewString()
	f.byUser[h.UserID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeHouseStore) FindByUser(_ context.Context, userID string) (*House, error) {
	if h, ok := f.byUser[userID]; ok {
		out := *h
		return &out, nil
	}
	return nil, ErrNotFound
}

func (f *fakeHouseStore) FindByOwnerSlot(_ context.Context, userID, wing string, houseNumber int) (*House, error) {
	h, ok := f.byUser[userID]
	if !ok || h.Slot.Wing != wing || h.Slot.HouseNumber != houseNumber {
		return nil, ErrNotFound
	}
	out := *h
	return &out, nil
}

func (f *fakeHouseStore) Update(_ context.Context, h *House) error {
	for _, stored := range f.byUser {
		if stored.ID == h.ID {
			*stored = *h
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeHouseStore) Delete(_ context.Context, userID, wing string, houseNumber int) error {
	h, ok := f.byUser[userID]
	if !ok || h.Slot.Wing != wing || h.Slot.HouseNumber != houseNumber {
		return ErrNotFound
	}
	delete(f.byUser, userID)
	return nil
}

func (f *fakeHouseStore) ListAll(_ context.Context) ([]House, error) {
	out := make([]House, 0, len(f.byUser))
	for _, h := range f.byUser {
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeHouseStore) RegistrationTaken(_ context.Context, registration, excludeHouseID string) (bool, error) {
	for _, h := range f.byUser {
		if h.ID == excludeHouseID {
			continue
		}
		for _, v := range h.Vehicles {
			if strings.EqualFold(v.VehicleRegistrationNumber, registration) {
				return true, nil
			}
		}
	}
	return false, nil
}

func newTestService(t *testing.T) (*Service, *users.User) {
	t.Helper()

	owner := &users.User{
		ID:    uuid.NewString(),
		Email: "a@x.com",
		House: users.Slot{Wing: "A", HouseNumber: 12},
	}
	svc := NewService(
		&fakeHouseStore{byUser: map[string]*House{}},
		&fakeUserStore{byID: map[string]*users.User{owner.ID: owner}},
	)
	return svc, owner
}

func TestCreate_DerivesTotalAndNormalizes(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)
	p := validPayload()
	p.Name = "asha"
	p.FamilyDetails = FamilyDetails{Ladies: 1, Gents: 1, TotalFamilyMembers: 99}

	house, err := svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, p)
	require.NoError(t, err)

	assert.Equal(t, "ASHA", house.Name)
	assert.Equal(t, 2, house.FamilyDetails.TotalFamilyMembers)
	assert.Equal(t, owner.ID, house.UserID)
	assert.Equal(t, owner.House, house.Slot)
	assert.NotEmpty(t, house.ID)
}

func TestCreate_SecondCreateConflicts(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)

	_, err := svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, validPayload())
	require.NoError(t, err)

	p := validPayload()
	p.Vehicles = nil
	_, err = svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, p)
	assert.ErrorIs(t, err, ErrExists)
}

func TestCreate_SlotMismatchForbidden(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)

	_, err := svc.Create(context.Background(), owner.ID, owner.ID, "A", 13, validPayload())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(context.Background(), owner.ID, owner.ID, "B", 12, validPayload())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreate_CallerMismatchForbidden(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.NewString(), owner.ID, "A", 12, validPayload())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreate_UserNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	unknown := uuid.NewString()

	_, err := svc.Create(context.Background(), unknown, unknown, "A", 12, validPayload())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreate_InvalidPayload(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)
	p := validPayload()
	p.ContactNumber = "12345"

	_, err := svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Fields)
}

func TestCreate_RegistrationAlreadyRegistered(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)
	_, err := svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, validPayload())
	require.NoError(t, err)

	other := &users.User{
		ID:    uuid.NewString(),
		Email: "b@x.com",
		House: users.Slot{Wing: "B", HouseNumber: 7},
	}
	svc.Users.(*fakeUserStore).byID[other.ID] = other

	p := validPayload()
	_, err = svc.Create(context.Background(), other.ID, other.ID, "B", 7, p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields[0], "MH12AB1234")
}

func TestUpdate_RecomputesTotalAndRereads(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)
	_, err := svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, validPayload())
	require.NoError(t, err)

	p := validPayload()
	p.Name = "new owner"
	p.FamilyDetails = FamilyDetails{Ladies: 2, Gents: 2, Boys: 1, Girls: 1, TotalFamilyMembers: 0}

	updated, err := svc.Update(context.Background(), owner.ID, owner.ID, "A", 12, p)
	require.NoError(t, err)

	assert.Equal(t, "NEW OWNER", updated.Name)
	assert.Equal(t, 6, updated.FamilyDetails.TotalFamilyMembers)

	stored, err := svc.Houses.FindByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)

	_, err := svc.Update(context.Background(), owner.ID, owner.ID, "A", 12, validPayload())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_OwnershipAndNotFound(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)

	_, err := svc.Get(context.Background(), owner.ID, owner.ID, "A", 13)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(context.Background(), owner.ID, owner.ID, "A", 12)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, validPayload())
	require.NoError(t, err)

	house, err := svc.Get(context.Background(), owner.ID, owner.ID, "A", 12)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, house.UserID)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)

	err := svc.Delete(context.Background(), owner.ID, owner.ID, "A", 12)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, validPayload())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), owner.ID, owner.ID, "A", 12))

	_, err = svc.Get(context.Background(), owner.ID, owner.ID, "A", 12)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAll(t *testing.T) {
	t.Parallel()

	svc, owner := newTestService(t)

	houses, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, houses)

	_, err = svc.Create(context.Background(), owner.ID, owner.ID, "A", 12, validPayload())
	require.NoError(t, err)

	houses, err = svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, houses, 1)
}
