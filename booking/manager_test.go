package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// memStore is an in-memory Store with transaction semantics: Transact runs
// fn against a copy and commits it only on success, so rollback behavior is
// observable in tests.
type memStore struct {
	users    map[uuid.UUID]models.User
	services map[uuid.UUID]models.Service
	bookings map[uuid.UUID]models.Booking
	items    map[uuid.UUID][]models.BookingService

	failReplaceServices error

	// shared across clones so lock calls made inside a transaction are
	// visible to the test after commit or rollback
	lockedProfessionals *[]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		users:               map[uuid.UUID]models.User{},
		services:            map[uuid.UUID]models.Service{},
		bookings:            map[uuid.UUID]models.Booking{},
		items:               map[uuid.UUID][]models.BookingService{},
		lockedProfessionals: &[]uuid.UUID{},
	}
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	c.failReplaceServices = m.failReplaceServices
	c.lockedProfessionals = m.lockedProfessionals
	for k, v := range m.users {
		c.users[k] = v
	}
	for k, v := range m.services {
		c.services[k] = v
	}
	for k, v := range m.bookings {
		c.bookings[k] = v
	}
	for k, v := range m.items {
		c.items[k] = append([]models.BookingService(nil), v...)
	}
	return c
}

func (m *memStore) Transact(_ context.Context, fn func(Store) error) error {
	tx := m.clone()
	if err := fn(tx); err != nil {
		return err
	}
	m.users = tx.users
	m.services = tx.services
	m.bookings = tx.bookings
	m.items = tx.items
	return nil
}

func (m *memStore) LockProfessional(_ context.Context, id uuid.UUID) (*models.User, error) {
	*m.lockedProfessionals = append(*m.lockedProfessionals, id)
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memStore) FindOverlapping(_ context.Context, professionalID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (*models.Booking, error) {
	for _, b := range m.bookings {
		if b.ProfessionalID != professionalID || !b.Active || b.ID == excludeID {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindServices(_ context.Context, ids []uuid.UUID) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if s, ok := m.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) CreateClient(_ context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) CreateBooking(_ context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) SaveBooking(_ context.Context, b *models.Booking) error {
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) FindBookingForUpdate(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	b.Items = append([]models.BookingService(nil), m.items[id]...)
	return &b, nil
}

func (m *memStore) ReplaceServices(_ context.Context, bookingID uuid.UUID, services []models.Service) error {
	if m.failReplaceServices != nil {
		return m.failReplaceServices
	}
	items := make([]models.BookingService, 0, len(services))
	for _, s := range services {
		items = append(items, models.BookingService{
			BookingID:   bookingID,
			ServiceID:   s.ID,
			ServiceName: s.Name,
			PriceCents:  s.PriceCents,
		})
	}
	m.items[bookingID] = items
	return nil
}

type memLedger struct {
	entries []models.LedgerEntry
	err     error
}

func (l *memLedger) AppendAll(_ context.Context, entries []models.LedgerEntry) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, entries...)
	return nil
}

type stubRules struct{}

func (stubRules) ActiveProfessionalRule(context.Context, uuid.UUID) (*models.CommissionRule, error) {
	return nil, nil
}
func (stubRules) ActiveServiceRule(context.Context, uuid.UUID) (*models.CommissionRule, error) {
	return nil, nil
}
func (stubRules) ActiveGeneralRule(context.Context) (*models.CommissionRule, error) {
	return nil, nil
}

type stubServices struct{}

func (stubServices) FindService(context.Context, uuid.UUID) (*models.Service, error) {
	return nil, nil
}

type stubSettings struct {
	settings *models.CompanySettings
}

func (s stubSettings) Get(context.Context) (*models.CompanySettings, error) {
	return s.settings, nil
}

type fixture struct {
	store   *memStore
	ledger  *memLedger
	manager *Manager

	professional uuid.UUID
	client       uuid.UUID
	haircut      uuid.UUID
	coloring     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	ledger := &memLedger{}

	professional := models.User{ID: uuid.New(), FirstName: "Ana", Role: models.RoleProfessional, IsActive: true}
	client := models.User{ID: uuid.New(), FirstName: "João", Role: models.RoleClient, IsActive: true}
	store.users[professional.ID] = professional
	store.users[client.ID] = client

	haircut := models.Service{ID: uuid.New(), Name: "Haircut", PriceCents: 10000, DurationMinutes: 60, IsActive: true}
	coloring := models.Service{ID: uuid.New(), Name: "Coloring", PriceCents: 5000, DurationMinutes: 0, IsActive: true}
	store.services[haircut.ID] = haircut
	store.services[coloring.ID] = coloring

	settings := stubSettings{settings: &models.CompanySettings{
		TaxRate:               decimal.RequireFromString("0.06"),
		GatewayFeeRate:        decimal.RequireFromString("0.0299"),
		DefaultCommissionRate: decimal.RequireFromString("0.5"),
	}}
	resolver := finance.NewCommissionResolver(stubRules{}, stubServices{}, settings)

	return &fixture{
		store:        store,
		ledger:       ledger,
		manager:      NewManager(store, ledger, resolver, settings),
		professional: professional.ID,
		client:       client.ID,
		haircut:      haircut.ID,
		coloring:     coloring.ID,
	}
}

func (f *fixture) createBooking(t *testing.T, start time.Time, serviceIDs ...uuid.UUID) *models.Booking {
	t.Helper()
	b, err := f.manager.Create(context.Background(), CreateInput{
		ClientID:       &f.client,
		ProfessionalID: f.professional,
		StartTime:      start,
		ServiceIDs:     serviceIDs,
	})
	require.NoError(t, err)
	return b
}

var ten = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b := f.createBooking(t, ten, f.haircut)

	assert.Equal(t, f.client, b.ClientID)
	assert.Equal(t, f.professional, b.ProfessionalID)
	assert.Equal(t, ten, b.StartTime)
	assert.Equal(t, ten.Add(60*time.Minute), b.EndTime)
	assert.True(t, b.Active)
	assert.False(t, b.Completed)
	assert.Equal(t, models.PaymentMethodCash, b.PaymentMethod)
	require.Len(t, b.Items, 1)
	assert.Equal(t, "Haircut", b.Items[0].ServiceName)
	assert.Equal(t, int64(10000), b.Items[0].PriceCents)

	stored, ok := f.store.bookings[b.ID]
	require.True(t, ok)
	assert.True(t, stored.Active)
}

func TestCreateBookingDefaultSlot(t *testing.T) {
	f := newFixture(t)

	// Coloring carries no duration; the window floors at 30 minutes.
	b := f.createBooking(t, ten, f.coloring)
	assert.Equal(t, ten.Add(30*time.Minute), b.EndTime)
}

func TestCreateBookingProvisionsClient(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.users)

	b, err := f.manager.Create(context.Background(), CreateInput{
		ClientName:     "Maria da Silva",
		ProfessionalID: f.professional,
		StartTime:      ten,
		ServiceIDs:     []uuid.UUID{f.haircut},
	})
	require.NoError(t, err)

	assert.Len(t, f.store.users, before+1)
	client, ok := f.store.users[b.ClientID]
	require.True(t, ok)
	assert.Equal(t, "Maria", client.FirstName)
	assert.Equal(t, "da Silva", client.LastName)
	assert.Equal(t, models.RoleClient, client.Role)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t, ten, f.haircut) // 10:00–11:00

	_, err := f.manager.Create(context.Background(), CreateInput{
		ClientID:       &f.client,
		ProfessionalID: f.professional,
		StartTime:      ten.Add(30 * time.Minute), // 10:30 collides
		ServiceIDs:     []uuid.UUID{f.haircut},
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.store.bookings, 1)
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t, ten, f.haircut) // 10:00–11:00

	// Starting exactly at the previous end is not an overlap.
	b := f.createBooking(t, ten.Add(60*time.Minute), f.haircut)
	assert.Equal(t, ten.Add(60*time.Minute), b.StartTime)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"no client", CreateInput{ProfessionalID: f.professional, StartTime: ten, ServiceIDs: []uuid.UUID{f.haircut}}},
		{"no professional", CreateInput{ClientID: &f.client, StartTime: ten, ServiceIDs: []uuid.UUID{f.haircut}}},
		{"no start time", CreateInput{ClientID: &f.client, ProfessionalID: f.professional, ServiceIDs: []uuid.UUID{f.haircut}}},
		{"no services", CreateInput{ClientID: &f.client, ProfessionalID: f.professional, StartTime: ten}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.manager.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateBookingRejectsNonProfessional(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Create(context.Background(), CreateInput{
		ClientID:       &f.client,
		ProfessionalID: f.client, // a client account
		StartTime:      ten,
		ServiceIDs:     []uuid.UUID{f.haircut},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBookingUnknownProfessional(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Create(context.Background(), CreateInput{
		ClientID:       &f.client,
		ProfessionalID: uuid.New(),
		StartTime:      ten,
		ServiceIDs:     []uuid.UUID{f.haircut},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBookingUnknownService(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Create(context.Background(), CreateInput{
		ClientID:       &f.client,
		ProfessionalID: f.professional,
		StartTime:      ten,
		ServiceIDs:     []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBookingRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failReplaceServices = errors.New("insert failed")
	usersBefore := len(f.store.users)

	_, err := f.manager.Create(context.Background(), CreateInput{
		ClientName:     "Maria da Silva",
		ProfessionalID: f.professional,
		StartTime:      ten,
		ServiceIDs:     []uuid.UUID{f.haircut},
	})
	require.Error(t, err)

	// Nothing from the failed attempt is observable: no booking, and no
	// provisioned client either.
	assert.Empty(t, f.store.bookings)
	assert.Len(t, f.store.users, usersBefore)
}

func TestUpdateBookingMoveIntoConflict(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t, ten, f.haircut)                       // 10:00–11:00
	b := f.createBooking(t, ten.Add(2*time.Hour), f.haircut) // 12:00–13:00

	moved := ten.Add(30 * time.Minute)
	_, err := f.manager.Update(context.Background(), b.ID, UpdateInput{StartTime: &moved})
	assert.ErrorIs(t, err, ErrConflict)

	// The move did not commit.
	assert.Equal(t, ten.Add(2*time.Hour), f.store.bookings[b.ID].StartTime)
}

func TestUpdateBookingLocksProfessionalOnReschedule(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)
	*f.store.lockedProfessionals = nil

	// Rescheduling re-runs the overlap check, which must hold the
	// professional row lock so a concurrent create for the same
	// professional cannot commit a conflicting window.
	moved := ten.Add(3 * time.Hour)
	_, err := f.manager.Update(context.Background(), b.ID, UpdateInput{StartTime: &moved})
	require.NoError(t, err)
	assert.Contains(t, *f.store.lockedProfessionals, f.professional)

	// A metadata-only edit skips the overlap check and takes no lock.
	*f.store.lockedProfessionals = nil
	notes := "bring own towel"
	_, err = f.manager.Update(context.Background(), b.ID, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.Empty(t, *f.store.lockedProfessionals)
}

func TestUpdateBookingKeepsWindowOnMove(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)

	moved := ten.Add(3 * time.Hour)
	updated, err := f.manager.Update(context.Background(), b.ID, UpdateInput{StartTime: &moved})
	require.NoError(t, err)
	assert.Equal(t, moved, updated.StartTime)
	assert.Equal(t, moved.Add(60*time.Minute), updated.EndTime)
}

func TestUpdateBookingReplacesServices(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)

	updated, err := f.manager.Update(context.Background(), b.ID, UpdateInput{
		ServiceIDs: []uuid.UUID{f.coloring},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Coloring", updated.Items[0].ServiceName)
	// Window recomputed from the new set, floored at 30 minutes.
	assert.Equal(t, ten.Add(30*time.Minute), updated.EndTime)
	assert.Len(t, f.store.items[b.ID], 1)
}

func TestUpdateBookingFinishedTriggersCompletion(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)

	finished := true
	updated, err := f.manager.Update(context.Background(), b.ID, UpdateInput{Finished: &finished})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NotEmpty(t, f.ledger.entries)
}

func TestUpdateBookingNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Update(context.Background(), uuid.New(), UpdateInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkCompletedRecordsLedger(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)

	completed, count, err := f.manager.MarkCompleted(context.Background(), b.ID, CompleteOptions{CreatedBy: "tester"})
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletedAt)

	// Cash payment: income, commission, tax. No gateway fee, no product cost.
	assert.Equal(t, 3, count)
	require.Len(t, f.ledger.entries, 3)

	income := f.ledger.entries[0]
	assert.Equal(t, models.TransactionIncome, income.TransactionType)
	assert.Equal(t, models.CategoryServicePayment, income.Category)
	assert.Equal(t, int64(10000), income.AmountCents)
	require.NotNil(t, income.BookingID)
	assert.Equal(t, b.ID, *income.BookingID)
	assert.Equal(t, "tester", income.CreatedBy)

	byCategory := map[models.LedgerCategory]models.LedgerEntry{}
	var expenseTotal int64
	for _, e := range f.ledger.entries[1:] {
		assert.Equal(t, models.TransactionExpense, e.TransactionType)
		byCategory[e.Category] = e
		expenseTotal += e.AmountCents
	}
	assert.Equal(t, int64(5000), byCategory[models.CategoryCommissionPayment].AmountCents)
	assert.Equal(t, int64(300), byCategory[models.CategoryTaxPayment].AmountCents)

	// Net position reconciles with the split.
	assert.Equal(t, int64(10000-5000-300), income.AmountCents-expenseTotal)
}

func TestMarkCompletedCardPaysGatewayFee(t *testing.T) {
	f := newFixture(t)
	b, err := f.manager.Create(context.Background(), CreateInput{
		ClientID:       &f.client,
		ProfessionalID: f.professional,
		StartTime:      ten,
		PaymentMethod:  models.PaymentMethodCreditCard,
		ServiceIDs:     []uuid.UUID{f.haircut},
	})
	require.NoError(t, err)

	_, count, err := f.manager.MarkCompleted(context.Background(), b.ID, CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	var fee *models.LedgerEntry
	for i := range f.ledger.entries {
		if f.ledger.entries[i].Category == models.CategoryGatewayFee {
			fee = &f.ledger.entries[i]
		}
	}
	require.NotNil(t, fee)
	assert.Equal(t, int64(299), fee.AmountCents)
}

func TestMarkCompletedWithProductCost(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)

	_, count, err := f.manager.MarkCompleted(context.Background(), b.ID, CompleteOptions{ProductCostCents: 1500})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	last := f.ledger.entries[len(f.ledger.entries)-1]
	assert.Equal(t, models.CategoryProductCost, last.Category)
	assert.Equal(t, int64(1500), last.AmountCents)
}

func TestMarkCompletedIdempotent(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)

	_, first, err := f.manager.MarkCompleted(context.Background(), b.ID, CompleteOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, first)

	_, second, err := f.manager.MarkCompleted(context.Background(), b.ID, CompleteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second)
	assert.Len(t, f.ledger.entries, 3)
}

func TestMarkCompletedLedgerFailureKeepsBooking(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, ten, f.haircut)
	f.ledger.err = errors.New("ledger down")

	completed, count, err := f.manager.MarkCompleted(context.Background(), b.ID, CompleteOptions{})
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	assert.Equal(t, 0, count)
	assert.True(t, f.store.bookings[b.ID].Completed)
}

func TestMarkCompletedNotFound(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.manager.MarkCompleted(context.Background(), uuid.New(), CompleteOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}
