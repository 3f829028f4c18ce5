package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

type fakeBookingSource struct {
	bookings []CompletedBooking
	err      error
}

func (f *fakeBookingSource) CompletedWithoutIncome(_ context.Context, _, _ time.Time) ([]CompletedBooking, error) {
	return f.bookings, f.err
}

func newProjectorForTest(bookings []CompletedBooking, settings *models.CompanySettings) *Projector {
	settingsSrc := &fakeSettingsSource{settings: settings}
	resolver := NewCommissionResolver(&fakeRuleSource{}, &fakeServiceSource{}, settingsSrc)
	return NewProjector(&fakeBookingSource{bookings: bookings}, resolver, settingsSrc)
}

func completedBooking(priceCents int64, method string) CompletedBooking {
	return CompletedBooking{
		ID:             uuid.New(),
		ProfessionalID: uuid.New(),
		CompletedAt:    time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		PaymentMethod:  method,
		Lines: []BookingLine{
			{ServiceID: uuid.New(), PriceCents: priceCents},
		},
	}
}

func TestProjectEmptyRange(t *testing.T) {
	p := newProjectorForTest(nil, settingsWithDefault("0.5"))

	entries, err := p.Project(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProjectCashBooking(t *testing.T) {
	settings := settingsWithDefault("0.4")
	settings.TaxRate = decimal.RequireFromString("0.06")
	settings.GatewayFeeRate = decimal.RequireFromString("0.0299")

	b := completedBooking(10000, models.PaymentMethodCash)
	p := newProjectorForTest([]CompletedBooking{b}, settings)

	entries, err := p.Project(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)

	// Cash never pays a gateway fee, so: income, commission, tax.
	require.Len(t, entries, 3)

	income := entries[0]
	assert.Equal(t, "virtual-income-"+b.ID.String(), income.ID)
	assert.Equal(t, models.TransactionIncome, income.TransactionType)
	assert.Equal(t, models.CategoryServicePayment, income.Category)
	assert.Equal(t, int64(10000), income.AmountCents)
	assert.True(t, income.Virtual)
	require.NotNil(t, income.BookingID)
	assert.Equal(t, b.ID, *income.BookingID)
	assert.Equal(t, b.CompletedAt, income.TransactionDate)

	byCategory := map[models.LedgerCategory]Entry{}
	for _, e := range entries[1:] {
		assert.Equal(t, models.TransactionExpense, e.TransactionType)
		byCategory[e.Category] = e
	}
	assert.Equal(t, int64(4000), byCategory[models.CategoryCommissionPayment].AmountCents)
	// Tax on the salon share: round(6000 * 0.06).
	assert.Equal(t, int64(360), byCategory[models.CategoryTaxPayment].AmountCents)
	assert.NotContains(t, byCategory, models.CategoryGatewayFee)
	assert.NotContains(t, byCategory, models.CategoryProductCost)
}

func TestProjectCardBookingIncludesGatewayFee(t *testing.T) {
	settings := settingsWithDefault("0.5")
	settings.GatewayFeeRate = decimal.RequireFromString("0.0299")

	b := completedBooking(10000, models.PaymentMethodCreditCard)
	p := newProjectorForTest([]CompletedBooking{b}, settings)

	entries, err := p.Project(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)

	var fee *Entry
	for i := range entries {
		if entries[i].Category == models.CategoryGatewayFee {
			fee = &entries[i]
		}
	}
	require.NotNil(t, fee)
	assert.Equal(t, int64(299), fee.AmountCents)
}

func TestProjectMultiLineBookingSumsLines(t *testing.T) {
	b := completedBooking(10000, models.PaymentMethodCash)
	b.Lines = append(b.Lines, BookingLine{ServiceID: uuid.New(), PriceCents: 5000})
	p := newProjectorForTest([]CompletedBooking{b}, settingsWithDefault("0.5"))

	entries, err := p.Project(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	assert.Equal(t, int64(15000), entries[0].AmountCents)
}

func TestProjectSettingsFailureDegrades(t *testing.T) {
	// Settings unavailable: fee and tax unknown, commission falls back.
	settingsSrc := &fakeSettingsSource{err: errors.New("db down")}
	resolver := NewCommissionResolver(&fakeRuleSource{}, &fakeServiceSource{}, settingsSrc)
	b := completedBooking(10000, models.PaymentMethodCreditCard)
	p := NewProjector(&fakeBookingSource{bookings: []CompletedBooking{b}}, resolver, settingsSrc)

	entries, err := p.Project(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, int64(10000), entries[0].AmountCents)
	assert.Equal(t, models.CategoryCommissionPayment, entries[1].Category)
	assert.Equal(t, int64(5000), entries[1].AmountCents)
}

func TestProjectRateLookupFailureUsesCompanyDefault(t *testing.T) {
	// Rule lookup fails but settings are reachable: the line degrades to
	// the company default rate with fee and tax still applied.
	settings := settingsWithDefault("0.4")
	settings.TaxRate = decimal.RequireFromString("0.06")
	settingsSrc := &fakeSettingsSource{settings: settings}
	resolver := NewCommissionResolver(&fakeRuleSource{err: errors.New("db down")}, &fakeServiceSource{}, settingsSrc)
	b := completedBooking(10000, models.PaymentMethodCash)
	p := NewProjector(&fakeBookingSource{bookings: []CompletedBooking{b}}, resolver, settingsSrc)

	entries, err := p.Project(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(10000), entries[0].AmountCents)
	assert.Equal(t, models.CategoryCommissionPayment, entries[1].Category)
	assert.Equal(t, int64(4000), entries[1].AmountCents)
	assert.Equal(t, models.CategoryTaxPayment, entries[2].Category)
	assert.Equal(t, int64(360), entries[2].AmountCents)
}

func TestProjectSourceErrorFailsProjection(t *testing.T) {
	boom := errors.New("db down")
	settingsSrc := &fakeSettingsSource{settings: settingsWithDefault("0.5")}
	resolver := NewCommissionResolver(&fakeRuleSource{}, &fakeServiceSource{}, settingsSrc)
	p := NewProjector(&fakeBookingSource{err: boom}, resolver, settingsSrc)

	_, err := p.Project(context.Background(), time.Time{}, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestIsVirtualID(t *testing.T) {
	assert.True(t, IsVirtualID("virtual-income-"+uuid.New().String()))
	assert.False(t, IsVirtualID(uuid.New().String()))
	assert.False(t, IsVirtualID(""))
}
