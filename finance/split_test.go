package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitSum(b Breakdown) int64 {
	return b.SalonNetCents + b.ProfessionalNetCents + b.Taxes.TotalTaxCents +
		b.OperationalCosts.GatewayFeeCents + b.OperationalCosts.ProductCostCents
}

func TestSplitCardPayment(t *testing.T) {
	b := Split(SplitInput{
		GrossCents:     10000,
		CommissionRate: 0.5,
		GatewayFeeRate: 0.0299,
		TaxRate:        0.06,
	})

	assert.Equal(t, int64(299), b.OperationalCosts.GatewayFeeCents)
	assert.Equal(t, int64(9701), b.AfterGatewayFeeCents)
	// 9701 * 0.5 = 4850.5, rounds half away from zero.
	assert.Equal(t, int64(4851), b.ProfessionalCommissionCents)
	assert.Equal(t, int64(4850), b.SalonShareCents)
	assert.Equal(t, int64(291), b.Taxes.SalonTaxCents)
	assert.Equal(t, int64(0), b.Taxes.ProfessionalTaxCents)
	assert.Equal(t, int64(4559), b.SalonNetCents)
	assert.Equal(t, int64(4851), b.ProfessionalNetCents)
	assert.Equal(t, b.GrossCents, splitSum(b))
}

func TestSplitPartnerSalonShiftsTax(t *testing.T) {
	in := SplitInput{
		GrossCents:     10000,
		CommissionRate: 0.5,
		GatewayFeeRate: 0.0299,
		TaxRate:        0.06,
	}

	regular := Split(in)
	in.PartnerSalon = true
	partner := Split(in)

	// Same money in motion, different bearer of the tax.
	assert.Equal(t, int64(0), partner.Taxes.SalonTaxCents)
	assert.Equal(t, int64(291), partner.Taxes.ProfessionalTaxCents)
	assert.Equal(t, int64(4560), partner.ProfessionalNetCents)
	assert.Equal(t, int64(4850), partner.SalonNetCents)

	assert.Equal(t, regular.ProfessionalCommissionCents, partner.ProfessionalCommissionCents)
	assert.Equal(t, partner.GrossCents, splitSum(partner))
}

func TestSplitNoGatewayFee(t *testing.T) {
	b := Split(SplitInput{
		GrossCents:     8000,
		CommissionRate: 0.4,
		TaxRate:        0.06,
	})

	assert.Equal(t, int64(0), b.OperationalCosts.GatewayFeeCents)
	assert.Equal(t, int64(8000), b.AfterGatewayFeeCents)
	assert.Equal(t, int64(3200), b.ProfessionalCommissionCents)
	assert.Equal(t, int64(4800), b.SalonShareCents)
	assert.Equal(t, b.GrossCents, splitSum(b))
}

func TestSplitProductCostComesFromSalon(t *testing.T) {
	b := Split(SplitInput{
		GrossCents:       10000,
		CommissionRate:   0.5,
		ProductCostCents: 1500,
	})

	assert.Equal(t, int64(5000), b.ProfessionalNetCents)
	assert.Equal(t, int64(3500), b.SalonNetCents)
	assert.Equal(t, int64(1500), b.OperationalCosts.ProductCostCents)
	assert.Equal(t, int64(1500), b.OperationalCosts.TotalCents)
	assert.Equal(t, b.GrossCents, splitSum(b))
}

func TestSplitZeroGross(t *testing.T) {
	b := Split(SplitInput{
		CommissionRate: 0.5,
		GatewayFeeRate: 0.0299,
		TaxRate:        0.06,
	})

	assert.Equal(t, int64(0), b.GrossCents)
	assert.Equal(t, int64(0), b.ProfessionalNetCents)
	assert.Equal(t, int64(0), b.SalonNetCents)
	assert.Equal(t, b.GrossCents, splitSum(b))
}

// The sum invariant must hold for every combination of awkward amounts and
// rates, not just the happy path.
func TestSplitSumInvariant(t *testing.T) {
	amounts := []int64{1, 3, 99, 101, 999, 1001, 4999, 10000, 33333, 99999, 123457}
	commissions := []float64{0, 0.15, 1.0 / 3.0, 0.4, 0.5, 0.725, 1}
	fees := []float64{0, 0.0299, 0.05}
	taxes := []float64{0, 0.06, 0.1525}

	for _, gross := range amounts {
		for _, commission := range commissions {
			for _, fee := range fees {
				for _, tax := range taxes {
					for _, partner := range []bool{false, true} {
						b := Split(SplitInput{
							GrossCents:       gross,
							CommissionRate:   commission,
							GatewayFeeRate:   fee,
							TaxRate:          tax,
							PartnerSalon:     partner,
							ProductCostCents: gross / 10,
						})
						require.Equal(t, gross, splitSum(b),
							"gross=%d commission=%v fee=%v tax=%v partner=%v",
							gross, commission, fee, tax, partner)
					}
				}
			}
		}
	}
}

func TestBreakdownMetadata(t *testing.T) {
	b := Split(SplitInput{
		GrossCents:     10000,
		CommissionRate: 0.5,
		GatewayFeeRate: 0.0299,
		TaxRate:        0.06,
		PartnerSalon:   true,
	})

	meta := b.Metadata()
	assert.Equal(t, int64(10000), meta["grossAmountCents"])
	assert.Equal(t, 0.5, meta["commissionRate"])
	assert.Equal(t, 0.0299, meta["gatewayFeeRate"])
	assert.Equal(t, 0.06, meta["taxRate"])
	assert.Equal(t, true, meta["partnerSalon"])
}
