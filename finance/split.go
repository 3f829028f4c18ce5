package finance

// SplitInput carries everything the split needs; rates are fractions in
// [0,1], amounts integer cents.
type SplitInput struct {
	GrossCents       int64
	CommissionRate   float64
	GatewayFeeRate   float64
	TaxRate          float64
	PartnerSalon     bool
	ProductCostCents int64
}

type Taxes struct {
	SalonTaxCents        int64 `json:"salonTax"`
	ProfessionalTaxCents int64 `json:"professionalTax"`
	TotalTaxCents        int64 `json:"totalTax"`
}

type OperationalCosts struct {
	GatewayFeeCents  int64 `json:"gatewayFee"`
	ProductCostCents int64 `json:"productCost"`
	TotalCents       int64 `json:"total"`
}

// Breakdown is the full result of splitting one gross amount. It carries
// every intermediate figure plus the rates used, so a ledger entry written
// from it can be traced back to its inputs.
type Breakdown struct {
	GrossCents                  int64            `json:"grossAmount"`
	AfterGatewayFeeCents        int64            `json:"amountAfterGatewayFee"`
	SalonShareCents             int64            `json:"salonShare"`
	ProfessionalCommissionCents int64            `json:"professionalCommission"`
	SalonNetCents               int64            `json:"salonNetAmount"`
	ProfessionalNetCents        int64            `json:"professionalNetAmount"`
	Taxes                       Taxes            `json:"taxes"`
	OperationalCosts            OperationalCosts `json:"operationalCosts"`

	CommissionRate float64 `json:"commissionRate"`
	GatewayFeeRate float64 `json:"gatewayFeeRate"`
	TaxRate        float64 `json:"taxRate"`
	PartnerSalon   bool    `json:"partnerSalon"`
}

// Split divides a gross amount between salon, professional, taxes and
// operational costs. Pure function, integer cents throughout, every
// rounding is half away from zero.
//
// The gateway fee is deducted from gross before the commission split, so
// salon and professional share the fee in proportion to their cut.
//
// The sum invariant holds by construction: each subtraction pairs with the
// rounded value it removed, so
//
//	salonNet + professionalNet + totalTax + gatewayFee + productCost == gross
//
// for every input.
func Split(in SplitInput) Breakdown {
	gatewayFee := share(in.GrossCents, in.GatewayFeeRate)
	afterGateway := in.GrossCents - gatewayFee

	commission := share(afterGateway, in.CommissionRate)
	salonShare := afterGateway - commission

	// Who bears the tax is a first-class business rule: under the
	// partner-salon regime the tax is withheld from the professional's
	// commission, otherwise it comes out of the salon's share.
	var salonTax, professionalTax int64
	if in.PartnerSalon {
		professionalTax = share(commission, in.TaxRate)
	} else {
		salonTax = share(salonShare, in.TaxRate)
	}
	totalTax := salonTax + professionalTax

	professionalNet := commission - professionalTax
	salonNet := salonShare - salonTax - in.ProductCostCents

	return Breakdown{
		GrossCents:                  in.GrossCents,
		AfterGatewayFeeCents:        afterGateway,
		SalonShareCents:             salonShare,
		ProfessionalCommissionCents: commission,
		SalonNetCents:               salonNet,
		ProfessionalNetCents:        professionalNet,
		Taxes: Taxes{
			SalonTaxCents:        salonTax,
			ProfessionalTaxCents: professionalTax,
			TotalTaxCents:        totalTax,
		},
		OperationalCosts: OperationalCosts{
			GatewayFeeCents:  gatewayFee,
			ProductCostCents: in.ProductCostCents,
			TotalCents:       gatewayFee + in.ProductCostCents,
		},
		CommissionRate: in.CommissionRate,
		GatewayFeeRate: in.GatewayFeeRate,
		TaxRate:        in.TaxRate,
		PartnerSalon:   in.PartnerSalon,
	}
}

// Metadata snapshots the inputs for a ledger entry's metadata column.
func (b Breakdown) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"grossAmountCents": b.GrossCents,
		"commissionRate":   b.CommissionRate,
		"gatewayFeeRate":   b.GatewayFeeRate,
		"taxRate":          b.TaxRate,
		"partnerSalon":     b.PartnerSalon,
	}
}
