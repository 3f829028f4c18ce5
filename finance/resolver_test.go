package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

type fakeRuleSource struct {
	professional *models.CommissionRule
	service      *models.CommissionRule
	general      *models.CommissionRule
	err          error
}

func (f *fakeRuleSource) ActiveProfessionalRule(_ context.Context, _ uuid.UUID) (*models.CommissionRule, error) {
	return f.professional, f.err
}

func (f *fakeRuleSource) ActiveServiceRule(_ context.Context, _ uuid.UUID) (*models.CommissionRule, error) {
	return f.service, f.err
}

func (f *fakeRuleSource) ActiveGeneralRule(_ context.Context) (*models.CommissionRule, error) {
	return f.general, f.err
}

type fakeServiceSource struct {
	service *models.Service
	err     error
}

func (f *fakeServiceSource) FindService(_ context.Context, _ uuid.UUID) (*models.Service, error) {
	return f.service, f.err
}

type fakeSettingsSource struct {
	settings *models.CompanySettings
	err      error
}

func (f *fakeSettingsSource) Get(_ context.Context) (*models.CompanySettings, error) {
	return f.settings, f.err
}

func rule(rate string) *models.CommissionRule {
	return &models.CommissionRule{
		ID:             uuid.New(),
		CommissionRate: decimal.RequireFromString(rate),
		IsActive:       true,
	}
}

func serviceWithRate(rate string) *models.Service {
	r := decimal.RequireFromString(rate)
	return &models.Service{ID: uuid.New(), CommissionRate: &r}
}

func settingsWithDefault(rate string) *models.CompanySettings {
	return &models.CompanySettings{DefaultCommissionRate: decimal.RequireFromString(rate)}
}

func TestResolvePrecedence(t *testing.T) {
	serviceID, professionalID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		rules    fakeRuleSource
		services fakeServiceSource
		settings fakeSettingsSource
		want     float64
	}{
		{
			name: "professional rule wins over everything",
			rules: fakeRuleSource{
				professional: rule("0.7"),
				service:      rule("0.6"),
				general:      rule("0.55"),
			},
			services: fakeServiceSource{service: serviceWithRate("0.45")},
			settings: fakeSettingsSource{settings: settingsWithDefault("0.4")},
			want:     0.7,
		},
		{
			name: "service rule beats general rule",
			rules: fakeRuleSource{
				service: rule("0.6"),
				general: rule("0.55"),
			},
			services: fakeServiceSource{service: serviceWithRate("0.45")},
			settings: fakeSettingsSource{settings: settingsWithDefault("0.4")},
			want:     0.6,
		},
		{
			name:     "general rule beats service override",
			rules:    fakeRuleSource{general: rule("0.55")},
			services: fakeServiceSource{service: serviceWithRate("0.45")},
			settings: fakeSettingsSource{settings: settingsWithDefault("0.4")},
			want:     0.55,
		},
		{
			name:     "service override beats company default",
			rules:    fakeRuleSource{},
			services: fakeServiceSource{service: serviceWithRate("0.45")},
			settings: fakeSettingsSource{settings: settingsWithDefault("0.4")},
			want:     0.45,
		},
		{
			name:     "company default when nothing more specific",
			rules:    fakeRuleSource{},
			services: fakeServiceSource{},
			settings: fakeSettingsSource{settings: settingsWithDefault("0.4")},
			want:     0.4,
		},
		{
			name:     "fallback when default is unset",
			rules:    fakeRuleSource{},
			services: fakeServiceSource{},
			settings: fakeSettingsSource{settings: &models.CompanySettings{}},
			want:     FallbackCommissionRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCommissionResolver(&tt.rules, &tt.services, &tt.settings)
			got, err := r.Resolve(context.Background(), serviceID, professionalID)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestResolveNilIDsSkipScopedLookups(t *testing.T) {
	// With no service and no professional, scoped rules cannot apply even
	// if the source would return them.
	rules := fakeRuleSource{
		professional: rule("0.7"),
		service:      rule("0.6"),
	}
	r := NewCommissionResolver(&rules, &fakeServiceSource{}, &fakeSettingsSource{settings: settingsWithDefault("0.4")})

	got, err := r.Resolve(context.Background(), uuid.Nil, uuid.Nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, got, 1e-9)
}

func TestResolvePropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	r := NewCommissionResolver(&fakeRuleSource{err: boom}, &fakeServiceSource{}, &fakeSettingsSource{})

	_, err := r.Resolve(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, boom)
}
