package finance

import (
	"context"

	"github.com/google/uuid"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// FallbackCommissionRate keeps Resolve total when no rule, no service
// override and no company default exist. 50% is a deliberate last resort,
// not a business requirement, and it should eventually move into
// CompanySettings so operators can change it.
const FallbackCommissionRate = 0.5

// RuleSource returns the single applicable active rule for a scope, or nil
// when none exists.
type RuleSource interface {
	ActiveProfessionalRule(ctx context.Context, professionalID uuid.UUID) (*models.CommissionRule, error)
	ActiveServiceRule(ctx context.Context, serviceID uuid.UUID) (*models.CommissionRule, error)
	ActiveGeneralRule(ctx context.Context) (*models.CommissionRule, error)
}

type ServiceSource interface {
	FindService(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

type SettingsSource interface {
	Get(ctx context.Context) (*models.CompanySettings, error)
}

// CommissionResolver resolves the commission rate for a
// (service, professional) pair. Precedence, most specific first:
// PROFESSIONAL rule, SERVICE rule, GENERAL rule, the service's own
// override, the company default, then FallbackCommissionRate.
type CommissionResolver struct {
	rules    RuleSource
	services ServiceSource
	settings SettingsSource
}

func NewCommissionResolver(rules RuleSource, services ServiceSource, settings SettingsSource) *CommissionResolver {
	return &CommissionResolver{rules: rules, services: services, settings: settings}
}

func (r *CommissionResolver) Resolve(ctx context.Context, serviceID, professionalID uuid.UUID) (float64, error) {
	if professionalID != uuid.Nil {
		rule, err := r.rules.ActiveProfessionalRule(ctx, professionalID)
		if err != nil {
			return 0, err
		}
		if rule != nil {
			return rule.CommissionRate.InexactFloat64(), nil
		}
	}

	if serviceID != uuid.Nil {
		rule, err := r.rules.ActiveServiceRule(ctx, serviceID)
		if err != nil {
			return 0, err
		}
		if rule != nil {
			return rule.CommissionRate.InexactFloat64(), nil
		}
	}

	rule, err := r.rules.ActiveGeneralRule(ctx)
	if err != nil {
		return 0, err
	}
	if rule != nil {
		return rule.CommissionRate.InexactFloat64(), nil
	}

	if serviceID != uuid.Nil {
		svc, err := r.services.FindService(ctx, serviceID)
		if err != nil {
			return 0, err
		}
		if svc != nil && svc.CommissionRate != nil {
			return svc.CommissionRate.InexactFloat64(), nil
		}
	}

	settings, err := r.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	if settings != nil && !settings.DefaultCommissionRate.IsZero() {
		return settings.DefaultCommissionRate.InexactFloat64(), nil
	}

	return FallbackCommissionRate, nil
}
