package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
)

// CommissionRuleRepository persists commission rules and answers the
// resolver's scoped lookups.
type CommissionRuleRepository struct {
	db *gorm.DB
}

func NewCommissionRuleRepository(db *gorm.DB) *CommissionRuleRepository {
	return &CommissionRuleRepository{db: db}
}

func (r *CommissionRuleRepository) ActiveProfessionalRule(ctx context.Context, professionalID uuid.UUID) (*models.CommissionRule, error) {
	return r.findActive(ctx, r.db.Where("rule_type = ? AND professional_id = ?", models.RuleTypeProfessional, professionalID))
}

func (r *CommissionRuleRepository) ActiveServiceRule(ctx context.Context, serviceID uuid.UUID) (*models.CommissionRule, error) {
	return r.findActive(ctx, r.db.Where("rule_type = ? AND service_id = ?", models.RuleTypeService, serviceID))
}

func (r *CommissionRuleRepository) ActiveGeneralRule(ctx context.Context) (*models.CommissionRule, error) {
	return r.findActive(ctx, r.db.Where("rule_type = ?", models.RuleTypeGeneral))
}

func (r *CommissionRuleRepository) findActive(ctx context.Context, scope *gorm.DB) (*models.CommissionRule, error) {
	var rule models.CommissionRule
	err := scope.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *CommissionRuleRepository) List(ctx context.Context) ([]models.CommissionRule, error) {
	var rules []models.CommissionRule
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rules).Error
	return rules, err
}

func (r *CommissionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CommissionRule, error) {
	var rule models.CommissionRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *CommissionRuleRepository) Create(ctx context.Context, rule *models.CommissionRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *CommissionRuleRepository) Save(ctx context.Context, rule *models.CommissionRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *CommissionRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CommissionRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
