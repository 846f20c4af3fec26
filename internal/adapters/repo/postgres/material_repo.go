package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/gatequote/internal/domain"
)

type MaterialRepo struct{ db *gorm.DB }

func NewMaterialRepo(db *gorm.DB) *MaterialRepo { return &MaterialRepo{db: db} }

func (r *MaterialRepo) Save(ctx context.Context, m *domain.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MaterialRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Material, error) {
	var m domain.Material
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListAll returns the catalog in category, name order. The suggester's
// first-match rule depends on this ordering being stable.
func (r *MaterialRepo) ListAll(ctx context.Context) ([]domain.Material, error) {
	var list []domain.Material
	if err := r.db.WithContext(ctx).Order("category asc, name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MaterialRepo) ListByCategory(ctx context.Context, category string) ([]domain.Material, error) {
	var list []domain.Material
	if err := r.db.WithContext(ctx).Where("category = ?", category).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MaterialRepo) Categories(ctx context.Context) ([]string, error) {
	cats := []string{}
	if err := r.db.WithContext(ctx).Model(&domain.Material{}).
		Distinct("category").Where("category <> ''").Order("category asc").Pluck("category", &cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *MaterialRepo) Search(ctx context.Context, query string) ([]domain.Material, error) {
	var list []domain.Material
	like := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", like).
		Order("category asc, name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MaterialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Material{}, "id = ?", id).Error
}

func (r *MaterialRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Material{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
