package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductListFilter struct {
	Category string
	Featured *bool
}

// ProductPosition is one entry of a batch reorder.
type ProductPosition struct {
	ID           string
	DisplayOrder int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	NextDisplayOrder(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context, keys []string, skipIDs []string) (int64, error)
	Move(ctx context.Context, id string, offset int) (bool, error)
	ApplyPositions(ctx context.Context, positions []ProductPosition) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

// catalogOrder is the one ordering used for listing and for neighbour lookup.
const catalogOrder = "display_order ASC, created_at ASC, id ASC"

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Select("*").Create(p).Error)
}

func (r *productRepo) Save(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	var list []models.Product
	if err := q.Order(catalogOrder).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) NextDisplayOrder(ctx context.Context) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("COALESCE(MAX(display_order) + 1, 0)").Scan(&next).Error
	return next, err
}

// CountByCategory counts products whose category matches any of keys,
// ignoring rows whose id is in skipIDs.
func (r *productRepo) CountByCategory(ctx context.Context, keys []string, skipIDs []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("category IN ?", keys)
	if len(skipIDs) > 0 {
		q = q.Where("id NOT IN ?", skipIDs)
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt, err
}

type positionRow struct {
	ID           string
	DisplayOrder int
}

// Move swaps the product's display_order with its neighbour at offset
// (-1 up, +1 down). Returns false when the product is already at that end.
// Rows are locked for the duration so concurrent moves serialize.
func (r *productRepo) Move(ctx context.Context, id string, offset int) (bool, error) {
	moved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []positionRow
		if err := tx.Model(&models.Product{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id, display_order").
			Order(catalogOrder).
			Find(&rows).Error; err != nil {
			return err
		}

		idx := -1
		for i, row := range rows {
			if row.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}

		target := idx + offset
		if target < 0 || target >= len(rows) {
			return nil
		}

		// Ties would make a swap a no-op, so rewrite to a dense sequence first.
		if hasTies(rows) {
			for i := range rows {
				if rows[i].DisplayOrder == i {
					continue
				}
				if err := setDisplayOrder(tx, rows[i].ID, i); err != nil {
					return err
				}
				rows[i].DisplayOrder = i
			}
		}

		a, b := rows[idx], rows[target]
		if err := setDisplayOrder(tx, a.ID, b.DisplayOrder); err != nil {
			return err
		}
		if err := setDisplayOrder(tx, b.ID, a.DisplayOrder); err != nil {
			return err
		}
		moved = true
		return nil
	})
	return moved, err
}

// ApplyPositions writes every position in one transaction. An unknown id
// aborts the whole batch.
func (r *productRepo) ApplyPositions(ctx context.Context, positions []ProductPosition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range positions {
			res := tx.Model(&models.Product{}).Where("id = ?", p.ID).Update("display_order", p.DisplayOrder)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %s", ErrNotFound, p.ID)
			}
		}
		return nil
	})
}

func setDisplayOrder(tx *gorm.DB, id string, order int) error {
	return tx.Model(&models.Product{}).Where("id = ?", id).Update("display_order", order).Error
}

func hasTies(rows []positionRow) bool {
	seen := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.DisplayOrder]; ok {
			return true
		}
		seen[row.DisplayOrder] = struct{}{}
	}
	return false
}
