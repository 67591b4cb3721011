package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
)

// record is the pointer side of a table model.
type record[R any] interface {
	*R
	toDomain() *domain.Principal
	fromDomain(p *domain.Principal)
}

// PrincipalRepository implements ports.PrincipalRepository for one table.
type PrincipalRepository[R any, P record[R]] struct {
	db *gorm.DB
}

// NewUserRepository returns the repository for the users table.
func NewUserRepository(db *gorm.DB) ports.PrincipalRepository {
	return &PrincipalRepository[userRecord, *userRecord]{db: db}
}

// NewAdminRepository returns the repository for the admins table.
func NewAdminRepository(db *gorm.DB) ports.PrincipalRepository {
	return &PrincipalRepository[adminRecord, *adminRecord]{db: db}
}

// MigrateUsers creates or updates the users table.
func MigrateUsers(db *gorm.DB) error {
	return db.AutoMigrate(&userRecord{})
}

// MigrateAdmins creates or updates the admins table.
func MigrateAdmins(db *gorm.DB) error {
	return db.AutoMigrate(&adminRecord{})
}

func (r *PrincipalRepository[R, P]) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	var rec R
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return P(&rec).toDomain(), nil
}

func (r *PrincipalRepository[R, P]) FindByID(ctx context.Context, id uint) (*domain.Principal, error) {
	var rec R
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translate(err)
	}
	return P(&rec).toDomain(), nil
}

// List returns principals in id order.
func (r *PrincipalRepository[R, P]) List(ctx context.Context, offset, limit int) ([]*domain.Principal, error) {
	var recs []R
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	out := make([]*domain.Principal, 0, len(recs))
	for i := range recs {
		out = append(out, P(&recs[i]).toDomain())
	}
	return out, nil
}

func (r *PrincipalRepository[R, P]) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	var rec R
	P(&rec).fromDomain(p)
	if err := r.db.WithContext(ctx).Create(P(&rec)).Error; err != nil {
		return nil, translate(err)
	}
	return P(&rec).toDomain(), nil
}

// Update overwrites every mutable column of an existing row.
func (r *PrincipalRepository[R, P]) Update(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	var rec R
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, p.ID).Error; err != nil {
			return err
		}
		P(&rec).fromDomain(p)
		return tx.Model(P(&rec)).Select("*").Omit("id", "created_at").Updates(P(&rec)).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return P(&rec).toDomain(), nil
}

func (r *PrincipalRepository[R, P]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(P(new(R)), id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: username or email already registered", domain.ErrUniqueViolation)
	default:
		return err
	}
}
