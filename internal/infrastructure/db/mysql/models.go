package mysql

import (
	"time"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// userRecord is a row of the users table in the user store.
type userRecord struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:50;uniqueIndex;not null"`
	Email          string `gorm:"size:100;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	IsAdmin        bool   `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.Principal {
	return &domain.Principal{
		ID:           r.ID,
		Kind:         domain.KindUser,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.HashedPassword,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *userRecord) fromDomain(p *domain.Principal) {
	r.ID = p.ID
	r.Username = p.Username
	r.Email = p.Email
	r.HashedPassword = p.PasswordHash
	r.IsAdmin = p.IsAdmin
}

// adminRecord is a row of the admins table in the admin store.
type adminRecord struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:50;uniqueIndex;not null"`
	Email          string `gorm:"size:100;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	IsSuperAdmin   bool   `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (adminRecord) TableName() string { return "admins" }

func (r *adminRecord) toDomain() *domain.Principal {
	return &domain.Principal{
		ID:           r.ID,
		Kind:         domain.KindAdmin,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.HashedPassword,
		IsSuperAdmin: r.IsSuperAdmin,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *adminRecord) fromDomain(p *domain.Principal) {
	r.ID = p.ID
	r.Username = p.Username
	r.Email = p.Email
	r.HashedPassword = p.PasswordHash
	r.IsSuperAdmin = p.IsSuperAdmin
}
