// Package domain contains persistence models for organizations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization is the tenant a subject sets up during onboarding.
type Organization struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_name" json:"name"`
	Slug        string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	Description string       `gorm:"type:text" json:"description"`
	Industry    string       `gorm:"type:text" json:"industry"`
	Website     string       `gorm:"type:text" json:"website"`
	Address     string       `gorm:"type:text" json:"address"`
	City        string       `gorm:"type:text" json:"city"`
	State       string       `gorm:"type:text" json:"state"`
	Country     string       `gorm:"type:text" json:"country"`
	ZipCode     string       `gorm:"column:zip_code;type:text" json:"zip_code"`
	Phone       string       `gorm:"type:text" json:"phone"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
