package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// Role is the closed set of account roles. Roles are resolved once when an
// account is loaded, never re-parsed from free-form strings per request.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleProfessional Role = "professional"
	RoleClient       Role = "client"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleProfessional, RoleClient:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the unified account record: owners, professionals and clients.
// Clients provisioned on the fly during booking carry only a name.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Email     *string   `gorm:"uniqueIndex"`
	Password  string
	FirstName string `gorm:"not null"`
	LastName  string
	Phone     string

	Role     Role `gorm:"type:varchar(20);not null;index"`
	IsActive bool `gorm:"default:true"`

	LastLogin *time.Time

	gorm.Model
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Password != "" {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return nil
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// JSONB backs free-form metadata columns (calculation snapshots).
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
