package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Operator is a person allowed to sign in and change stock
type Operator struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string     `gorm:"type:varchar(255)" json:"fullName" validate:"required"`
	Role         string     `gorm:"type:varchar(20);not null;default:'VIEWER'" json:"role" validate:"required,oneof=ADMIN PLANNER VIEWER"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// SetPassword hashes and sets the operator's password
func (o *Operator) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	o.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (o *Operator) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(password))
	return err == nil
}

func (o *Operator) Privileges() []string {
	return append([]string(nil), RolePrivileges[o.Role]...)
}

// HasPrivilege checks if the operator's role grants a specific privilege
func (o *Operator) HasPrivilege(code string) bool {
	for _, p := range RolePrivileges[o.Role] {
		if p == code {
			return true
		}
	}
	return false
}

// OperatorResponse is used for API responses (without sensitive data)
type OperatorResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	Privileges  []string   `json:"privileges"`
}

// ToResponse converts Operator to OperatorResponse
func (o *Operator) ToResponse() OperatorResponse {
	return OperatorResponse{
		ID:          o.ID,
		Email:       o.Email,
		FullName:    o.FullName,
		Role:        o.Role,
		IsActive:    o.IsActive,
		LastLoginAt: o.LastLoginAt,
		Privileges:  o.Privileges(),
	}
}
