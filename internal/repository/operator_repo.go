package repository

import (
	"time"

	"go-factory-planner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperatorRepository interface {
	FindByEmail(email string) (*model.Operator, error)
	FindByID(id uuid.UUID) (*model.Operator, error)
	Create(operator *model.Operator) error
	UpdatePassword(operatorID uuid.UUID, hashedPassword string) error
	UpdateSession(operatorID uuid.UUID, tokenVersion string, loginAt time.Time) error
}

type operatorRepo struct {
	db *gorm.DB
}

func NewOperatorRepo(db *gorm.DB) OperatorRepository {
	return &operatorRepo{db}
}

func (r *operatorRepo) FindByEmail(email string) (*model.Operator, error) {
	var operator model.Operator
	if err := r.db.Where("email = ?", email).First(&operator).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepo) FindByID(id uuid.UUID) (*model.Operator, error) {
	var operator model.Operator
	if err := r.db.First(&operator, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepo) Create(operator *model.Operator) error {
	return r.db.Create(operator).Error
}

func (r *operatorRepo) UpdatePassword(operatorID uuid.UUID, hashedPassword string) error {
	res := r.db.Model(&model.Operator{}).Where("id = ?", operatorID).Update("password", hashedPassword)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateSession rotates the token version so older tokens stop validating
func (r *operatorRepo) UpdateSession(operatorID uuid.UUID, tokenVersion string, loginAt time.Time) error {
	return r.db.Model(&model.Operator{}).Where("id = ?", operatorID).Updates(map[string]interface{}{
		"token_version": tokenVersion,
		"last_login_at": loginAt,
	}).Error
}
