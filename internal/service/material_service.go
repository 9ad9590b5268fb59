package service

import (
	"context"
	"errors"
	"fmt"

	"go-factory-planner/internal/lock"
	"go-factory-planner/internal/model"
	"go-factory-planner/internal/repository"
	"go-factory-planner/internal/ws"
	"go-factory-planner/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialService interface {
	GetAllMaterials() ([]model.RawMaterial, error)
	GetMaterial(id uuid.UUID) (*model.RawMaterial, error)
	CreateMaterial(req *model.RawMaterial, actor Actor) error
	UpdateMaterial(ctx context.Context, id uuid.UUID, req *model.RawMaterial, actor Actor) (*model.RawMaterial, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID, actor Actor) error
}

type materialService struct {
	materialRepo repository.MaterialRepository
	locker       lock.Locker
	notifier     Notifier
}

func NewMaterialService(mRepo repository.MaterialRepository, locker lock.Locker, notifier Notifier) MaterialService {
	return &materialService{
		materialRepo: mRepo,
		locker:       locker,
		notifier:     notifierOrNop(notifier),
	}
}

func (s *materialService) GetAllMaterials() ([]model.RawMaterial, error) {
	return s.materialRepo.FindAll()
}

func (s *materialService) GetMaterial(id uuid.UUID) (*model.RawMaterial, error) {
	material, err := s.materialRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMaterialNotFound
	}
	return material, err
}

func (s *materialService) CreateMaterial(req *model.RawMaterial, actor Actor) error {
	// 1. Validasi Struct Dasar
	if err := validator.FirstError(req); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	// 2. Cek Duplikasi Nama
	if err := s.ensureUniqueName(req.Name, uuid.Nil); err != nil {
		return err
	}

	// 3. Set Audit Fields
	req.ID = uuid.Nil
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID

	// 4. Simpan ke Database
	if err := s.materialRepo.Create(req); err != nil {
		return fmt.Errorf("create raw material: %w", err)
	}

	s.publish("material_created", req, actor, fmt.Sprintf("%s created raw material '%s'", actor.Name, req.Name))
	return nil
}

// UpdateMaterial holds the material's stock lock so a manual stock edit
// cannot interleave with a production commit.
func (s *materialService) UpdateMaterial(ctx context.Context, id uuid.UUID, req *model.RawMaterial, actor Actor) (*model.RawMaterial, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	release, err := s.locker.Acquire(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("acquire stock lock: %w", err)
	}
	defer release()

	existing, err := s.GetMaterial(id)
	if err != nil {
		return nil, err
	}
	if existing.Name != req.Name {
		if err := s.ensureUniqueName(req.Name, id); err != nil {
			return nil, err
		}
	}

	oldStock := existing.StockQuantity
	existing.Name = req.Name
	existing.StockQuantity = req.StockQuantity
	existing.Unit = req.Unit
	existing.UpdatedBy = actor.ID

	if err := s.materialRepo.Update(existing); err != nil {
		return nil, fmt.Errorf("update raw material: %w", err)
	}

	s.publish("material_updated", map[string]interface{}{
		"id":        existing.ID,
		"name":      existing.Name,
		"old_stock": oldStock,
		"new_stock": existing.StockQuantity,
	}, actor, fmt.Sprintf("%s updated raw material '%s'", actor.Name, existing.Name))

	return existing, nil
}

func (s *materialService) DeleteMaterial(ctx context.Context, id uuid.UUID, actor Actor) error {
	release, err := s.locker.Acquire(ctx, id.String())
	if err != nil {
		return fmt.Errorf("acquire stock lock: %w", err)
	}
	defer release()

	existing, err := s.GetMaterial(id)
	if err != nil {
		return err
	}

	referenced, err := s.materialRepo.IsReferenced(id)
	if err != nil {
		return fmt.Errorf("check raw material usage: %w", err)
	}
	if referenced {
		return ErrMaterialInUse
	}

	if err := s.materialRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return fmt.Errorf("delete raw material: %w", err)
	}

	s.publish("material_deleted", map[string]interface{}{"id": id, "name": existing.Name}, actor,
		fmt.Sprintf("%s deleted raw material '%s'", actor.Name, existing.Name))
	return nil
}

func (s *materialService) ensureUniqueName(name string, self uuid.UUID) error {
	existing, err := s.materialRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("look up raw material name: %w", err)
	}
	if existing.ID != self {
		return ErrDuplicateMaterial
	}
	return nil
}

func (s *materialService) publish(action string, data any, actor Actor, message string) {
	s.notifier.Publish(ws.Event{
		Type:    "stock_update",
		Action:  action,
		Data:    data,
		User:    actor.wsActor(),
		Message: message,
	})
}
