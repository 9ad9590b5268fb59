package service

import (
	"errors"
	"fmt"

	"go-factory-planner/internal/model"
	"go-factory-planner/internal/repository"
	"go-factory-planner/internal/ws"
	"go-factory-planner/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	CreateProduct(req *model.Product, actor Actor) (*model.Product, error)
	AddMaterial(productID uuid.UUID, req *model.ProductMaterial, actor Actor) (*model.ProductMaterial, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
}

type productService struct {
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	notifier     Notifier
}

func NewProductService(pRepo repository.ProductRepository, mRepo repository.MaterialRepository, notifier Notifier) ProductService {
	return &productService{
		productRepo:  pRepo,
		materialRepo: mRepo,
		notifier:     notifierOrNop(notifier),
	}
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *productService) CreateProduct(req *model.Product, actor Actor) (*model.Product, error) {
	// 1. Normalisasi BOM: clients may send rawMaterial.id instead of rawMaterialId
	for i := range req.Materials {
		normalizeLine(&req.Materials[i])
		req.Materials[i].ProductID = uuid.Nil
	}

	// 2. Validasi Struct Dasar
	if err := validator.FirstError(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	// 3. Every referenced material must exist
	for _, line := range req.Materials {
		if err := s.ensureMaterial(line.RawMaterialID); err != nil {
			return nil, err
		}
	}

	// 4. Set Audit Fields
	req.ID = uuid.Nil
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID

	if err := s.productRepo.Create(req); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	created, err := s.GetProduct(req.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(ws.Event{
		Type:   "catalog_update",
		Action: "product_created",
		Data: map[string]interface{}{
			"id":    created.ID,
			"name":  created.Name,
			"price": created.Price,
		},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, created.Name),
	})

	return created, nil
}

func (s *productService) AddMaterial(productID uuid.UUID, req *model.ProductMaterial, actor Actor) (*model.ProductMaterial, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	normalizeLine(req)
	if err := validator.FirstError(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	material, err := s.materialRepo.FindByID(req.RawMaterialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("look up raw material: %w", err)
	}

	req.ID = uuid.Nil
	req.ProductID = product.ID
	if err := s.productRepo.AddMaterial(req); err != nil {
		return nil, fmt.Errorf("add bill of materials line: %w", err)
	}
	req.RawMaterial = material

	s.notifier.Publish(ws.Event{
		Type:   "catalog_update",
		Action: "product_material_added",
		Data: map[string]interface{}{
			"product_id":        product.ID,
			"raw_material_id":   material.ID,
			"required_quantity": req.RequiredQuantity,
		},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s added '%s' to '%s'", actor.Name, material.Name, product.Name),
	})

	return req, nil
}

func (s *productService) DeleteProduct(id uuid.UUID, actor Actor) error {
	if err := s.productRepo.Delete(id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.notifier.Publish(ws.Event{
		Type:    "catalog_update",
		Action:  "product_deleted",
		Data:    map[string]interface{}{"id": id},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s deleted a product", actor.Name),
	})
	return nil
}

func (s *productService) ensureMaterial(id uuid.UUID) error {
	if _, err := s.materialRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return fmt.Errorf("look up raw material: %w", err)
	}
	return nil
}

func normalizeLine(line *model.ProductMaterial) {
	if line.RawMaterialID == uuid.Nil && line.RawMaterial != nil {
		line.RawMaterialID = line.RawMaterial.ID
	}
	line.RawMaterial = nil
}
