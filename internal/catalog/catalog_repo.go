package catalog

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=catalog_repo.go -destination=mock/catalog_repo_mock.go -package=mock
type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	FindProject(ctx context.Context, id string) (*Project, error)
	ListActiveProjects(ctx context.Context) ([]Project, error)

	CreateClientCode(ctx context.Context, c *ClientCode) error
	FindClientCode(ctx context.Context, id string) (*ClientCode, error)
	ListActiveClientCodes(ctx context.Context) ([]ClientCode, error)

	CreateCostCenter(ctx context.Context, c *CostCenter) error
	FindCostCenter(ctx context.Context, id string) (*CostCenter, error)
	ListActiveCostCenters(ctx context.Context) ([]CostCenter, error)

	CreateVehicle(ctx context.Context, v *Vehicle) error
	FindVehicle(ctx context.Context, id string) (*Vehicle, error)
	ListActiveVehicles(ctx context.Context) ([]Vehicle, error)

	Deactivate(ctx context.Context, model any, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProject(ctx context.Context, p *Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) ListActiveProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("code ASC").Find(&out).Error
	return out, err
}

func (r *repository) CreateClientCode(ctx context.Context, c *ClientCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindClientCode(ctx context.Context, id string) (*ClientCode, error) {
	var c ClientCode
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) ListActiveClientCodes(ctx context.Context) ([]ClientCode, error) {
	var out []ClientCode
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("code ASC").Find(&out).Error
	return out, err
}

func (r *repository) CreateCostCenter(ctx context.Context, c *CostCenter) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindCostCenter(ctx context.Context, id string) (*CostCenter, error) {
	var c CostCenter
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) ListActiveCostCenters(ctx context.Context) ([]CostCenter, error) {
	var out []CostCenter
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) CreateVehicle(ctx context.Context, v *Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) FindVehicle(ctx context.Context, id string) (*Vehicle, error) {
	var v Vehicle
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *repository) ListActiveVehicles(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("plate ASC").Find(&out).Error
	return out, err
}

func (r *repository) Deactivate(ctx context.Context, model any, id string) error {
	res := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
