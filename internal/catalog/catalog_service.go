package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	catalogerrors "go-timesheet/internal/catalog/errors"
)

const OptionsCacheKey = "catalog:options"

const optionsCacheTTL = 12 * time.Hour

//go:generate mockgen -source=catalog_service.go -destination=mock/catalog_service_mock.go -package=mock
type Service interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (OptionResponse, error)
	CreateClientCode(ctx context.Context, req CreateClientCodeRequest) (OptionResponse, error)
	CreateCostCenter(ctx context.Context, req CreateCostCenterRequest) (OptionResponse, error)
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (OptionResponse, error)
	GetOptions(ctx context.Context) (Options, error)
	DeactivateProject(ctx context.Context, id string) error
	DeactivateClientCode(ctx context.Context, id string) error
	DeactivateCostCenter(ctx context.Context, id string) error
	DeactivateVehicle(ctx context.Context, id string) error

	// Lookups consumed by the timesheet validator.
	ProjectActive(ctx context.Context, id string) (bool, error)
	ClientCodeActive(ctx context.Context, id string) (bool, error)
	CostCenterByID(ctx context.Context, id string) (*CostCenter, error)
	VehicleActive(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("catalog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return catalogerrors.ErrDuplicateCode
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return catalogerrors.ErrDuplicateCode
	}
	return err
}

func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (OptionResponse, error) {
	p := &Project{ID: uuid.New(), Code: strings.TrimSpace(req.Code), Name: strings.TrimSpace(req.Name), Active: true}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return OptionResponse{}, mapRepositoryError(err, catalogerrors.ErrProjectNotFound)
	}
	s.invalidateOptions(ctx)
	return OptionResponse{ID: p.ID.String(), Code: p.Code, Name: p.Name}, nil
}

func (s *service) CreateClientCode(ctx context.Context, req CreateClientCodeRequest) (OptionResponse, error) {
	c := &ClientCode{ID: uuid.New(), Code: strings.TrimSpace(req.Code), Name: strings.TrimSpace(req.Name), Active: true}
	if err := s.repo.CreateClientCode(ctx, c); err != nil {
		return OptionResponse{}, mapRepositoryError(err, catalogerrors.ErrClientCodeNotFound)
	}
	s.invalidateOptions(ctx)
	return OptionResponse{ID: c.ID.String(), Code: c.Code, Name: c.Name}, nil
}

func (s *service) CreateCostCenter(ctx context.Context, req CreateCostCenterRequest) (OptionResponse, error) {
	c := &CostCenter{ID: uuid.New(), Name: strings.TrimSpace(req.Name), AllowsAllocation: req.AllowsAllocation, Active: true}
	if err := s.repo.CreateCostCenter(ctx, c); err != nil {
		return OptionResponse{}, mapRepositoryError(err, catalogerrors.ErrCostCenterNotFound)
	}
	s.invalidateOptions(ctx)
	return OptionResponse{ID: c.ID.String(), Name: c.Name, AllowsAllocation: c.AllowsAllocation}, nil
}

func (s *service) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (OptionResponse, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.Plate))
	v := &Vehicle{ID: uuid.New(), Plate: plate, Description: strings.TrimSpace(req.Description), Active: true}
	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return OptionResponse{}, mapRepositoryError(err, catalogerrors.ErrVehicleNotFound)
	}
	s.invalidateOptions(ctx)
	return OptionResponse{ID: v.ID.String(), Code: v.Plate, Name: v.Description}, nil
}

func (s *service) GetOptions(ctx context.Context) (Options, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var opts Options
			if err := json.Unmarshal([]byte(cached), &opts); err == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		opts, err := s.loadOptions(ctx)
		if err != nil {
			return Options{}, err
		}
		if s.rdb != nil {
			if jsonData, err := json.Marshal(opts); err == nil {
				s.rdb.Set(ctx, OptionsCacheKey, jsonData, optionsCacheTTL)
			}
		}
		return opts, nil
	})
	if err != nil {
		return Options{}, err
	}
	return v.(Options), nil
}

func (s *service) loadOptions(ctx context.Context) (Options, error) {
	var opts Options

	projects, err := s.repo.ListActiveProjects(ctx)
	if err != nil {
		return opts, err
	}
	for _, p := range projects {
		opts.Projects = append(opts.Projects, OptionResponse{ID: p.ID.String(), Code: p.Code, Name: p.Name})
	}

	clients, err := s.repo.ListActiveClientCodes(ctx)
	if err != nil {
		return opts, err
	}
	for _, c := range clients {
		opts.ClientCodes = append(opts.ClientCodes, OptionResponse{ID: c.ID.String(), Code: c.Code, Name: c.Name})
	}

	centers, err := s.repo.ListActiveCostCenters(ctx)
	if err != nil {
		return opts, err
	}
	for _, c := range centers {
		opts.CostCenters = append(opts.CostCenters, OptionResponse{
			ID: c.ID.String(), Name: c.Name, AllowsAllocation: c.AllowsAllocation,
		})
	}

	vehicles, err := s.repo.ListActiveVehicles(ctx)
	if err != nil {
		return opts, err
	}
	for _, v := range vehicles {
		opts.Vehicles = append(opts.Vehicles, OptionResponse{ID: v.ID.String(), Code: v.Plate, Name: v.Description})
	}

	return opts, nil
}

func (s *service) DeactivateProject(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, &Project{}, id); err != nil {
		return mapRepositoryError(err, catalogerrors.ErrProjectNotFound)
	}
	s.invalidateOptions(ctx)
	return nil
}

func (s *service) DeactivateClientCode(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, &ClientCode{}, id); err != nil {
		return mapRepositoryError(err, catalogerrors.ErrClientCodeNotFound)
	}
	s.invalidateOptions(ctx)
	return nil
}

func (s *service) DeactivateCostCenter(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, &CostCenter{}, id); err != nil {
		return mapRepositoryError(err, catalogerrors.ErrCostCenterNotFound)
	}
	s.invalidateOptions(ctx)
	return nil
}

func (s *service) DeactivateVehicle(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, &Vehicle{}, id); err != nil {
		return mapRepositoryError(err, catalogerrors.ErrVehicleNotFound)
	}
	s.invalidateOptions(ctx)
	return nil
}

func (s *service) ProjectActive(ctx context.Context, id string) (bool, error) {
	p, err := s.repo.FindProject(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.Active, nil
}

func (s *service) ClientCodeActive(ctx context.Context, id string) (bool, error) {
	c, err := s.repo.FindClientCode(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return c.Active, nil
}

func (s *service) CostCenterByID(ctx context.Context, id string) (*CostCenter, error) {
	c, err := s.repo.FindCostCenter(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, catalogerrors.ErrCostCenterNotFound)
	}
	return c, nil
}

func (s *service) VehicleActive(ctx context.Context, id string) (bool, error) {
	v, err := s.repo.FindVehicle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return v.Active, nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Warn("invalidate catalog options cache failed",
			zap.String("key", OptionsCacheKey),
			zap.Error(err))
	}
}
