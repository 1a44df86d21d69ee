package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/miayudatic/helpdesk/internal/domain"
	"github.com/miayudatic/helpdesk/internal/repository"
	apperrors "github.com/miayudatic/helpdesk/pkg/util"
)

const (
	cacheKeyDepartments  = "masterdata:departments"
	cacheKeyServiceTypes = "masterdata:service_types"
	cacheTTL             = 5 * time.Minute
)

// MasterDataService serves lookup entities, caching the rarely-changing
// lists in redis. Cache misses or redis outages fall through to postgres.
type MasterDataService struct {
	departments  repository.DepartmentRepository
	serviceTypes repository.ServiceTypeRepository
	staff        repository.StaffRepository
	cache        *redis.Client
	logger       *zap.Logger
}

// NewMasterDataService constructs the service. cache may be nil.
func NewMasterDataService(
	departments repository.DepartmentRepository,
	serviceTypes repository.ServiceTypeRepository,
	staff repository.StaffRepository,
	cache *redis.Client,
	logger *zap.Logger,
) *MasterDataService {
	return &MasterDataService{
		departments:  departments,
		serviceTypes: serviceTypes,
		staff:        staff,
		cache:        cache,
		logger:       logger,
	}
}

// ListDepartments returns all departments ordered by name.
func (s *MasterDataService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var cached []domain.Department
	if s.readCache(ctx, cacheKeyDepartments, &cached) {
		return cached, nil
	}
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	s.writeCache(ctx, cacheKeyDepartments, departments)
	return departments, nil
}

// ListServiceTypes returns all service types ordered by name.
func (s *MasterDataService) ListServiceTypes(ctx context.Context) ([]domain.ServiceType, error) {
	var cached []domain.ServiceType
	if s.readCache(ctx, cacheKeyServiceTypes, &cached) {
		return cached, nil
	}
	serviceTypes, err := s.serviceTypes.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	s.writeCache(ctx, cacheKeyServiceTypes, serviceTypes)
	return serviceTypes, nil
}

// ListStaffOptions returns the assignment picker entries.
func (s *MasterDataService) ListStaffOptions(ctx context.Context) ([]domain.StaffOption, error) {
	options, err := s.staff.ListOptions(ctx)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}
	return options, nil
}

// ResolveDepartmentByName maps a department name to its entity, as the
// public intake form submits names rather than ids.
func (s *MasterDataService) ResolveDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	dept, err := s.departments.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidReference("department", map[string]any{"department": name})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	return dept, nil
}

// ResolveServiceTypeByName maps a service-type name to its entity.
func (s *MasterDataService) ResolveServiceTypeByName(ctx context.Context, name string) (*domain.ServiceType, error) {
	st, err := s.serviceTypes.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidReference("service type", map[string]any{"service_type": name})
		}
		return nil, apperrors.NewStoreFailure(err)
	}
	return st, nil
}

func (s *MasterDataService) readCache(ctx context.Context, key string, target any) bool {
	if s.cache == nil {
		return false
	}
	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, target); err != nil {
		s.logger.Warn("invalid cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *MasterDataService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
