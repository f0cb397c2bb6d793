package rbac

import (
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	s := &service{enforcer: enforcer, logger: l}
	if err := s.loadPolicy(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadPolicy seeds the fixed permission matrix. Roles are a closed set,
// so the policy lives in code rather than in a management UI.
func (s *service) loadPolicy() error {
	s.enforcer.ClearPolicy()

	policies := [][]string{
		// Employees operate on their own records; ownership is
		// enforced in the service layer, this matrix only gates verbs.
		{RoleEmployee, "timesheet", "read"},
		{RoleEmployee, "timesheet", "write"},
		{RoleEmployee, "notification", "read"},
		{RoleEmployee, "notification", "write"},
		{RoleEmployee, "holiday", "read"},

		{RoleManager, "timesheet", "review"},
		{RoleManager, "employee", "read"},
		{RoleManager, "report", "read"},

		{RoleAdmin, "timesheet", "delete"},
		{RoleAdmin, "catalog", "write"},
		{RoleAdmin, "employee", "write"},
		{RoleAdmin, "employee", "delete"},
		{RoleAdmin, "holiday", "write"},
		{RoleAdmin, "holiday", "import"},
		{RoleAdmin, "report", "export"},
		{RoleAdmin, "audit", "read"},
	}
	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	groupings := [][]string{
		{RoleManager, RoleEmployee},
		{RoleAdmin, RoleManager},
	}
	for _, g := range groupings {
		if _, err := s.enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := strings.ToUpper(strings.TrimSpace(role))
	allowed, err := s.enforcer.Enforce(normalized, resource, action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("role", normalized),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err))
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("role", normalized),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
