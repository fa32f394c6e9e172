package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/devadmin007/employee-management/internal/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the fixed permission table for the four system roles.
// Roles come from the JWT, not from the database, so the policy set is
// static and loaded once at startup.
var policies = [][3]string{
	{domain.RoleEmployee, "leave", "create"},
	{domain.RoleEmployee, "leave", "read"},
	{domain.RoleEmployee, "leave", "update"},
	{domain.RoleEmployee, "leave", "delete"},
	{domain.RoleEmployee, "leave_balance", "read"},
	{domain.RoleEmployee, "salary", "read"},

	{domain.RoleProjectManager, "leave", "approve"},
	{domain.RoleProjectManager, "employee", "read"},

	{domain.RoleHR, "leave", "approve"},
	{domain.RoleHR, "leave_balance", "read_any"},
	{domain.RoleHR, "employee", "create"},
	{domain.RoleHR, "employee", "read"},
	{domain.RoleHR, "employee", "update"},

	{domain.RoleAdmin, "employee", "delete"},
	{domain.RoleAdmin, "salary", "generate"},
}

// groupings make the manager-type roles inherit the base employee
// permissions, and ADMIN inherit everything.
var groupings = [][2]string{
	{domain.RoleProjectManager, domain.RoleEmployee},
	{domain.RoleHR, domain.RoleEmployee},
	{domain.RoleAdmin, domain.RoleHR},
	{domain.RoleAdmin, domain.RoleProjectManager},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
