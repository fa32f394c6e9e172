package employee

import (
	"github.com/google/uuid"

	"github.com/devadmin007/employee-management/internal/domain"
)

// ResolveApprover decides who must approve a leave request for an
// employee with the given role. Regular employees report to their
// manager; everyone else, and anyone without a configured manager,
// reports to the system admin.
func ResolveApprover(role string, managerID *uuid.UUID, adminID uuid.UUID) uuid.UUID {
	if role == domain.RoleEmployee && managerID != nil && *managerID != uuid.Nil {
		return *managerID
	}
	return adminID
}
