package domain

// Role classification carried on every employee record. The role decides
// who approves an employee's leave requests.
const (
	RoleEmployee       = "EMPLOYEE"
	RoleProjectManager = "PROJECT_MANAGER"
	RoleHR             = "HR"
	RoleAdmin          = "ADMIN"
)

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleProjectManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}
