package models

// Role represents an admin account role
type Role string

const (
	// RoleAdmin can review and manage contact submissions
	RoleAdmin Role = "admin"
	// RoleSuperAdmin can additionally register new admin accounts
	RoleSuperAdmin Role = "super_admin"
)

// ValidRole reports whether r is a known role
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// SubmissionStatus represents the review state of a contact submission
type SubmissionStatus string

const (
	// StatusNew indicates the submission has not been opened yet
	StatusNew SubmissionStatus = "new"
	// StatusRead indicates an admin has opened the submission
	StatusRead SubmissionStatus = "read"
	// StatusReplied indicates a reply email has been sent
	StatusReplied SubmissionStatus = "replied"
	// StatusResolved indicates the submission needs no further action
	StatusResolved SubmissionStatus = "resolved"
)

// ValidSubmissionStatus reports whether s is a known status
func ValidSubmissionStatus(s SubmissionStatus) bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusResolved:
		return true
	}
	return false
}
