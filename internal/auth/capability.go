package auth

import "docusafe/internal/model"

// Capability names an action a role may perform.
type Capability string

const (
	CapDocumentsRead    Capability = "documents:read"
	CapDocumentsUpload  Capability = "documents:upload"
	CapDocumentsDelete  Capability = "documents:delete"
	CapCategoriesManage Capability = "categories:manage"
	CapUsersManage      Capability = "users:manage"
	CapLogsRead         Capability = "logs:read"
	CapLogsManage       Capability = "logs:manage"
	CapSettingsManage   Capability = "settings:manage"
	CapBackupManage     Capability = "backup:manage"
)

// capabilities is the single source of truth for role gating.
var capabilities = map[Capability][]model.Role{
	CapDocumentsRead:    {model.RoleAdmin, model.RoleDataEntryOperator, model.RoleViewer},
	CapDocumentsUpload:  {model.RoleAdmin, model.RoleDataEntryOperator},
	CapDocumentsDelete:  {model.RoleAdmin},
	CapCategoriesManage: {model.RoleAdmin},
	CapUsersManage:      {model.RoleAdmin},
	CapLogsRead:         {model.RoleAdmin},
	CapLogsManage:       {model.RoleAdmin},
	CapSettingsManage:   {model.RoleAdmin},
	CapBackupManage:     {model.RoleAdmin},
}

// Allowed reports whether role holds capability c. Unknown capabilities are denied.
func Allowed(role model.Role, c Capability) bool {
	for _, r := range capabilities[c] {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether u is signed in as an administrator.
func IsAdmin(u *model.PublicUser) bool {
	return u != nil && u.Role == model.RoleAdmin
}

// IsDataEntryOperator reports whether u is signed in as a data entry operator.
func IsDataEntryOperator(u *model.PublicUser) bool {
	return u != nil && u.Role == model.RoleDataEntryOperator
}
