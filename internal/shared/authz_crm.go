package shared

// CRM permissions declared for RBAC.
const (
	PermProspectView    = "crm.prospect.view"
	PermProspectCreate  = "crm.prospect.create"
	PermProspectEdit    = "crm.prospect.edit"
	PermProspectDelete  = "crm.prospect.delete"
	PermProspectConvert = "crm.prospect.convert"
)

// CRMScopes lists all permissions related to the CRM module.
func CRMScopes() []string {
	return []string{
		PermProspectView,
		PermProspectCreate,
		PermProspectEdit,
		PermProspectDelete,
		PermProspectConvert,
	}
}
