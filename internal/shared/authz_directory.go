package shared

// Directory permissions declared for RBAC.
const (
	PermBusinessView = "directory.business.view"
	PermBusinessEdit = "directory.business.edit"

	PermLocationView   = "directory.location.view"
	PermLocationCreate = "directory.location.create"
	PermLocationEdit   = "directory.location.edit"

	PermDepartmentView   = "directory.department.view"
	PermDepartmentCreate = "directory.department.create"
	PermDepartmentEdit   = "directory.department.edit"

	PermServiceCatalogView = "directory.service.view"
	PermServiceCatalogEdit = "directory.service.edit"

	PermStaffView = "directory.staff.view"
	PermStaffEdit = "directory.staff.edit"
)

// DirectoryScopes lists all permissions related to the directory module.
func DirectoryScopes() []string {
	return []string{
		PermBusinessView,
		PermBusinessEdit,
		PermLocationView,
		PermLocationCreate,
		PermLocationEdit,
		PermDepartmentView,
		PermDepartmentCreate,
		PermDepartmentEdit,
		PermServiceCatalogView,
		PermServiceCatalogEdit,
		PermStaffView,
		PermStaffEdit,
	}
}
