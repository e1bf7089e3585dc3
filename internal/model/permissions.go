package model

// Permission codes, namespaced by management domain. These are the only codes the
// system knows; handlers reference them through middleware.RequirePermission and
// the catalog below is seeded and validated at startup.
const (
	// accounts
	PermViewGroupsAndRoles   = "account_management_list_groups_and_roles"
	PermCreateGroupsAndRoles = "account_management_create_group_and_assign_roles"
	PermUpdateGroupsAndRoles = "account_management_update_groups_and_roles"
	PermDeleteGroupsAndRoles = "account_management_delete_groups_and_roles"
	PermAddAdmin             = "account_management_create_admin"
	PermListAdmins           = "account_management_list_admins"
	PermDeleteAdmin          = "account_management_delete_admin"
	PermUpdateAdmin          = "account_management_update_admin"

	// member
	PermAddMember    = "member_management_create_member"
	PermViewMembers  = "member_management_list_members"
	PermDeleteMember = "member_management_delete_member"
	PermUpdateMember = "member_management_update_member"

	// jurisdiction
	PermViewAreas      = "jurisdiction_management_view_areas"
	PermAddArea        = "jurisdiction_management_create_area"
	PermUpdateArea     = "jurisdiction_management_update_area"
	PermDeleteArea     = "jurisdiction_management_delete_area"
	PermViewDistricts  = "jurisdiction_management_view_districts"
	PermAddDistrict    = "jurisdiction_management_create_district"
	PermUpdateDistrict = "jurisdiction_management_update_district"
	PermDeleteDistrict = "jurisdiction_management_delete_district"
	PermViewBranches   = "jurisdiction_management_view_branches"
	PermAddBranch      = "jurisdiction_management_create_branch"
	PermUpdateBranch   = "jurisdiction_management_update_branch"
	PermDeleteBranch   = "jurisdiction_management_delete_branch"

	// custom types
	PermViewCustomTypes  = "custom_type_management_view_custom_types"
	PermAddCustomType    = "custom_type_management_create_custom_type"
	PermUpdateCustomType = "custom_type_management_update_custom_type"
	PermDeleteCustomType = "custom_type_management_delete_custom_type"

	// events
	PermCreateEvent = "event_management_create_event"
	PermUpdateEvent = "event_management_update_event"
	PermDeleteEvent = "event_management_delete_event"

	// donations
	PermCreateDonation = "donation_management_create_donation"
	PermUpdateDonation = "donation_management_update_donation"
	PermDeleteDonation = "donation_management_delete_donation"

	// content
	PermCreatePost = "content_management_create_post"
	PermDeletePost = "content_management_delete_post"

	// audit
	PermViewAuditLogs = "audit_management_view_logs"

	// dashboard
	PermViewDashboard = "dashboard_management_view"
)

// PermissionCatalog returns the full static permission set seeded at startup.
func PermissionCatalog() []Permission {
	return []Permission{
		{Code: PermViewGroupsAndRoles, Name: "view groups and roles", Group: "accounts"},
		{Code: PermCreateGroupsAndRoles, Name: "create new groups and assign roles", Group: "accounts"},
		{Code: PermUpdateGroupsAndRoles, Name: "update existing groups and their roles", Group: "accounts"},
		{Code: PermDeleteGroupsAndRoles, Name: "delete groups and roles", Group: "accounts"},
		{Code: PermAddAdmin, Name: "create a new admin", Group: "accounts"},
		{Code: PermListAdmins, Name: "view admins", Group: "accounts"},
		{Code: PermDeleteAdmin, Name: "delete admin", Group: "accounts"},
		{Code: PermUpdateAdmin, Name: "update admin", Group: "accounts"},

		{Code: PermAddMember, Name: "add a new member", Group: "member"},
		{Code: PermViewMembers, Name: "view members", Group: "member"},
		{Code: PermDeleteMember, Name: "delete a member", Group: "member"},
		{Code: PermUpdateMember, Name: "update an existing member", Group: "member"},

		{Code: PermViewAreas, Name: "view areas", Group: "jurisdiction"},
		{Code: PermAddArea, Name: "add a new area", Group: "jurisdiction"},
		{Code: PermUpdateArea, Name: "update an existing area", Group: "jurisdiction"},
		{Code: PermDeleteArea, Name: "delete an area", Group: "jurisdiction"},
		{Code: PermViewDistricts, Name: "view districts", Group: "jurisdiction"},
		{Code: PermAddDistrict, Name: "add a new district", Group: "jurisdiction"},
		{Code: PermUpdateDistrict, Name: "update an existing district", Group: "jurisdiction"},
		{Code: PermDeleteDistrict, Name: "delete a district", Group: "jurisdiction"},
		{Code: PermViewBranches, Name: "view branches", Group: "jurisdiction"},
		{Code: PermAddBranch, Name: "add a new branch", Group: "jurisdiction"},
		{Code: PermUpdateBranch, Name: "update an existing branch", Group: "jurisdiction"},
		{Code: PermDeleteBranch, Name: "delete a branch", Group: "jurisdiction"},

		{Code: PermViewCustomTypes, Name: "view custom types", Group: "custom_types"},
		{Code: PermAddCustomType, Name: "add a new custom type", Group: "custom_types"},
		{Code: PermUpdateCustomType, Name: "update an existing custom type", Group: "custom_types"},
		{Code: PermDeleteCustomType, Name: "delete a custom type", Group: "custom_types"},

		{Code: PermCreateEvent, Name: "create an event", Group: "events"},
		{Code: PermUpdateEvent, Name: "update an event", Group: "events"},
		{Code: PermDeleteEvent, Name: "delete an event", Group: "events"},

		{Code: PermCreateDonation, Name: "create a donation", Group: "donations"},
		{Code: PermUpdateDonation, Name: "update a donation", Group: "donations"},
		{Code: PermDeleteDonation, Name: "delete a donation", Group: "donations"},

		{Code: PermCreatePost, Name: "publish a feed post", Group: "content"},
		{Code: PermDeletePost, Name: "delete a feed post", Group: "content"},

		{Code: PermViewAuditLogs, Name: "view audit logs", Group: "audit"},

		{Code: PermViewDashboard, Name: "view the dashboard", Group: "dashboard"},
	}
}

// KnownPermissionCode reports whether code exists in the static catalog.
func KnownPermissionCode(code string) bool {
	for _, p := range PermissionCatalog() {
		if p.Code == code {
			return true
		}
	}
	return false
}
