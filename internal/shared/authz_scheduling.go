package shared

// Scheduling permissions declared for RBAC.
const (
	PermAppointmentView     = "scheduling.appointment.view"
	PermAppointmentCreate   = "scheduling.appointment.create"
	PermAppointmentEdit     = "scheduling.appointment.edit"
	PermAppointmentConfirm  = "scheduling.appointment.confirm"
	PermAppointmentComplete = "scheduling.appointment.complete"
	PermAppointmentCancel   = "scheduling.appointment.cancel"

	// Clinic-type businesses additionally expose intake forms.
	PermIntakeView = "scheduling.intake.view"
	PermIntakeEdit = "scheduling.intake.edit"
)

// SchedulingScopes lists all permissions related to the scheduling module.
func SchedulingScopes() []string {
	return []string{
		PermAppointmentView,
		PermAppointmentCreate,
		PermAppointmentEdit,
		PermAppointmentConfirm,
		PermAppointmentComplete,
		PermAppointmentCancel,
	}
}
