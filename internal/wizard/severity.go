package wizard

import "github.com/roadguard/roadguard-go/internal/models"

// SeverityNote is the advisory line shown with a detection result. Pure
// function of the severity level; carries no wizard state.
func SeverityNote(level models.Severity) string {
	switch level {
	case models.SeverityHigh:
		return "Immediate repair required. Auto-escalating to senior officer."
	case models.SeverityMedium:
		return "Repair recommended within 2 weeks."
	default:
		return "Minor damage. Logged for scheduled maintenance."
	}
}

// StageNames labels the step bar, in stage order.
func StageNames() []string {
	return []string{"Upload", "Analysing", "Result", "Complaint", "Done"}
}
