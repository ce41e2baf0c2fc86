package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType tags a log line with a stable, greppable event name.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for the reader of a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the kind of decision being logged.
	FieldDecisionType = "decision_type"
	// FieldContactID is the address-book identifier of a contact.
	FieldContactID = "contact_id"
	// FieldPath is a filesystem path involved in the operation.
	FieldPath = "path"
)
