package logging

// Standardized field names for structured logging.
// These constants keep the import pipeline's log output consistent so that
// sheet- and row-level events can be filtered reliably.
const (
	FieldFile     = "file_path"
	FieldSheet    = "sheet"
	FieldRole     = "role"
	FieldRow      = "row"
	FieldMonth    = "month"
	FieldYear     = "year"
	FieldSeason   = "season"
	FieldConcept  = "concept"
	FieldCount    = "count"
	FieldSession  = "session_id"
	FieldError    = "error"
	FieldOutput   = "output_file"
	FieldStrategy = "strategy"
)
