package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldFile        = "file"
	FieldFormat      = "format"
	FieldRows        = "rows"
	FieldGroups      = "groups"
	FieldGroup       = "group"
	FieldMonth       = "month"
	FieldMonthNumber = "month_number"
	FieldWeek        = "week"
	FieldWindow      = "window"
	FieldAnchor      = "anchor"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCLI      = "cli"
	ComponentLoader   = "loader"
	ComponentForecast = "forecast"
	ComponentOutput   = "output"
)

// Operations defines standard operation names
const (
	OpConvert  = "convert"
	OpAdjust   = "adjust"
	OpGenerate = "generate"
	OpLoad     = "load"
	OpWrite    = "write"
)
