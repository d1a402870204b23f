package logging

// Field names shared by every log call so that entries can be filtered
// the same way whichever command produced them.
const (
	FieldFile       = "file_path"
	FieldDefinition = "definition"
	FieldRow        = "row"
	FieldRole       = "role"
	FieldColumn     = "column"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldMatches    = "matches"
	FieldWorkers    = "workers"
	FieldChunks     = "chunks"
	FieldStored     = "stored"
	FieldDuplicates = "duplicates"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
