package domain

// Reserved record keys added by the submission emitter.
const (
	KeySubmittedAt = "submitted_at"
	KeySource      = "source"
)

// RecordID identifies a record accepted by a sink.
type RecordID string

// Record is the flat artifact handed to the submission sink.
// Values are strings, numbers or string slices.
type Record map[string]any
