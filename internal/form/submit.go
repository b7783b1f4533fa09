package form

import "github.com/google/uuid"

// Submission is one accepted contact message. Nothing leaves the process;
// the reference exists so the success note and the log line can point at
// the same thing.
type Submission struct {
	Reference string
	Values    map[string]string
}

// NewSubmission copies the values and assigns a reference.
func NewSubmission(values map[string]string) Submission {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Submission{
		Reference: NewReference(),
		Values:    copied,
	}
}

// NewReference returns a short submission id, the first group of a UUID.
func NewReference() string {
	return uuid.NewString()[:8]
}
