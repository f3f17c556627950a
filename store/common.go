package store

// Gender is the gender of a patient.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) String() string {
	return string(g)
}

// IsValid returns true for a recognized gender value.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// NoteType distinguishes notes typed in directly from notes created by
// scanning an uploaded document.
type NoteType string

const (
	NoteTypeTyped   NoteType = "typed"
	NoteTypeScanned NoteType = "scanned"
)

func (t NoteType) String() string {
	return string(t)
}

// IsValid returns true for a recognized note type.
func (t NoteType) IsValid() bool {
	switch t {
	case NoteTypeTyped, NoteTypeScanned:
		return true
	}
	return false
}
