package domain

type ActivityKind string

const (
	KindPractice ActivityKind = "practice"
	KindReview   ActivityKind = "review"
	// KindExam marks exam-event placements; no catalog entry has it.
	KindExam ActivityKind = "exam"
)

type PlacementStatus string

const (
	StatusNotStarted PlacementStatus = "not_started"
	StatusInProgress PlacementStatus = "in_progress"
	StatusCompleted  PlacementStatus = "completed"
)

// PlacementSource records who created a placement. Generation only ever
// replaces SourceGenerated rows; exam rows are immutable to it.
type PlacementSource string

const (
	SourceGenerated PlacementSource = "generated"
	SourceExam      PlacementSource = "exam"
)

// DayMode is the per-day classification drawn by the scheduler.
type DayMode string

const (
	ModeReview   DayMode = "review"
	ModePractice DayMode = "practice"
)

// AnkiVariant is the single Anki deck a plan studies from. Clinic and
// Regular are mutually exclusive.
type AnkiVariant string

const (
	AnkiNone    AnkiVariant = ""
	AnkiClinic  AnkiVariant = "anki_clinic"
	AnkiRegular AnkiVariant = "regular_anki"
)

// ResolveAnkiVariant picks the Anki deck from the two raw flags.
// Clinic wins when both are set.
func ResolveAnkiVariant(clinic, regular bool) AnkiVariant {
	switch {
	case clinic:
		return AnkiClinic
	case regular:
		return AnkiRegular
	default:
		return AnkiNone
	}
}
