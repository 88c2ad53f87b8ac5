package catalog

// SuggestionType is the closed set of content kinds a suggestion can add.
type SuggestionType string

// Suggestion types.
const (
	TypePracticeAssignment SuggestionType = "Practice Assignment"
	TypeGradedAssignment   SuggestionType = "Graded Assignment"
	TypeDialogue           SuggestionType = "Dialogue"
	TypeRolePlay           SuggestionType = "Role Play"
	TypeToolsLab           SuggestionType = "Tools-based Lab"
)

// SuggestionTypes lists every suggestion type in display order.
var SuggestionTypes = []SuggestionType{
	TypePracticeAssignment,
	TypeGradedAssignment,
	TypeDialogue,
	TypeRolePlay,
	TypeToolsLab,
}

// Valid reports whether t is a member of the closed set.
func (t SuggestionType) Valid() bool {
	_, ok := Visuals[t]
	return ok
}

// Visual is the presentation metadata attached to a suggestion type.
type Visual struct {
	Glyph  string
	Accent string // hex color
	Label  string
}

// Visuals maps every suggestion type to its visual metadata. Adding a type
// without an entry here fails TestVisuals_CoverEveryType.
var Visuals = map[SuggestionType]Visual{
	TypeDialogue:           {Glyph: "◆", Accent: "#a855f7", Label: "dialogue"},
	TypePracticeAssignment: {Glyph: "✎", Accent: "#3b82f6", Label: "practice"},
	TypeGradedAssignment:   {Glyph: "✔", Accent: "#14b8a6", Label: "graded"},
	TypeRolePlay:           {Glyph: "☺", Accent: "#22c55e", Label: "role play"},
	TypeToolsLab:           {Glyph: "⚗", Accent: "#3b82f6", Label: "lab"},
}

// fallbackVisual is used for content items that are not suggestions, such
// as videos in the course outline.
var fallbackVisual = Visual{Glyph: "▶", Accent: "#6b7280", Label: "video"}

// VisualFor returns the visual metadata for t, or the neutral fallback for
// types outside the closed set.
func VisualFor(t SuggestionType) Visual {
	if v, ok := Visuals[t]; ok {
		return v
	}
	return fallbackVisual
}

// VersionNote returns the phrase used for t in launch version notes.
func VersionNote(t SuggestionType) string {
	switch t {
	case TypeDialogue:
		return "Dialogue discussion"
	case TypeRolePlay:
		return "Applied role play"
	case TypeToolsLab:
		return "Interactive lab"
	default:
		return string(t)
	}
}
