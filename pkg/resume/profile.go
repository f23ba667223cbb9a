package resume

// Profile is the structured signal extracted from one uploaded resume.
// It is built once per upload and never mutated afterwards.
type Profile struct {
	// RawText is the normalized plain text of the whole document.
	RawText string `json:"rawText"`
	// Skills are canonical skill names, deduplicated, lower-case, ordered
	// by first occurrence in the document. Downstream code must not assume
	// the list is sorted.
	Skills []string `json:"skills"`
	// Sections hold the per-section text used for section scoring and
	// semantic similarity.
	Sections Sections `json:"sections"`
}

// Sections split the resume text by common headings. A section the document
// does not have is the empty string.
type Sections struct {
	Summary    string `json:"summary"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
}
