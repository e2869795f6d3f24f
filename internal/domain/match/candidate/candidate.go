package candidate

// Candidate is a single k-NN hit. Distance is the raw cosine distance from the index.
type Candidate struct {
	ID       string
	Distance float64
	// Content is the text of the matched entry (a resume field, a title).
	Content  string
	Metadata map[string]string
	// Variant is the index of the query variant that produced this hit.
	Variant int
}

// Scored is a Candidate after score transform, title boost and acceptance.
type Scored struct {
	Candidate
	Score    float64
	Accepted bool
	Boosted  bool
}

// Title returns the candidate's category/title metadata.
func (c Candidate) Title() string { return c.Metadata["category"] }
