package resmatch

// JobDescription is either free text (Text plus an optional Title) or the
// structured extraction output (PositionTitle plus Sections).
type JobDescription struct {
	ID            string
	Title         string
	Text          string
	PositionTitle string
	Sections      map[string]any
}

// Resume is one cleaned resume.
type Resume struct {
	ID             string
	Category       string
	Summary        string
	Education      string
	WorkExperience string
	Skills         string
}

// MatchResult is the ranked outcome of Match.
type MatchResult struct {
	Items         []Match
	Variants      []string
	SoftFailures  []SoftFailure
	PoolSize      int
	AcceptedCount int
}

// Match is a single ranked resume.
type Match struct {
	ResumeID string
	Title    string
	Score    float64
	Distance float64
	Accepted bool
	Boosted  bool
}

// SoftFailure is a query variant omitted from the result.
type SoftFailure struct {
	Variant int
	Text    string
	Reason  string
}

// IngestStatus is the outcome of one ingested record.
type IngestStatus string

// IngestStatus constants.
const (
	IngestOK      IngestStatus = "ok"
	IngestSkipped IngestStatus = "skipped"
	IngestError   IngestStatus = "error"
)

// IngestResult is the outcome of one record in an ingest call.
type IngestResult struct {
	ID      string
	Status  IngestStatus
	Entries int
	Err     error
}

// RelatedTitle is a job title close to a query.
type RelatedTitle struct {
	Title     string
	Seniority string
	Category  string
	Score     float64
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}
