package vectorindex

// Reserved hash fields shared by every collection.
const (
	FieldContent = "__content"
	FieldVector  = "__vector"

	vectorAlias  = "vector"
	tagSeparator = "|"
)

// Collection describes one indexed key space.
type Collection struct {
	Name string
	// IDField holds the logical id of an entry; several entries may share it
	// (one resume is stored as one entry per field).
	IDField string
	// Tags are indexed as TAG fields and returned with every hit.
	Tags []string
	// Exact uses a FLAT vector index instead of HNSW.
	Exact bool
}

// Collections used by resmatch.
var (
	Resumes = Collection{
		Name:    "resumes",
		IDField: "resume_id",
		Tags:    []string{"resume_id", "category", "field_type", "source"},
	}
	JobDescriptions = Collection{
		Name:    "job_descriptions",
		IDField: "jd_id",
		Tags:    []string{"jd_id", "title", "seniority"},
	}
	JobTitles = Collection{
		Name:    "job_titles",
		IDField: "title_id",
		Tags:    []string{"title_id", "seniority", "category"},
		Exact:   true,
	}
)

// All lists every collection, in creation order.
var All = []Collection{Resumes, JobDescriptions, JobTitles}
