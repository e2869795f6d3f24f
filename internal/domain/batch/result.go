// Package batch reports per-item outcomes of bulk ingestion.
package batch

// ItemStatus is the processing outcome of a single ingested record.
type ItemStatus string

// Item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusSkipped ItemStatus = "skipped"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of ingesting one record.
type Result struct {
	id      string
	status  ItemStatus
	entries int
	err     error
}

// NewOK creates a successful result; entries is the number of vectors written.
func NewOK(id string, entries int) Result {
	return Result{id: id, status: StatusOK, entries: entries}
}

// NewSkipped marks a record that was intentionally not ingested (duplicate, no usable text).
func NewSkipped(id string, reason error) Result {
	return Result{id: id, status: StatusSkipped, err: reason}
}

// NewError creates a failed result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the record identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Entries returns the number of vector entries written.
func (r Result) Entries() int { return r.entries }

// Err returns the error or skip reason, if any.
func (r Result) Err() error { return r.err }

// Summary aggregates a list of results.
type Summary struct {
	Total   int
	OK      int
	Skipped int
	Failed  int
	Entries int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.status {
		case StatusOK:
			s.OK++
			s.Entries += r.entries
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Failed++
		}
	}
	return s
}
