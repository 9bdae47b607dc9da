// Package record defines the unit of work that flows through the crawl
// pipeline: a Record carrying a URI, an opaque task identifier, and an
// append-only list of tagged metadata.
package record

import (
	"errors"
	"net/url"
	"time"
)

// Record is the unit flowing through the pipeline. It is cloneable and
// mutated only by producing a new Record with an extended metadata list.
type Record struct {
	URI      string
	TaskID   string
	Metadata []Metadata
}

// New constructs a Record, validating that URI is a syntactically valid
// absolute URL, per the Record invariant.
func New(uri, taskID string) (Record, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Record{}, err
	}
	if !u.IsAbs() {
		return Record{}, &url.Error{Op: "parse", URL: uri, Err: errNotAbsolute}
	}
	return Record{URI: uri, TaskID: taskID}, nil
}

var errNotAbsolute = errors.New("record: uri is not absolute")

// WithMetadata returns a new Record with m appended to the metadata list.
// The receiver is left unmodified.
func (r Record) WithMetadata(m Metadata) Record {
	out := Record{
		URI:      r.URI,
		TaskID:   r.TaskID,
		Metadata: make([]Metadata, len(r.Metadata), len(r.Metadata)+1),
	}
	copy(out.Metadata, r.Metadata)
	out.Metadata = append(out.Metadata, m)
	return out
}

// HttpResponses returns every HttpResponse metadata entry, in list order.
func (r Record) HttpResponses() []HttpResponse {
	var out []HttpResponse
	for _, m := range r.Metadata {
		if hr, ok := m.(HttpResponse); ok {
			out = append(out, hr)
		}
	}
	return out
}

// LatestHttpResponse returns the most recently appended HttpResponse, if any.
func (r Record) LatestHttpResponse() (HttpResponse, bool) {
	for i := len(r.Metadata) - 1; i >= 0; i-- {
		if hr, ok := r.Metadata[i].(HttpResponse); ok {
			return hr, true
		}
	}
	return HttpResponse{}, false
}

// Metadata is a closed sum over {HttpResponse, Uris, Title, ...}. Order of
// appearance in a Record's metadata list is preserved but not semantically
// significant.
type Metadata interface {
	isMetadata()
}

// HttpResponse describes the outcome of fetching a Record's URI. Exactly one
// of ObjectKey or Error is populated on terminal outcome; both may be empty
// mid-pipeline.
type HttpResponse struct {
	Status            *int
	Request           RequestInfo
	ResponseHeaders   map[string]string
	ObjectKey         string
	Error             string
	ResponseTimestamp *time.Time
}

func (HttpResponse) isMetadata() {}

// RequestInfo captures what was sent.
type RequestInfo struct {
	Method          string
	RequestHeaders  map[string]string
	RequestTimestamp time.Time
}

// Uris is the sorted, deduplicated list of absolute URLs discovered in a
// fetched document.
type Uris struct {
	Uris []string
}

func (Uris) isMetadata() {}

// Title is the extracted document title, when present.
type Title struct {
	Title string
}

func (Title) isMetadata() {}
