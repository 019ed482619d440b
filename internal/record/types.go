// Package record defines the ContextRecord type and the namespace-scoped store that persists it.
package record

import "time"

// Type is the closed set of record kinds from §3.
type Type string

const (
	// TypeSummary is consumed directly by a reader (handoffs, discoveries, session summaries).
	TypeSummary Type = "SUMMARY"
	// TypeMeta is a structured sidecar record (file-touch events, session-end stats).
	TypeMeta Type = "META"
	// TypeCollection is browsed for its children rather than read directly.
	TypeCollection Type = "COLLECTION"
	// TypeSource points at an external artifact.
	TypeSource Type = "SOURCE"
	// TypeAlias redirects to another namespace.
	TypeAlias Type = "ALIAS"
)

// ContextRecord is the unit of persistence (§3).
type ContextRecord struct {
	Namespace string                 `json:"namespace"`
	Title     string                 `json:"title"`
	Summary   string                 `json:"summary"`
	Type      Type                   `json:"type"`
	Content   map[string]interface{} `json:"content,omitempty"`
	Tags      []string               `json:"tags,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	HitCount  int                    `json:"hit_count"`
}

// HasTag reports whether tag is present on the record.
func (r *ContextRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
