package profile

import (
	"sort"
	"time"
)

// GradePoint is one graded result on the progress timeline.
type GradePoint struct {
	When  time.Time `json:"when"`
	Grade float64   `json:"grade"`
	Name  string    `json:"name,omitempty"`
}

// BuildGradeTimeline converts progress records into a chronologically
// ordered series suitable for plotting.
//
// Entries with an unparseable createdAt or a null/non-numeric grade are
// dropped. A positive limit truncates the *input* order before sorting,
// mirroring the upstream "take N most recent via query order" pattern.
func BuildGradeTimeline(entries []ProgressEntry, limit int) []GradePoint {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	var points []GradePoint
	for _, e := range entries {
		if !e.Grade.Valid {
			continue
		}
		when, ok := parseWhen(e.CreatedAt)
		if !ok {
			continue
		}
		p := GradePoint{When: when, Grade: e.Grade.Value}
		if e.Object != nil {
			p.Name = e.Object.Name
		}
		points = append(points, p)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].When.Before(points[j].When)
	})
	return points
}
