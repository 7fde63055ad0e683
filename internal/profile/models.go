package profile

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Transaction is a single XP, audit or skill credit as the platform
// records it. Type is a tag such as "xp", "up", "down" or "skill_go".
type Transaction struct {
	ID        int64   `json:"id,omitempty"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"createdAt"`
	Path      string  `json:"path"`
}

// Time parses the transaction timestamp. The second return is false
// when the upstream value is empty or malformed.
func (t Transaction) Time() (time.Time, bool) {
	return parseWhen(t.CreatedAt)
}

// Grade is a nullable grade value. The platform sends null for
// ungraded work and occasionally a numeric string instead of a number.
type Grade struct {
	Value float64
	Valid bool
}

func (g *Grade) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*g = Grade{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*g = Grade{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*g = Grade{}
			return nil
		}
		*g = Grade{Value: v, Valid: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*g = Grade{}
		return nil
	}
	*g = Grade{Value: v, Valid: true}
	return nil
}

func (g Grade) MarshalJSON() ([]byte, error) {
	if !g.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(g.Value)
}

// ProgressEntry is one graded (or pending) piece of work.
type ProgressEntry struct {
	ID        int64           `json:"id,omitempty"`
	Grade     Grade           `json:"grade"`
	CreatedAt string          `json:"createdAt"`
	Path      string          `json:"path"`
	Object    *ProgressObject `json:"object,omitempty"`
}

type ProgressObject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Audit is a peer-review event. ClosedAt is nil while the audit is
// still open.
type Audit struct {
	ID        int64       `json:"id,omitempty"`
	Grade     Grade       `json:"grade"`
	Group     *AuditGroup `json:"group,omitempty"`
	Private   *AuditCode  `json:"private,omitempty"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	ClosedAt  *string     `json:"closedAt"`
}

type AuditGroup struct {
	Path         string       `json:"path"`
	CaptainLogin string       `json:"captainLogin"`
	Members      []GroupUser  `json:"members,omitempty"`
}

type GroupUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

type AuditCode struct {
	Code string `json:"code"`
}

// User mirrors the platform user record, including the pre-aggregated
// audit totals and the nested-collection response shape.
type User struct {
	ID           int64           `json:"id"`
	Login        string          `json:"login"`
	AuditRatio   float64         `json:"auditRatio,omitempty"`
	TotalUp      float64         `json:"totalUp,omitempty"`
	TotalUpBonus float64         `json:"totalUpBonus,omitempty"`
	TotalDown    float64         `json:"totalDown,omitempty"`
	Attrs        map[string]any  `json:"attrs,omitempty"`
	Transactions []Transaction   `json:"transactions,omitempty"`
	Progresses   []ProgressEntry `json:"progresses,omitempty"`
}

// timeLayouts are the timestamp shapes observed upstream: full
// RFC 3339 with or without sub-second precision, and bare dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseWhen(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
