package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadShape marks a programming-contract violation in the upstream
// payload (e.g. an object where an array was required). It is distinct
// from business data being absent, which is never an error.
var ErrBadShape = errors.New("profile: response shape mismatch")

// RawProfile is the denormalized GraphQL response the aggregation core
// consumes, keyed by query alias. Every collection is optional; a
// missing key decodes to a nil slice and degrades only its own facet.
type RawProfile struct {
	ModuleXP       []Transaction   `json:"moduleXP"`
	PiscineGoXP    []Transaction   `json:"piscineGoXP"`
	PiscineJsXP    []Transaction   `json:"piscineJsXP"`
	PiscineUxXP    []Transaction   `json:"piscineUxXP"`
	PiscineUiXP    []Transaction   `json:"piscineUiXP"`
	PiscineRustXP  []Transaction   `json:"piscineRustXP"`
	Skills         []Transaction   `json:"skills"`
	AuditsDone     []Transaction   `json:"auditsDone"`
	AuditsReceived []Transaction   `json:"auditsReceived"`
	Progresses     []ProgressEntry `json:"progresses"`
	Exercises      []ProgressEntry `json:"exercises"`
	Audits         []Audit         `json:"audits"`
	Users          []User          `json:"user"`
}

// DecodeProfile parses a GraphQL data object into a RawProfile.
// Collections that are absent stay empty; a payload whose fields have
// the wrong JSON kind fails with ErrBadShape.
func DecodeProfile(data []byte) (RawProfile, error) {
	var raw RawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return RawProfile{}, fmt.Errorf("%w: field %q is %s", ErrBadShape, typeErr.Field, typeErr.Value)
		}
		return RawProfile{}, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return raw, nil
}

// FromNestedUser adapts the alternate response shape where all
// collections hang off user[0] instead of separate aliased arrays. The
// user's transactions are split by type tag into the aliased buckets.
func FromNestedUser(users []User) RawProfile {
	raw := RawProfile{Users: users}
	if len(users) == 0 {
		return raw
	}
	u := users[0]
	for _, txn := range u.Transactions {
		switch {
		case txn.Type == "xp":
			raw.ModuleXP = append(raw.ModuleXP, txn)
		case txn.Type == "up":
			raw.AuditsDone = append(raw.AuditsDone, txn)
		case txn.Type == "down":
			raw.AuditsReceived = append(raw.AuditsReceived, txn)
		case strings.HasPrefix(txn.Type, skillPrefix):
			raw.Skills = append(raw.Skills, txn)
		}
	}
	raw.Progresses = u.Progresses
	return raw
}

// ProfileStatistics is the display-ready result of one aggregation
// pass. It is produced fresh on every Compute call and never mutated
// afterward; renderers consume it read-only.
type ProfileStatistics struct {
	Login         string             `json:"login,omitempty"`
	TotalXP       float64            `json:"totalXP"`
	XPByCategory  map[string]float64 `json:"xpByCategory"`
	XPTimeline    []XPPoint          `json:"xpTimeline"`
	Audits        AuditStats         `json:"audits"`
	TopSkills     []Skill            `json:"topSkills"`
	GradeTimeline []GradePoint       `json:"gradeTimeline"`
	OpenAudits    int                `json:"openAudits"`
}

// ComputeOptions tune a Compute pass. The zero value is usable.
type ComputeOptions struct {
	// Matchers partitions XP by path. Nil falls back to
	// DefaultMatchers("kisumu") by way of Compute.
	Matchers []CategoryMatcher
	// TopSkills caps the skill ranking; non-positive means
	// DefaultTopSkills.
	TopSkills int
	// GradeLimit truncates the progress input before sorting;
	// non-positive keeps everything.
	GradeLimit int
}

// Compute derives the full ProfileStatistics from one raw response.
//
// It is a pure function: the same input always yields the same output,
// and every optional collection is independently absent-tolerant. A
// fully empty RawProfile still yields a valid all-zero result; it is
// the caller's decision to render that as a "no data" state.
//
// When both audit source shapes are present the transaction-derived
// one wins, because it also carries counts. The user-totals shape is
// the fallback.
func Compute(raw RawProfile, opts ComputeOptions) *ProfileStatistics {
	matchers := opts.Matchers
	if matchers == nil {
		matchers = DefaultMatchers("kisumu")
	}

	xp := AggregateXP(raw.allXP(), matchers)

	stats := &ProfileStatistics{
		TotalXP:       xp.Total,
		XPByCategory:  xp.ByCategory,
		XPTimeline:    xp.Timeline,
		TopSkills:     RankSkills(raw.Skills, opts.TopSkills),
		GradeTimeline: BuildGradeTimeline(raw.allProgress(), opts.GradeLimit),
		OpenAudits:    CountOpenAudits(raw.Audits),
		Audits:        computeAudits(raw),
	}
	if len(raw.Users) > 0 {
		stats.Login = raw.Users[0].Login
	}
	return stats
}

func computeAudits(raw RawProfile) AuditStats {
	if len(raw.AuditsDone) > 0 || len(raw.AuditsReceived) > 0 {
		return AggregateAuditTransactions(raw.AuditsDone, raw.AuditsReceived)
	}
	if len(raw.Users) > 0 {
		u := raw.Users[0]
		if u.TotalUp != 0 || u.TotalUpBonus != 0 || u.TotalDown != 0 {
			return AuditsFromUserTotals(u)
		}
	}
	return AuditStats{}
}

func (r RawProfile) allXP() []Transaction {
	var all []Transaction
	for _, bucket := range [][]Transaction{
		r.ModuleXP, r.PiscineGoXP, r.PiscineJsXP, r.PiscineUxXP, r.PiscineUiXP, r.PiscineRustXP,
	} {
		all = append(all, bucket...)
	}
	return all
}

func (r RawProfile) allProgress() []ProgressEntry {
	if len(r.Progresses) > 0 {
		return r.Progresses
	}
	return r.Exercises
}
