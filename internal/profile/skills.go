package profile

import (
	"sort"
	"strings"
	"unicode"
)

const skillPrefix = "skill_"

// DefaultTopSkills is how many skills RankSkills keeps when the caller
// passes a non-positive limit.
const DefaultTopSkills = 5

// Skill is a ranked proficiency entry. Amount is the platform's
// per-skill score, not a cumulative XP total.
type Skill struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// RankSkills deduplicates skill transactions per skill tag and ranks
// them descending by amount.
//
// Repeated assessments of the same skill supersede rather than
// accumulate, so each group keeps its maximum amount, never the sum.
// Ties are broken by the raw tag string so the ranking is
// deterministic. The result is truncated to topN entries.
func RankSkills(txns []Transaction, topN int) []Skill {
	if topN <= 0 {
		topN = DefaultTopSkills
	}

	best := make(map[string]float64)
	for _, txn := range txns {
		if !strings.HasPrefix(txn.Type, skillPrefix) || txn.Amount < 0 {
			continue
		}
		if cur, ok := best[txn.Type]; !ok || txn.Amount > cur {
			best[txn.Type] = txn.Amount
		}
	}
	if len(best) == 0 {
		return nil
	}

	type ranked struct {
		tag    string
		amount float64
	}
	order := make([]ranked, 0, len(best))
	for tag, amount := range best {
		order = append(order, ranked{tag: tag, amount: amount})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].amount != order[j].amount {
			return order[i].amount > order[j].amount
		}
		return order[i].tag < order[j].tag
	})

	if len(order) > topN {
		order = order[:topN]
	}
	skills := make([]Skill, len(order))
	for i, r := range order {
		skills[i] = Skill{Name: SkillName(r.tag), Amount: r.amount}
	}
	return skills
}

// SkillName turns a raw "skill_<name>" tag into a display name:
// prefix stripped, underscores to spaces, each word title-cased.
func SkillName(tag string) string {
	name := strings.TrimPrefix(tag, skillPrefix)
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
