// Package selection deterministically assembles an interview's question set.
// Selection is a pure function of the interview's public id and the question
// pools: the same interview always yields the same picks, so retries and
// audits can re-derive the list without reading back what was stored.
package selection

import (
	"hash/fnv"
	"math/rand"

	"github.com/hirelens/hirelens/internal/apperr"
	"github.com/hirelens/hirelens/internal/model"
)

// Blueprint is the fixed ordered competency layout of an interview. Its
// length is the required question count.
var Blueprint = []string{
	"technical_reasoning",
	"troubleshooting",
	"communication",
	"problem_explanation",
	"customer_handling",
}

// fallbackCompetencies names the alternate pools a slot may borrow from when
// its own pool has no unused question left.
var fallbackCompetencies = map[string][]string{
	"communication":       {"problem_explanation", "technical_reasoning"},
	"problem_explanation": {"technical_reasoning"},
	"customer_handling":   {"communication", "problem_explanation"},
	"troubleshooting":     {"technical_reasoning"},
	"technical_reasoning": {"troubleshooting"},
}

// Competencies returns every competency tag selection may draw from, blueprint
// and fallback pools included.
func Competencies() []string {
	seen := make(map[string]bool, len(Blueprint))
	var all []string
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			all = append(all, c)
		}
	}
	for _, c := range Blueprint {
		add(c)
	}
	for _, fallbacks := range fallbackCompetencies {
		for _, c := range fallbacks {
			add(c)
		}
	}
	return all
}

// KnownCompetency reports whether the blueprint or any fallback chain can
// reach this competency. Questions outside this set would never be selected.
func KnownCompetency(competency string) bool {
	for _, c := range Competencies() {
		if c == competency {
			return true
		}
	}
	return false
}

// Result is a complete selection: question ids in blueprint order plus
// per-slot metadata.
type Result struct {
	QuestionIDs []uint
	Slots       []model.SlotSelection
}

// Select fills every blueprint slot from the given competency pools. A slot
// whose pool is empty borrows from the first non-empty fallback pool; if
// neither has an unused question the whole selection fails and nothing may be
// persisted.
func Select(publicID string, pools map[string][]model.InterviewQuestion) (*Result, error) {
	rng := rand.New(rand.NewSource(seedFrom(publicID)))

	result := &Result{
		QuestionIDs: make([]uint, 0, len(Blueprint)),
		Slots:       make([]model.SlotSelection, 0, len(Blueprint)),
	}
	seen := make(map[uint]bool)

	for _, competency := range Blueprint {
		pool := unused(pools[competency], seen)
		selectedCompetency := competency
		fallbackUsed := false

		if len(pool) == 0 {
			for _, fallback := range fallbackCompetencies[competency] {
				if candidates := unused(pools[fallback], seen); len(candidates) > 0 {
					pool = candidates
					selectedCompetency = fallback
					fallbackUsed = true
					break
				}
			}
		}

		if len(pool) == 0 {
			return nil, apperr.SelectionImpossiblef("no questions available for competency %q", competency)
		}

		pick := pool[rng.Intn(len(pool))]
		seen[pick.ID] = true
		result.QuestionIDs = append(result.QuestionIDs, pick.ID)
		result.Slots = append(result.Slots, model.SlotSelection{
			SlotCompetency:     competency,
			SelectedCompetency: selectedCompetency,
			QuestionID:         pick.ID,
			FallbackUsed:       fallbackUsed,
		})
	}

	return result, nil
}

func unused(pool []model.InterviewQuestion, seen map[uint]bool) []model.InterviewQuestion {
	var out []model.InterviewQuestion
	for _, q := range pool {
		if !seen[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// seedFrom hashes the public id so the same interview identity always seeds
// the same generator.
func seedFrom(publicID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(publicID))
	return int64(h.Sum64())
}
