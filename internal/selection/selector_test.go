package selection

import (
	"reflect"
	"testing"

	"github.com/hirelens/hirelens/internal/model"
)

func poolOf(competency string, ids ...uint) []model.InterviewQuestion {
	questions := make([]model.InterviewQuestion, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, model.InterviewQuestion{ID: id, Competency: competency})
	}
	return questions
}

func fullPools() map[string][]model.InterviewQuestion {
	return map[string][]model.InterviewQuestion{
		"technical_reasoning": poolOf("technical_reasoning", 1, 2, 3),
		"troubleshooting":     poolOf("troubleshooting", 10, 11, 12),
		"communication":       poolOf("communication", 20, 21),
		"problem_explanation": poolOf("problem_explanation", 30, 31),
		"customer_handling":   poolOf("customer_handling", 40, 41),
	}
}

func TestSelect_Deterministic(t *testing.T) {
	const publicID = "8c3f6f6e-3f2a-4b8a-9a51-0c5a1f6d2e11"

	first, err := Select(publicID, fullPools())
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	second, err := Select(publicID, fullPools())
	if err != nil {
		t.Fatalf("second select failed: %v", err)
	}

	if !reflect.DeepEqual(first.QuestionIDs, second.QuestionIDs) {
		t.Errorf("same public id produced different selections: %v vs %v", first.QuestionIDs, second.QuestionIDs)
	}
	if !reflect.DeepEqual(first.Slots, second.Slots) {
		t.Errorf("same public id produced different slot metadata")
	}
}

func TestSelect_CoversBlueprint(t *testing.T) {
	result, err := Select("some-interview", fullPools())
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if len(result.QuestionIDs) != len(Blueprint) {
		t.Fatalf("expected %d questions, got %d", len(Blueprint), len(result.QuestionIDs))
	}
	if len(result.Slots) != len(Blueprint) {
		t.Fatalf("expected %d slots, got %d", len(Blueprint), len(result.Slots))
	}

	seen := make(map[uint]bool)
	for i, slot := range result.Slots {
		if slot.SlotCompetency != Blueprint[i] {
			t.Errorf("slot %d: expected competency %q, got %q", i, Blueprint[i], slot.SlotCompetency)
		}
		if slot.FallbackUsed {
			t.Errorf("slot %d: fallback used although its own pool had questions", i)
		}
		if seen[slot.QuestionID] {
			t.Errorf("question %d selected twice", slot.QuestionID)
		}
		seen[slot.QuestionID] = true
	}
}

func TestSelect_FallbackForEmptyPool(t *testing.T) {
	pools := fullPools()
	// troubleshooting falls back to technical_reasoning
	delete(pools, "troubleshooting")

	result, err := Select("fallback-case", pools)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	slot := result.Slots[1]
	if slot.SlotCompetency != "troubleshooting" {
		t.Fatalf("expected troubleshooting slot, got %q", slot.SlotCompetency)
	}
	if !slot.FallbackUsed {
		t.Error("expected fallback to be flagged")
	}
	if slot.SelectedCompetency != "technical_reasoning" {
		t.Errorf("expected fallback pool technical_reasoning, got %q", slot.SelectedCompetency)
	}
}

func TestSelect_FallbackSkipsUsedQuestions(t *testing.T) {
	// One shared question in technical_reasoning; after the first slot takes
	// it, the troubleshooting fallback must not reuse it.
	pools := map[string][]model.InterviewQuestion{
		"technical_reasoning": poolOf("technical_reasoning", 1, 2),
		"communication":       poolOf("communication", 20),
		"problem_explanation": poolOf("problem_explanation", 30),
		"customer_handling":   poolOf("customer_handling", 40),
	}

	result, err := Select("shared-pool", pools)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	seen := make(map[uint]bool)
	for _, id := range result.QuestionIDs {
		if seen[id] {
			t.Fatalf("question %d appears twice", id)
		}
		seen[id] = true
	}
}

func TestSelect_ImpossibleBlueprint(t *testing.T) {
	// technical_reasoning is drained by earlier slots, so the later slots
	// that depend on it via fallbacks run dry and the whole selection fails.
	pools := map[string][]model.InterviewQuestion{
		"technical_reasoning": poolOf("technical_reasoning", 1, 2),
		"troubleshooting":     poolOf("troubleshooting", 10),
	}

	if _, err := Select("impossible", pools); err == nil {
		t.Fatal("expected selection to fail with exhausted pools")
	}
}

func TestKnownCompetency(t *testing.T) {
	for _, c := range Blueprint {
		if !KnownCompetency(c) {
			t.Errorf("blueprint competency %q reported unknown", c)
		}
	}
	if KnownCompetency("underwater_basket_weaving") {
		t.Error("unknown competency reported as reachable")
	}
}
