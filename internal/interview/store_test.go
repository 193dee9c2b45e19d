package interview

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.current }
func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	store := NewStore(nil, nil)
	clock := newFakeClock()
	store.SetClock(clock.Now)
	return store, clock
}

func TestInitializeSeedsAllCategories(t *testing.T) {
	store, _ := newTestStore(t)
	state := store.Initialize("iv-1", InitOptions{RoundType: models.RoundTechnical})

	if len(state.Topics) != 9 {
		t.Fatalf("expected 9 seeded topics, got %d", len(state.Topics))
	}
	for _, category := range models.AllTopicCategories() {
		stats := state.Topics[category]
		if stats == nil {
			t.Fatalf("category %s missing", category)
		}
		if stats.Covered || stats.QuestionsAsked != 0 || stats.Depth != models.DepthShallow {
			t.Fatalf("category %s not at defaults: %+v", category, stats)
		}
	}
	if state.CurrentQuestionIndex != -1 {
		t.Fatalf("expected question index -1, got %d", state.CurrentQuestionIndex)
	}
	if state.Phase != PhaseIntroduction {
		t.Fatalf("expected introduction phase, got %s", state.Phase)
	}
	if state.Performance.SuggestedDifficulty != models.DifficultyMedium {
		t.Fatalf("expected MEDIUM start difficulty, got %s", state.Performance.SuggestedDifficulty)
	}
}

func TestInitializeOverwritesExistingState(t *testing.T) {
	store, _ := newTestStore(t)
	store.Initialize("iv-1", InitOptions{RoundType: models.RoundTechnical})
	store.RecordQuestion("iv-1", QuestionInput{Text: "q1", Category: models.TopicTechnicalConcept})

	fresh := store.Initialize("iv-1", InitOptions{RoundType: models.RoundBehavioral})
	if len(fresh.Questions) != 0 {
		t.Fatalf("expected fresh question log, got %d entries", len(fresh.Questions))
	}
	if fresh.RoundType != models.RoundBehavioral {
		t.Fatalf("expected behavioral round, got %s", fresh.RoundType)
	}
	if store.ActiveCount() != 1 {
		t.Fatalf("expected a single entry, got %d", store.ActiveCount())
	}
}

func TestInitializeTruncatesOversizedResume(t *testing.T) {
	store, _ := newTestStore(t)
	long := make([]byte, models.ResumeTextLimit+500)
	for i := range long {
		long[i] = 'a'
	}
	state := store.Initialize("iv-1", InitOptions{ResumeContext: string(long)})
	if len(state.ResumeContext) != models.ResumeTextLimit {
		t.Fatalf("expected resume capped at %d, got %d", models.ResumeTextLimit, len(state.ResumeContext))
	}
}

func TestSetPhaseRejectsUnknownValue(t *testing.T) {
	store, _ := newTestStore(t)
	store.Initialize("iv-1", InitOptions{})

	if store.SetPhase("iv-1", Phase("warp-speed")) {
		t.Fatal("unknown phase value must be rejected")
	}
	state := store.GetState("iv-1")
	if state.Phase != PhaseIntroduction {
		t.Fatalf("phase must be unchanged, got %s", state.Phase)
	}
}

func TestSetPhaseMovesBetweenAnyKnownPhases(t *testing.T) {
	store, _ := newTestStore(t)
	store.Initialize("iv-1", InitOptions{})

	// arbitrary hops, including backwards
	hops := []Phase{PhaseWrapUp, PhaseCodingActive, PhaseIntroduction, PhaseCompleted, PhaseMainQuestions}
	for _, phase := range hops {
		if !store.SetPhase("iv-1", phase) {
			t.Fatalf("transition to %s rejected", phase)
		}
		if got := store.GetState("iv-1").Phase; got != phase {
			t.Fatalf("expected phase %s, got %s", phase, got)
		}
	}
}

func TestSetPhaseUnknownInterviewReturnsFalse(t *testing.T) {
	store, _ := newTestStore(t)
	if store.SetPhase("nope", PhaseWrapUp) {
		t.Fatal("expected false for unknown interview")
	}
}

func TestUpdateElapsedTimeRecomputesFromStart(t *testing.T) {
	store, clock := newTestStore(t)
	store.Initialize("iv-1", InitOptions{})

	clock.Advance(90 * time.Second)
	if got := store.UpdateElapsedTime("iv-1"); got != 90 {
		t.Fatalf("expected 90s elapsed, got %v", got)
	}

	clock.Advance(30 * time.Second)
	if got := store.UpdateElapsedTime("iv-1"); got != 120 {
		t.Fatalf("expected 120s elapsed, got %v", got)
	}
}

func TestCompleteInterviewForcesCompletedAndKeepsEntry(t *testing.T) {
	store, _ := newTestStore(t)
	store.Initialize("iv-1", InitOptions{})
	store.SetPhase("iv-1", PhaseCodingActive)

	completed := store.CompleteInterview("iv-1")
	if completed == nil || completed.Phase != PhaseCompleted {
		t.Fatalf("expected completed phase, got %+v", completed)
	}
	if !store.Exists("iv-1") {
		t.Fatal("entry must survive completion until explicit delete")
	}
	if store.CompleteInterview("missing") != nil {
		t.Fatal("completing an unknown interview must return nil")
	}
}

func TestDeleteStateRemovesEntry(t *testing.T) {
	store, _ := newTestStore(t)
	store.Initialize("iv-1", InitOptions{})
	store.DeleteState("iv-1")
	if store.Exists("iv-1") {
		t.Fatal("expected entry gone after delete")
	}
	// deleting twice is harmless
	store.DeleteState("iv-1")
}

func TestRecoverOverlaysPersistedAggregates(t *testing.T) {
	store, _ := newTestStore(t)

	persisted := PersistedState{
		Phase:         PhaseDeepDive,
		QuestionCount: 6,
		Topics: map[models.TopicCategory]*TopicStats{
			models.TopicBehavioral: {QuestionsAsked: 3, AverageScore: 7.5, Covered: true, Depth: models.DepthDeep},
		},
		Performance: Performance{
			TotalQuestions: 6,
			AnsweredCount:  5,
			AverageScore:   7.2,
			RecentScores:   []float64{7, 8, 6.5},
			Trend:          models.TrendImproving,
		},
		ShouldWrapUp: true,
	}
	payload, err := json.Marshal(persisted)
	if err != nil {
		t.Fatalf("marshal persisted state: %v", err)
	}

	state := store.Recover("iv-1", InitOptions{RoundType: models.RoundBehavioral}, payload)
	got := store.GetState("iv-1")
	if got.Phase != PhaseDeepDive {
		t.Fatalf("expected recovered phase deep-dive, got %s", got.Phase)
	}
	if got.Performance.AverageScore != 7.2 || got.Performance.Trend != models.TrendImproving {
		t.Fatalf("performance not overlaid: %+v", got.Performance)
	}
	if !got.ShouldWrapUp {
		t.Fatal("shouldWrapUp must be restored")
	}
	if stats := got.Topics[models.TopicBehavioral]; stats.AverageScore != 7.5 || !stats.Covered {
		t.Fatalf("behavioral topic not overlaid: %+v", stats)
	}
	// question texts are not persisted and come back empty
	if len(state.Questions) != 0 {
		t.Fatalf("expected empty question log after recovery, got %d", len(state.Questions))
	}
}

func TestRecoverDiscardsCorruptPayload(t *testing.T) {
	store, _ := newTestStore(t)
	state := store.Recover("iv-1", InitOptions{}, []byte("{not json"))
	if state == nil || state.Phase != PhaseIntroduction {
		t.Fatalf("expected fresh default state, got %+v", state)
	}
}

func TestRecoverIgnoresUnknownPersistedPhase(t *testing.T) {
	store, _ := newTestStore(t)
	payload := []byte(`{"phase":"time-travel","performance":{"averageScore":4}}`)
	store.Recover("iv-1", InitOptions{}, payload)
	got := store.GetState("iv-1")
	if got.Phase != PhaseIntroduction {
		t.Fatalf("unknown persisted phase must be dropped, got %s", got.Phase)
	}
	if got.Performance.AverageScore != 4 {
		t.Fatalf("performance overlay missing: %+v", got.Performance)
	}
}

func TestRemoveIdleDropsOnlyStaleEntries(t *testing.T) {
	store, clock := newTestStore(t)
	store.Initialize("old", InitOptions{})

	clock.Advance(3 * time.Hour)
	store.Initialize("fresh", InitOptions{})

	removed := store.RemoveIdle(time.Hour)
	if len(removed) != 1 || removed[0] != "old" {
		t.Fatalf("expected only the stale interview removed, got %v", removed)
	}
	if store.Exists("old") || !store.Exists("fresh") {
		t.Fatal("wrong entries survived cleanup")
	}
}
