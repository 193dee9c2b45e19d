package interview

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// Store owns every in-memory InterviewState for this process instance.
// It is created once in main and injected into handlers; there is no
// cross-process coordination, so horizontally scaled deployments hold
// independent copies keyed by interview id. Mutations for one interview
// observe a total order via a per-entry mutex.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	sidecar *Sidecar
	logger  *zap.Logger
	now     func() time.Time
}

type entry struct {
	mu    sync.Mutex
	state *InterviewState
}

// NewStore creates an empty store. sidecar may be nil (tests).
func NewStore(sidecar *Sidecar, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := &Store{
		entries: make(map[string]*entry),
		sidecar: sidecar,
		logger:  logger,
		now:     time.Now,
	}
	if sidecar != nil {
		sidecar.store = store
	}
	return store
}

// SetClock overrides the time source (used in tests).
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Initialize creates the state for an interview id, overwriting any
// existing state for that id (last write wins, no merge).
func (s *Store) Initialize(interviewID string, opts InitOptions) *InterviewState {
	state := newInterviewState(interviewID, opts, s.now())

	s.mu.Lock()
	s.entries[interviewID] = &entry{state: state}
	s.mu.Unlock()

	if s.sidecar != nil {
		s.sidecar.Start(interviewID)
	}

	s.logger.Info("interview state initialized",
		zap.String("interview_id", interviewID),
		zap.String("round_type", string(opts.RoundType)))
	return state
}

func (s *Store) get(interviewID string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[interviewID]
}

// withState runs fn while holding the per-interview lock. Returns false
// when no state exists for the id; callers translate that to nil/no-op.
func (s *Store) withState(interviewID string, fn func(*InterviewState)) bool {
	e := s.get(interviewID)
	if e == nil {
		s.logger.Debug("no state for interview", zap.String("interview_id", interviewID))
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
	return true
}

// touch stamps last activity; callers hold the entry lock.
func (s *Store) touch(state *InterviewState) {
	state.LastActivityAt = s.now()
}

// SetPhase moves the interview to the given phase. Unknown ids and unknown
// phase values no-op.
func (s *Store) SetPhase(interviewID string, phase Phase) bool {
	if !ValidPhase(phase) {
		s.logger.Warn("ignoring unknown phase", zap.String("phase", string(phase)))
		return false
	}
	return s.withState(interviewID, func(state *InterviewState) {
		if canTransition(state.Phase, phase) {
			state.Phase = phase
			s.touch(state)
		}
	})
}

// UpdateElapsedTime recomputes elapsed seconds from the start timestamp.
// Elapsed time is recomputed on demand, never ticked.
func (s *Store) UpdateElapsedTime(interviewID string) float64 {
	var elapsed float64
	ok := s.withState(interviewID, func(state *InterviewState) {
		state.ElapsedSeconds = s.now().Sub(state.StartedAt).Seconds()
		elapsed = state.ElapsedSeconds
	})
	if !ok {
		return 0
	}
	return elapsed
}

// CompleteInterview forces the completed phase from any state, makes one
// final synchronous persistence attempt and cancels the sidecar timer.
// The in-memory entry stays in place until DeleteState.
func (s *Store) CompleteInterview(interviewID string) *InterviewState {
	var completed *InterviewState
	ok := s.withState(interviewID, func(state *InterviewState) {
		state.Phase = PhaseCompleted
		state.ElapsedSeconds = s.now().Sub(state.StartedAt).Seconds()
		s.touch(state)
		completed = state
	})
	if !ok {
		return nil
	}
	if s.sidecar != nil {
		s.sidecar.Stop(interviewID)
		if err := s.sidecar.Flush(interviewID); err != nil {
			s.logger.Error("final state persistence failed",
				zap.String("interview_id", interviewID), zap.Error(err))
		}
	}
	s.logger.Info("interview completed", zap.String("interview_id", interviewID))
	return completed
}

// DeleteState removes the in-memory entry and stops its sidecar timer.
func (s *Store) DeleteState(interviewID string) {
	if s.sidecar != nil {
		s.sidecar.Stop(interviewID)
	}
	s.mu.Lock()
	delete(s.entries, interviewID)
	s.mu.Unlock()
	s.logger.Info("interview state deleted", zap.String("interview_id", interviewID))
}

// Exists reports whether the store holds state for the id.
func (s *Store) Exists(interviewID string) bool {
	return s.get(interviewID) != nil
}

// ActiveCount returns the number of in-memory interviews.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Recover rebuilds state after a restart: a fresh default state from opts
// with the last-persisted aggregates overlaid. Anything not in the
// persisted subset (question texts, signals) starts empty.
func (s *Store) Recover(interviewID string, opts InitOptions, persisted []byte) *InterviewState {
	state := s.Initialize(interviewID, opts)
	if len(persisted) == 0 {
		return state
	}

	var snapshot PersistedState
	if err := json.Unmarshal(persisted, &snapshot); err != nil {
		s.logger.Warn("discarding unreadable persisted state",
			zap.String("interview_id", interviewID), zap.Error(err))
		return state
	}

	s.withState(interviewID, func(st *InterviewState) {
		if ValidPhase(snapshot.Phase) {
			st.Phase = snapshot.Phase
		}
		if snapshot.Topics != nil {
			for category, stats := range snapshot.Topics {
				if _, known := st.Topics[category]; known && stats != nil {
					st.Topics[category] = stats
				}
			}
		}
		st.Performance = snapshot.Performance
		if st.Performance.RecentScores == nil {
			st.Performance.RecentScores = make([]float64, 0, 5)
		}
		st.Coding = snapshot.Coding
		st.ShouldWrapUp = snapshot.ShouldWrapUp
	})
	s.logger.Info("interview state recovered from persisted aggregates",
		zap.String("interview_id", interviewID))
	return state
}

// RemoveIdle drops interviews with no activity for longer than ttl,
// flushing each once before removal. Returns the removed ids.
func (s *Store) RemoveIdle(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)

	s.mu.RLock()
	stale := make([]string, 0)
	for id, e := range s.entries {
		e.mu.Lock()
		idle := e.state.LastActivityAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range stale {
		if s.sidecar != nil {
			if err := s.sidecar.Flush(id); err != nil {
				s.logger.Warn("flush before stale removal failed",
					zap.String("interview_id", id), zap.Error(err))
			}
		}
		s.DeleteState(id)
	}
	if len(stale) > 0 {
		s.logger.Info("removed stale interview states", zap.Int("count", len(stale)))
	}
	return stale
}

// persistedSubset copies the persisted subset; callers hold the entry lock.
func persistedSubset(state *InterviewState) PersistedState {
	topics := make(map[models.TopicCategory]*TopicStats, len(state.Topics))
	for category, stats := range state.Topics {
		copied := *stats
		topics[category] = &copied
	}
	return PersistedState{
		Phase:         state.Phase,
		QuestionCount: len(state.Questions),
		Topics:        topics,
		Performance:   state.Performance,
		Coding:        state.Coding,
		ShouldWrapUp:  state.ShouldWrapUp,
	}
}
