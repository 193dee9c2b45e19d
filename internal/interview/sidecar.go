package interview

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// SnapshotWriter persists the reduced state payload onto the durable round
// record. Implemented by repositories.RoundRepository.
type SnapshotWriter interface {
	WriteStateSnapshot(interviewID string, payload []byte) error
}

// PersistedState is the reduced subset written by the sidecar. It is a
// recovery hint only; in-memory state stays authoritative while the
// process is alive.
type PersistedState struct {
	Phase         Phase                                `json:"phase"`
	QuestionCount int                                  `json:"questionCount"`
	Topics        map[models.TopicCategory]*TopicStats `json:"topics"`
	Performance   Performance                          `json:"performance"`
	Coding        *CodingState                         `json:"coding,omitempty"`
	ShouldWrapUp  bool                                 `json:"shouldWrapUp"`
}

// TickerFactory returns a tick channel and a cancel function. Tests swap
// it out to drive persistence with virtual time.
type TickerFactory func(interval time.Duration) (<-chan time.Time, func())

func realTicker(interval time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}

// Sidecar periodically serializes each active interview's reduced state
// into its durable record. Fire and forget: failures are logged, never
// retried, never surfaced to the interview's callers.
type Sidecar struct {
	writer    SnapshotWriter
	logger    *zap.Logger
	interval  time.Duration
	newTicker TickerFactory

	store *Store // set by NewStore

	mu    sync.Mutex
	stops map[string]chan struct{}
}

// NewSidecar creates a sidecar flushing every interval.
func NewSidecar(writer SnapshotWriter, interval time.Duration, logger *zap.Logger) *Sidecar {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sidecar{
		writer:    writer,
		logger:    logger,
		interval:  interval,
		newTicker: realTicker,
		stops:     make(map[string]chan struct{}),
	}
}

// SetTickerFactory overrides the tick source (used in tests).
func (sc *Sidecar) SetTickerFactory(factory TickerFactory) { sc.newTicker = factory }

// Start begins the periodic flush loop for one interview. Restarting an
// id cancels the previous loop first.
func (sc *Sidecar) Start(interviewID string) {
	sc.mu.Lock()
	if prev, running := sc.stops[interviewID]; running {
		close(prev)
	}
	stop := make(chan struct{})
	sc.stops[interviewID] = stop
	sc.mu.Unlock()

	ticks, cancel := sc.newTicker(sc.interval)
	go func() {
		defer cancel()
		for {
			select {
			case <-ticks:
				if err := sc.Flush(interviewID); err != nil {
					sc.logger.Error("state persistence failed",
						zap.String("interview_id", interviewID), zap.Error(err))
				}
			case <-stop:
				return
			}
		}
	}()
}

// Stop cancels the flush loop for one interview. Safe to call twice.
func (sc *Sidecar) Stop(interviewID string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if stop, running := sc.stops[interviewID]; running {
		close(stop)
		delete(sc.stops, interviewID)
	}
}

// Flush serializes the reduced subset and writes it synchronously. Used
// by the timer loop and by the final flush on completion.
func (sc *Sidecar) Flush(interviewID string) error {
	if sc.store == nil || sc.writer == nil {
		return nil
	}
	e := sc.store.get(interviewID)
	if e == nil {
		return fmt.Errorf("no state for interview %s", interviewID)
	}
	e.mu.Lock()
	subset := persistedSubset(e.state)
	e.mu.Unlock()

	payload, err := json.Marshal(subset)
	if err != nil {
		return fmt.Errorf("marshal state snapshot: %w", err)
	}
	return sc.writer.WriteStateSnapshot(interviewID, payload)
}
