package resolve

import (
	"context"
	"errors"
	"sync"

	"github.com/atsume-cli/atsume/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State is the phase of the resolution workflow.
type State int

const (
	Idle State = iota
	Loading
	Challenging
	Ready
	Unsupported
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Challenging:
		return "challenge"
	case Ready:
		return "video ready"
	case Unsupported:
		return "host unsupported"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultEmptyChallengeLimit is how many prompt-less challenges in a row a machine
// submits on the user's behalf before failing.
const DefaultEmptyChallengeLimit = 3

var (
	ErrEmptyReference = errors.New("empty episode reference")
	ErrNoChallenge    = errors.New("no challenge is being answered")
	ErrUnknownOption  = errors.New("option was not offered by the challenge")
	ErrNothingToRetry = errors.New("no resolution to retry")
)

// Fetcher performs one resolution round-trip.
type Fetcher interface {
	Fetch(ctx context.Context, ref Reference, answers []Answer) Outcome
}

// Snapshot is a consistent, read-only view of the machine.
type Snapshot struct {
	// Version increases with every transition. Consumers receiving snapshots
	// from several goroutines keep the one with the highest version.
	Version   uint64
	Session   string
	State     State
	Reference Reference
	Challenge *Challenge
	// Selected holds the option ids chosen so far for the current challenge.
	Selected []string
	// Outcome is the terminal outcome in the Ready, Unsupported and Failed states.
	Outcome Outcome
}

// Prompt returns the text of the prompt being answered.
func (s Snapshot) Prompt() (string, bool) {
	if s.State != Challenging || s.Challenge == nil || len(s.Selected) >= len(s.Challenge.Prompts) {
		return "", false
	}

	return s.Challenge.Prompts[len(s.Selected)], true
}

// Machine drives a single episode resolution at a time through Loading, zero or
// more challenges and a terminal outcome. Responses that arrive for a session that
// has since been closed or replaced are dropped.
//
// A challenge without prompts is answered with an empty answer set right away.
// After DefaultEmptyChallengeLimit such challenges in a row the session fails
// (see WithEmptyChallengeLimit).
type Machine struct {
	mu          sync.Mutex
	ctx         context.Context
	fetcher     Fetcher
	onChange    func(Snapshot)
	state       State
	session     string
	reference   Reference
	last        Reference
	challenge   *Challenge
	outcome     Outcome
	accumulator *Accumulator
	emptyRounds int
	emptyLimit  int
	version     uint64
	inflight    sync.WaitGroup
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithContext sets the context fetches run under.
func WithContext(ctx context.Context) MachineOption {
	return func(m *Machine) {
		m.ctx = ctx
	}
}

// WithEmptyChallengeLimit sets how many prompt-less challenges in a row are
// submitted before the session fails. A negative limit never fails.
func WithEmptyChallengeLimit(limit int) MachineOption {
	return func(m *Machine) {
		m.emptyLimit = limit
	}
}

// OnChange registers a callback invoked after every transition, outside the machine lock.
func OnChange(fn func(Snapshot)) MachineOption {
	return func(m *Machine) {
		m.onChange = fn
	}
}

// NewMachine returns an idle machine resolving through fetcher.
func NewMachine(fetcher Fetcher, options ...MachineOption) *Machine {
	m := &Machine{
		ctx:         context.Background(),
		fetcher:     fetcher,
		accumulator: NewAccumulator(0),
		emptyLimit:  DefaultEmptyChallengeLimit,
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// RequestResolution starts resolving ref. Asking again for the reference that is
// already being resolved is a no-op. Any other reference discards the current
// session and starts a new one.
func (m *Machine) RequestResolution(ref Reference) error {
	if ref == "" {
		return ErrEmptyReference
	}

	m.mu.Lock()
	if m.state != Idle && m.reference == ref {
		m.mu.Unlock()
		return nil
	}

	m.resetLocked()
	m.session = uuid.NewString()
	m.reference = ref
	m.last = ref
	m.state = Loading
	m.dispatchLocked(nil)
	snapshot := m.transitionLocked()
	m.mu.Unlock()

	m.notify(snapshot)
	return nil
}

// Select records a challenge answer. Once every prompt has an answer the answers
// are submitted and the machine goes back to Loading. Selecting an option that was
// already chosen clears every answer.
func (m *Machine) Select(optionID string) error {
	m.mu.Lock()
	if m.state != Challenging {
		m.mu.Unlock()
		return ErrNoChallenge
	}

	if _, ok := m.challenge.Option(optionID); !ok {
		m.mu.Unlock()
		return ErrUnknownOption
	}

	if cleared := m.accumulator.Select(optionID); cleared {
		log.WithFields(logrus.Fields{"session": m.session}).Debug("repeated selection, answers cleared")
	}

	if m.accumulator.IsComplete() {
		m.state = Loading
		m.dispatchLocked(m.accumulator.Answers(m.challenge))
	}

	snapshot := m.transitionLocked()
	m.mu.Unlock()

	m.notify(snapshot)
	return nil
}

// ClearAnswers drops the answers collected for the current challenge.
func (m *Machine) ClearAnswers() error {
	m.mu.Lock()
	if m.state != Challenging {
		m.mu.Unlock()
		return ErrNoChallenge
	}

	m.accumulator.Reset()
	snapshot := m.transitionLocked()
	m.mu.Unlock()

	m.notify(snapshot)
	return nil
}

// Retry starts a fresh session for the reference of the current or last closed session.
func (m *Machine) Retry() error {
	m.mu.Lock()
	ref := m.last
	m.mu.Unlock()

	if ref == "" {
		return ErrNothingToRetry
	}

	m.Close()
	return m.RequestResolution(ref)
}

// Close abandons the current session and returns to Idle. In-flight responses are
// dropped on arrival. Closing an idle machine does nothing.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.state == Idle {
		m.mu.Unlock()
		return
	}

	m.resetLocked()
	snapshot := m.transitionLocked()
	m.mu.Unlock()

	m.notify(snapshot)
}

// Snapshot returns the current view of the machine.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

// Wait blocks until every fetch started so far has been delivered or dropped.
func (m *Machine) Wait() {
	m.inflight.Wait()
}

func (m *Machine) dispatchLocked(answers []Answer) {
	session, ref := m.session, m.reference

	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		m.deliver(session, ref, m.fetcher.Fetch(m.ctx, ref, answers))
	}()
}

func (m *Machine) deliver(session string, ref Reference, outcome Outcome) {
	m.mu.Lock()
	logger := log.WithFields(logrus.Fields{"session": session, "reference": ref})

	if m.session != session || m.reference != ref || m.state != Loading {
		m.mu.Unlock()
		logger.Debug("dropping response of a stale session")
		return
	}

	switch o := outcome.(type) {
	case *ChallengeRequired:
		challenge := o.Challenge
		if challenge == nil {
			challenge = &Challenge{}
		}
		m.challenge = challenge
		m.accumulator.Begin(len(challenge.Prompts))

		if len(challenge.Prompts) == 0 {
			m.emptyRounds++
			if m.emptyLimit >= 0 && m.emptyRounds > m.emptyLimit {
				m.fail(failf("host kept sending challenges without prompts"))
				break
			}

			logger.Debug("challenge has no prompts, submitting it as is")
			m.dispatchLocked([]Answer{})
			break
		}

		m.emptyRounds = 0
		m.state = Challenging
	case *VideoReady:
		m.challenge = nil
		m.outcome = o
		m.state = Ready
	case *HostUnsupported:
		m.challenge = nil
		m.outcome = o
		m.state = Unsupported
	case *Failure:
		m.fail(o)
	default:
		m.fail(failf("empty response"))
	}

	logger.Infof("resolution is now %s", m.state)
	snapshot := m.transitionLocked()
	m.mu.Unlock()

	m.notify(snapshot)
}

func (m *Machine) fail(failure *Failure) {
	m.challenge = nil
	m.accumulator.Reset()
	m.outcome = failure
	m.state = Failed
}

func (m *Machine) resetLocked() {
	m.state = Idle
	m.session = ""
	m.reference = ""
	m.challenge = nil
	m.outcome = nil
	m.emptyRounds = 0
	m.accumulator.Begin(0)
}

func (m *Machine) transitionLocked() Snapshot {
	m.version++
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		Version:   m.version,
		Session:   m.session,
		State:     m.state,
		Reference: m.reference,
		Challenge: m.challenge,
		Selected:  m.accumulator.Selected(),
		Outcome:   m.outcome,
	}
}

func (m *Machine) notify(snapshot Snapshot) {
	if m.onChange != nil {
		m.onChange(snapshot)
	}
}
