// Package session implements the client-side exam-taking state machine: a
// single forward-only cursor over an exam's questions, a per-question countdown
// and the submit handshake. The machine is pure; the caller owns the clock and
// drives it by calling Tick once per wall-clock second, which keeps every
// transition unit-testable without real waits.
package session

import (
	"errors"

	examModels "schoolms/models/exam"
	"schoolms/scoring"
)

// State enumerates the session lifecycle.
// NotStarted -> InProgress -> Submitting -> {Completed | Failed}
// AlreadyCompleted is the short-circuit terminal state entered when the server
// reports an existing attempt; the machine never enters InProgress from it.
type State int

const (
	NotStarted State = iota
	InProgress
	Submitting
	Completed
	Failed
	AlreadyCompleted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case InProgress:
		return "IN_PROGRESS"
	case Submitting:
		return "SUBMITTING"
	case Completed:
		return "COMPLETED"
	case Failed:
		return "FAILED"
	case AlreadyCompleted:
		return "ALREADY_COMPLETED"
	}
	return "UNKNOWN"
}

// Question is the sanitized view the question feed exposes to a candidate.
// It never carries the correct answer.
type Question struct {
	ID               uint
	Text             string
	Type             string
	Options          []string
	Marks            int
	TimeLimitSeconds int
}

// SubmitFunc posts the collected answer map to the grading service.
type SubmitFunc func(answers map[uint]string) (*scoring.Result, error)

var (
	ErrNotInProgress   = errors.New("session is not in progress")
	ErrAlreadyStarted  = errors.New("session already started")
	ErrNoQuestions     = errors.New("exam has no questions")
	ErrNotRetryable    = errors.New("submission failed terminally and cannot be retried")
	ErrInvalidOption   = errors.New("selected option is not offered by the current question")
	ErrSessionFinished = errors.New("session has finished")
)

// Session tracks one candidate's progression through one exam. It is not safe
// for concurrent use; a session belongs to exactly one candidate device.
type Session struct {
	questions []Question
	submit    SubmitFunc

	state     State
	cursor    int
	remaining int
	answers   map[uint]string

	result    *scoring.Result
	submitErr error
	retryable bool
}

// New builds a session over the ordered question feed. When the server-supplied
// alreadyTaken flag is set the session starts in AlreadyCompleted and can never
// transition to InProgress.
func New(questions []Question, alreadyTaken bool, submit SubmitFunc) *Session {
	s := &Session{
		questions: questions,
		submit:    submit,
		state:     NotStarted,
		answers:   make(map[uint]string),
	}
	if alreadyTaken {
		s.state = AlreadyCompleted
	}
	return s
}

func (s *Session) State() State            { return s.state }
func (s *Session) Cursor() int             { return s.cursor }
func (s *Session) Remaining() int          { return s.remaining }
func (s *Session) Result() *scoring.Result { return s.result }
func (s *Session) SubmitError() error      { return s.submitErr }
func (s *Session) QuestionCount() int      { return len(s.questions) }

// Answers returns a copy of the collected answer map.
func (s *Session) Answers() map[uint]string {
	out := make(map[uint]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Current returns the question under the cursor.
func (s *Session) Current() (Question, error) {
	if s.state != InProgress {
		return Question{}, ErrNotInProgress
	}
	return s.questions[s.cursor], nil
}

// Start is the explicit readiness gate: metadata is shown first and the first
// countdown only begins here, never on load.
func (s *Session) Start() error {
	switch s.state {
	case AlreadyCompleted:
		return examModels.ErrAlreadyTaken
	case NotStarted:
	default:
		return ErrAlreadyStarted
	}
	if len(s.questions) == 0 {
		return ErrNoQuestions
	}
	s.state = InProgress
	s.cursor = 0
	s.remaining = s.questions[0].TimeLimitSeconds
	return nil
}

// Select records an answer for the current question without advancing the
// cursor. Re-selecting overwrites the previous choice for that question.
func (s *Session) Select(option string) error {
	if s.state != InProgress {
		return ErrNotInProgress
	}
	q := s.questions[s.cursor]
	for _, opt := range q.Options {
		if opt == option {
			s.answers[q.ID] = option
			return nil
		}
	}
	return ErrInvalidOption
}

// Advance locks in whatever is recorded for the current question (possibly
// nothing) and moves the cursor forward. There is no reverse transition.
// Advancing past the last question submits the answer set.
func (s *Session) Advance() error {
	if s.state != InProgress {
		return ErrNotInProgress
	}
	if s.cursor+1 < len(s.questions) {
		s.cursor++
		// remaining time is never banked across questions
		s.remaining = s.questions[s.cursor].TimeLimitSeconds
		return nil
	}
	return s.doSubmit()
}

// Tick decrements the countdown by one second. On reaching zero it triggers the
// same advance path as an explicit action, so grading cannot tell a timeout
// from a manual advance.
func (s *Session) Tick() error {
	if s.state != InProgress {
		return ErrNotInProgress
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		return s.Advance()
	}
	return nil
}

// Retry re-runs the submit call after a transient failure. Collected answers
// were preserved, and the server-side idempotent guard makes the repeat safe.
func (s *Session) Retry() error {
	if s.state != Failed {
		return ErrSessionFinished
	}
	if !s.retryable {
		return ErrNotRetryable
	}
	s.state = Submitting
	return s.finishSubmit()
}

func (s *Session) doSubmit() error {
	s.state = Submitting
	return s.finishSubmit()
}

func (s *Session) finishSubmit() error {
	res, err := s.submit(s.Answers())
	if err == nil {
		s.state = Completed
		s.result = res
		s.submitErr = nil
		return nil
	}

	s.submitErr = err
	switch {
	case errors.Is(err, examModels.ErrAlreadyTaken):
		// terminal: surface "already completed" with a link to the stored result
		s.state = AlreadyCompleted
		s.retryable = false
	case errors.Is(err, examModels.ErrNotFound):
		s.state = Failed
		s.retryable = false
	default:
		// transient: answers stay collected and Retry is allowed
		s.state = Failed
		s.retryable = true
	}
	return err
}
