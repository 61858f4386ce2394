package domain

import "errors"

// ErrSessionNotIdle is returned by Start when the session was already started.
// Call Reset first to play another quiz.
var ErrSessionNotIdle = errors.New("session already started")

// SessionState is the coarse state of a Session.
type SessionState int

const (
	StateNotStarted SessionState = iota
	StateInProgress
	StateFinished
)

func (s SessionState) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateFinished:
		return "finished"
	default:
		return "not_started"
	}
}

// ScoreRecorder receives the final score of a completed session.
// Implementations must not block the caller.
type ScoreRecorder interface {
	RecordScore(quizID string, score int)
}

// Session is one traversal of a quiz. It is not safe for concurrent use;
// callers serialise actions the way a single view does.
type Session struct {
	shuffler Shuffler
	recorder ScoreRecorder

	state           SessionState
	quiz            *Quiz
	currentIndex    int
	presented       []string
	selected        string
	feedbackVisible bool
	lastCorrect     bool
	score           int
	recorded        bool
}

// NewSession creates a session in the NotStarted state. recorder may be nil.
func NewSession(shuffler Shuffler, recorder ScoreRecorder) *Session {
	if shuffler == nil {
		shuffler = NewShuffler()
	}
	return &Session{
		shuffler: shuffler,
		recorder: recorder,
	}
}

// Start begins play of quiz at its first question.
func (s *Session) Start(quiz *Quiz) error {
	if s.state != StateNotStarted {
		return ErrSessionNotIdle
	}
	if err := quiz.Validate(); err != nil {
		return err
	}

	s.quiz = quiz
	s.currentIndex = 0
	s.score = 0
	s.recorded = false
	s.state = StateInProgress
	s.enterQuestion()
	return nil
}

// SelectOption chooses value for the active question. It reports whether the
// selection was accepted; it is rejected once feedback is visible or when value
// is not one of the question's options.
func (s *Session) SelectOption(value string) bool {
	if s.state != StateInProgress || s.feedbackVisible {
		return false
	}
	if !s.activeQuestion().HasOption(value) {
		return false
	}
	s.selected = value
	return true
}

// SubmitAnswer scores the current selection and reveals feedback.
func (s *Session) SubmitAnswer() bool {
	if s.state != StateInProgress || s.feedbackVisible || s.selected == "" {
		return false
	}
	s.lastCorrect = s.selected == s.activeQuestion().CorrectAnswer
	if s.lastCorrect {
		s.score++
	}
	s.feedbackVisible = true
	return true
}

// Advance moves past an answered question, finishing the session after the last one.
func (s *Session) Advance() bool {
	if s.state != StateInProgress || !s.feedbackVisible {
		return false
	}
	if s.currentIndex+1 < len(s.quiz.Questions) {
		s.currentIndex++
		s.enterQuestion()
		return true
	}

	s.state = StateFinished
	s.feedbackVisible = false
	s.selected = ""
	s.presented = nil
	s.recordScore()
	return true
}

// Reset abandons the session. An unfinished score is discarded.
func (s *Session) Reset() {
	s.state = StateNotStarted
	s.quiz = nil
	s.currentIndex = 0
	s.presented = nil
	s.selected = ""
	s.feedbackVisible = false
	s.lastCorrect = false
	s.score = 0
	s.recorded = false
}

func (s *Session) enterQuestion() {
	s.selected = ""
	s.feedbackVisible = false
	s.lastCorrect = false
	s.presented = s.shuffler.Shuffle(s.activeQuestion().Options)
}

func (s *Session) recordScore() {
	if s.recorded {
		return
	}
	s.recorded = true
	if s.recorder == nil || s.quiz.ID == "" {
		return
	}
	s.recorder.RecordScore(s.quiz.ID, s.score)
}

func (s *Session) activeQuestion() *Question {
	return &s.quiz.Questions[s.currentIndex]
}

func (s *Session) State() SessionState { return s.state }
func (s *Session) Quiz() *Quiz { return s.quiz }
func (s *Session) CurrentIndex() int { return s.currentIndex }
func (s *Session) SelectedOption() string { return s.selected }
func (s *Session) FeedbackVisible() bool { return s.feedbackVisible }
func (s *Session) Score() int { return s.score }
func (s *Session) IsFinished() bool { return s.state == StateFinished }

// PresentedOptions returns a copy of the active question's display order.
func (s *Session) PresentedOptions() []string {
	out := make([]string, len(s.presented))
	copy(out, s.presented)
	return out
}

// Summary returns the final result once the session has finished.
func (s *Session) Summary() (Summary, bool) {
	if s.state != StateFinished {
		return Summary{}, false
	}
	return NewSummary(s.score, len(s.quiz.Questions)), true
}

// SessionSnapshot is a read-only view of a session for presentation layers.
type SessionSnapshot struct {
	State           SessionState
	QuizID          string
	Title           string
	Index           int
	Total           int
	Question        string
	Options         []string
	Selected        string
	FeedbackVisible bool
	// Set only while feedback is visible.
	Correct       bool
	CorrectAnswer string
	Explanation   string
	Score         int
	Summary       *Summary
}

// Snapshot captures the current state.
func (s *Session) Snapshot() SessionSnapshot {
	snap := SessionSnapshot{State: s.state, Score: s.score}
	if s.quiz == nil {
		return snap
	}
	snap.QuizID = s.quiz.ID
	snap.Title = s.quiz.Title
	snap.Total = len(s.quiz.Questions)

	switch s.state {
	case StateInProgress:
		q := s.activeQuestion()
		snap.Index = s.currentIndex
		snap.Question = q.Text
		snap.Options = s.PresentedOptions()
		snap.Selected = s.selected
		snap.FeedbackVisible = s.feedbackVisible
		if s.feedbackVisible {
			snap.Correct = s.lastCorrect
			snap.CorrectAnswer = q.CorrectAnswer
			snap.Explanation = q.Explanation
		}
	case StateFinished:
		snap.Index = s.currentIndex
		summary, _ := s.Summary()
		snap.Summary = &summary
	}
	return snap
}
