// Package review drives a single spaced-repetition review session: question
// sequencing, answer marking, outcome accumulation and final submission.
package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/example/elevate/internal/ai"
	"github.com/example/elevate/pkg/models"
)

// ErrNoQuestions means the question set loaded but contained nothing to review
var ErrNoQuestions = errors.New("question set has no questions")

// EvaluationFailureFeedback is the synthetic feedback stored when the scoring
// service fails. The session continues; the question just scores zero.
const EvaluationFailureFeedback = "Error evaluating answer. Your answer was recorded, but it could not be scored."

// State names the engine's position in the session lifecycle
type State int

const (
	// StateLoading means the question set has not been fetched yet
	StateLoading State = iota
	// StateAnswering means the current question is awaiting an answer
	StateAnswering
	// StateMarked means the current question has been evaluated
	StateMarked
	// StateCompleted is terminal: the session finished (submitted or not)
	StateCompleted
	// StateError is terminal: the session could not load
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnswering:
		return "answering"
	case StateMarked:
		return "marked"
	case StateCompleted:
		return "completed"
	default:
		return "error"
	}
}

// Backend is the slice of the API client the engine needs
type Backend interface {
	QuestionSet(ctx context.Context, id int64) (*models.QuestionSet, error)
	Questions(ctx context.Context, questionSetID int64) ([]models.Question, error)
	SubmitReview(ctx context.Context, submission models.ReviewSubmission) error
}

// Evaluator scores one answer against its question
type Evaluator interface {
	Evaluate(ctx context.Context, request ai.EvaluateRequest) (*models.Evaluation, error)
}

// Engine is the state machine for one review session. Create one per
// session and discard it when the user navigates away; nothing is resumable.
type Engine struct {
	mu        sync.Mutex
	backend   Backend
	evaluator Evaluator

	state  State
	errMsg string

	setID     int64
	setName   string
	questions []models.ReviewQuestion
	current   int
	startedAt time.Time

	answer     string
	evaluation *models.Evaluation
	marking    bool
	marked     bool

	outcomes       []models.QuestionOutcome
	submitted      bool
	submissionErr  string
	submissionTime int
}

// NewEngine creates an engine in the loading state
func NewEngine(backend Backend, evaluator Evaluator) *Engine {
	return &Engine{backend: backend, evaluator: evaluator, state: StateLoading}
}

// Load fetches the question set and its questions, classifies each question
// and starts the session clock. Failure leaves the engine in StateError with
// a user-facing message; Load may be called again to retry.
func (e *Engine) Load(ctx context.Context, questionSetID int64) error {
	e.mu.Lock()
	if e.state != StateLoading && e.state != StateError {
		e.mu.Unlock()
		return fmt.Errorf("session already started")
	}
	e.state = StateLoading
	e.errMsg = ""
	e.mu.Unlock()

	set, err := e.backend.QuestionSet(ctx, questionSetID)
	if err != nil {
		return e.failLoad(fmt.Sprintf("Failed to load question set: %v", err), err)
	}
	questions, err := e.backend.Questions(ctx, questionSetID)
	if err != nil {
		return e.failLoad(fmt.Sprintf("Failed to load questions: %v", err), err)
	}
	if len(questions) == 0 {
		return e.failLoad("This question set has no questions to review.", ErrNoQuestions)
	}

	reviewQuestions := make([]models.ReviewQuestion, 0, len(questions))
	for _, q := range questions {
		reviewQuestions = append(reviewQuestions, classify(q))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.setID = set.ID
	e.setName = set.Name
	e.questions = reviewQuestions
	e.current = 0
	e.outcomes = nil
	e.resetQuestionState()
	e.startedAt = time.Now()
	e.state = StateAnswering
	return nil
}

// failLoad records a terminal load failure
func (e *Engine) failLoad(message string, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateError
	e.errMsg = message
	return err
}

// RecordAnswer stores the answer for the current question. Anything that
// trims to empty is ignored, which keeps marking disabled.
func (e *Engine) RecordAnswer(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAnswering || e.marking {
		return
	}
	e.answer = strings.TrimSpace(text)
}

// MarkAnswer sends the recorded answer to the scoring service and appends
// the outcome. Without a recorded answer it is a no-op. A second call while
// one is in flight, or after the question is already marked, is ignored so
// a question can never produce two outcomes. A scoring failure is absorbed
// into a synthetic zero-score outcome; marking never blocks the session.
func (e *Engine) MarkAnswer(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateAnswering || e.marking || e.marked || e.answer == "" {
		e.mu.Unlock()
		return
	}
	e.marking = true
	question := e.questions[e.current]
	answer := e.answer
	setName := e.setName
	e.mu.Unlock()

	evaluation, err := e.evaluator.Evaluate(ctx, ai.EvaluateRequest{
		QuestionID:      question.ID,
		QuestionText:    question.Text,
		QuestionType:    question.Type,
		Options:         question.Options,
		ExpectedAnswer:  question.Answer,
		QuestionSetName: setName,
		UserAnswer:      answer,
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	e.marking = false
	if e.state != StateAnswering {
		// The session moved on (completed or torn down) while the
		// evaluation was in flight; drop the result.
		return
	}
	if err != nil {
		log.Printf("Evaluation failed for question %d: %v", question.ID, err)
		evaluation = &models.Evaluation{IsCorrect: false, Feedback: EvaluationFailureFeedback}
	}

	e.evaluation = evaluation
	e.marked = true
	e.state = StateMarked
	e.outcomes = append(e.outcomes, models.QuestionOutcome{
		QuestionID:    question.ID,
		UserAnswer:    answer,
		ScoreAchieved: RoundedScore(evaluation.ScoreAchieved),
		UUEFocus:      focusForStage(evaluation.NewLearningStage),
	})
}

// Next advances to the following question, or completes the session when
// the marked question was the last one. Valid only from StateMarked.
func (e *Engine) Next(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateMarked {
		e.mu.Unlock()
		return
	}
	if e.current+1 < len(e.questions) {
		e.current++
		e.resetQuestionState()
		e.state = StateAnswering
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	e.Complete(ctx)
}

// Complete finishes the session and, when at least one outcome exists,
// submits the aggregated results. The session always ends up in
// StateCompleted; a submission failure is recorded as a warning next to the
// summary, never as a terminal error.
func (e *Engine) Complete(ctx context.Context) {
	e.mu.Lock()
	if e.state == StateCompleted || e.state == StateError || e.state == StateLoading {
		e.mu.Unlock()
		return
	}
	e.state = StateCompleted
	timeSpent := int(time.Since(e.startedAt).Seconds())
	e.submissionTime = timeSpent
	submission := models.ReviewSubmission{
		QuestionSetID: e.setID,
		Outcomes:      append([]models.QuestionOutcome(nil), e.outcomes...),
		TimeSpent:     timeSpent,
	}
	e.mu.Unlock()

	if len(submission.Outcomes) == 0 {
		return
	}

	err := e.backend.SubmitReview(ctx, submission)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		log.Printf("Failed to submit review outcomes: %v", err)
		e.submissionErr = fmt.Sprintf("Your results could not be saved: %v", err)
		return
	}
	e.submitted = true
}

// resetQuestionState clears per-question transient state; caller holds the lock
func (e *Engine) resetQuestionState() {
	e.answer = ""
	e.evaluation = nil
	e.marked = false
	e.marking = false
}

// State returns the engine's current lifecycle state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the user-facing message for a terminal load failure
func (e *Engine) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// CurrentQuestion returns the question being answered and its position.
// ok is false outside the answering/marked states.
func (e *Engine) CurrentQuestion() (q models.ReviewQuestion, index int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAnswering && e.state != StateMarked {
		return models.ReviewQuestion{}, 0, false
	}
	return e.questions[e.current], e.current, true
}

// TotalQuestions returns how many questions the session holds
func (e *Engine) TotalQuestions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.questions)
}

// Evaluation returns the current question's evaluation, nil before marking
func (e *Engine) Evaluation() *models.Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluation
}

// Summary describes a completed session
type Summary struct {
	QuestionSetID   int64
	QuestionSetName string
	Outcomes        []models.QuestionOutcome
	AverageScore    int // rounded mean of the outcome scores, 0 when empty
	TimeSpent       int // seconds from load to completion
	Submitted       bool
	SubmissionError string
}

// Summary reports the aggregated results. Meaningful once the session has
// completed; before that it reflects whatever has been answered so far.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	outcomes := append([]models.QuestionOutcome(nil), e.outcomes...)
	average := 0
	if len(outcomes) > 0 {
		total := 0
		for _, o := range outcomes {
			total += o.ScoreAchieved
		}
		average = int(math.Round(float64(total) / float64(len(outcomes))))
	}

	return Summary{
		QuestionSetID:   e.setID,
		QuestionSetName: e.setName,
		Outcomes:        outcomes,
		AverageScore:    average,
		TimeSpent:       e.submissionTime,
		Submitted:       e.submitted,
		SubmissionError: e.submissionErr,
	}
}

// RoundedScore clamps a possibly missing score to a 0-100 integer. Every
// place a score is shown or stored goes through it, so the displayed number
// always matches the recorded outcome.
func RoundedScore(score *float64) int {
	if score == nil {
		return 0
	}
	rounded := int(math.Round(*score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// focusForStage maps the reported learning stage to a UUE focus:
// stage <= 1 Understand, <= 3 Use, above that Explore. A missing stage
// defaults to Understand.
func focusForStage(stage *int) models.UUEFocus {
	if stage == nil {
		return models.FocusUnderstand
	}
	switch {
	case *stage <= 1:
		return models.FocusUnderstand
	case *stage <= 3:
		return models.FocusUse
	default:
		return models.FocusExplore
	}
}
