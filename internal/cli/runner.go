package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/i18n"
	"wiki-quiz/internal/player"

	"go.uber.org/zap"
)

// ErrInputClosed is returned when input ends before the quiz is finished.
var ErrInputClosed = errors.New("input closed before the quiz was finished")

// Catalog reads the stored quiz history.
type Catalog interface {
	ListQuizzes(ctx context.Context) ([]*domain.QuizSummary, error)
	GetQuiz(ctx context.Context, id string) (*domain.Quiz, error)
}

// ScoreResults exposes the outcome of the background score submission.
type ScoreResults interface {
	Wait()
	Last() (*domain.ScoreRecord, error)
}

// Runner is the terminal view. It renders player snapshots to out and reads
// one command per line from in.
type Runner struct {
	player  *player.Player
	catalog Catalog
	results ScoreResults
	tr      *i18n.Translator
	logger  *zap.Logger

	in       *bufio.Scanner
	lines    chan string
	readOnce sync.Once
	out      io.Writer
}

// NewRunner creates a Runner. results may be nil when scores are not stored.
func NewRunner(p *player.Player, catalog Catalog, results ScoreResults, tr *i18n.Translator, in io.Reader, out io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		player:  p,
		catalog: catalog,
		results: results,
		tr:      tr,
		logger:  logger,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Play generates (or reuses) the quiz for articleURL and plays it to the end.
func (r *Runner) Play(ctx context.Context, articleURL string) error {
	r.println(r.tr.T("GeneratingQuiz"))
	if err := r.player.Generate(ctx, articleURL); err != nil {
		r.println(r.tr.Td("FetchFailed", map[string]any{"Error": describe(err)}))
		return err
	}
	return r.run(ctx)
}

// Retake plays a stored quiz again from its first question.
func (r *Runner) Retake(ctx context.Context, id string) error {
	r.println(r.tr.T("LoadingQuiz"))
	if err := r.player.Retake(ctx, id); err != nil {
		r.println(r.tr.Td("FetchFailed", map[string]any{"Error": describe(err)}))
		return err
	}
	return r.run(ctx)
}

// List prints the quiz history. A failed fetch is shown as a warning above
// the empty state and is not returned.
func (r *Runner) List(ctx context.Context) error {
	r.println(r.tr.T("PastQuizzes"))
	r.println("")

	quizzes, err := r.catalog.ListQuizzes(ctx)
	if err != nil {
		r.logger.Warn("Failed to list quizzes", zap.Error(err))
		r.println(r.tr.Td("ListFailed", map[string]any{"Error": describe(err)}))
		quizzes = nil
	}
	if len(quizzes) == 0 {
		r.println("📚 " + r.tr.T("NoQuizzesTitle"))
		r.println(r.tr.T("NoQuizzesHint"))
		return nil
	}

	for _, q := range quizzes {
		r.printf("%s  [%s]\n", q.Title, q.ID)
		r.printf("  %s\n", shortURL(q.URL))
		r.printf("  %s: %d    %s: %d\n", r.tr.T("PreviousScore"), q.LastScore, r.tr.T("HighScore"), q.HighScore)
	}
	return nil
}

// Show prints a stored quiz with its answers.
func (r *Runner) Show(ctx context.Context, id string) error {
	quiz, err := r.catalog.GetQuiz(ctx, id)
	if err != nil {
		r.println(r.tr.Td("FetchFailed", map[string]any{"Error": describe(err)}))
		return err
	}

	r.printf("%s (%s)\n", quiz.Title, r.tr.Tp("QuestionsCount", len(quiz.Questions)))
	r.println(quiz.URL)
	if quiz.Summary != "" {
		r.println("")
		r.println(quiz.Summary)
	}
	r.println("")
	for i, q := range quiz.Questions {
		r.println(r.tr.Td("QuestionHeader", map[string]any{"Number": i + 1, "Question": q.Text}))
		for _, opt := range q.Options {
			marker := " "
			if opt == q.CorrectAnswer {
				marker = "*"
			}
			r.printf("  %s %s\n", marker, opt)
		}
		if q.Explanation != "" {
			r.printf("    %s\n", q.Explanation)
		}
	}
	if len(quiz.RelatedTopics) > 0 {
		r.println("")
		r.println(r.tr.Td("RelatedTopics", map[string]any{"Topics": strings.Join(quiz.RelatedTopics, ", ")}))
	}
	r.println("")
	r.printf("%s: %d    %s: %d\n", r.tr.T("PreviousScore"), quiz.LastScore, r.tr.T("HighScore"), quiz.HighScore)
	return nil
}

// run drives the started session until it finishes. Cancelling ctx abandons
// the session without recording a score.
func (r *Runner) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			r.abandon(err)
			return err
		}
		snap := r.player.Snapshot()
		switch snap.State {
		case domain.StateFinished:
			r.renderFinal(snap)
			return nil
		case domain.StateInProgress:
			var err error
			if snap.FeedbackVisible {
				err = r.feedbackStep(ctx, snap)
			} else {
				err = r.questionStep(ctx, snap)
			}
			if ctx.Err() != nil {
				r.abandon(ctx.Err())
				return ctx.Err()
			}
			if err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// questionStep shows the active question and applies one line of input: a
// number selects that option, an empty line submits the selection.
func (r *Runner) questionStep(ctx context.Context, snap domain.SessionSnapshot) error {
	r.println("")
	r.println(r.tr.Td("ScoreBar", map[string]any{"Score": snap.Score, "Current": snap.Index + 1, "Total": snap.Total}))
	r.println(r.tr.Td("QuestionHeader", map[string]any{"Number": snap.Index + 1, "Question": snap.Question}))
	for i, opt := range snap.Options {
		marker := " "
		if opt == snap.Selected {
			marker = ">"
		}
		r.printf("%s %d) %s\n", marker, i+1, opt)
	}

	if snap.Selected == "" {
		r.print(r.tr.Td("ChoosePrompt", map[string]any{"Count": len(snap.Options)}))
	} else {
		r.print(r.tr.T("SubmitPrompt"))
	}
	line, ok := r.readLine(ctx)
	if !ok {
		return ErrInputClosed
	}

	if line == "" {
		if !r.player.Submit() {
			r.println(r.tr.T("SelectFirst"))
		}
		return nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(snap.Options) {
		r.println(r.tr.Td("InvalidChoice", map[string]any{"Count": len(snap.Options)}))
		return nil
	}
	r.player.Select(snap.Options[n-1])
	return nil
}

func (r *Runner) feedbackStep(ctx context.Context, snap domain.SessionSnapshot) error {
	if snap.Correct {
		r.println(r.tr.T("Correct"))
	} else {
		r.println(r.tr.Td("Wrong", map[string]any{"Answer": snap.CorrectAnswer}))
	}
	if snap.Explanation != "" {
		r.println(snap.Explanation)
	}

	if snap.Index+1 == snap.Total {
		r.print(r.tr.T("FinishPrompt"))
	} else {
		r.print(r.tr.T("NextPrompt"))
	}
	if _, ok := r.readLine(ctx); !ok {
		return ErrInputClosed
	}
	r.println("")
	r.player.Advance()
	return nil
}

func (r *Runner) renderFinal(snap domain.SessionSnapshot) {
	if snap.Summary == nil {
		return
	}
	s := snap.Summary
	msg := r.tr.Tier(s.Tier)

	r.println("")
	r.println(msg.Emoji)
	r.printf("%d%%\n", s.Percentage)
	r.println(msg.Title)
	r.println(r.tr.Td("ScoreFraction", map[string]any{"Score": s.Score, "Total": s.Total}))
	r.println(msg.Message)

	if snap.QuizID == "" || r.results == nil {
		return
	}
	r.results.Wait()
	rec, err := r.results.Last()
	if err != nil || rec == nil {
		r.println(r.tr.T("ScoreNotSaved"))
		return
	}
	r.println(r.tr.Td("ScoreSaved", map[string]any{"HighScore": rec.HighScore}))
}

func (r *Runner) abandon(err error) {
	r.logger.Info("Quiz abandoned", zap.Error(err))
	r.player.Reset()
	r.println("")
}

// readLine returns the next trimmed input line. It reports false when input
// is closed or ctx is done.
func (r *Runner) readLine(ctx context.Context) (string, bool) {
	r.readOnce.Do(func() {
		r.lines = make(chan string)
		go func() {
			defer close(r.lines)
			for r.in.Scan() {
				r.lines <- r.in.Text()
			}
		}()
	})
	if ctx.Err() != nil {
		return "", false
	}
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-r.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

func (r *Runner) print(s string) {
	_, _ = io.WriteString(r.out, s)
}

func (r *Runner) println(s string) {
	_, _ = io.WriteString(r.out, s+"\n")
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// describe returns the user-facing part of err.
func describe(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Err != nil {
			return domainErr.Message + ": " + domainErr.Err.Error()
		}
		return domainErr.Message
	}
	return err.Error()
}

func shortURL(u string) string {
	if len(u) > 40 {
		return u[:37] + "..."
	}
	return u
}
