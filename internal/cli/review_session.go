package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/example/elevate/internal/review"
	"github.com/example/elevate/pkg/models"
)

// cmdReview runs one complete review session interactively. Leaving the
// session early discards everything in memory; nothing is submitted.
func (a *App) cmdReview(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("Usage: review <set-id>")
		return
	}
	setID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.printf("Invalid question set id %q", args[0])
		return
	}

	engine := review.NewEngine(a.backend, a.assistant)
	if err := engine.Load(ctx, setID); err != nil {
		a.printf("%s", engine.Err())
		a.printf("Type 'review %d' to retry, or any other command to go back.", setID)
		return
	}

	total := engine.TotalQuestions()
	a.printf("Starting review: %d question(s). Type /quit to abandon the session.", total)

	for engine.State() == review.StateAnswering {
		question, index, ok := engine.CurrentQuestion()
		if !ok {
			break
		}

		a.printf("")
		a.printf("Question %d of %d:", index+1, total)
		a.printf("%s", question.Text)
		switch question.Type {
		case models.TrueFalse:
			a.printf("(answer true or false)")
		case models.MultipleChoice:
			for i, option := range question.Options {
				a.printf("  %d. %s", i+1, option)
			}
			a.printf("(answer with an option number or its text)")
		}

		answer, ok := a.prompt(ctx, "your answer> ")
		if !ok {
			return
		}
		if answer == "/quit" {
			a.printf("Session abandoned; nothing was saved.")
			return
		}
		if question.Type == models.MultipleChoice {
			if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(question.Options) {
				answer = question.Options[n-1]
			}
		}

		engine.RecordAnswer(answer)
		engine.MarkAnswer(ctx)
		if engine.State() != review.StateMarked {
			a.printf("An answer is required before marking.")
			continue
		}

		evaluation := engine.Evaluation()
		verdict := "Incorrect"
		if evaluation.IsCorrect {
			verdict = "Correct"
		}
		a.printf("%s - score %d. %s", verdict, review.RoundedScore(evaluation.ScoreAchieved), evaluation.Feedback)

		engine.Next(ctx)
	}

	if engine.State() != review.StateCompleted {
		return
	}
	a.finishSession(engine.Summary())
}

// finishSession prints the summary, logs it locally and announces it
func (a *App) finishSession(summary review.Summary) {
	a.lastSummary = &summary

	a.printf("")
	a.printf("Session complete: %q", summary.QuestionSetName)
	a.printf("  Questions answered: %d", len(summary.Outcomes))
	a.printf("  Average score:      %d", summary.AverageScore)
	a.printf("  Time spent:         %ds", summary.TimeSpent)
	if summary.SubmissionError != "" {
		a.printf("  Warning: %s", summary.SubmissionError)
	}

	if a.history != nil {
		record := &models.ReviewRecord{
			QuestionSetID:   summary.QuestionSetID,
			QuestionSetName: summary.QuestionSetName,
			TotalQuestions:  len(summary.Outcomes),
			AverageScore:    summary.AverageScore,
			TimeSpent:       summary.TimeSpent,
			Submitted:       summary.Submitted,
		}
		if err := a.history.Create(record); err != nil {
			log.Printf("Failed to record review history: %v", err)
		}
	}

	if a.notifier != nil {
		if err := a.notifier.SendSummary(summary); err != nil {
			log.Printf("Failed to send session summary: %v", err)
		}
	}
}

// prompt reads one trimmed input line; ok is false on EOF or cancellation
func (a *App) prompt(ctx context.Context, label string) (string, bool) {
	fmt.Fprint(a.out, label)
	text, ok := a.readLine(ctx)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(text), true
}
