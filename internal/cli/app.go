// Package cli is the interactive surface of the Elevate client: a command
// loop over the session store, the route guard and the review engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/elevate/internal/ai"
	"github.com/example/elevate/internal/api"
	"github.com/example/elevate/internal/excel"
	"github.com/example/elevate/internal/guard"
	"github.com/example/elevate/internal/review"
	"github.com/example/elevate/internal/scheduler"
	"github.com/example/elevate/internal/session"
	"github.com/example/elevate/internal/storage"
)

// SummaryNotifier is the optional channel a finished session is announced on
type SummaryNotifier interface {
	SendSummary(summary review.Summary) error
}

// App wires the client components behind a command loop
type App struct {
	config    *Config
	sessions  *session.Store
	guard     *guard.Guard
	backend   *api.Client
	assistant *ai.Client
	history   *storage.HistoryRepository
	scheduler *scheduler.Scheduler
	notifier  SummaryNotifier

	in    *bufio.Scanner
	lines chan string
	out   io.Writer

	// command remembered across a login redirect
	pendingLine string
	lastSummary *review.Summary
}

// New creates the interactive client. scheduler and notifier may be nil.
func New(config *Config, sessions *session.Store, backend *api.Client, assistant *ai.Client,
	history *storage.HistoryRepository, sched *scheduler.Scheduler, notifier SummaryNotifier,
	in io.Reader, out io.Writer) *App {
	if config == nil {
		config = DefaultConfig()
	}
	return &App{
		config:    config,
		sessions:  sessions,
		guard:     guard.New(sessions),
		backend:   backend,
		assistant: assistant,
		history:   history,
		scheduler: sched,
		notifier:  notifier,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run reads commands until EOF, "quit" or context cancellation. Input is
// scanned on its own goroutine so a cancelled context interrupts a read
// that is blocked waiting for the next line.
func (a *App) Run(ctx context.Context) error {
	a.printf("Elevate study client. Type 'help' for commands.")
	a.printStatus()

	a.lines = make(chan string)
	go func() {
		defer close(a.lines)
		for a.in.Scan() {
			select {
			case a.lines <- a.in.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(a.out, "> ")
		text, ok := a.readLine(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.in.Err()
		}
		line := strings.TrimSpace(text)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		a.dispatch(ctx, line)
	}
}

// readLine blocks for the next input line; ok is false on EOF or cancellation
func (a *App) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case text, ok := <-a.lines:
		return text, ok
	}
}

// dispatch runs one command line
func (a *App) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "help":
		a.printHelp()
	case "login":
		a.cmdLogin(ctx, args)
	case "logout":
		a.sessions.Logout(func() {
			a.printf("Signed out.")
		})
	case "whoami":
		a.printStatus()
	case "folders":
		a.protected(ctx, line, a.cmdFolders)
	case "sets":
		a.protected(ctx, line, func(ctx context.Context) { a.cmdSets(ctx, args) })
	case "review":
		a.protected(ctx, line, func(ctx context.Context) { a.cmdReview(ctx, args) })
	case "chat":
		a.protected(ctx, line, func(ctx context.Context) { a.cmdChat(ctx, args) })
	case "import":
		a.protected(ctx, line, func(ctx context.Context) { a.cmdImport(ctx, args) })
	case "history":
		a.protected(ctx, line, func(ctx context.Context) { a.cmdHistory() })
	case "export":
		a.protected(ctx, line, func(ctx context.Context) { a.cmdExport() })
	case "remind":
		a.protected(ctx, line, func(ctx context.Context) { a.cmdRemind(ctx) })
	default:
		a.printf("Unknown command %q. Type 'help' for commands.", command)
	}
}

// protected runs fn only when the route guard allows it. On a redirect the
// command line is remembered and replayed after the next successful login.
func (a *App) protected(ctx context.Context, line string, fn func(context.Context)) {
	outcome := a.guard.Resolve(line)
	switch outcome.Action {
	case guard.ShowLoading:
		a.printf("Still starting up, try again in a moment.")
	case guard.RedirectToLogin:
		a.pendingLine = outcome.ReturnTo
		a.printf("Please sign in first: login <email> <password>")
	default:
		fn(ctx)
	}
}

func (a *App) cmdLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		a.printf("Usage: login <email> <password>")
		return
	}

	response, err := a.backend.Login(ctx, args[0], args[1])
	if err != nil {
		a.printf("Login failed: %v", err)
		return
	}
	if err := a.sessions.Login(response.Token); err != nil {
		a.printf("Login failed: %v", err)
		return
	}

	state := a.sessions.Snapshot()
	if state.User != nil {
		a.printf("Welcome back, %s!", state.User.Name)
	}

	// Return the user to where they were headed before the redirect
	if a.pendingLine != "" {
		line := a.pendingLine
		a.pendingLine = ""
		a.dispatch(ctx, line)
	}
}

func (a *App) cmdFolders(ctx context.Context) {
	folders, err := a.backend.Folders(ctx)
	if err != nil {
		a.printf("Failed to load folders: %v", err)
		return
	}
	if len(folders) == 0 {
		a.printf("No folders yet.")
		return
	}
	for _, folder := range folders {
		a.printf("  [%d] %s", folder.ID, folder.Name)
	}
}

func (a *App) cmdSets(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("Usage: sets <folder-id>")
		return
	}
	folderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.printf("Invalid folder id %q", args[0])
		return
	}

	sets, err := a.backend.QuestionSets(ctx, folderID)
	if err != nil {
		a.printf("Failed to load question sets: %v", err)
		return
	}
	if len(sets) == 0 {
		a.printf("No question sets in this folder.")
		return
	}
	for _, set := range sets {
		a.printf("  [%d] %s", set.ID, set.Name)
	}
}

func (a *App) cmdChat(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.printf("Usage: chat <message>")
		return
	}

	reply, err := a.assistant.Chat(ctx, []ai.ChatMessage{
		{Role: "user", Content: strings.Join(args, " ")},
	})
	if err != nil {
		a.printf("Assistant unavailable: %v", err)
		return
	}
	a.printf("Assistant: %s", reply)
}

func (a *App) cmdImport(ctx context.Context, args []string) {
	if len(args) < 2 {
		a.printf("Usage: import <file.xlsx|file.csv> <folder-id>")
		return
	}
	folderID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		a.printf("Invalid folder id %q", args[1])
		return
	}

	config := excel.DefaultImportConfig()
	config.FilePath = args[0]
	config.FolderID = folderID

	result, err := excel.ImportQuestions(ctx, a.backend, config)
	if err != nil {
		a.printf("Import failed: %v", err)
		return
	}
	a.printf("Imported %d question(s) into %q (%d skipped).",
		result.Created, result.QuestionSet.Name, result.Skipped)
	for _, message := range result.Errors {
		a.printf("  %s", message)
	}
}

func (a *App) cmdHistory() {
	if a.history == nil {
		a.printf("History is unavailable.")
		return
	}
	records, err := a.history.ListRecent(a.config.HistoryLimit)
	if err != nil {
		a.printf("Failed to load history: %v", err)
		return
	}
	if len(records) == 0 {
		a.printf("No completed sessions yet.")
		return
	}
	for _, record := range records {
		saved := "saved"
		if !record.Submitted {
			saved = "not saved"
		}
		a.printf("  %s  %-24s %d question(s), avg %d (%s)",
			record.CompletedAt.Format("2006-01-02 15:04"),
			record.QuestionSetName, record.TotalQuestions, record.AverageScore, saved)
	}
}

func (a *App) cmdExport() {
	if a.lastSummary == nil {
		a.printf("Nothing to export; finish a review session first.")
		return
	}
	if err := os.MkdirAll(a.config.ExportDir, 0755); err != nil {
		a.printf("Export failed: %v", err)
		return
	}
	path := filepath.Join(a.config.ExportDir,
		fmt.Sprintf("review-%s.xlsx", time.Now().Format("20060102-150405")))
	if err := excel.ExportSummary(*a.lastSummary, path); err != nil {
		a.printf("Export failed: %v", err)
		return
	}
	a.printf("Summary written to %s", path)
}

func (a *App) cmdRemind(ctx context.Context) {
	if a.scheduler == nil {
		a.printf("Reminders are not configured.")
		return
	}
	if err := a.scheduler.RunManualCheck(ctx); err != nil {
		a.printf("Reminder check failed: %v", err)
		return
	}
	a.printf("Reminder check done.")
}

func (a *App) printStatus() {
	state := a.sessions.Snapshot()
	switch {
	case !state.Initialized:
		a.printf("Session is still initializing.")
	case state.Authenticated:
		a.printf("Signed in as %s <%s>.", state.User.Name, state.User.Email)
	default:
		a.printf("Not signed in.")
	}
}

func (a *App) printHelp() {
	a.printf(`Commands:
  login <email> <password>   sign in
  logout                     sign out
  whoami                     show session state
  folders                    list folders
  sets <folder-id>           list question sets in a folder
  review <set-id>            start a review session
  chat <message>             ask the study assistant
  import <file> <folder-id>  bulk-load questions from a spreadsheet
  history                    show recent completed sessions
  export                     export the last session summary to Excel
  remind                     check for due reviews now
  quit                       leave`)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
