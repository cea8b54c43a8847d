package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/simplesh/core/alias"
	"github.com/josephlewis42/simplesh/core/config"
	"github.com/josephlewis42/simplesh/core/history"
	"github.com/josephlewis42/simplesh/core/logger"
	"github.com/josephlewis42/simplesh/core/shell"
	"github.com/josephlewis42/simplesh/core/vos"
)

// recallPrefix starts a history recall invocation, e.g. !! or !3.
const recallPrefix = "!"

var (
	ErrInputTooLarge = errors.New("input too large")
	ErrInvalidRecall = errors.New("invalid history invocation")
	ErrTooManyArgs   = errors.New("too many arguments")
	ErrNotEnoughArgs = errors.New("not enough arguments")
	ErrNoAliasChosen = errors.New("no alias selected")

	// ErrExit is returned by a builtin to end the session.
	ErrExit = errors.New("exit")
)

// Outcome tells the read loop what to do after a command.
type Outcome int

const (
	// OutcomeContinue prompts for the next line.
	OutcomeContinue Outcome = iota
	// OutcomeExit ends the session.
	OutcomeExit
)

// LineReader supplies input lines to the shell.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// historySaver is implemented by line readers that keep their own editing
// history.
type historySaver interface {
	SaveHistory(content string) error
}

// Shell is a single interactive session. It owns all of the session's
// state, nothing is shared between shells.
type Shell struct {
	VirtualOS vos.VOS
	Config    *config.Configuration
	Aliases   *alias.Table
	History   *history.Store
	Parser    *shell.Parser
	Executor  *Executor
	Printer   *Printer
	Events    logger.EventRecorder
	// Logger receives diagnostics about the shell itself, such as event log
	// write failures.
	Logger *log.Logger

	lines   LineReader
	toClose listCloser

	startPath    string
	hasStartPath bool
	startDir     string
	historyPath  string
}

// NewShell creates a shell that reads lines from the terminal attached to
// virtualOS.
func NewShell(virtualOS vos.VOS, configuration *config.Configuration) (*Shell, error) {
	cfg := &readline.Config{
		Prompt:                 configuration.Prompt,
		HistoryLimit:           configuration.HistorySize,
		DisableAutoSaveHistory: true,
		Stdin:                  readline.NewCancelableStdin(virtualOS.Stdin()),
		Stdout:                 virtualOS.Stdout(),
		Stderr:                 virtualOS.Stderr(),
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return NewShellWithReader(virtualOS, configuration, rl), nil
}

// NewShellWithReader creates a shell that reads its input from lines.
func NewShellWithReader(virtualOS vos.VOS, configuration *config.Configuration, lines LineReader) *Shell {
	aliases := alias.NewTable(configuration.MaxAliases)

	parser := shell.NewParser(aliases)
	parser.MaxTokens = configuration.MaxTokens
	parser.MaxAliasDepth = configuration.MaxAliasDepth

	s := &Shell{
		VirtualOS: virtualOS,
		Config:    configuration,
		Aliases:   aliases,
		History:   history.New(configuration.HistorySize),
		Parser:    parser,
		Executor:  &Executor{OS: virtualOS},
		Printer:   NewPrinter(virtualOS, configuration.Color),
		Events:    logger.NopEventRecorder{},
		Logger:    log.New(virtualOS.Stderr(), "", 0),
		lines:     lines,
	}
	if lines != nil {
		s.toClose = append(s.toClose, lines)
	}

	return s
}

// Init remembers the starting environment, moves to the home directory and
// loads the persisted history.
func (s *Shell) Init() {
	s.startPath, s.hasStartPath = s.VirtualOS.LookupEnv(vos.EnvPath)
	s.Printer.Printf("Saved PATH: %s\n", s.startPath)

	if wd, err := s.VirtualOS.Getwd(); err == nil {
		s.startDir = wd
		s.Printer.Printf("Starting directory: %s\n", wd)
	} else {
		s.Printer.Error(fmt.Errorf("getting working directory: %w", err))
	}

	s.chdirHome()

	s.historyPath = s.resolveHistoryPath()
	existed, err := s.History.LoadFile(s.VirtualOS.Fs(), s.historyPath)
	switch {
	case err != nil:
		s.Printer.Error(fmt.Errorf("loading history: %w", err))
	case !existed:
		s.Printer.Printf("Creating new history file at %s\n", s.historyPath)
	}

	s.printWorkingDir()
	s.record(logger.EventSessionStart, logger.Fields{
		"search_path": s.startPath,
		"history":     s.History.Len(),
	})
}

// Run reads and executes lines until the session ends. A non-nil error
// means the session ended because of a fatal condition.
func (s *Shell) Run() error {
	for {
		s.lines.SetPrompt(s.Config.Prompt)
		line, err := s.lines.Readline()

		switch {
		case err == io.EOF:
			s.Printer.Println("Exit code received")
			return nil

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}

		outcome, err := s.Execute(line)
		if err != nil {
			return err
		}

		if outcome == OutcomeExit {
			s.Printer.Println("Exiting the Shell")
			return nil
		}
	}
}

// Execute runs a single input line.
func (s *Shell) Execute(line string) (Outcome, error) {
	if utf8.RuneCountInString(line) > s.Config.MaxLineLength {
		s.Printer.Error(ErrInputTooLarge)
		return OutcomeContinue, nil
	}

	tokens, err := s.Parser.Tokenize(line)
	if err != nil {
		s.invalidInvocation(line, err)
		return OutcomeContinue, nil
	}

	if len(tokens) == 0 {
		return OutcomeContinue, nil
	}

	if saver, ok := s.lines.(historySaver); ok {
		if err := saver.SaveHistory(line); err != nil {
			s.Printer.Error(fmt.Errorf("saving line to editor history: %w", err))
		}
	}

	// Recall invocations are never recorded, whether typed or produced by
	// an alias.
	if !isRecall(shell.Fields(line)) && !isRecall(tokens) {
		s.History.Append(line)
	}

	return s.Dispatch(tokens)
}

// Dispatch routes an expanded command to history recall, a builtin or an
// external program.
func (s *Shell) Dispatch(tokens []string) (Outcome, error) {
	switch {
	case len(tokens) == 0:
		return OutcomeContinue, nil

	case isRecall(tokens):
		return s.recall(tokens)
	}

	if builtin, ok := AllBuiltins[tokens[0]]; ok {
		s.record(logger.EventBuiltin, logger.Fields{"command": logger.Strings(tokens)})

		err := builtin.Main(s, tokens)
		switch {
		case errors.Is(err, ErrExit):
			return OutcomeExit, nil
		case err != nil:
			s.invalidInvocation(strings.Join(tokens, " "), err)
		}
		return OutcomeContinue, nil
	}

	return s.runExternal(tokens)
}

func (s *Shell) recall(tokens []string) (Outcome, error) {
	line, err := s.resolveRecall(tokens)
	if err != nil {
		s.invalidInvocation(strings.Join(tokens, " "), err)
		return OutcomeContinue, nil
	}

	recalled, err := s.Parser.Tokenize(line)
	switch {
	case err != nil:
		s.invalidInvocation(line, err)
		return OutcomeContinue, nil
	case len(recalled) == 0 || isRecall(recalled):
		s.invalidInvocation(line, ErrInvalidRecall)
		return OutcomeContinue, nil
	}

	s.record(logger.EventHistoryRecall, logger.Fields{
		"invocation": tokens[0],
		"line":       line,
	})

	return s.Dispatch(recalled)
}

// resolveRecall finds the history record named by a recall invocation.
func (s *Shell) resolveRecall(tokens []string) (string, error) {
	if len(tokens) > 1 {
		return "", fmt.Errorf("history: %w", ErrTooManyArgs)
	}

	if s.History.Len() == 0 {
		return "", history.ErrEmpty
	}

	selector := strings.TrimPrefix(tokens[0], recallPrefix)
	if selector == recallPrefix {
		return s.History.Last()
	}

	n, err := strconv.ParseUint(selector, 10, 64)
	if err != nil {
		return "", ErrInvalidRecall
	}

	if n > uint64(s.History.Len()) {
		return "", history.ErrOutOfBounds
	}

	return s.History.Get(int(n))
}

func (s *Shell) runExternal(argv []string) (Outcome, error) {
	result, err := s.Executor.Execute(argv)

	var execErr *ExecError
	switch {
	case errors.As(err, &execErr):
		s.Printer.Error(execErr)
		s.record(logger.EventUnknownCommand, logger.Fields{
			"command": logger.Strings(argv),
			"error":   execErr.Err.Error(),
		})
		return OutcomeContinue, nil

	case errors.Is(err, ErrSpawnContext):
		if s.Config.SpawnFailureFatal {
			return OutcomeExit, err
		}
		s.Printer.Error(err)
		return OutcomeContinue, nil

	case err != nil:
		s.Printer.Error(err)
		return OutcomeContinue, nil
	}

	s.record(logger.EventRunCommand, logger.Fields{
		"command":       logger.Strings(argv),
		"resolved_path": result.Path,
		"pid":           result.Pid,
		"exit_status":   result.Status,
	})

	return OutcomeContinue, nil
}

// Close restores the starting environment, persists the history and
// releases the session's resources.
func (s *Shell) Close() error {
	s.chdirHome()

	if s.historyPath != "" {
		if err := s.History.SaveFile(s.VirtualOS.Fs(), s.historyPath); err != nil {
			s.Printer.Error(fmt.Errorf("saving history: %w", err))
		}
	}

	if s.hasStartPath {
		if err := s.VirtualOS.Setenv(vos.EnvPath, s.startPath); err != nil {
			s.Printer.Error(fmt.Errorf("restoring PATH: %w", err))
		}
	}
	s.Printer.Printf("Restored PATH: %s\n", s.VirtualOS.Getenv(vos.EnvPath))

	if s.startDir != "" {
		if err := s.VirtualOS.Chdir(s.startDir); err != nil {
			s.Printer.Error(fmt.Errorf("restoring working directory: %w", err))
		}
	}
	s.printWorkingDir()

	s.record(logger.EventSessionEnd, logger.Fields{"history": s.History.Len()})

	return s.toClose.Close()
}

// AddCloser registers c to be closed with the shell.
func (s *Shell) AddCloser(c io.Closer) {
	s.toClose = append(s.toClose, c)
}

// resolveHistoryPath pins the history file to an absolute path so later
// directory changes don't move it.
func (s *Shell) resolveHistoryPath() string {
	if filepath.IsAbs(s.Config.HistoryFile) {
		return s.Config.HistoryFile
	}

	wd, err := s.VirtualOS.Getwd()
	if err != nil {
		return s.Config.HistoryFile
	}
	return filepath.Join(wd, s.Config.HistoryFile)
}

func (s *Shell) chdirHome() {
	home, err := s.VirtualOS.UserHomeDir()
	if err != nil {
		s.Printer.Error(err)
		return
	}

	if err := s.VirtualOS.Chdir(home); err != nil {
		s.Printer.Error(err)
	}
}

func (s *Shell) printWorkingDir() {
	wd, err := s.VirtualOS.Getwd()
	if err != nil {
		s.Printer.Error(fmt.Errorf("getting working directory: %w", err))
		return
	}
	s.Printer.Printf("Current working directory: %s\n", wd)
}

func (s *Shell) invalidInvocation(line string, err error) {
	s.Printer.Error(err)
	s.record(logger.EventInvalidInvocation, logger.Fields{
		"command": logger.Strings(shell.Fields(line)),
		"line":    line,
		"error":   err.Error(),
	})
}

func (s *Shell) record(eventType string, fields logger.Fields) {
	if err := s.Events.Record(eventType, fields); err != nil {
		s.Logger.Printf("recording %s event: %v", eventType, err)
	}
}

func isRecall(tokens []string) bool {
	return len(tokens) > 0 && strings.HasPrefix(tokens[0], recallPrefix)
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
