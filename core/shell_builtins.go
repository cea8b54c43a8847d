package core

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/josephlewis42/simplesh/core/vos"
	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

// ShellBuiltin is a command that runs inside the shell. args[0] is the name
// the builtin was invoked with.
type ShellBuiltin interface {
	Main(s *Shell, args []string) error
}

// ShellBuiltinFunc adapts a function to the ShellBuiltin interface.
type ShellBuiltinFunc func(s *Shell, args []string) error

func (f ShellBuiltinFunc) Main(s *Shell, args []string) error {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames returns the names of all builtins, sorted.
func BuiltinNames() []string {
	var names []string
	for k := range AllBuiltins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// History prints the retained command lines.
func History(s *Shell, args []string) error {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	optErr := opts.Getopt(args, nil)
	if optErr != nil || *helpOpt {
		w := s.VirtualOS.Stderr()
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if optErr != nil {
			return fmt.Errorf("%s: %w", args[0], optErr)
		}
		return nil
	}

	if len(opts.Args()) > 0 {
		return fmt.Errorf("%s: %w", args[0], ErrTooManyArgs)
	}

	if *clear {
		s.History.Clear()
		return nil
	}

	for i, line := range s.History.List() {
		s.Printer.Printf("[%d]> %s\n", i+1, line)
	}
	return nil
}

// GetPath prints the search path.
func GetPath(s *Shell, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%s: %w", args[0], ErrTooManyArgs)
	}

	s.Printer.Println(s.VirtualOS.Getenv(vos.EnvPath))
	return nil
}

// SetPath replaces the search path.
func SetPath(s *Shell, args []string) error {
	switch len(args) {
	case 1:
		return fmt.Errorf("%s: %w", args[0], ErrNotEnoughArgs)
	case 2:
		if err := s.VirtualOS.Setenv(vos.EnvPath, args[1]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	default:
		return fmt.Errorf("%s: %w", args[0], ErrTooManyArgs)
	}
}

// Pwd prints the working directory.
func Pwd(s *Shell, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%s: %w", args[0], ErrTooManyArgs)
	}

	wd, err := s.VirtualOS.Getwd()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	s.Printer.Println(wd)
	return nil
}

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) error {
	switch len(args) {
	case 1:
		home, err := s.VirtualOS.UserHomeDir()
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := s.VirtualOS.Chdir(args[1]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
	default:
		return fmt.Errorf("%s: %w", args[0], ErrTooManyArgs)
	}

	return Pwd(s, args[:1])
}

// Alias lists aliases when called without arguments, otherwise it defines
// args[1] as the rest of the line.
func Alias(s *Shell, args []string) error {
	if len(args) == 1 {
		entries, err := s.Aliases.List()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(s.Printer.Stdout(), 8, 8, 2, ' ', 0)
		defer tw.Flush()

		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Expansion)
		}
		return nil
	}

	overwritten, err := s.Aliases.Define(args[1], args[2:])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if overwritten {
		s.Printer.Warn("overwriting existing alias %q", args[1])
	}
	return nil
}

// Unalias removes a single alias.
func Unalias(s *Shell, args []string) error {
	switch len(args) {
	case 1:
		return fmt.Errorf("%s: %w", args[0], ErrNoAliasChosen)
	case 2:
		if err := s.Aliases.Remove(args[1]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	default:
		return fmt.Errorf("%s: %w", args[0], ErrTooManyArgs)
	}
}

// Exit quits the shell
func Exit(s *Shell, args []string) error {
	return ErrExit
}

// Help lists the builtins.
func Help(s *Shell, args []string) error {
	s.Printer.Println("These shell commands are defined internally.")
	s.Printer.Println("Everything else is run from PATH.")
	s.Printer.Println()
	s.Printer.Println("Builtins:")
	s.Printer.Println()

	for _, name := range BuiltinNames() {
		s.Printer.Println(name)
	}
	s.Printer.Println("!! and !<n> run a command from history")

	return nil
}

func init() {
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["getpath"] = ShellBuiltinFunc(GetPath)
	AllBuiltins["setpath"] = ShellBuiltinFunc(SetPath)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["alias"] = ShellBuiltinFunc(Alias)
	AllBuiltins["unalias"] = ShellBuiltinFunc(Unalias)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
