// Package cli implements the interactive menu over the character store.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	service "github.com/okian/charcache/internal/app"
	"github.com/okian/charcache/internal/domain/model"
	"github.com/okian/charcache/pkg/logger"
)

// Backend is the sync and query surface the shell drives.
type Backend interface {
	Sync(ctx context.Context) (service.SyncReport, error)
	All(ctx context.Context) ([]model.Character, error)
	SearchByName(ctx context.Context, sub string) ([]model.Character, error)
	ByField(ctx context.Context, field model.Field, value string) ([]model.Character, error)
	Filter(ctx context.Context, opts model.QueryOptions) ([]model.Character, error)
	DistinctValues(ctx context.Context, field model.Field) ([]string, error)
}

const menu = `
==== Character Browser ====
1. Fetch & store characters from the API
2. Find character by name
3. Find characters by species
4. List characters by location
5. Print all characters
6. Filter characters by status and/or gender
7. Exit`

// Shell reads menu choices from in and writes results to out.
type Shell struct {
	backend Backend
	in      *bufio.Scanner
	out     io.Writer
	logger  logger.Logger
}

// Option applies a configuration option to the Shell.
type Option func(*Shell)

// WithLogger sets the logger used for operation failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewShell creates a shell over backend.
func NewShell(backend Backend, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		backend: backend,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the menu until the user exits, input ends or ctx is done.
// Operation failures are reported and do not end the loop.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, menu)
		choice, ok := s.prompt("Choose an option: ")
		if !ok {
			fmt.Fprintln(s.out)
			return nil
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = s.sync(ctx)
		case "2":
			err = s.findByName(ctx)
		case "3":
			err = s.pickAndList(ctx, model.FieldSpecies, "species")
		case "4":
			err = s.pickAndList(ctx, model.FieldLocation, "location")
		case "5":
			err = s.printAll(ctx)
		case "6":
			err = s.filterStatusGender(ctx)
		case "7":
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown option %q, choose 1-7.\n", strings.TrimSpace(choice))
			continue
		}
		s.report(ctx, choice, err)
	}
}

func (s *Shell) report(ctx context.Context, choice string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidSelection):
		fmt.Fprintf(s.out, "%v\n", err)
	case errors.Is(err, io.EOF):
	default:
		fmt.Fprintf(s.out, "Operation failed: %v\n", err)
		s.logger.Error(ctx, "shell operation failed", logger.String("option", strings.TrimSpace(choice)), logger.Error(err))
	}
}

// prompt writes label and reads one line. It reports false at end of input.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) sync(ctx context.Context) error {
	fmt.Fprintln(s.out, "Fetching characters...")
	report, err := s.backend.Sync(ctx)
	PrintReport(s.out, report)
	return err
}

func (s *Shell) findByName(ctx context.Context) error {
	text, ok := s.prompt("Enter a name (or part of it): ")
	if !ok {
		return io.EOF
	}
	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Fprintln(s.out, "Name must not be empty.")
		return nil
	}

	matches, err := s.backend.SearchByName(ctx, text)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintf(s.out, "No character matches %q.\n", text)
		return nil
	}

	labels := make([]string, len(matches))
	for i, c := range matches {
		labels[i] = fmt.Sprintf("%s (#%d)", c.Name, c.ID)
	}
	printOptions(s.out, labels)
	token, ok := s.prompt("Select a character by number: ")
	if !ok {
		return io.EOF
	}
	i, err := SelectIndex(len(matches), token)
	if err != nil {
		return err
	}
	printProfile(s.out, matches[i])
	return nil
}

func (s *Shell) pickAndList(ctx context.Context, field model.Field, label string) error {
	values, err := s.backend.DistinctValues(ctx, field)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		fmt.Fprintln(s.out, noData)
		return nil
	}
	printOptions(s.out, values)
	token, ok := s.prompt(fmt.Sprintf("Select a %s by number: ", label))
	if !ok {
		return io.EOF
	}
	value, err := Select(values, token)
	if err != nil {
		return err
	}
	chars, err := s.backend.ByField(ctx, field, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Characters with %s %q:\n", label, value)
	printCharacters(s.out, chars)
	return nil
}

func (s *Shell) printAll(ctx context.Context) error {
	chars, err := s.backend.All(ctx)
	if err != nil {
		return err
	}
	printCharacters(s.out, chars)
	return nil
}

func (s *Shell) filterStatusGender(ctx context.Context) error {
	status, err := s.optionalChoice(ctx, model.FieldStatus, "status")
	if err != nil {
		return err
	}
	gender, err := s.optionalChoice(ctx, model.FieldGender, "gender")
	if err != nil {
		return err
	}
	chars, err := s.backend.Filter(ctx, model.QueryOptions{Status: status, Gender: gender})
	if err != nil {
		return err
	}
	printCharacters(s.out, chars)
	return nil
}

// optionalChoice offers the distinct values of field; blank input skips it.
func (s *Shell) optionalChoice(ctx context.Context, field model.Field, label string) (string, error) {
	values, err := s.backend.DistinctValues(ctx, field)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	fmt.Fprintf(s.out, "Available %s values:\n", label)
	printOptions(s.out, values)
	token, ok := s.prompt(fmt.Sprintf("Select a %s by number (Enter to skip): ", label))
	if !ok {
		return "", io.EOF
	}
	v, _, err := SelectOptional(values, token)
	return v, err
}
