package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/inovacc/repodeck/internal/config"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// outputJSON writes data as indented JSON
func outputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(data)
}

// newLogger builds the command logger. JSON output or log.format=json selects
// the JSON handler; --verbose forces debug level.
func newLogger(w io.Writer, cfg config.LogConfig, verbose, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	if jsonOutput || cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// prompter reads answers from the command's input. One buffered reader is
// shared by every prompt so consecutive answers from a pipe are not lost.
type prompter struct {
	in  io.Reader
	out io.Writer
	r   *bufio.Reader
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out, r: bufio.NewReader(in)}
}

// confirm asks the user for confirmation and returns true if they confirm
// prompt should include the question (e.g., "Delete this repository? [y/N]: ")
func (p *prompter) confirm(prompt string) bool {
	response, err := p.line(prompt)
	if err != nil {
		return false
	}

	return response == "y" || response == "Y"
}

// line asks for a single line of input.
func (p *prompter) line(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)

	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// secret reads a value from the terminal without echoing. Non-terminal
// input is read as a plain line.
func (p *prompter) secret(prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(prompt)
	}

	_, _ = fmt.Fprint(p.out, prompt)

	secret, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(p.out)

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(secret)), nil
}

// optionalString returns the flag value only when it was set on the command
// line.
func optionalString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}

	v, _ := fs.GetString(name)

	return &v
}

// optionalBool returns the flag value only when it was set on the command
// line.
func optionalBool(fs *pflag.FlagSet, name string) *bool {
	if !fs.Changed(name) {
		return nil
	}

	v, _ := fs.GetBool(name)

	return &v
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(r[:maxLen])
	}

	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}

	return s + strings.Repeat(" ", length-n)
}
