// Package shared holds the context and helpers passed to all CLI commands.
package shared

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// BlogHome overrides the blog home directory.
	// When empty, resolution falls through to BLOG_HOME env var → persisted config → ~/.blogadmin.
	BlogHome string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// SetupLogging installs a text slog handler on w at the named level.
func SetupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// Confirm writes prompt and reads a y/yes answer from the command's input.
// Anything else, including EOF, is a no.
func Confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// ShortID returns the first 8 characters of id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
