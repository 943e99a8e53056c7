// Package notify shows operation outcomes on the console and asks for
// confirmation before destructive actions.
package notify

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Console writes toasts and alerts to out and reads y/N answers from in.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	in      *bufio.Reader
	autoYes bool
	logger  *slog.Logger
}

func NewConsole(out io.Writer, in io.Reader, autoYes bool, logger *slog.Logger) *Console {
	return &Console{out: out, in: bufio.NewReader(in), autoYes: autoYes, logger: logger}
}

// Toast is a non-blocking notice.
func (c *Console) Toast(msg string) {
	c.print("", msg)
	c.logger.Info("toast", "message", msg)
}

// Alert is a notice the user should not miss, used for failed destructive
// actions.
func (c *Console) Alert(msg string) {
	c.print("! ", msg)
	c.logger.Warn("alert", "message", msg)
}

// Confirm asks prompt and reports whether the user answered yes. With
// auto-yes set it answers without reading. EOF counts as no.
func (c *Console) Confirm(prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autoYes {
		fmt.Fprintf(c.out, "%s [y/N] y\n", prompt)
		return true
	}
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *Console) print(prefix, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, prefix+msg)
}
