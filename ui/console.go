// Package ui renders chat traffic on the participant's terminal. It
// observes the session and displays lines, it never modifies session
// state.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gookit/color"
	"golang.org/x/term"

	"streamchat/contract"
	"streamchat/domain"
)

// Console interleaves incoming lines with the input prompt on a single
// terminal. Inbound and outbound loops share it, hence the lock.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	self    string
	colored bool
}

// NewConsole renders to out on behalf of self. Colors are enabled only
// when out is a real terminal, so piped output stays clean.
func NewConsole(out io.Writer, self string) *Console {
	c := &Console{out: out, self: self}
	if f, ok := out.(*os.File); ok {
		c.colored = term.IsTerminal(int(f.Fd()))
	}
	return c
}

// Prompt draws the input marker. The input loop draws it before every
// read, Display redraws it after interleaving a message.
func (c *Console) Prompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s: ", c.self)
}

// Display erases the pending prompt, prints the sender's line and
// draws a fresh prompt under it.
func (c *Console) Display(_ context.Context, msg domain.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sender := msg.Sender
	if c.colored {
		sender = color.New(color.FgCyan).Render(sender)
	}
	erase := strings.Repeat("\b", utf8.RuneCountInString(c.self)+2)
	_, err := fmt.Fprintf(c.out, "%s%s: %s\n\n%s: ", erase, sender, msg.Text, c.self)
	return err
}

var _ contract.DisplaySink = (*Console)(nil)
