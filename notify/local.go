package notify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

// Console writes each message on its own line.
type Console struct {
	W io.Writer
}

func (c Console) Notify(_ context.Context, message string) error {
	_, err := fmt.Fprintln(c.W, message)
	return err
}

// Log records each message as an Info entry.
type Log struct {
	Logger *logrus.Logger
}

func (l Log) Notify(_ context.Context, message string) error {
	l.Logger.WithField("sink", "log").Info(message)
	return nil
}

const promptSuffix = "[press enter to continue] "

// Prompt prints the message and blocks until the user acknowledges it with a
// newline (or In reaches EOF). Anything else waiting on the same goroutine is
// stalled meanwhile.
type Prompt struct {
	out io.Writer
	mu  sync.Mutex
	in  *bufio.Reader
}

// NewPrompt returns a Prompt writing to out and waiting on in.
func NewPrompt(out io.Writer, in io.Reader) *Prompt {
	return &Prompt{out: out, in: bufio.NewReader(in)}
}

func (p *Prompt) Notify(_ context.Context, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintf(p.out, "%s\n%s", message, promptSuffix); err != nil {
		return err
	}
	if _, err := p.in.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("wait for acknowledgement: %w", err)
	}
	return nil
}

// alert is swapped out in tests; beeep needs a desktop session.
var alert = func(title, message string) error {
	return beeep.Alert(title, message, "")
}

// Desktop raises an OS notification with sound.
type Desktop struct {
	Title string
}

func (d Desktop) Notify(_ context.Context, message string) error {
	if err := alert(d.Title, message); err != nil {
		return fmt.Errorf("desktop alert: %w", err)
	}
	return nil
}
