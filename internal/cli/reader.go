package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader provides context-aware input reading that can be interrupted.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadString reads a string until delimiter, respecting context cancellation.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The reading goroutine finishes on its own once input arrives.
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads a line, respecting context cancellation. A final line
// without a trailing newline is returned as is.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret asks for a secret on prompt. When in is an interactive
// terminal the input is not echoed; otherwise a line is read from in.
func PromptSecret(ctx context.Context, in io.Reader, out io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(out, FormatPrompt(prompt)); err != nil {
		return "", err
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		type result struct {
			err   error
			value []byte
		}
		resultCh := make(chan result, 1)
		go func() {
			value, err := term.ReadPassword(int(f.Fd()))
			resultCh <- result{value: value, err: err}
		}()

		select {
		case <-ctx.Done():
			return "", ErrInputCancelled
		case res := <-resultCh:
			_, _ = fmt.Fprintln(out)
			if res.err != nil {
				return "", fmt.Errorf("failed to read %s: %w", prompt, res.err)
			}
			return strings.TrimSpace(string(res.value)), nil
		}
	}

	return NewNonBlockingReader(in).ReadLine(ctx)
}
