// Package input contains readers that get REPL command lines from a terminal
// or any other source of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ContinuationMarker is the suffix that joins a line with the one after it, so
// long grammar rules can be typed across several lines.
const ContinuationMarker = "\\"

// DirectCommandReader implements command.Reader and reads commands from any
// generic input stream directly. It can be used generically with any io.Reader
// but does not sanitize the input of control and escape sequences.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveCommandReader implements command.Reader and reads commands from
// stdin using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences and enables the use of
// command history. This should in general probably only be used when directly
// connecting to a TTY for input.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectCommandReader that reads from r through
// a buffer.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveCommandReader and initializes
// readline. If historyFile is not empty, command history is kept there between
// runs. The returned InteractiveCommandReader must have Close() called on it
// before disposal to properly teardown readline resources.
func NewInteractiveReader(prompt string, historyFile string) (*InteractiveCommandReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "QUIT",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{
		rl:     rl,
		prompt: prompt,
	}, nil
}

// Close cleans up resources associated with the DirectCommandReader. It does
// nothing but is there so callers can treat every reader the same.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveCommandReader.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next command from the stream. The returned string will
// only be empty if there is an error reading input, otherwise this function is
// blocked on until a line containing non-space characters is read. Lines that
// end in ContinuationMarker are joined with the next one by a single space.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	return readJoined(func() (string, error) {
		line, err := dcr.r.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		return line, err
	}, dcr.blanksAllowed)
}

// ReadCommand reads the next command from stdin. It behaves the same as
// [DirectCommandReader.ReadCommand], and while a continued command is being
// read the prompt is replaced with one that shows this.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	continuing := false
	defer icr.rl.SetPrompt(icr.prompt)

	return readJoined(func() (string, error) {
		if continuing {
			icr.rl.SetPrompt(strings.Repeat(".", len(strings.TrimSpace(icr.prompt))) + " ")
		}
		continuing = true

		line, err := icr.rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		if err == io.EOF && line != "" {
			err = nil
		}
		return line, err
	}, icr.blanksAllowed)
}

// readJoined calls next until it has a complete non-blank command, joining
// continued lines.
func readJoined(next func() (string, error), blanksAllowed bool) (string, error) {
	var parts []string

	for {
		line, err := next()
		if err != nil {
			if err == io.EOF && len(parts) > 0 {
				return strings.Join(parts, " "), nil
			}
			return "", err
		}

		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, ContinuationMarker) {
			line = strings.TrimSpace(strings.TrimSuffix(line, ContinuationMarker))
			if line != "" {
				parts = append(parts, line)
			}
			continue
		}

		if line != "" {
			parts = append(parts, line)
		}

		if len(parts) > 0 || blanksAllowed {
			return strings.Join(parts, " "), nil
		}
	}
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (dcr *DirectCommandReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (icr *InteractiveCommandReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.prompt = p
	icr.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (icr *InteractiveCommandReader) GetPrompt() string {
	return icr.prompt
}
