package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrEmptyPassword = errors.New("empty password")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// passwordSource reads secrets either line by line from in or from the
// terminal without echo.
type passwordSource struct {
	fromStdin bool
	in        *bufio.Reader
	w         io.Writer
}

func newPasswordSource(fromStdin bool, in io.Reader, w io.Writer) passwordSource {
	return passwordSource{fromStdin: fromStdin, in: bufio.NewReader(in), w: w}
}

// read returns the next secret; an empty one is ErrEmptyPassword.
func (p passwordSource) read(prompt string) (string, error) {
	pw, err := p.next(prompt)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", ErrEmptyPassword
	}
	return pw, nil
}

// optional returns the next secret, or nil when it is empty or stdin is
// exhausted.
func (p passwordSource) optional(prompt string) (*string, error) {
	pw, err := p.next(prompt)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil || pw == "" {
		return nil, err
	}
	return &pw, nil
}

func (p passwordSource) next(prompt string) (string, error) {
	if p.fromStdin {
		line, err := readLine(p.in)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(prompt), err)
		}
		return line, nil
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	if _, err := fmt.Fprintf(p.w, "%s: ", prompt); err != nil {
		return "", err
	}
	b, err := readPassword(fd)
	fmt.Fprintln(p.w)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(prompt), err)
	}
	return string(b), nil
}

// readLine returns one line with the line ending trimmed. A final line
// without a newline is returned as is.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readInput returns the argument when given, or all of in otherwise.
func readInput(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
