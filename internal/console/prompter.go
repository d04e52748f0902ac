// Package console reads line-oriented answers to prompts.
//
// Every read consumes exactly one line. For numeric prompts only the first
// whitespace-separated token is parsed and the rest of the line is dropped,
// so a bad answer never leaks into the next prompt.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned when an answer does not parse as the requested number type.
var ErrInvalidNumber = errors.New("invalid number")

// Prompter writes prompts to out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Out returns the writer prompts and results are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Printf writes formatted output.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes a line of output.
func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// ReadLine prints prompt and returns the next line without its line ending.
// It returns io.EOF only when input is exhausted before any character is read.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadInt prints prompt and parses the first token of the answer as an integer.
func (p *Prompter) ReadInt(prompt string) (int64, error) {
	token, err := p.readToken(prompt)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidNumber, token)
	}
	return n, nil
}

// ReadFloat prints prompt and parses the first token of the answer as a finite float.
func (p *Prompter) ReadFloat(prompt string) (float64, error) {
	token, err := p.readToken(prompt)
	if err != nil {
		return 0, err
	}

	f, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidNumber, token)
	}
	return f, nil
}

func (p *Prompter) readToken(prompt string) (string, error) {
	line, err := p.ReadLine(prompt)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrInvalidNumber)
	}
	return fields[0], nil
}
