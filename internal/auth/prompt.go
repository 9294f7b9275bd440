package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Credentials are the values posted to the login endpoint
type Credentials struct {
	Email    string
	Password string
}

// Prompter supplies login credentials
type Prompter interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// ConsolePrompter asks for credentials on the terminal. The password is read
// without echo when in is a terminal.
type ConsolePrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewConsolePrompter creates a prompter reading from in and writing prompts to out
func NewConsolePrompter(in *os.File, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// Credentials prompts for an email address and password
func (p *ConsolePrompter) Credentials(ctx context.Context) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	fmt.Fprint(p.out, "      Gig-o email: ")
	email, err := p.readLine()
	if err != nil {
		return Credentials{}, fmt.Errorf("reading email: %w", err)
	}

	fmt.Fprint(p.out, "   Gig-o password: ")
	password, err := p.readPassword()
	if err != nil {
		return Credentials{}, fmt.Errorf("reading password: %w", err)
	}

	return Credentials{Email: email, Password: password}, nil
}

func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *ConsolePrompter) readPassword() (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.readLine()
	}

	password, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
