package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх потоков процесса.
// Пароль читается без эха, если fd является терминалом.
type Stdio struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewStdio создает IO для os.Stdin и os.Stdout
func NewStdio() IO {
	return New(os.Stdin, os.Stdout, int(os.Stdin.Fd()))
}

// New создает IO с заданными потоками. fd используется для чтения пароля.
func New(in io.Reader, out io.Writer, fd int) *Stdio {
	return &Stdio{in: bufio.NewReader(in), out: out, fd: fd}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if !term.IsTerminal(s.fd) {
		// пароль из pipe, например в скриптах
		return s.readLine()
	}
	pwBytes, err := term.ReadPassword(s.fd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
