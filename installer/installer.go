package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ernesto27/go-nip/args"
)

// Delegate performs the real installation. It reports the child's exit status
// and leaves process lifetime to the caller.
type Delegate interface {
	Execute(ctx context.Context, argv []string) (int, error)
}

// Invocation is a resolved command line for a package manager.
type Invocation struct {
	Bin  string
	Args []string
}

func (i Invocation) String() string {
	s := i.Bin
	for _, a := range i.Args {
		s += " " + a
	}
	return s
}

var addCommands = map[string]string{
	"npm":  "i",
	"yarn": "add",
	"pnpm": "add",
	"bun":  "add",
	"deno": "add",
}

var installCommands = map[string]string{
	"npm":  "i",
	"yarn": "install",
	"pnpm": "i",
	"bun":  "install",
	"deno": "install",
}

// Resolve maps an install-style argument list onto agent's own command:
// "add" when package names are present, a plain install otherwise.
// argv is copied, never modified.
func Resolve(agent string, argv []string) Invocation {
	if _, ok := installCommands[agent]; !ok {
		agent = "pnpm"
	}

	sub := installCommands[agent]
	if len(args.Parse(argv).Names) > 0 {
		sub = addCommands[agent]
	}

	out := make([]string, 0, len(argv)+1)
	out = append(out, sub)
	for i, a := range argv {
		if a == "--" {
			out = append(out, argv[i:]...)
			break
		}
		// -d would mean --loglevel info to npm
		if a == "-d" || a == "--dev" {
			a = "-D"
		}
		out = append(out, a)
	}

	return Invocation{Bin: agent, Args: out}
}

// ExecDelegate runs the package manager as a child process.
type ExecDelegate struct {
	Agent  string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecDelegate(agent, dir string) *ExecDelegate {
	return &ExecDelegate{
		Agent:  agent,
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (d *ExecDelegate) Execute(ctx context.Context, argv []string) (int, error) {
	return d.run(ctx, Resolve(d.Agent, argv))
}

func (d *ExecDelegate) run(ctx context.Context, inv Invocation) (int, error) {
	cmd := exec.CommandContext(ctx, inv.Bin, inv.Args...)
	cmd.Dir = d.Dir
	cmd.Stdin = d.Stdin
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("failed to run %s: %w", inv, err)
	}
	return 0, nil
}
