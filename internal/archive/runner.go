package archive

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// RunResult captures the output of an external command.
type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, command string, args []string, stdout io.Writer) (RunResult, error)
}

// CmdRunner runs commands with os/exec.
type CmdRunner struct{}

// Run executes command, mirroring stdout to the given writer when non-nil.
func (CmdRunner) Run(ctx context.Context, command string, args []string, stdout io.Writer) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	stdoutWriter := io.Writer(&stdoutBuf)
	if stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, stdout)
	}
	cmd.Stdout = stdoutWriter
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	return RunResult{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}, err
}

var _ Runner = CmdRunner{}
