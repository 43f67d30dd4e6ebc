// Package pathenv publishes an installed executable directory on the process path.
package pathenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/nodeup/internal/messages"
)

// EnvGitHubPath names the file that CI runners read to extend PATH for later steps.
const EnvGitHubPath = "GITHUB_PATH"

// System abstracts the environment operations Register needs.
type System interface {
	Getenv(key string) string
	Setenv(key string, value string) error
	AppendFile(name string, data []byte) error
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Setenv sets the environment variable named by key.
func (RealSystem) Setenv(key string, value string) error {
	return os.Setenv(key, value)
}

// AppendFile appends data to name, creating it when missing.
func (RealSystem) AppendFile(name string, data []byte) (err error) {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf(messages.PathEnvOpenGitHubFmt, name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf(messages.PathEnvWriteGitHubFmt, name, err)
	}
	return nil
}

// Register prepends dir to PATH for this process and appends it to $GITHUB_PATH when
// that variable is set. A dir already at the front of PATH is not added twice.
func Register(sys System, dir string) error {
	if sys == nil {
		return errors.New(messages.PathEnvSystemRequired)
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return errors.New(messages.PathEnvDirRequired)
	}

	current := sys.Getenv("PATH")
	if first, _, _ := strings.Cut(current, string(os.PathListSeparator)); filepath.Clean(first) != filepath.Clean(dir) {
		next := dir
		if current != "" {
			next = dir + string(os.PathListSeparator) + current
		}
		if err := sys.Setenv("PATH", next); err != nil {
			return fmt.Errorf(messages.PathEnvSetFmt, err)
		}
	}

	if ghPath := strings.TrimSpace(sys.Getenv(EnvGitHubPath)); ghPath != "" {
		if err := sys.AppendFile(ghPath, []byte(dir+"\n")); err != nil {
			return err
		}
	}
	return nil
}
