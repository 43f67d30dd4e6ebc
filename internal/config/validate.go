package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/conn-castle/nodeup/internal/messages"
)

// Validate ensures the config is usable. source is used in error messages.
func (c *Config) Validate(source string) error {
	mirror := strings.TrimSpace(c.Node.Mirror)
	if mirror == "" {
		return fmt.Errorf(messages.ConfigMirrorRequiredFmt, source)
	}
	u, err := url.Parse(mirror)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf(messages.ConfigMirrorInvalidFmt, source, mirror)
	}

	d, err := time.ParseDuration(strings.TrimSpace(c.Download.Timeout))
	if err != nil || d <= 0 {
		return fmt.Errorf(messages.ConfigTimeoutInvalidFmt, source, c.Download.Timeout)
	}
	if c.Download.MaxBytes < 0 {
		return fmt.Errorf(messages.ConfigMaxBytesInvalidFmt, source, c.Download.MaxBytes)
	}
	return nil
}
