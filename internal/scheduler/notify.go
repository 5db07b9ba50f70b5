package scheduler

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// DesktopNotifier shells out to the host's notification command. It keeps
// the shared channel's configured sound; EnsureChannel replaces it, since
// the sound of an existing channel cannot be edited in place on platforms
// with that restriction.
type DesktopNotifier struct {
	mu       sync.Mutex
	soundURI string
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

func (n *DesktopNotifier) EnsureChannel(soundURI string) error {
	n.mu.Lock()
	n.soundURI = soundURI
	n.mu.Unlock()
	return nil
}

func (n *DesktopNotifier) Show(id int64, title, body, soundURI string) error {
	if soundURI == "" {
		n.mu.Lock()
		soundURI = n.soundURI
		n.mu.Unlock()
	}
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(body), escapeAppleScript(title))
		if soundURI != "" {
			script += fmt.Sprintf(` sound name "%s"`, escapeAppleScript(soundURI))
		}
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// NoopNotifier discards notifications; used when desktop notifications are
// disabled and in tests.
type NoopNotifier struct{}

func (NoopNotifier) Show(id int64, title, body, soundURI string) error { return nil }
func (NoopNotifier) EnsureChannel(soundURI string) error               { return nil }

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
