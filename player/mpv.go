package player

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV is a Player backed by an mpv process.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	loaded     chan struct{}
	loadedOnce sync.Once
	events     *EventListener
	mu         sync.Mutex
}

// NewMPV returns an mpv player that has not started yet.
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
		loaded: make(chan struct{}),
	}
}

// Play starts mpv on url and returns once its IPC socket accepts connections.
func (m *MPV) Play(ctx context.Context, rawURL, title string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Atsume, randomBytes))
	}

	m.cmd = exec.CommandContext(ctx, "mpv", mpvArgs(m.socketPath, target, sanitizeTitle(title))...)
	m.cmd.SysProcAttr = sysProcAttr()

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return m.listen()
}

// listen watches the IPC socket for the event marking the start of loading.
func (m *MPV) listen() error {
	m.events = NewEventListener(m.socketPath, func(event string, _ any) {
		if event == "file-loaded" {
			m.loadedOnce.Do(func() {
				log.Infof("mpv loaded %s", m.socketPath)
				close(m.loaded)
			})
		}
	})

	return m.events.Start()
}

// mpvArgs respects the user's mpv.conf: only the socket, title and target are passed.
func mpvArgs(socket, target, title string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socket),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		target,
	}
}

func (m *MPV) Loaded() <-chan struct{} {
	return m.loaded
}

func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Close asks mpv to quit and kills it if it does not within a few seconds.
func (m *MPV) Close() error {
	if m.events != nil {
		m.events.Stop()
	}

	if m.cmd == nil || m.cmd.Process == nil {
		return nil
	}

	select {
	case <-m.exited:
	default:
		_, _ = m.sendCommand([]any{"quit"})

		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(m.cmd)
		}
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// sanitizeMediaTarget rejects anything mpv could mistake for a flag.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
