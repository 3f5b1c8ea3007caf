package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"flicker/internal/domain"
)

// MPVEngine launches mpv with an IPC control socket. Each Start gets its
// own randomized socket path in a private temp dir.
type MPVEngine struct {
	command string   // player binary, default "mpv"
	args    []string // extra arguments from config
	logger  *slog.Logger
}

// NewMPVEngine creates an engine for the configured player command.
func NewMPVEngine(command string, args []string, logger *slog.Logger) *MPVEngine {
	if command == "" {
		command = "mpv"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MPVEngine{command: command, args: args, logger: logger}
}

// Available checks if the player binary exists in PATH.
func (e *MPVEngine) Available() bool {
	_, err := exec.LookPath(e.command)
	return err == nil
}

// Start launches the player process. The instance is not attached until
// the IPC socket accepts connections; the controller waits for that.
func (e *MPVEngine) Start(spec domain.MediaSpec) (Instance, error) {
	socketDir, err := os.MkdirTemp("", "flicker-mpv-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir for mpv socket: %w", err)
	}
	socketPath := filepath.Join(socketDir, "socket")

	// Explicit argument slice, no shell interpretation
	args := []string{
		spec.Locator,
		"--force-media-title=" + spec.Title,
		"--input-ipc-server=" + socketPath,
		"--really-quiet",
	}
	args = append(args, e.args...)

	cmd := exec.Command(e.command, args...)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(socketDir)
		return nil, fmt.Errorf("starting %s: %w", e.command, err)
	}

	inst := &mpvInstance{
		cmd:        cmd,
		socketDir:  socketDir,
		socketPath: socketPath,
		logger:     e.logger,
	}

	// Reap the process so disposal never leaves a zombie
	go func() {
		err := cmd.Wait()
		inst.mu.Lock()
		inst.exited = true
		inst.mu.Unlock()
		e.logger.Debug("player process exited", "error", err)
	}()

	return inst, nil
}

// mpvInstance is one live mpv process plus its IPC socket.
type mpvInstance struct {
	cmd        *exec.Cmd
	socketDir  string
	socketPath string
	logger     *slog.Logger

	mu       sync.Mutex
	conn     net.Conn
	exited   bool
	disposed bool
}

// Attached reports whether the IPC socket accepts connections. The first
// successful dial is kept for later commands and event logging.
func (i *mpvInstance) Attached() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.conn != nil {
		return true
	}
	if i.disposed || i.exited {
		return false
	}
	conn, err := net.Dial("unix", i.socketPath)
	if err != nil {
		return false
	}
	i.conn = conn
	go i.logEvents(conn)
	return true
}

// Pause halts playback via IPC without tearing down the process.
func (i *mpvInstance) Pause() error {
	return i.command("set_property", "pause", true)
}

// Dispose asks mpv to quit, falls back to killing the process, and removes
// the socket temp dir. Safe on a never-attached instance.
func (i *mpvInstance) Dispose() error {
	i.mu.Lock()
	if i.disposed {
		i.mu.Unlock()
		return nil
	}
	i.disposed = true
	conn := i.conn
	i.conn = nil
	exited := i.exited
	i.mu.Unlock()

	if conn != nil {
		i.writeCommand(conn, "quit")
		conn.Close()
	} else if !exited && i.cmd.Process != nil {
		if err := i.cmd.Process.Kill(); err != nil {
			i.logger.Debug("kill after failed attach", "error", err)
		}
	}

	return os.RemoveAll(i.socketDir)
}

// command sends a single IPC command on the attached socket.
func (i *mpvInstance) command(parts ...any) error {
	i.mu.Lock()
	conn := i.conn
	i.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("player control socket not attached")
	}
	return i.writeCommand(conn, parts...)
}

func (i *mpvInstance) writeCommand(conn net.Conn, parts ...any) error {
	payload := map[string]any{"command": parts}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("writing player command: %w", err)
	}
	return nil
}

// logEvents drains lifecycle notifications from the IPC socket. Events
// feed logging only, never state transitions.
func (i *mpvInstance) logEvents(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var event struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if event.Event != "" {
			i.logger.Debug("player event", "event", event.Event)
		}
	}
}
