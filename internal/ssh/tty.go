// Package ssh adapts gliderlabs/ssh sessions to tcell terminals.
package ssh

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// ErrNoPTY is returned for sessions opened without a pseudo-terminal.
var ErrNoPTY = errors.New("session has no pty")

// Tty implements tcell.Tty over one SSH session, so every client gets its
// own screen.
type Tty struct {
	session gossh.Session
	term    string
	winCh   <-chan gossh.Window

	mu     sync.Mutex
	window gossh.Window
	cb     func() // resize callback registered by tcell
	once   sync.Once
}

// NewTty wraps s. It fails when the client did not request a pty.
func NewTty(s gossh.Session) (*Tty, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, ErrNoPTY
	}
	return &Tty{session: s, term: pty.Term, window: pty.Window, winCh: winCh}, nil
}

// Term is the TERM value the client sent with its pty request.
func (t *Tty) Term() string { return t.term }

// Read reads keyboard input from the session.
func (t *Tty) Read(b []byte) (int, error) { return t.session.Read(b) }

// Write sends rendered output to the session.
func (t *Tty) Write(b []byte) (int, error) { return t.session.Write(b) }

// Close closes the SSH channel.
func (t *Tty) Close() error { return t.session.Close() }

// Start is a no-op: the channel is already open.
func (t *Tty) Start() error { return nil }

// Stop is a no-op: the server handler owns the channel.
func (t *Tty) Stop() error { return nil }

// Drain is a no-op: SSH writes are not buffered here.
func (t *Tty) Drain() error { return nil }

// WindowSize returns the current terminal dimensions.
func (t *Tty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers cb for window changes. The first call starts the
// goroutine that drains the window channel for the life of the session;
// later calls only replace the callback.
func (t *Tty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.cb = cb
	t.mu.Unlock()

	t.once.Do(func() {
		go func() {
			for win := range t.winCh {
				t.mu.Lock()
				t.window = win
				fn := t.cb
				t.mu.Unlock()
				if fn != nil {
					fn()
				}
			}
		}()
	})
}
