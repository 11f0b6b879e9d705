// Package server lets remote users curate maps over SSH. Every session
// gets a population of its own, driven by the terminal host.
package server

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/gliderlabs/ssh"

	"mapcurator/pkg/engine/input"
	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/renderer/tui"
)

// CuratorFactory builds the population for one session
type CuratorFactory func() (*curator.Curator, error)

// SSHServer wraps the SSH listener and hands each session a curator
type SSHServer struct {
	addr       string
	hostKey    string
	newCurator CuratorFactory
	sessions   atomic.Int64
}

// NewSSHServer creates a new SSH server bound to addr. An empty hostKey
// makes the server generate a throwaway key on start.
func NewSSHServer(addr, hostKey string, newCurator CuratorFactory) *SSHServer {
	return &SSHServer{addr: addr, hostKey: hostKey, newCurator: newCurator}
}

// Start listens for connections until the listener fails
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr:    s.addr,
		Handler: s.handleSession,
	}
	if s.hostKey != "" {
		if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
			return fmt.Errorf("set host key: %w", err)
		}
	}

	log.Printf("SSH server listening on %s", s.addr)
	return server.ListenAndServe()
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		sess.Exit(1)
		return
	}

	id := s.sessions.Add(1)
	user := sess.User()
	if user == "" {
		user = "anonymous"
	}
	log.Printf("session %d opened by %s (%dx%d)", id, user, ptyReq.Window.Width, ptyReq.Window.Height)
	defer log.Printf("session %d closed", id)

	win := newWindow(ptyReq.Window.Width, ptyReq.Window.Height)
	go func() {
		for w := range winCh {
			win.set(w.Width, w.Height)
		}
	}()

	cur, err := s.newCurator()
	if err != nil {
		log.Printf("session %d: %v", id, err)
		fmt.Fprintln(sess, err)
		sess.Exit(1)
		return
	}
	if err := Serve(sess, cur, win.size); err != nil {
		log.Printf("session %d: %v", id, err)
		sess.Exit(1)
		return
	}
	sess.Exit(0)
}

// Serve runs an interactive terminal host over rw until the user quits
// or the input ends
func Serve(rw io.ReadWriter, cur *curator.Curator, size func() (width, height int)) error {
	h := tui.NewHost(&crlfWriter{w: rw}, cur, false)
	h.SetTerminal(size)
	h.SetKeys(input.NewKeyReader(rw))
	h.Init()
	return h.Run()
}

// window holds the latest size reported by the client
type window struct {
	width, height atomic.Int32
}

func newWindow(width, height int) *window {
	w := &window{}
	w.set(width, height)
	return w
}

func (w *window) set(width, height int) {
	w.width.Store(int32(width))
	w.height.Store(int32(height))
}

func (w *window) size() (int, int) {
	return int(w.width.Load()), int(w.height.Load())
}

// crlfWriter turns bare line feeds into CR LF. A PTY with no line
// discipline on our side would otherwise stair-step every line.
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		return c.w.Write(p)
	}
	out := make([]byte, 0, len(p)+bytes.Count(p, []byte{'\n'}))
	for i, b := range p {
		if b == '\n' && (i == 0 || p[i-1] != '\r') {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
