// Package sshserve serves the gallery viewer to remote terminals over SSH.
// Every session gets its own bubbletea program, carousel and color profile.
package sshserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gliderssh "github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/ui"
)

// Session is what a model factory learns about the remote terminal.
type Session struct {
	ID   string
	User string
	// Args is the command line the client asked for, if any.
	Args []string
	// Theme renders with the client's color profile.
	Theme ui.Theme
	// Clipboard copies through the client terminal with OSC 52.
	Clipboard func(string) error
}

// ModelFactory builds the program for one session. The context ends when
// the session does.
type ModelFactory func(ctx context.Context, sess Session) (tea.Model, error)

// Server exposes the viewer over SSH
type Server struct {
	Addr        string
	HostKeyPath string
	// Listener overrides Addr, mainly for tests.
	Listener net.Listener
	NewModel ModelFactory

	logger pslog.Logger
}

// ListenAndServe runs the server until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.NewModel == nil {
		return errors.New("ssh server needs a model factory")
	}
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}
	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:    s.Addr,
		Handler: s.handleSession,
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("ssh server listening", "addr", s.Addr)

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleSession(sess gliderssh.Session) {
	id := sess.Context().SessionID()
	if id == "" {
		id = uuid.NewString()
	}
	log := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String(), "ssh_session", shortID(id))

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "gv needs a terminal, try ssh -t\n")
		_ = sess.Exit(1)
		return
	}

	profile := colorProfile(pty.Term, sess.Environ())
	renderer := lipgloss.NewRenderer(sess, termenv.WithProfile(profile))
	renderer.SetHasDarkBackground(true)
	out := termenv.NewOutput(sess, termenv.WithProfile(profile))

	ctx, cancel := context.WithCancel(pslog.ContextWithLogger(sess.Context(), log))
	defer cancel()

	model, err := s.NewModel(ctx, Session{
		ID:    id,
		User:  sess.User(),
		Args:  sess.Command(),
		Theme: ui.DefaultTheme(renderer),
		Clipboard: func(text string) error {
			out.Copy(text)
			return nil
		},
	})
	if err != nil {
		log.Warn("ssh session rejected", "err", err)
		_, _ = fmt.Fprintf(sess, "gv: %v\n", err)
		_ = sess.Exit(1)
		return
	}

	log.Info("ssh session opened", "term", pty.Term, "profile", profileName(profile))
	p := tea.NewProgram(model,
		tea.WithInput(sess),
		tea.WithOutput(sess),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	go func() {
		p.Send(tea.WindowSizeMsg{Width: pty.Window.Width, Height: pty.Window.Height})
		for {
			select {
			case <-ctx.Done():
				return
			case w, ok := <-winCh:
				if !ok {
					return
				}
				p.Send(tea.WindowSizeMsg{Width: w.Width, Height: w.Height})
			}
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Warn("ssh program failed", "err", err)
	}
	log.Info("ssh session closed")
	_ = sess.Exit(0)
}

// colorProfile guesses what the client terminal can show from TERM and
// COLORTERM.
func colorProfile(term string, environ []string) termenv.Profile {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == "COLORTERM" {
			if v == "truecolor" || v == "24bit" {
				return termenv.TrueColor
			}
		}
	}
	switch {
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "direct") || strings.Contains(term, "truecolor"):
		return termenv.TrueColor
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
