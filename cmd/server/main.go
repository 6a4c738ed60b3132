// scriptbridge-server serves the scripting sandbox over SSH. Every
// connection gets its own engine, Lua state and scene. Build:
//
//	go build -o scriptbridge-server ./cmd/server
//
// Usage:
//
//	./scriptbridge-server [-port 2222] [-key server_host_key] [-config sandbox.yaml]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"scriptbridge/assets"
	"scriptbridge/internal/config"
	"scriptbridge/internal/game"
	internalssh "scriptbridge/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"github.com/rs/zerolog"
	xssh "golang.org/x/crypto/ssh"
)

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	cfgFile := flag.String("config", "", "YAML sandbox configuration")
	maxSessions := flag.Int("max-sessions", 8, "Maximum concurrent sessions")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.Load(*cfgFile); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}
	log = log.Level(cfg.ZerologLevel())

	signer, err := loadOrCreateHostKey(*keyFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("host key")
	}
	h := newHub(cfg, *maxSessions, log)

	srv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: h.handleSession,
		// No authentication: every session gets its own engine and Lua state.
		PtyCallback: func(gossh.Context, gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{signer},
	}

	log.Info().Int("port", *port).Msg("scriptbridge SSH server listening")
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}

// ─── hub ────────────────────────────────────────────────────────────────────

// hub runs one sandbox per SSH session and caps how many run at once.
type hub struct {
	cfg   config.Config
	slots chan struct{}
	log   zerolog.Logger
}

func newHub(cfg config.Config, limit int, log zerolog.Logger) *hub {
	return &hub{cfg: cfg, slots: make(chan struct{}, limit), log: log}
}

// acquire takes a session slot without waiting. The returned func frees it.
func (h *hub) acquire() (release func(), ok bool) {
	select {
	case h.slots <- struct{}{}:
		return func() { <-h.slots }, true
	default:
		return nil, false
	}
}

// allowedTerms lists the terminal types a client may ask for.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

const fallbackTerm = "xterm-256color"

// resolveTerm keeps terminfo lookups to known names.
func resolveTerm(term string) string {
	if allowedTerms[term] {
		return term
	}
	return fallbackTerm
}

// maxNameBytes bounds user names in logs.
const maxNameBytes = 16

// sanitizeName strips control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) || r == utf8.RuneError {
			continue
		}
		if b.Len()+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// termMu serialises screen creation: tcell reads TERM from the process
// environment.
var termMu sync.Mutex

// handleSession is the gliderlabs SSH handler for one connection. It blocks
// for the duration of the connection so the SSH session stays open.
func (h *hub) handleSession(s gossh.Session) {
	log := h.log.With().Str("user", sanitizeName(s.User())).
		Str("remote", s.RemoteAddr().String()).Logger()

	release, ok := h.acquire()
	if !ok {
		fmt.Fprintln(s, "The sandbox is full, try again later.")
		log.Warn().Msg("rejected: no free session slot")
		return
	}
	defer release()

	tty, err := internalssh.NewTty(s)
	if err != nil {
		fmt.Fprintln(s, "The sandbox requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}
	term := resolveTerm(tty.Term())

	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("terminfo screen")
		fmt.Fprintln(s, "Could not set up your terminal.")
		return
	}
	if err := screen.Init(); err != nil {
		log.Error().Err(err).Msg("screen init")
		fmt.Fprintln(s, "Could not set up your terminal.")
		return
	}
	defer screen.Fini()

	sess, err := game.NewSession(screen, game.Options{
		Config:    h.cfg,
		Scenes:    assets.Scenes(),
		ScenePath: assets.DefaultScene,
		Scripts:   assets.Scripts(),
		Logger:    log,
	})
	if err != nil {
		log.Error().Err(err).Msg("start session")
		return
	}
	log.Info().Msg("session started")
	if err := sess.Run(s.Context()); err != nil {
		log.Info().Err(err).Msg("session ended")
	}
	st := sess.Log()
	log.Info().Uint64("ticks", st.Ticks).Int("peak_entities", st.PeakEntities).
		Int("listener_failures", st.ListenerFailures).Msg("session closed")
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey reads the host key at path. A missing or unparsable
// file is replaced by a fresh ed25519 key; failing to write it only costs
// clients a changed fingerprint on the next start.
func loadOrCreateHostKey(path string, log zerolog.Logger) (gossh.Signer, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		signer, perr := xssh.ParsePrivateKey(data)
		if perr == nil {
			log.Info().Str("path", path).Msg("loaded host key")
			return signer, nil
		}
		log.Warn().Err(perr).Str("path", path).Msg("unreadable host key, replacing it")
	}

	log.Info().Str("path", path).Msg("generating new ed25519 host key")
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	if pemBlock, err := xssh.MarshalPrivateKey(key, "scriptbridge server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600); err != nil {
			log.Warn().Err(err).Msg("could not persist host key")
		}
	}
	return signer, nil
}
