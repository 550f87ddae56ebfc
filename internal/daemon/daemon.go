// Package daemon serves quote sessions over the control socket.
package daemon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/quotevoice/internal/bus"
	"github.com/leonardotrapani/quotevoice/internal/config"
	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/leonardotrapani/quotevoice/internal/notify"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/session"
	"github.com/leonardotrapani/quotevoice/internal/transcriber"
)

// EngineFactory builds the speech-to-text engine for a new session.
type EngineFactory func(transcriber.Config) (transcriber.BatchAdapter, error)

type Daemon struct {
	configMgr *config.Manager
	newEngine EngineFactory

	ctx    context.Context
	cancel context.CancelFunc

	sessions atomic.Int32
	wg       sync.WaitGroup
	log      zerolog.Logger
}

func New(configMgr *config.Manager) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		configMgr: configMgr,
		newEngine: transcriber.NewAdapter,
		ctx:       ctx,
		cancel:    cancel,
		log:       logging.For("daemon"),
	}
}

// Sessions is the number of connected clients.
func (d *Daemon) Sessions() int {
	return int(d.sessions.Load())
}

func (d *Daemon) Shutdown() {
	d.cancel()
}

// Run owns the pid file and the control socket until a signal or SHUTDOWN.
func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}

	if err := bus.CreatePidFile(); err != nil {
		ln.Close()
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			d.log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")
			d.cancel()
		case <-d.ctx.Done():
		}
	}()

	if err := d.configMgr.StartWatching(d.ctx); err != nil {
		d.log.Warn().Err(err).Msg("config hot reload disabled")
	} else {
		defer d.configMgr.Stop()
	}
	d.configMgr.OnReload(d.applyConfig)

	return d.Serve(ln)
}

func (d *Daemon) applyConfig(cfg *config.Config) {
	if err := logging.Setup(cfg.ToLoggingOptions()); err != nil {
		d.log.Warn().Err(err).Msg("failed to apply logging config")
	}
	notify.Send(cfg.NewNotifier(), cfg.Notifications.Messages.Resolve()[notify.MsgConfigReloaded])
}

// Serve accepts connections on ln until the daemon is shut down. Each
// connection is one session with its own runner.
func (d *Daemon) Serve(ln net.Listener) error {
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	d.log.Info().Str("addr", ln.Addr().String()).Msg("daemon started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				d.log.Info().Msg("shutdown requested, waiting for sessions")
				d.wg.Wait()
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.handle(c)
		}()
	}
}

// conn is one client session.
type conn struct {
	d      *Daemon
	w      *bufio.Writer
	cfg    *config.Config
	runner *session.Runner
	log    zerolog.Logger
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()
	w := bufio.NewWriter(c)
	defer w.Flush()

	cfg := d.configMgr.GetConfig()

	engine, err := d.newEngine(cfg.ToTranscriberConfig())
	if err != nil {
		d.log.Error().Err(err).Msg("failed to create transcriber")
		fmt.Fprintf(w, "ERR engine: %v\n", err)
		return
	}

	store, err := cfg.OpenStore()
	if err != nil {
		d.log.Error().Err(err).Msg("failed to open quote log")
		fmt.Fprintf(w, "ERR storage: %v\n", err)
		return
	}
	defer store.Close()

	ctrl := session.NewController(engine, session.WithMaxRetryDuration(cfg.Transcription.MaxRetryDuration))
	notifier := notify.Multi{lineNotifier{w}, cfg.NewNotifier()}
	runner := session.NewRunner(ctrl, store, notifier, cfg.Notifications.Messages.Resolve())

	s := &conn{
		d:      d,
		w:      w,
		cfg:    cfg,
		runner: runner,
		log:    d.log.With().Str("session", runner.ID()).Logger(),
	}

	d.sessions.Add(1)
	defer d.sessions.Add(-1)

	s.log.Info().Msg("session opened")
	defer s.log.Info().Msg("session closed")

	// unblock the read on shutdown
	stop := context.AfterFunc(d.ctx, func() { c.Close() })
	defer stop()

	s.reply("OK session=%s proto=%s", runner.ID(), bus.ProtoVer)
	if err := w.Flush(); err != nil {
		return
	}

	r := bufio.NewReader(c)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && d.ctx.Err() == nil {
				s.log.Debug().Err(err).Msg("client read error")
			}
			return
		}
		if !s.dispatch(strings.TrimRight(line, "\r\n")) {
			w.Flush()
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

// dispatch handles one request line. It returns false when the session ends.
func (s *conn) dispatch(line string) bool {
	cmd, arg := bus.SplitLine(line)
	ctx := s.d.ctx

	switch strings.ToUpper(cmd) {
	case bus.CmdAudio:
		if arg == "" {
			s.reply("ERR usage: AUDIO <path>")
			return true
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			s.reply("ERR read_audio: %v", err)
			return true
		}
		s.runner.Record(data)
		s.reply("OK recorded bytes=%d", len(data))

	case bus.CmdPass:
		if s.runner.WillTranscribe() {
			notify.Send(lineNotifier{s.w}, s.message(notify.MsgTranscribing))
			s.w.Flush()
		}
		first := s.runner.Render(ctx)
		st := s.runner.State()
		s.reply("OK command=%s epoch=%d quote=%s", first, st.RecordingEpoch, strconv.Quote(st.QuoteText))

	case bus.CmdFresh:
		s.runner.Fresh()
		s.reply("OK epoch=%d", s.runner.State().RecordingEpoch)

	case bus.CmdText:
		s.runner.Type(arg)
		s.reply("OK")

	case bus.CmdSubmit:
		exponent, err := s.exponent(arg)
		if err != nil {
			s.reply("ERR %v", err)
			return true
		}
		out, err := s.runner.Submit(ctx, exponent)
		if err != nil {
			s.reply("ERR submit: %v", err)
			return true
		}
		if out.Entry == nil {
			s.reply("OK command=%s", out.Command)
			return true
		}
		m := out.Entry.Metrics
		s.reply("OK command=%s words=%d power=%s difference=%s", out.Command, m.WordCount, m.PowerString(), m.DifferenceString())

	case bus.CmdStatus:
		st := s.runner.State()
		s.reply("STATUS session=%s phase=%s epoch=%d pending=%t sessions=%d quote=%s",
			st.ID, st.Phase, st.RecordingEpoch, st.HasPending(), s.d.Sessions(), strconv.Quote(st.QuoteText))

	case bus.CmdLog:
		table := s.runner.Table(ctx)
		for _, e := range table {
			fmt.Fprintf(s.w, "%s %s\n", bus.KindRow, formatRow(e))
		}
		s.reply("OK rows=%d", len(table))

	case bus.CmdVersion:
		s.reply("STATUS proto=%s", bus.ProtoVer)

	case bus.CmdQuit:
		s.reply("OK bye")
		return false

	case bus.CmdShutdown:
		s.reply("OK shutting down")
		s.d.Shutdown()
		return false

	case "":
		s.reply("ERR empty")

	default:
		s.log.Warn().Str("command", cmd).Msg("unknown command")
		s.reply("ERR unknown=%q", cmd)
	}
	return true
}

func (s *conn) exponent(arg string) (int, error) {
	m := s.cfg.Metrics
	if arg == "" {
		return m.Exponent, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid exponent %q", arg)
	}
	if n < m.MinExponent || n > m.MaxExponent {
		return 0, fmt.Errorf("exponent %d out of range %d..%d", n, m.MinExponent, m.MaxExponent)
	}
	return n, nil
}

func (s *conn) message(t notify.MessageType) notify.Message {
	return s.cfg.Notifications.Messages.Resolve()[t]
}

func (s *conn) reply(format string, args ...any) {
	fmt.Fprintf(s.w, format+"\n", args...)
}

func formatRow(e quotelog.Entry) string {
	return fmt.Sprintf("%s words=%d power=%s difference=%s quote=%s",
		strconv.Quote(e.Timestamp.Format(quotelog.TimeLayout)),
		e.Metrics.WordCount, e.Metrics.PowerString(), e.Metrics.DifferenceString(),
		strconv.Quote(e.Quote))
}

// lineNotifier turns notifications into NOTIFY lines on the session's connection.
type lineNotifier struct {
	w io.Writer
}

func (n lineNotifier) Notify(title, message string) {
	fmt.Fprintf(n.w, "%s info %s\n", bus.KindNotify, strconv.Quote(message))
}

func (n lineNotifier) Error(msg string) {
	fmt.Fprintf(n.w, "%s error %s\n", bus.KindNotify, strconv.Quote(msg))
}
