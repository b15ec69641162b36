package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/calvinalkan/yahtl/internal/ambient"
	"github.com/calvinalkan/yahtl/internal/clock"
	"github.com/calvinalkan/yahtl/internal/config"
	"github.com/calvinalkan/yahtl/internal/engine"
	"github.com/calvinalkan/yahtl/internal/model"
	"github.com/calvinalkan/yahtl/internal/service"
	"github.com/calvinalkan/yahtl/internal/store"
)

// EnvNow pins the clock to an instant, for reproducible queues.
const EnvNow = "YAHTL_NOW"

// app holds what every command needs: resolved config, logger and I/O.
type app struct {
	cfg    config.Config
	env    map[string]string
	stdin  io.Reader
	errOut io.Writer
	log    *slog.Logger
}

// session is the state a command operates on, loaded fresh per command.
type session struct {
	store *store.Store
	reg   *store.Registry
	snap  ambient.Snapshot
	eng   *engine.Engine
	svc   *service.Service
	clock clock.Clock
}

func (a *app) clock() (clock.Clock, error) {
	pinned := a.env[EnvNow]
	if pinned == "" {
		return clock.Real(), nil
	}

	t, err := model.ParseInstant(pinned)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvNow, err)
	}

	return clock.Fake(t), nil
}

// open loads the lists and the ambient snapshot.
func (a *app) open() (*session, error) {
	clk, err := a.clock()
	if err != nil {
		return nil, err
	}

	st := store.New(a.cfg.DataDirAbs)

	reg, err := store.OpenRegistry(st)
	if err != nil {
		return nil, err
	}

	snap, err := ambient.Load(a.cfg.StateFileAbs)
	if err != nil {
		return nil, err
	}

	eng := engine.New(snap, clk, a.log)

	svc := service.New(service.Options{
		Registry: reg,
		Engine:   eng,
		Clock:    clk,
		Logger:   a.log,
		Notifier: service.NotifierFunc(func(ev service.ChangeEvent) {
			a.log.Info("yahtl_updated", "kind", ev.Kind, "list", ev.ListID, "item", ev.ItemUID)
		}),
		User: a.cfg.User,
	})

	return &session{store: st, reg: reg, snap: snap, eng: eng, svc: svc, clock: clk}, nil
}

// contextFor derives the current context from presence and the clock,
// then layers the persisted override and finally cmdOverride on top.
func (s *session) contextFor(cmdOverride model.ContextOverride) (engine.Context, error) {
	ctx := s.eng.CurrentContext(s.snap)

	persisted, err := s.store.LoadContext()
	if err != nil {
		return engine.Context{}, err
	}

	return ctx.WithOverride(persisted).WithOverride(cmdOverride), nil
}

// commandGroups returns fresh command instances grouped for help output.
// Flag sets keep parsed values, so each dispatch needs its own.
func (a *app) commandGroups() []commandGroup {
	return []commandGroup{
		{title: "Lists", commands: []*Command{listCreateCmd(a), listsCmd(a), shareCmd(a)}},
		{title: "Items", commands: []*Command{
			addCmd(a), updateCmd(a), showCmd(a), startCmd(a), completeCmd(a),
			reopenCmd(a), missCmd(a), rmCmd(a), moveCmd(a),
		}},
		{title: "Traits and tags", commands: []*Command{traitsCmd(a), tagCmd(a), untagCmd(a), needsDetailCmd(a)}},
		{title: "Blockers, requirements and recurrence", commands: []*Command{blockCmd(a), requireCmd(a), recurCmd(a)}},
		{title: "Queue", commands: []*Command{queueCmd(a), contextCmd(a), watchCmd(a)}},
		{title: "Tools", commands: []*Command{shellCmd(a), printConfigCmd(a)}},
	}
}

// commands returns every command in listing order.
func (a *app) commands() []*Command {
	var cmds []*Command

	for _, g := range a.commandGroups() {
		cmds = append(cmds, g.commands...)
	}

	return cmds
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return model.FormatInstant(*t)
}
