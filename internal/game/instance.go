// Package game assembles instances: per-player worlds with their own state,
// systems and RNG, each driven by a single executor goroutine.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lastcentaur/server/internal/command"
	"github.com/lastcentaur/server/internal/handler"
	"github.com/lastcentaur/server/internal/persist"
	"github.com/lastcentaur/server/internal/world"
	"go.uber.org/zap"
)

const enhanceTimeout = 2 * time.Second

// Response is what one command returns to the transport.
type Response struct {
	Text    string
	Effects []world.Effect
	Quit    bool
}

type request struct {
	ctx   context.Context
	text  string
	reply chan Response
}

// Instance is one running game. All state access happens on the executor
// goroutine; Execute is the only entry point.
type Instance struct {
	ID string

	st       *world.State
	deps     *handler.Deps
	registry *handler.Registry
	snap     *Snapshotter
	store    persist.Store
	enhancer Enhancer
	log      *zap.Logger

	inbox chan request
	done  chan struct{}
}

func newInstance(id string, st *world.State, deps *handler.Deps, snap *Snapshotter,
	store persist.Store, enhancer Enhancer, log *zap.Logger) *Instance {
	inst := &Instance{
		ID:       id,
		st:       st,
		deps:     deps,
		registry: handler.NewRegistry(),
		snap:     snap,
		store:    store,
		enhancer: enhancer,
		log:      log.With(zap.String("instance", id)),
		inbox:    make(chan request, 16),
		done:     make(chan struct{}),
	}
	handler.RegisterAll(inst.registry)
	go inst.run()
	return inst
}

// Execute submits one command line and waits for its response. Cancellation
// before the executor picks the command up discards it.
func (inst *Instance) Execute(ctx context.Context, text string) (Response, error) {
	req := request{ctx: ctx, text: text, reply: make(chan Response, 1)}
	select {
	case inst.inbox <- req:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-inst.done:
		return Response{}, errors.New("instance closed")
	}
	select {
	case resp := <-req.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Close stops the executor. Pending commands are dropped.
func (inst *Instance) Close() {
	close(inst.done)
}

// run is the executor loop: strict sequential consistency per instance.
func (inst *Instance) run() {
	for {
		select {
		case req := <-inst.inbox:
			select {
			case <-req.ctx.Done():
				continue // cancelled before any mutation
			default:
			}
			req.reply <- inst.execute(req.ctx, req.text)
		case <-inst.done:
			return
		}
	}
}

func (inst *Instance) execute(ctx context.Context, text string) Response {
	cmd := inst.deps.Parser.Parse(text)
	res := inst.registry.Dispatch(inst.st, cmd, inst.deps)

	if res.Mutated {
		inst.persist(ctx)
	}
	if res.Completion != nil {
		inst.deps.Leaderboard.WriteThrough(ctx, *res.Completion)
	}

	out := Response{Text: res.Text, Effects: res.Effects, Quit: res.Quit}
	out.Text = inst.enhance(ctx, out.Text, text)
	return out
}

// persist snapshots the state after a mutation. Store failure is non-fatal:
// play continues on in-memory state.
func (inst *Instance) persist(ctx context.Context) {
	raw, err := inst.snap.Capture(inst.st)
	if err != nil {
		inst.log.Error("snapshot capture failed", zap.Error(err))
		return
	}
	if err := inst.store.Put(ctx, inst.ID, raw); err != nil {
		inst.log.Warn("snapshot write failed, continuing in memory", zap.Error(err))
	}
}

// enhance runs the optional response rewriter with a hard timeout.
func (inst *Instance) enhance(ctx context.Context, response, lastCommand string) string {
	if inst.enhancer == nil {
		return response
	}
	ectx, cancel := context.WithTimeout(ctx, enhanceTimeout)
	defer cancel()
	enhanced, err := inst.enhancer.Enhance(ectx, response, lastCommand, inst.stateSummary())
	if err != nil || enhanced == "" {
		return response
	}
	return enhanced
}

func (inst *Instance) stateSummary() string {
	return fmt.Sprintf("pos=%s area=%s time=%s weather=%s hp=%d",
		inst.st.Player.Pos.Key(), inst.st.Player.CurrentArea,
		inst.st.Clock.String(), inst.st.Weather.Current,
		inst.st.Player.Stats.Health)
}

// State exposes the instance state for tests and the transport's read-only
// needs. Not safe to mutate outside the executor.
func (inst *Instance) State() *world.State { return inst.st }

// Parse exposes the shared parser.
func (inst *Instance) Parse(text string) command.Command {
	return inst.deps.Parser.Parse(text)
}
