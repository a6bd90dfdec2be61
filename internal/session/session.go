// Package session owns the single mutable player state and sequences
// every action through the narrative generator and the rules core. All
// state transitions are whole-state swaps; a failed step never leaves
// the state partially updated.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ruqinhu/youxi/internal/minigame"
	"github.com/ruqinhu/youxi/internal/models"
	"github.com/ruqinhu/youxi/internal/rng"
	"github.com/ruqinhu/youxi/internal/rules"
)

// Generator is the external narrative and image backend. Generation
// never returns an error; failures surface as the fixed fallback
// outcome and a missing image degrades to an empty URL.
type Generator interface {
	GenerateStoryEvent(ctx context.Context, action models.Action, state models.PlayerState) models.ActionOutcome
	GenerateSceneImage(ctx context.Context, scene string, dungeon *models.DungeonData) string
	Offline() bool
}

var (
	ErrBusy           = errors.New("session: an action is already in flight")
	ErrDungeonPending = errors.New("session: a dungeon awaits a decision")
	ErrNoDungeon      = errors.New("session: no dungeon awaiting a decision")
)

// Remote calls get bounded deadlines so a hung backend cannot strand
// the in-flight flag.
const (
	narrativeTimeout = 60 * time.Second
	imageTimeout     = 45 * time.Second
)

// PendingDungeon is an encounter fetched from the generator but not yet
// decided. It is consumed exactly once by ResolveDungeon.
type PendingDungeon struct {
	Data     models.DungeonData
	ImageURL string
}

// Controller sequences player actions against the single player state.
type Controller struct {
	mu       sync.Mutex
	state    models.PlayerState
	gen      Generator
	r        *rng.RNG
	thinking bool
	pending  *PendingDungeon
}

// New starts a fresh session. An offline generator produces a one-time
// warning entry in the log.
func New(gen Generator, r *rng.RNG) *Controller {
	return NewFromState(gen, r, models.NewPlayerState())
}

// NewFromState starts a session from a loaded player state.
func NewFromState(gen Generator, r *rng.RNG, state models.PlayerState) *Controller {
	c := &Controller{state: state, gen: gen, r: r}
	if gen.Offline() {
		c.state = c.state.AppendLog(models.NewLogEntry(
			"警告: 未检测到 API_KEY。天道演化（AI叙事）将以离线模式运行。", models.LogSystem))
	}
	return c
}

// State returns a snapshot copy of the player state.
func (c *Controller) State() models.PlayerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Thinking reports whether a generation request is in flight.
func (c *Controller) Thinking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thinking
}

// Pending returns the undecided dungeon encounter, or nil.
func (c *Controller) Pending() *PendingDungeon {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// Travel moves the player to a location. Transitions are unconstrained;
// every location is reachable from every other.
func (c *Controller) Travel(loc models.Location) error {
	if !loc.Valid() {
		return fmt.Errorf("session: unknown location %q", loc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.thinking {
		return ErrBusy
	}
	next := c.state.Clone()
	next.Location = loc
	next.History = append(next.History, models.NewLogEntry(
		fmt.Sprintf("你前往了 %s。", loc.Display()), models.LogSystem))
	c.state = next
	return nil
}

// Act runs one player action through the generator and applies the
// outcome. Dungeon outcomes are parked for a separate decision instead
// of being applied. The in-flight flag is set for the duration of the
// remote calls and cleared on every exit path.
func (c *Controller) Act(ctx context.Context, action models.Action) error {
	c.mu.Lock()
	if c.thinking {
		c.state = c.state.AppendLog(models.NewLogEntry("天机推演尚未结束，请稍候。", models.LogSystem))
		c.mu.Unlock()
		return ErrBusy
	}
	if c.pending != nil {
		c.mu.Unlock()
		return ErrDungeonPending
	}
	// Meditating on a full dantian is rejected before any remote call.
	if action == models.ActionMeditate && c.state.CurrentQi >= c.state.MaxQi {
		c.state = c.state.AppendLog(models.NewLogEntry(
			"你的丹田已满，在突破瓶颈前无法吸纳更多灵气。", models.LogSystem))
		c.mu.Unlock()
		return nil
	}
	c.thinking = true
	snapshot := c.state.Clone()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.thinking = false
		c.mu.Unlock()
	}()

	nctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	outcome := c.gen.GenerateStoryEvent(nctx, action, snapshot)
	cancel()

	// The image is sequenced strictly after the narrative and skipped
	// when the narrative is the failure sentinel. Its absence is silent.
	imageURL := ""
	if outcome.Narrative != models.FailureOutcome().Narrative {
		ictx, cancel := context.WithTimeout(ctx, imageTimeout)
		imageURL = c.gen.GenerateSceneImage(ictx, outcome.Narrative, outcome.Dungeon)
		cancel()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if outcome.Dungeon != nil {
		// Rewards are deferred until the player decides.
		c.pending = &PendingDungeon{Data: *outcome.Dungeon, ImageURL: imageURL}
		return nil
	}

	next, _ := rules.Apply(c.state, outcome, imageURL)
	c.state = next
	return nil
}

// ResolveDungeon applies the player's choice to the pending encounter.
// The pending reference is cleared first; an encounter resolves at most
// once.
func (c *Controller) ResolveDungeon(chosenIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return ErrNoDungeon
	}
	p := c.pending
	c.pending = nil

	next, _ := rules.ResolveDungeon(c.state, p.Data, chosenIndex, p.ImageURL, c.r)
	c.state = next
	return nil
}

// NewTribulation creates a soul-tribulation minigame run.
func (c *Controller) NewTribulation() *minigame.Game {
	return minigame.New(c.r)
}

// FinishTribulation converts a finished minigame score into rewards.
func (c *Controller) FinishTribulation(score int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, _ := rules.ApplyTribulationScore(c.state, score)
	c.state = next
}

// Save persists the current state under the given save name.
func (c *Controller) Save(name string) error {
	c.mu.Lock()
	state := c.state.Clone()
	c.mu.Unlock()
	return state.Save(name)
}
