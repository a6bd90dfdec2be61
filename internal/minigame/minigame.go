// Package minigame implements the soul-tribulation platform jump: a
// timing skill check where held charge ping-pongs between 0 and 100 and
// release launches the player toward the next spirit platform.
//
// The engine is a plain state machine with no timer of its own. The host
// drives charging by calling ChargeTick once per frame while the phase
// is Charging, and calls ResolveLanding after the flight delay has
// elapsed. The landing position itself is fixed at release time; the
// delay is presentation only.
package minigame

import (
	"errors"
	"time"

	"github.com/ruqinhu/youxi/internal/rng"
)

// World geometry and timing, in world units out of a 100-unit-wide field.
const (
	MaxPower        = 100.0
	ChargeStep      = 1.5
	MaxJumpDistance = 60.0
	PlayerStartX    = 15.0
	PlayerHalfWidth = 2.0

	FlightDuration = 500 * time.Millisecond
	TickInterval   = 16 * time.Millisecond

	minGap           = 15
	maxGap           = 40
	minPlatformWidth = 15
	maxPlatformWidth = 25
)

// Phase is the current stage of a tribulation run.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseCharging
	PhaseJumping
	PhaseLanded
	PhaseFailed
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseCharging:
		return "charging"
	case PhaseJumping:
		return "jumping"
	case PhaseLanded:
		return "landed"
	case PhaseFailed:
		return "failed"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Landing is the judged outcome of a jump.
type Landing int

const (
	// LandingSuccess means the player reached the target platform.
	LandingSuccess Landing = iota
	// LandingShort means the player came down on the platform it
	// departed from. No score change; charging is permitted again.
	LandingShort
	// LandingFallen means the player missed both platforms. Terminal.
	LandingFallen
)

// Platform is a horizontal span the player can stand on.
type Platform struct {
	Left  float64
	Width float64
}

func (p Platform) contains(x float64) bool {
	return x >= p.Left && x <= p.Left+p.Width
}

var (
	ErrNotChargeable = errors.New("minigame: cannot charge in this phase")
	ErrNotCharging   = errors.New("minigame: not charging")
	ErrNotJumping    = errors.New("minigame: no jump in flight")
)

// Game is a single tribulation run.
type Game struct {
	phase    Phase
	score    int
	power    float64
	powerDir float64
	playerX  float64
	landingX float64
	current  Platform
	target   Platform
	r        *rng.RNG
}

// New creates a run with the fixed opening platform layout.
func New(r *rng.RNG) *Game {
	return &Game{
		phase:    PhaseWaiting,
		powerDir: 1,
		playerX:  PlayerStartX,
		current:  Platform{Left: 5, Width: 20},
		target:   Platform{Left: 40, Width: 20},
		r:        r,
	}
}

func (g *Game) Phase() Phase      { return g.phase }
func (g *Game) Score() int        { return g.score }
func (g *Game) Power() float64    { return g.power }
func (g *Game) PlayerX() float64  { return g.playerX }
func (g *Game) Current() Platform { return g.current }
func (g *Game) Target() Platform  { return g.target }

// StartCharge begins a charge. Valid from Waiting or Landed.
func (g *Game) StartCharge() error {
	if g.phase != PhaseWaiting && g.phase != PhaseLanded {
		return ErrNotChargeable
	}
	g.phase = PhaseCharging
	g.power = 0
	g.powerDir = 1
	return nil
}

// ChargeTick advances the power ramp one frame. Power climbs to 100,
// inverts to descending, and inverts back at 0. Ticks outside the
// Charging phase are ignored, so a stale frame timer cannot act after
// release or abort.
func (g *Game) ChargeTick() {
	if g.phase != PhaseCharging {
		return
	}
	g.power += ChargeStep * g.powerDir
	if g.power >= MaxPower {
		g.power = MaxPower
		g.powerDir = -1
	} else if g.power <= 0 {
		g.power = 0
		g.powerDir = 1
	}
}

// Release captures the current power and launches the jump. The landing
// position is computed here, not at flight end. Returns the jump
// distance in world units.
func (g *Game) Release() (float64, error) {
	if g.phase != PhaseCharging {
		return 0, ErrNotCharging
	}
	dist := (g.power / MaxPower) * MaxJumpDistance
	g.landingX = g.playerX + dist
	g.playerX = g.landingX
	g.phase = PhaseJumping
	return dist, nil
}

// ResolveLanding judges the jump after the flight delay. Outcomes in
// priority order: target platform hit, departed platform hit, fall.
func (g *Game) ResolveLanding() (Landing, error) {
	if g.phase != PhaseJumping {
		return LandingFallen, ErrNotJumping
	}

	center := g.landingX + PlayerHalfWidth

	switch {
	case g.target.contains(center):
		g.score++
		g.advanceWorld()
		g.phase = PhaseLanded
		return LandingSuccess, nil
	case g.current.contains(center):
		g.phase = PhaseLanded
		return LandingShort, nil
	default:
		g.phase = PhaseFailed
		return LandingFallen, nil
	}
}

// advanceWorld re-bases all coordinates so the platform just reached
// becomes the current one at the player's start offset, then rolls a
// fresh target platform. This stands in for camera scrolling.
func (g *Game) advanceWorld() {
	shift := g.landingX - PlayerStartX

	g.current = Platform{Left: g.target.Left - shift, Width: g.target.Width}

	gap := float64(g.r.IntBetween(minGap, maxGap))
	width := float64(g.r.IntBetween(minPlatformWidth, maxPlatformWidth))
	g.target = Platform{Left: g.current.Left + g.current.Width + gap, Width: width}

	g.playerX = PlayerStartX
}

// Finish ends the run and reports the accumulated score.
func (g *Game) Finish() int {
	g.phase = PhaseFinished
	return g.score
}

// Abort ends the run from any phase with a score of zero. An in-flight
// charge or jump earns nothing.
func (g *Game) Abort() int {
	g.phase = PhaseFinished
	return 0
}
