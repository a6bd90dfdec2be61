package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ruqinhu/youxi/internal/models"
	"github.com/ruqinhu/youxi/internal/rng"
)

type fakeGen struct {
	mu         sync.Mutex
	offline    bool
	outcome    models.ActionOutcome
	image      string
	storyCalls int
	imageCalls int
	block      chan struct{}
}

func (f *fakeGen) GenerateStoryEvent(ctx context.Context, action models.Action, state models.PlayerState) models.ActionOutcome {
	f.mu.Lock()
	f.storyCalls++
	block := f.block
	out := f.outcome
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return out
}

func (f *fakeGen) GenerateSceneImage(ctx context.Context, scene string, dungeon *models.DungeonData) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageCalls++
	return f.image
}

func (f *fakeGen) Offline() bool { return f.offline }

func (f *fakeGen) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.storyCalls, f.imageCalls
}

func pendingDungeon() models.DungeonData {
	return models.DungeonData{
		Title:        "回声监狱",
		Genre:        "Mystery",
		Difficulty:   "C",
		Rating:       "C",
		Scenario:     "两间牢房，各有一个按钮。",
		Question:     "按还是不按？",
		Options:      []string{"按", "不按", "等待", "砸墙"},
		CorrectIndex: 1,
		RewardText:   "密钥",
		PenaltyText:  "警报",
		Summary:      "牢房里的博弈。",
	}
}

func TestOfflineWarningLoggedOnce(t *testing.T) {
	c := New(&fakeGen{offline: true}, rng.New(1))

	var warnings int
	for _, entry := range c.State().History {
		if strings.Contains(entry.Text, "API_KEY") {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("got %d offline warnings, want 1", warnings)
	}
}

func TestMeditateAtFullQiSkipsRemoteCall(t *testing.T) {
	gen := &fakeGen{}
	c := New(gen, rng.New(1))

	// Fill the dantian first.
	gen.outcome = models.ActionOutcome{Narrative: "吸纳灵气。", QiChange: 1000}
	if err := c.Act(context.Background(), models.ActionMeditate); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if got := c.State().CurrentQi; got != 100 {
		t.Fatalf("setup: qi = %d, want 100", got)
	}
	before, _ := gen.calls()
	historyLen := len(c.State().History)

	if err := c.Act(context.Background(), models.ActionMeditate); err != nil {
		t.Fatalf("Act: %v", err)
	}

	after, _ := gen.calls()
	if after != before {
		t.Error("meditate at full qi must not reach the generator")
	}
	state := c.State()
	if len(state.History) != historyLen+1 {
		t.Fatalf("want exactly one new entry, got %d", len(state.History)-historyLen)
	}
	last := state.History[len(state.History)-1]
	if last.Kind != models.LogSystem || !strings.Contains(last.Text, "丹田已满") {
		t.Errorf("unexpected guard entry: kind=%s text=%q", last.Kind, last.Text)
	}
	if state.CurrentQi != 100 {
		t.Errorf("guard mutated qi to %d", state.CurrentQi)
	}
}

func TestActAppliesOutcomeWithImage(t *testing.T) {
	gen := &fakeGen{
		outcome: models.ActionOutcome{Narrative: "你发现一处洞府。", QiChange: 7, ItemGained: "残破阵盘"},
		image:   "data:image/png;base64,abc",
	}
	c := New(gen, rng.New(1))

	if err := c.Act(context.Background(), models.ActionExplore); err != nil {
		t.Fatalf("Act: %v", err)
	}

	state := c.State()
	if state.CurrentQi != 17 {
		t.Errorf("qi = %d, want 17", state.CurrentQi)
	}
	if state.Inventory[len(state.Inventory)-1] != "残破阵盘" {
		t.Errorf("inventory = %v", state.Inventory)
	}
	last := state.History[len(state.History)-1]
	if last.Kind != models.LogNarrative || last.ImageURL == "" {
		t.Errorf("narrative entry missing image: kind=%s url=%q", last.Kind, last.ImageURL)
	}
	if c.Thinking() {
		t.Error("thinking flag not cleared after success")
	}
}

func TestActFailureOutcomeSkipsImage(t *testing.T) {
	gen := &fakeGen{outcome: models.FailureOutcome(), image: "should-not-be-used"}
	c := New(gen, rng.New(1))

	if err := c.Act(context.Background(), models.ActionExplore); err != nil {
		t.Fatalf("Act: %v", err)
	}

	if _, imageCalls := gen.calls(); imageCalls != 0 {
		t.Error("failure narrative must not trigger image generation")
	}
	state := c.State()
	last := state.History[len(state.History)-1]
	if !strings.Contains(last.Text, "系统连接中断") {
		t.Errorf("failure narrative not logged: %q", last.Text)
	}
	if state.CurrentQi != 10 {
		t.Errorf("failure outcome changed qi to %d", state.CurrentQi)
	}
	if c.Thinking() {
		t.Error("thinking flag not cleared after failure outcome")
	}
}

func TestActWhileThinkingRejected(t *testing.T) {
	gen := &fakeGen{outcome: models.ActionOutcome{Narrative: "……"}, block: make(chan struct{})}
	c := New(gen, rng.New(1))

	done := make(chan error, 1)
	go func() { done <- c.Act(context.Background(), models.ActionExplore) }()

	deadline := time.After(2 * time.Second)
	for !c.Thinking() {
		select {
		case <-deadline:
			t.Fatal("first action never entered flight")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := c.Act(context.Background(), models.ActionMeditate); err != ErrBusy {
		t.Errorf("second action error = %v, want ErrBusy", err)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first action failed: %v", err)
	}
	if c.Thinking() {
		t.Error("thinking flag stuck after completion")
	}
}

func TestDungeonOutcomeIsParkedNotApplied(t *testing.T) {
	d := pendingDungeon()
	gen := &fakeGen{
		outcome: models.ActionOutcome{Narrative: "大门开启。", QiChange: 999, Dungeon: &d},
		image:   "data:image/png;base64,scene",
	}
	c := New(gen, rng.New(1))
	historyLen := len(c.State().History)

	if err := c.Act(context.Background(), models.ActionDungeon); err != nil {
		t.Fatalf("Act: %v", err)
	}

	state := c.State()
	if state.CurrentQi != 10 {
		t.Errorf("dungeon arrival applied rewards: qi = %d", state.CurrentQi)
	}
	if len(state.History) != historyLen {
		t.Errorf("dungeon arrival appended %d entries before resolution", len(state.History)-historyLen)
	}
	p := c.Pending()
	if p == nil {
		t.Fatal("no pending dungeon parked")
	}
	if p.Data.Title != d.Title || p.ImageURL == "" {
		t.Errorf("pending = %+v", p)
	}
}

func TestActWhileDungeonPendingRejected(t *testing.T) {
	d := pendingDungeon()
	gen := &fakeGen{outcome: models.ActionOutcome{Narrative: "门。", Dungeon: &d}}
	c := New(gen, rng.New(1))
	if err := c.Act(context.Background(), models.ActionDungeon); err != nil {
		t.Fatalf("Act: %v", err)
	}

	if err := c.Act(context.Background(), models.ActionExplore); err != ErrDungeonPending {
		t.Errorf("error = %v, want ErrDungeonPending", err)
	}
}

func TestResolveDungeonOnce(t *testing.T) {
	d := pendingDungeon()
	gen := &fakeGen{outcome: models.ActionOutcome{Narrative: "门。", Dungeon: &d}}
	c := New(gen, rng.New(1))
	if err := c.Act(context.Background(), models.ActionDungeon); err != nil {
		t.Fatalf("Act: %v", err)
	}

	if err := c.ResolveDungeon(1); err != nil {
		t.Fatalf("ResolveDungeon: %v", err)
	}

	state := c.State()
	if state.CurrentQi != 60 {
		t.Errorf("qi = %d, want 60 (+50)", state.CurrentQi)
	}
	last := state.History[len(state.History)-1]
	if last.Kind != models.LogDungeon || last.Dungeon == nil {
		t.Errorf("dungeon entry malformed: kind=%s", last.Kind)
	}
	if c.Pending() != nil {
		t.Error("pending dungeon not cleared after resolution")
	}

	if err := c.ResolveDungeon(1); err != ErrNoDungeon {
		t.Errorf("second resolution error = %v, want ErrNoDungeon", err)
	}
}

func TestResolveDungeonWithoutPending(t *testing.T) {
	c := New(&fakeGen{}, rng.New(1))

	if err := c.ResolveDungeon(0); err != ErrNoDungeon {
		t.Errorf("error = %v, want ErrNoDungeon", err)
	}
}

func TestTravel(t *testing.T) {
	c := New(&fakeGen{}, rng.New(1))

	if err := c.Travel(models.LocationPond); err != nil {
		t.Fatalf("Travel: %v", err)
	}

	state := c.State()
	if state.Location != models.LocationPond {
		t.Errorf("location = %s, want pond", state.Location)
	}
	last := state.History[len(state.History)-1]
	if !strings.Contains(last.Text, "悟道天池") {
		t.Errorf("travel entry = %q", last.Text)
	}

	if err := c.Travel(models.Location("moon")); err == nil {
		t.Error("unknown location should be rejected")
	}
}

func TestFinishTribulation(t *testing.T) {
	c := New(&fakeGen{}, rng.New(1))

	c.FinishTribulation(4)

	state := c.State()
	if state.CurrentQi != 30 {
		t.Errorf("qi = %d, want 30 (+20)", state.CurrentQi)
	}
	if state.Stats.Spirit != 11 {
		t.Errorf("spirit = %d, want 11", state.Stats.Spirit)
	}
}

// Reading and replaying the log never mutates the state; only actions do.
func TestStateSnapshotIsIsolated(t *testing.T) {
	c := New(&fakeGen{}, rng.New(1))

	snap := c.State()
	snap.CurrentQi = 9999
	snap.History = append(snap.History, models.NewLogEntry("注入", models.LogSystem))
	snap.Inventory = append(snap.Inventory, "外挂")

	state := c.State()
	if state.CurrentQi == 9999 || len(state.Inventory) != 2 {
		t.Error("snapshot mutation leaked into the controller state")
	}
}
