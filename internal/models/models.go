// Package models defines the player state aggregate, the story log, and the
// contract types exchanged with the narrative generator.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Realm is the player's cultivation rank. It determines qi capacity.
type Realm string

const (
	RealmMortal       Realm = "mortal"
	RealmWhiteMist    Realm = "white_mist"
	RealmPurplePole   Realm = "purple_pole"
	RealmAzureOrigin  Realm = "azure_origin"
	RealmGoldImmortal Realm = "gold_immortal"
)

// Realms lists every realm in ascending order of power.
var Realms = []Realm{RealmMortal, RealmWhiteMist, RealmPurplePole, RealmAzureOrigin, RealmGoldImmortal}

var realmNames = map[Realm]string{
	RealmMortal:       "凡人",
	RealmWhiteMist:    "白雾境",
	RealmPurplePole:   "紫极境",
	RealmAzureOrigin:  "青源境",
	RealmGoldImmortal: "金仙境",
}

var realmCaps = map[Realm]int{
	RealmMortal:       100,
	RealmWhiteMist:    100,
	RealmPurplePole:   500,
	RealmAzureOrigin:  2000,
	RealmGoldImmortal: 10000,
}

// Valid reports whether r is one of the known realms.
func (r Realm) Valid() bool {
	_, ok := realmNames[r]
	return ok
}

// Display returns the in-world name of the realm.
func (r Realm) Display() string {
	if name, ok := realmNames[r]; ok {
		return name
	}
	return string(r)
}

// QiCap returns the qi capacity for the realm. Unknown realms report
// ok=false so callers can keep the prior capacity.
func (r Realm) QiCap() (int, bool) {
	c, ok := realmCaps[r]
	return c, ok
}

// Location is a place the player can travel to. All locations are
// reachable from all others.
type Location string

const (
	LocationSect  Location = "sect"
	LocationCity  Location = "city"
	LocationRuins Location = "ruins"
	LocationPond  Location = "pond"
	LocationTown  Location = "town"
)

// Locations lists every location in display order.
var Locations = []Location{LocationSect, LocationCity, LocationRuins, LocationPond, LocationTown}

var locationNames = map[Location]string{
	LocationSect:  "太虚剑派",
	LocationCity:  "天机城",
	LocationRuins: "归墟遗迹",
	LocationPond:  "悟道天池",
	LocationTown:  "凡人小镇",
}

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	_, ok := locationNames[l]
	return ok
}

// Display returns the in-world name of the location.
func (l Location) Display() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return string(l)
}

// Action is a player command forwarded to the narrative generator.
type Action string

const (
	ActionMeditate     Action = "Meditate"
	ActionExplore      Action = "Explore"
	ActionBreakthrough Action = "Breakthrough"
	ActionDungeon      Action = "Dungeon"
)

// Stats are the player's cultivation attributes.
type Stats struct {
	Body     int `yaml:"body"`      // physical resilience
	Spirit   int `yaml:"spirit"`    // magical power and control
	DaoHeart int `yaml:"dao_heart"` // mental resilience, epiphany chance
}

// LogKind classifies a log entry for rendering.
type LogKind string

const (
	LogNarrative LogKind = "narrative"
	LogDialogue  LogKind = "dialogue"
	LogSystem    LogKind = "system"
	LogCombat    LogKind = "combat"
	LogDungeon   LogKind = "dungeon"
)

// LogEntry is a single immutable entry in the story feed.
type LogEntry struct {
	ID        string       `yaml:"id"`
	Text      string       `yaml:"text"`
	Kind      LogKind      `yaml:"kind"`
	Timestamp time.Time    `yaml:"timestamp"`
	ImageURL  string       `yaml:"image_url,omitempty"`
	Dungeon   *DungeonData `yaml:"dungeon,omitempty"`
}

// NewLogEntry creates a log entry with a fresh ID and the current time.
func NewLogEntry(text string, kind LogKind) LogEntry {
	return LogEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// DungeonGenres and DungeonGrades enumerate the valid encounter genres
// and difficulty/rating grades.
var (
	DungeonGenres = []string{"Horror", "SciFi", "Wasteland", "Mystery", "Historical"}
	DungeonGrades = []string{"S", "A", "B", "C", "D"}
)

// DungeonData is a self-contained crisis encounter: a scenario, a single
// question with four options, and the reward and penalty flavor for the
// two outcomes. It is produced by the narrative generator and consumed
// exactly once by the dungeon resolver.
type DungeonData struct {
	Title        string   `yaml:"title"`
	Genre        string   `yaml:"genre"`
	Difficulty   string   `yaml:"difficulty"`
	Rating       string   `yaml:"rating"`
	Scenario     string   `yaml:"scenario"`
	Question     string   `yaml:"question"`
	Options      []string `yaml:"options"`
	CorrectIndex int      `yaml:"correct_index"`
	RewardText   string   `yaml:"reward_text"`
	PenaltyText  string   `yaml:"penalty_text"`
	Summary      string   `yaml:"summary"`
}

// Validate checks the encounter shape before any field is trusted:
// enum membership, exactly four options, and a correct index in range.
func (d *DungeonData) Validate() error {
	if d == nil {
		return fmt.Errorf("dungeon: nil")
	}
	if !contains(DungeonGenres, d.Genre) {
		return fmt.Errorf("dungeon: unknown genre %q", d.Genre)
	}
	if !contains(DungeonGrades, d.Difficulty) {
		return fmt.Errorf("dungeon: unknown difficulty %q", d.Difficulty)
	}
	if !contains(DungeonGrades, d.Rating) {
		return fmt.Errorf("dungeon: unknown rating %q", d.Rating)
	}
	if len(d.Options) != 4 {
		return fmt.Errorf("dungeon: want 4 options, got %d", len(d.Options))
	}
	if d.CorrectIndex < 0 || d.CorrectIndex > 3 {
		return fmt.Errorf("dungeon: correct_index %d out of range", d.CorrectIndex)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ActionOutcome is the narrative generator's response to a player action.
// When Dungeon is set the other reward fields are ignored and reward
// application is deferred to the dungeon resolver.
type ActionOutcome struct {
	Narrative   string       `yaml:"narrative"`
	QiChange    int          `yaml:"qi_change"`
	StatChanges Stats        `yaml:"stat_changes"`
	ItemGained  string       `yaml:"item_gained"`
	NewRealm    Realm        `yaml:"new_realm"`
	Dungeon     *DungeonData `yaml:"dungeon_result"`
}

// Validate checks the outcome against the generator contract. A set
// NewRealm must name a known realm; a set Dungeon must be fully formed.
func (o *ActionOutcome) Validate() error {
	if o.NewRealm != "" && !o.NewRealm.Valid() {
		return fmt.Errorf("outcome: unknown realm %q", o.NewRealm)
	}
	if o.Dungeon != nil {
		return o.Dungeon.Validate()
	}
	return nil
}

// OfflineOutcome is the deterministic generation substituted when no
// API credential is configured. No remote call is made.
func OfflineOutcome() ActionOutcome {
	return ActionOutcome{
		Narrative: "天道渺茫（API Key 缺失），你只能在心中默默冥想。",
		QiChange:  5,
	}
}

// FailureOutcome substitutes for any transport, parse, or schema failure
// at the generation boundary. The narrative doubles as the error signal:
// no scene illustration is attempted for it.
func FailureOutcome() ActionOutcome {
	return ActionOutcome{
		Narrative: "系统连接中断... 数据丢失。",
	}
}

// PlayerState is the sole mutable aggregate of a game session. It is
// owned by the session controller; rule functions take it by value and
// return a replacement, never mutating shared slices in place.
type PlayerState struct {
	Name      string     `yaml:"name"`
	Realm     Realm      `yaml:"realm"`
	CurrentQi int        `yaml:"current_qi"`
	MaxQi     int        `yaml:"max_qi"`
	Stats     Stats      `yaml:"stats"`
	Location  Location   `yaml:"location"`
	Inventory []string   `yaml:"inventory"`
	History   []LogEntry `yaml:"history"`
}

// NewPlayerState returns the starting state: a wandering cultivator at
// the bottom of the White Mist realm.
func NewPlayerState() PlayerState {
	return PlayerState{
		Name:      "流浪修士",
		Realm:     RealmWhiteMist,
		CurrentQi: 10,
		MaxQi:     100,
		Stats:     Stats{Body: 10, Spirit: 10, DaoHeart: 5},
		Location:  LocationTown,
		Inventory: []string{"生锈铁剑", "干粮"},
		History: []LogEntry{
			NewLogEntry("你苏醒在凡尘之中。四周灵气稀薄，但通往九霄的大道就在前方。你目前的修为是：白雾境。", LogSystem),
		},
	}
}

// Clone returns a deep copy of the state. History and inventory get
// fresh backing arrays so the copy can be appended to independently.
func (s PlayerState) Clone() PlayerState {
	out := s
	out.Inventory = append([]string(nil), s.Inventory...)
	out.History = append([]LogEntry(nil), s.History...)
	return out
}

// AppendLog returns a copy of the state with the entry appended.
func (s PlayerState) AppendLog(entry LogEntry) PlayerState {
	out := s.Clone()
	out.History = append(out.History, entry)
	return out
}
