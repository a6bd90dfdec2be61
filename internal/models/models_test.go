package models

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRealmQiCap(t *testing.T) {
	tests := []struct {
		realm Realm
		want  int
	}{
		{RealmMortal, 100},
		{RealmWhiteMist, 100},
		{RealmPurplePole, 500},
		{RealmAzureOrigin, 2000},
		{RealmGoldImmortal, 10000},
	}
	for _, tt := range tests {
		got, ok := tt.realm.QiCap()
		if !ok {
			t.Errorf("QiCap(%s): not found", tt.realm)
			continue
		}
		if got != tt.want {
			t.Errorf("QiCap(%s) = %d, want %d", tt.realm, got, tt.want)
		}
	}

	if _, ok := Realm("demon_king").QiCap(); ok {
		t.Error("QiCap for unknown realm should report ok=false")
	}
}

func TestDungeonDataValidate(t *testing.T) {
	valid := DungeonData{
		Title:        "深渊低语",
		Genre:        "Horror",
		Difficulty:   "B",
		Rating:       "B",
		Scenario:     "...",
		Question:     "...",
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 2,
		RewardText:   "reward",
		PenaltyText:  "penalty",
		Summary:      "summary",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid dungeon rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*DungeonData)
	}{
		{"unknown genre", func(d *DungeonData) { d.Genre = "Romance" }},
		{"unknown difficulty", func(d *DungeonData) { d.Difficulty = "F" }},
		{"unknown rating", func(d *DungeonData) { d.Rating = "SS" }},
		{"too few options", func(d *DungeonData) { d.Options = d.Options[:3] }},
		{"too many options", func(d *DungeonData) { d.Options = append(d.Options, "e") }},
		{"index too low", func(d *DungeonData) { d.CorrectIndex = -1 }},
		{"index too high", func(d *DungeonData) { d.CorrectIndex = 4 }},
	}
	for _, tt := range tests {
		d := valid
		d.Options = append([]string(nil), valid.Options...)
		tt.mutate(&d)
		if err := d.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestActionOutcomeValidate(t *testing.T) {
	out := ActionOutcome{Narrative: "灵气流转。", QiChange: 10}
	if err := out.Validate(); err != nil {
		t.Fatalf("plain outcome rejected: %v", err)
	}

	out.NewRealm = "celestial_sovereign"
	if err := out.Validate(); err == nil {
		t.Error("unknown realm should fail validation")
	}

	out.NewRealm = RealmPurplePole
	if err := out.Validate(); err != nil {
		t.Fatalf("valid realm rejected: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewPlayerState()
	c := s.Clone()

	c.Inventory = append(c.Inventory, "玄铁令")
	c.History = append(c.History, NewLogEntry("test", LogSystem))

	if len(s.Inventory) != 2 {
		t.Errorf("clone append leaked into original inventory: %v", s.Inventory)
	}
	if len(s.History) != 1 {
		t.Errorf("clone append leaked into original history: %d entries", len(s.History))
	}
}

func TestPlayerStateYAML(t *testing.T) {
	s := NewPlayerState()
	s.Inventory = append(s.Inventory, "回灵丹")

	data, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	var s2 PlayerState
	if err := yaml.Unmarshal(data, &s2); err != nil {
		t.Fatalf("Failed to unmarshal state: %v", err)
	}

	if s2.Realm != RealmWhiteMist {
		t.Errorf("Expected realm %s, got %s", RealmWhiteMist, s2.Realm)
	}
	if len(s2.Inventory) != 3 {
		t.Errorf("Expected 3 inventory items, got %d", len(s2.Inventory))
	}
	if len(s2.History) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(s2.History))
	}
}
