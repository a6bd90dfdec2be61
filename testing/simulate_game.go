// Simulates a short game session from the command line, without the TUI.
// With no GEMINI_API_KEY set the narrative engine runs in offline mode,
// which makes the run fully deterministic together with the fixed seed.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ruqinhu/youxi/internal/engine"
	"github.com/ruqinhu/youxi/internal/minigame"
	"github.com/ruqinhu/youxi/internal/models"
	"github.com/ruqinhu/youxi/internal/rng"
	"github.com/ruqinhu/youxi/internal/session"
)

func main() {
	ctx := context.Background()

	eng, err := engine.NewEngine(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	ctrl := session.New(eng, rng.New(42))

	fmt.Println("--- Step 1: Actions ---")
	actions := []models.Action{
		models.ActionMeditate,
		models.ActionExplore,
		models.ActionMeditate,
		models.ActionBreakthrough,
	}
	for _, action := range actions {
		if err := ctrl.Act(ctx, action); err != nil {
			fmt.Printf("%s rejected: %v\n", action, err)
			continue
		}
		printTail(ctrl, 2)
	}

	fmt.Println("\n--- Step 2: Travel ---")
	if err := ctrl.Travel(models.LocationPond); err != nil {
		log.Fatalf("Travel failed: %v", err)
	}
	printTail(ctrl, 1)

	fmt.Println("\n--- Step 3: Soul tribulation ---")
	game := ctrl.NewTribulation()
	for jump := 0; jump < 5; jump++ {
		target := game.Target()
		aim := target.Left + 5
		need := (aim - minigame.PlayerStartX - minigame.PlayerHalfWidth) / minigame.MaxJumpDistance * minigame.MaxPower

		if err := game.StartCharge(); err != nil {
			break
		}
		for game.Power() < need {
			game.ChargeTick()
		}
		if _, err := game.Release(); err != nil {
			break
		}
		outcome, err := game.ResolveLanding()
		if err != nil || outcome == minigame.LandingFallen {
			break
		}
	}
	ctrl.FinishTribulation(game.Finish())
	printTail(ctrl, 1)

	fmt.Println("\n--- Final character sheet ---")
	state := ctrl.State()
	fmt.Printf("境界: %s\n", state.Realm.Display())
	fmt.Printf("灵气: %d/%d\n", state.CurrentQi, state.MaxQi)
	fmt.Printf("体魄 %d | 神魂 %d | 道心 %d\n", state.Stats.Body, state.Stats.Spirit, state.Stats.DaoHeart)
	fmt.Printf("地点: %s\n", state.Location.Display())
	fmt.Printf("行囊: %v\n", state.Inventory)
	fmt.Printf("日志条数: %d\n", len(state.History))
}

func printTail(ctrl *session.Controller, n int) {
	history := ctrl.State().History
	if len(history) < n {
		n = len(history)
	}
	for _, entry := range history[len(history)-n:] {
		fmt.Printf("[%s] %s\n", entry.Kind, entry.Text)
	}
}
