package engine

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/ruqinhu/youxi/internal/models"
)

var genreStyles = map[string]string{
	"Horror":     "Horror, Dark, Gritty, Lovecraftian, Red and Black color palette, Spooky.",
	"SciFi":      "Cyberpunk, Neon, High-tech, Futuristic city, Blue and Pink lights.",
	"Wasteland":  "Post-apocalyptic, Rusty, Desert, Mad Max style, Desolate.",
	"Mystery":    "Noir, Rainy, Shadows, Detective, Victorian London vibe.",
	"Historical": "Ancient War, Sepia tones, Realistic, Battlefield.",
}

const defaultStyle = "Eastern Fantasy (Xianxia), Mystical, Ethereal, Ancient Chinese aesthetics."

// GenerateSceneImage asks the image model for a pixel-art illustration
// of the scene and returns it as a data URL. Any failure, and offline
// mode, returns the empty string; a missing image is never an error.
func (e *Engine) GenerateSceneImage(ctx context.Context, scene string, dungeon *models.DungeonData) string {
	if e.Offline() {
		return ""
	}

	style := defaultStyle
	if dungeon != nil {
		if s, ok := genreStyles[dungeon.Genre]; ok {
			style = s
		}
		scene = dungeon.Scenario
	}

	prompt := fmt.Sprintf(`Generate a pixel art style image (16-bit retro RPG video game style) depicting the following scene:
%q

Visual Style Requirements:
- Art Style: High-quality Pixel Art, 16-bit, SNES-era aesthetic.
- Theme/Genre: %s
- View: Side-scrolling or Isometric game view.
- Content: No text, no UI elements. Just the scene/environment or character action.`, scene, style)

	resp, err := e.imageModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ""
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return fmt.Sprintf("data:%s;base64,%s", blob.MIMEType, base64.StdEncoding.EncodeToString(blob.Data))
			}
		}
	}
	return ""
}
