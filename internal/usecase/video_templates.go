package usecase

// Prompt presets offered as inline buttons while a session is waiting for
// a prompt. Order is the display order.
var VideoTemplateOrder = []string{
	"dance", "walk", "nature", "action", "fashion", "travel", "celebration", "workout",
}

var VideoTemplates = map[string]string{
	"dance":       "Professional dance video, smooth movements, energetic atmosphere",
	"walk":        "Cinematic walking shot, natural lighting, urban environment",
	"nature":      "Nature documentary style, breathtaking landscapes, peaceful",
	"action":      "Action movie style, dynamic camera movements, intense atmosphere",
	"fashion":     "Fashion runway walk, studio lighting, high-end aesthetic",
	"travel":      "Travel vlog style, adventure, exploration, scenic locations",
	"celebration": "Celebration party, joyful moments, festive atmosphere",
	"workout":     "Fitness workout video, dynamic energy, gym environment",
}
