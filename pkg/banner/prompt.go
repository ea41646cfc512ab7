package banner

import (
	"fmt"
	"strings"
)

// minPromptLength is the shortest LLM output accepted as an image prompt.
const minPromptLength = 20

const promptInstructions = `You are a cinematic concept artist writing prompts for an AI image generator. Given this agent's identity, write ONE image generation prompt (2-3 sentences) for a ultra-wide cinematic banner (3:1 aspect ratio).

RULES:
- Think like a film cinematographer: depth of field, volumetric lighting, atmospheric haze, dramatic composition
- The image must be PURELY VISUAL: absolutely zero text, letters, words, numbers, symbols, logos, or typography of any kind
- Use the agent's name/description as thematic inspiration, NOT as literal text to render
- Favor abstract, atmospheric, and symbolic imagery over literal representations
- Dark moody palette: deep blacks, rich shadows, selective color accents (reds, teals, ambers)
- Think: Blade Runner establishing shots, macro photography, abstract data visualization, moody landscapes
- Vary your style; some agents could be macro/organic, others architectural, others particle-based

Output ONLY the prompt, nothing else.

`

// AgentContext renders the identity lines the LLM sees.
func AgentContext(a *Agent) string {
	lines := []string{
		"Name: " + a.Name,
		"Symbol: $" + a.Symbol,
		"Type: " + a.Type,
	}
	if a.Description != "" {
		lines = append(lines, "Description: "+a.Description)
	}
	lines = append(lines, fmt.Sprintf("Power Score: %d/100", a.PowerScore.Total))
	return strings.Join(lines, "\n")
}

// LLMPrompt is the full instruction sent to the prompt-writing model.
func LLMPrompt(a *Agent) string {
	return promptInstructions + AgentContext(a)
}

// FallbackPrompt is used when the LLM is unavailable or answers with
// something too short to be a prompt.
func FallbackPrompt(a *Agent) string {
	base := a.Name
	if a.Description != "" {
		base = a.Name + ": " + a.Description
	}
	return fmt.Sprintf("Cinematic ultra-wide establishing shot inspired by \"%s\". "+
		"Volumetric light cutting through atmospheric haze, deep blacks and selective red-amber accents, "+
		"shallow depth of field. Abstract and symbolic, no text, no letters, no words, no typography. "+
		"Moody, filmic, high contrast.", base)
}

// acceptPrompt trims LLM output and reports whether it is usable.
func acceptPrompt(output string) (string, bool) {
	p := strings.TrimSpace(output)
	return p, len(p) >= minPromptLength
}

// truncate shortens s for log lines.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
