package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validation failure taxonomy for model output. Every one of these rejects
// the whole batch; partial trust is never granted and nothing is retried
// here, the caller decides whether to re-prompt.
var (
	ErrParse  = errors.New("model output is not valid JSON")
	ErrFormat = errors.New("model output has an unexpected top-level shape")
	ErrArity  = errors.New("model output has the wrong number of scenes")
	ErrSchema = errors.New("model output scene is missing required fields")
)

var classicRequiredFields = []string{
	"scene_number", "image_prompt", "visual_description",
	"voice_over_text", "sound_effects", "music_direction",
}

var wanRequiredFields = []string{
	"scene_number", "nano_banana_prompt", "elevenlabs_prompt",
	"eleven_labs_emotion", "eleven_labs_voice_id", "wan2_5_prompt",
}

// RevisionParser turns raw model output into a trusted scene list. It runs
// in two stages: a lenient normalization stage that strips one optional
// markdown code fence and has no validation authority, then a strict stage
// that is the sole gate for trust. Missing fields are never defaulted to
// pass validation; a single gap rejects the batch.
type RevisionParser struct {
	dialect Dialect
}

func NewRevisionParser(dialect Dialect) *RevisionParser {
	return &RevisionParser{dialect: dialect}
}

// ParseClassicScenes validates raw model output for the classic dialect.
func (p *RevisionParser) ParseClassicScenes(raw string) ([]Scene, error) {
	rawScenes, err := p.parse(raw)
	if err != nil {
		return nil, err
	}
	scenes := make([]Scene, 0, len(rawScenes))
	for i, rawScene := range rawScenes {
		var s Scene
		if err := json.Unmarshal(rawScene, &s); err != nil {
			return nil, fmt.Errorf("%w: scene %d: %v", ErrSchema, i+1, err)
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// ParseWanScenes validates raw model output for the WAN dialect.
func (p *RevisionParser) ParseWanScenes(raw string) ([]WanScene, error) {
	rawScenes, err := p.parse(raw)
	if err != nil {
		return nil, err
	}
	scenes := make([]WanScene, 0, len(rawScenes))
	for i, rawScene := range rawScenes {
		var s WanScene
		if err := json.Unmarshal(rawScene, &s); err != nil {
			return nil, fmt.Errorf("%w: scene %d: %v", ErrSchema, i+1, err)
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

func (p *RevisionParser) parse(raw string) ([]json.RawMessage, error) {
	content := stripCodeFence(raw)
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrParse)
	}

	rawScenes, err := extractSceneObjects(content)
	if err != nil {
		return nil, err
	}

	want := p.dialect.SceneCount()
	if len(rawScenes) != want {
		return nil, fmt.Errorf("%w: expected %d scenes, got %d", ErrArity, want, len(rawScenes))
	}

	required := classicRequiredFields
	if p.dialect == DialectWan {
		required = wanRequiredFields
	}
	for i, rawScene := range rawScenes {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rawScene, &fields); err != nil {
			return nil, fmt.Errorf("%w: scene %d is not an object", ErrSchema, i+1)
		}
		for _, name := range required {
			if _, ok := fields[name]; !ok {
				return nil, fmt.Errorf("%w: scene %d missing %q", ErrSchema, i+1, name)
			}
		}
	}

	return rawScenes, nil
}

// stripCodeFence removes one leading ```json (or bare ```) marker and one
// trailing ``` marker. Tolerance for incidental formatting only; the content
// between the fences is untouched.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// extractSceneObjects accepts either a bare JSON array of scene objects or
// an object carrying a "scenes" array. Anything else is rejected.
func extractSceneObjects(content string) ([]json.RawMessage, error) {
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrParse)
	}

	switch content[0] {
	case '[':
		var scenes []json.RawMessage
		if err := json.Unmarshal([]byte(content), &scenes); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return scenes, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		raw, ok := wrapper["scenes"]
		if !ok {
			return nil, fmt.Errorf("%w: object has no scenes field", ErrFormat)
		}
		var scenes []json.RawMessage
		if err := json.Unmarshal(raw, &scenes); err != nil {
			return nil, fmt.Errorf("%w: scenes field is not an array", ErrFormat)
		}
		return scenes, nil
	default:
		return nil, fmt.Errorf("%w: top level is neither array nor object", ErrFormat)
	}
}
