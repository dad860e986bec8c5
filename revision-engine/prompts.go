package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The compiler builds the full instruction for one generative call: a system
// prompt carrying the field-ownership contract for the selected dialect and
// a user prompt carrying the revision request plus the original scenes as
// JSON. Compilation never fails on well-formed input; an empty revision
// request is rejected by the revision service before it reaches here.

const classicRevisionSystemPrompt = `You are an expert AI video revision specialist that processes user revision requests with surgical precision.

SCENE FIELDS:
- image_prompt: Combined image generation prompt
- visual_description: Video motion and visual elements
- voice_over_text: Spoken dialogue/narration text
- sound_effects: Audio effects and ambient sounds
- music_direction: Background music style and mood

REVISION ANALYSIS PROTOCOL:

1. PARSE USER INTENT with extreme precision:
   - "movement", "motion", "action", "camera" -> ONLY visual_description
   - "background", "lighting", "scene", "visual" -> ONLY visual_description + image_prompt
   - "dialogue", "speech", "narration", "voice", "says" -> ONLY voice_over_text
   - "music", "soundtrack", "background music" -> ONLY music_direction
   - "sound", "audio effects", "ambient" -> ONLY sound_effects
   - Scene numbers (1-5) -> Target ONLY that specific scene
   - "all scenes", "entire video", "everything" -> Apply to ALL scenes

2. FIELD PRESERVATION RULE:
   - If a field is NOT mentioned in the revision request -> Return EXACT original value
   - If a field IS mentioned -> Update according to user's specific request
   - NEVER make assumptions or "helpful" changes to unmentioned fields

3. SMART CONTENT MATCHING:
   - When user describes content without scene numbers, search ALL scenes
   - Match user descriptions to existing visual_description or voice_over_text content
   - Example: "the woman walking" should find the scene with a woman walking in visual_description

4. CHANGE SCOPE DETECTION:
   - SPECIFIC: "change scene 3's background" -> Only scene 3, only visual_description + image_prompt
   - GLOBAL: "make the music more dramatic" -> All 5 scenes, only music_direction
   - TARGETED: "the woman should say something different" -> Find scene with woman, update ONLY voice_over_text

FORBIDDEN BEHAVIORS:
- NEVER change unmentioned fields "for consistency"
- NEVER make "improvements" not requested by user
- NEVER assume related changes (e.g., changing music when user asks for visual changes)
- NEVER modify scene_number values

OUTPUT REQUIREMENTS:
- Always return exactly 5 scenes
- Always include all 6 fields for each scene: scene_number, image_prompt, visual_description, voice_over_text, sound_effects, music_direction
- Preserve original values for unchanged fields EXACTLY (no paraphrasing)
- Only modify fields explicitly or implicitly targeted by the revision request

Output format (JSON only, no explanations or markdown):
{
  "scenes": [
    {
      "scene_number": 1,
      "image_prompt": "...",
      "visual_description": "...",
      "voice_over_text": "...",
      "sound_effects": "...",
      "music_direction": "..."
    },
    ...
  ]
}`

const wanRevisionSystemPrompt = `You are an expert AI WAN video revision specialist that processes user revision requests with surgical precision for the WAN 2.5 workflow.

WAN SCENE FIELDS:
- nano_banana_prompt: Image generation prompt for Nano Banana
- elevenlabs_prompt: Voice generation prompt for ElevenLabs
- eleven_labs_emotion: Emotion for voiceover generation
- eleven_labs_voice_id: Voice ID for voiceover generation
- wan2_5_prompt: Video animation prompt for WAN 2.5

VOICE AND EMOTION CONSTRAINTS:
- eleven_labs_emotion MUST be one of: ["happy", "sad", "angry", "fearful", "disgusted", "surprised", "neutral"]
- eleven_labs_voice_id MUST be one of: ["Deep_Voice_Man", "Wise_Woman"]
- PRESERVE original voice_id and emotion unless user explicitly requests a change
- If user says they don't like the voice, pick from the available voice options
- If user mentions emotion changes, use the allowed emotion list

WAN REVISION ANALYSIS PROTOCOL:

1. PARSE USER INTENT with extreme precision for the WAN workflow:
   - "image", "background", "lighting", "scene", "visual", "appearance" -> ONLY nano_banana_prompt
   - "voice", "speech", "narration", "dialogue", "says", "talks" -> ONLY elevenlabs_prompt
   - "voice change", "different voice", "don't like voice", "change speaker" -> ONLY eleven_labs_voice_id
   - "emotion", "tone", "feeling", "mood of voice", "sound more", "less energetic" -> ONLY eleven_labs_emotion
   - "movement", "motion", "action", "camera", "animation", "video" -> ONLY wan2_5_prompt
   - Scene numbers (1-6) -> Target ONLY that specific scene
   - "all scenes", "entire video", "everything" -> Apply to ALL 6 scenes

2. FIELD PRESERVATION RULE:
   - If a field is NOT mentioned in the revision request -> Return EXACT original value
   - ESPECIALLY preserve eleven_labs_voice_id and eleven_labs_emotion unless explicitly mentioned
   - If a field IS mentioned -> Update according to user's specific request
   - MINIMAL NECESSARY CHANGE: Only make the minimum required adjustments to fulfill the request

3. SMART CONTENT MATCHING:
   - When user describes content without scene numbers, search ALL scenes
   - Match user descriptions to existing nano_banana_prompt, elevenlabs_prompt, or wan2_5_prompt content
   - Consider synonyms and related terms: "person" = "man/woman", "moving" = "walking/running"

4. WAN-SPECIFIC RULES:
   - nano_banana_prompt creates the static image: objects, people, setting, lighting, composition; no motion or temporal elements
   - wan2_5_prompt animates that static image: motion, camera movement, transitions, temporal changes; no static visual descriptions
   - elevenlabs_prompt carries the spoken narration text
   - Keep prompts concise and AI-model-friendly

FORBIDDEN BEHAVIORS:
- NEVER change unmentioned fields "for consistency"
- NEVER make "improvements" not requested by user
- NEVER modify scene_number values
- NEVER use voice_id or emotion values outside the allowed lists
- NEVER change voice settings without user request
- NEVER introduce new visual elements, characters, or objects not present in the original scene or explicitly requested

OUTPUT REQUIREMENTS:
- Always return exactly 6 scenes
- Always include all 6 fields for each scene: scene_number, nano_banana_prompt, elevenlabs_prompt, eleven_labs_emotion, eleven_labs_voice_id, wan2_5_prompt
- Preserve original values for unchanged fields EXACTLY (no paraphrasing)

Output format (JSON only, no explanations or markdown):
{
  "scenes": [
    {
      "scene_number": 1,
      "nano_banana_prompt": "...",
      "elevenlabs_prompt": "...",
      "eleven_labs_emotion": "...",
      "eleven_labs_voice_id": "...",
      "wan2_5_prompt": "..."
    },
    ...
  ]
}`

// classicPromptScene is a classic scene as presented to the model: content
// fields only, never the asset URLs.
type classicPromptScene struct {
	SceneNumber       int    `json:"scene_number"`
	ImagePrompt       string `json:"image_prompt"`
	VisualDescription string `json:"visual_description"`
	VoiceOverText     string `json:"voice_over_text"`
	SoundEffects      string `json:"sound_effects"`
	MusicDirection    string `json:"music_direction"`
}

// CompileClassicInstruction builds the generative instruction for a classic
// (5-scene) revision.
func CompileClassicInstruction(revisionRequest string, originalScenes []Scene) *RevisionInstruction {
	forModel := make([]classicPromptScene, 0, len(originalScenes))
	for _, s := range originalScenes {
		forModel = append(forModel, classicPromptScene{
			SceneNumber:       s.SceneNumber,
			ImagePrompt:       s.ImagePrompt,
			VisualDescription: s.VisualDescription,
			VoiceOverText:     s.VoiceOverText,
			SoundEffects:      s.SoundEffects,
			MusicDirection:    s.MusicDirection,
		})
	}
	scenesJSON, _ := json.MarshalIndent(forModel, "", "  ")

	userPrompt := fmt.Sprintf(`REVISION REQUEST: %s

ORIGINAL SCENES:
%s

INSTRUCTIONS:
1. Analyze the revision request with surgical precision
2. Identify EXACTLY which fields need changes based on the request
3. For unchanged fields, return the EXACT original values (no paraphrasing)
4. For changed fields, implement the user's specific request
5. Return complete JSON with all %d scenes and all fields per scene`,
		revisionRequest, scenesJSON, classicSceneCount)

	return &RevisionInstruction{
		SystemPrompt: classicRevisionSystemPrompt,
		UserPrompt:   userPrompt,
		Dialect:      DialectClassic,
		SceneCount:   classicSceneCount,
	}
}

// CompileWanInstruction builds the generative instruction for a WAN
// (6-scene) revision. It additionally scans the request for the fixed
// missing-music keyword set; that signal is video-wide and independent of
// the per-scene field edits.
func CompileWanInstruction(revisionRequest string, originalScenes []WanScene) *RevisionInstruction {
	scenesJSON, _ := json.MarshalIndent(originalScenes, "", "  ")

	userPrompt := fmt.Sprintf(`WAN REVISION REQUEST: %s

ORIGINAL WAN SCENES:
%s

INSTRUCTIONS:
1. Analyze the WAN revision request with surgical precision
2. Identify EXACTLY which WAN prompt fields need changes based on the request
3. For unchanged fields, return the EXACT original values (no paraphrasing)
4. For changed fields, implement the user's specific request while keeping prompts concise
5. Return complete JSON with all %d WAN scenes and all fields per scene`,
		revisionRequest, scenesJSON, wanSceneCount)

	return &RevisionInstruction{
		SystemPrompt:               wanRevisionSystemPrompt,
		UserPrompt:                 userPrompt,
		Dialect:                    DialectWan,
		SceneCount:                 wanSceneCount,
		MusicRegenerationRequested: detectMusicRequest(revisionRequest),
	}
}

// detectMusicRequest reports whether the revision request mentions that
// background music is missing or should be added.
func detectMusicRequest(revisionRequest string) bool {
	lowered := strings.ToLower(revisionRequest)
	for _, keyword := range musicMissingKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
