package main

// Dialect selects which scene schema a revision workflow operates on. It is
// fixed per video when the scenes are first generated, never inferred from
// the revision request text.
type Dialect string

const (
	DialectClassic Dialect = "classic"
	DialectWan     Dialect = "wan"
)

// SceneCount returns the fixed number of scenes a valid set carries.
func (d Dialect) SceneCount() int {
	if d == DialectWan {
		return wanSceneCount
	}
	return classicSceneCount
}

const (
	classicSceneCount = 5
	wanSceneCount     = 6

	defaultVoiceEmotion = "neutral"
	defaultVoiceID      = "Wise_Woman"
)

// Allowed voice settings for the WAN workflow. The model is instructed to
// stay inside these lists; the diff treats an absent value as the default.
var (
	allowedVoiceEmotions = []string{"happy", "sad", "angry", "fearful", "disgusted", "surprised", "neutral"}
	allowedVoiceIDs      = []string{"Deep_Voice_Man", "Wise_Woman"}
)

// musicMissingKeywords trigger video-wide background music generation when
// any of them appears in a WAN revision request. Matching is case-insensitive
// substring search; the signal is independent of the per-scene diff.
var musicMissingKeywords = []string{
	"no music", "no background music", "missing music", "add music",
	"needs music", "without music", "no sound", "silent",
}

// defaultMusicPrompt is stored when a revision request asks for music to be
// added. Music is video-wide, not scene-specific.
const defaultMusicPrompt = "Lo-fi hip-hop with a light upbeat rhythm, soft percussion, and a steady background flow. Casual and positive, perfect for maintaining a smooth ad vibe across all scenes, ending gently at the final call-to-action."

// Scene is a stored scene record. Classic videos use the five content fields;
// WAN videos additionally carry voice settings and leave sound_effects and
// music_direction empty. Asset URLs are set once the asset exists.
type Scene struct {
	SceneNumber       int    `bson:"scene_number" json:"scene_number"`
	ImagePrompt       string `bson:"image_prompt" json:"image_prompt"`
	VisualDescription string `bson:"visual_description" json:"visual_description"`
	VoiceOverText     string `bson:"voice_over_text" json:"voice_over_text"`
	SoundEffects      string `bson:"sound_effects" json:"sound_effects"`
	MusicDirection    string `bson:"music_direction" json:"music_direction"`
	VoiceEmotion      string `bson:"voice_emotion,omitempty" json:"voice_emotion,omitempty"`
	VoiceID           string `bson:"voice_id,omitempty" json:"voice_id,omitempty"`

	ImageURL     string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	VoiceoverURL string `bson:"voiceover_url,omitempty" json:"voiceover_url,omitempty"`
	SceneClipURL string `bson:"scene_clip_url,omitempty" json:"scene_clip_url,omitempty"`
}

// WanScene is the model-facing shape of a WAN scene: the same content as
// Scene under the field names the generative model works with.
type WanScene struct {
	SceneNumber      int    `json:"scene_number"`
	NanoBananaPrompt string `json:"nano_banana_prompt"`
	ElevenLabsPrompt string `json:"elevenlabs_prompt"`
	Emotion          string `json:"eleven_labs_emotion"`
	VoiceID          string `json:"eleven_labs_voice_id"`
	Wan25Prompt      string `json:"wan2_5_prompt"`
}

// SceneChange is the per-scene output of the diff: which assets are stale,
// the original asset URLs, and the revised values that drive regeneration.
// When a flag is false the original URL can be reused directly; when true it
// is reported for auditing but must be treated as stale.
type SceneChange struct {
	SceneNumber          int    `bson:"scene_number" json:"scene_number"`
	ImageNeedsRegen      bool   `bson:"image_needs_regen" json:"image_needs_regen"`
	VoiceoverNeedsRegen  bool   `bson:"voiceover_needs_regen" json:"voiceover_needs_regen"`
	VideoNeedsRegen      bool   `bson:"video_needs_regen" json:"video_needs_regen"`
	OriginalImageURL     string `bson:"original_image_url" json:"original_image_url"`
	OriginalVoiceoverURL string `bson:"original_voiceover_url" json:"original_voiceover_url"`
	OriginalVideoURL     string `bson:"original_video_url" json:"original_video_url"`
	RevisedImagePrompt   string `bson:"revised_image_prompt" json:"revised_image_prompt"`
	RevisedVoiceover     string `bson:"revised_voiceover" json:"revised_voiceover"`
	RevisedEmotion       string `bson:"revised_emotion" json:"revised_emotion"`
	RevisedVoiceID       string `bson:"revised_voice_id" json:"revised_voice_id"`
	RevisedVideoPrompt   string `bson:"revised_video_prompt" json:"revised_video_prompt"`
}

// RevisionInstruction is the compiled payload for one generative call.
type RevisionInstruction struct {
	SystemPrompt               string
	UserPrompt                 string
	Dialect                    Dialect
	SceneCount                 int
	MusicRegenerationRequested bool
}
