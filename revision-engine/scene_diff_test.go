package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classicTestScenes() []Scene {
	return []Scene{
		{SceneNumber: 1, ImagePrompt: "a sunny beach", VisualDescription: "waves rolling in", VoiceOverText: "Welcome to paradise", SoundEffects: "seagulls", MusicDirection: "calm ukulele", ImageURL: "https://cdn/img1.png", VoiceoverURL: "https://cdn/vo1.mp3", SceneClipURL: "https://cdn/clip1.mp4"},
		{SceneNumber: 2, ImagePrompt: "a busy market", VisualDescription: "vendors shouting", VoiceOverText: "Fresh produce everywhere", SoundEffects: "crowd chatter", MusicDirection: "upbeat folk", ImageURL: "https://cdn/img2.png", VoiceoverURL: "https://cdn/vo2.mp3", SceneClipURL: "https://cdn/clip2.mp4"},
		{SceneNumber: 3, ImagePrompt: "a quiet library", VisualDescription: "camera pans over shelves", VoiceOverText: "Knowledge lives here", SoundEffects: "pages turning", MusicDirection: "soft piano", ImageURL: "https://cdn/img3.png", VoiceoverURL: "https://cdn/vo3.mp3", SceneClipURL: "https://cdn/clip3.mp4"},
		{SceneNumber: 4, ImagePrompt: "a mountain peak", VisualDescription: "clouds drifting past", VoiceOverText: "Reach for the summit", SoundEffects: "wind", MusicDirection: "epic strings", ImageURL: "https://cdn/img4.png", VoiceoverURL: "https://cdn/vo4.mp3", SceneClipURL: "https://cdn/clip4.mp4"},
		{SceneNumber: 5, ImagePrompt: "a city at night", VisualDescription: "lights flicker on", VoiceOverText: "The day never ends", SoundEffects: "distant traffic", MusicDirection: "ambient synth", ImageURL: "https://cdn/img5.png", VoiceoverURL: "https://cdn/vo5.mp3", SceneClipURL: "https://cdn/clip5.mp4"},
	}
}

func TestCompareScenesNoChanges(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()

	changes := CompareScenes(original, revised)
	require.Len(t, changes, 5)

	for _, c := range changes {
		assert.False(t, c.ImageNeedsRegen, "scene %d image", c.SceneNumber)
		assert.False(t, c.VoiceoverNeedsRegen, "scene %d voiceover", c.SceneNumber)
		assert.False(t, c.VideoNeedsRegen, "scene %d video", c.SceneNumber)
	}
	assert.False(t, anyRegenNeeded(changes))
}

func TestCompareScenesImageChangeInvalidatesClip(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[2].ImagePrompt = "a quiet library at dusk"

	changes := CompareScenes(original, revised)
	require.Len(t, changes, 5)

	c := changes[2]
	assert.Equal(t, 3, c.SceneNumber)
	assert.True(t, c.ImageNeedsRegen)
	assert.True(t, c.VideoNeedsRegen, "clip is rendered from the image, so it must follow")
	assert.False(t, c.VoiceoverNeedsRegen)

	for _, other := range []SceneChange{changes[0], changes[1], changes[3], changes[4]} {
		assert.False(t, other.ImageNeedsRegen || other.VoiceoverNeedsRegen || other.VideoNeedsRegen,
			"scene %d should be untouched", other.SceneNumber)
	}
}

func TestCompareScenesMotionOnlyChange(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[0].VisualDescription = "waves crashing violently"

	changes := CompareScenes(original, revised)
	c := changes[0]
	assert.False(t, c.ImageNeedsRegen)
	assert.False(t, c.VoiceoverNeedsRegen)
	assert.True(t, c.VideoNeedsRegen)
	assert.Equal(t, "waves crashing violently", c.RevisedVideoPrompt)
}

func TestCompareScenesVoiceoverTextChange(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[4].VoiceOverText = "The night is just beginning"

	changes := CompareScenes(original, revised)
	c := changes[4]
	assert.True(t, c.VoiceoverNeedsRegen)
	assert.False(t, c.ImageNeedsRegen)
	assert.False(t, c.VideoNeedsRegen)
}

func TestCompareScenesEmotionOnlyChange(t *testing.T) {
	original := classicTestScenes()
	original[1].VoiceEmotion = "neutral"
	revised := classicTestScenes()
	revised[1].VoiceEmotion = "happy"

	changes := CompareScenes(original, revised)
	c := changes[1]
	assert.True(t, c.VoiceoverNeedsRegen)
	assert.False(t, c.ImageNeedsRegen)
	assert.False(t, c.VideoNeedsRegen)
	assert.Equal(t, "happy", c.RevisedEmotion)
}

func TestCompareScenesVoiceDefaultsAreEquivalent(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()

	// Absent voice settings and the explicit defaults mean the same thing.
	original[0].VoiceEmotion = ""
	revised[0].VoiceEmotion = "neutral"
	original[1].VoiceID = "Wise_Woman"
	revised[1].VoiceID = ""

	changes := CompareScenes(original, revised)
	assert.False(t, changes[0].VoiceoverNeedsRegen)
	assert.False(t, changes[1].VoiceoverNeedsRegen)
	assert.Equal(t, "neutral", changes[0].RevisedEmotion)
	assert.Equal(t, "Wise_Woman", changes[1].RevisedVoiceID)
}

func TestCompareScenesVoiceIDChange(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[3].VoiceID = "Deep_Voice_Man"

	changes := CompareScenes(original, revised)
	c := changes[3]
	assert.True(t, c.VoiceoverNeedsRegen)
	assert.Equal(t, "Deep_Voice_Man", c.RevisedVoiceID)
}

func TestCompareScenesWhitespaceIsNotAChange(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[0].ImagePrompt = "  a sunny beach \n"
	revised[0].VoiceOverText = "Welcome to paradise  "

	changes := CompareScenes(original, revised)
	assert.False(t, changes[0].ImageNeedsRegen)
	assert.False(t, changes[0].VoiceoverNeedsRegen)
	assert.False(t, changes[0].VideoNeedsRegen)
}

func TestCompareScenesMissingSceneIsSkipped(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	// Scene 3 vanished from the originals; the diff must skip it, not fail.
	original = append(original[:2], original[3:]...)

	changes := CompareScenes(original, revised)
	require.Len(t, changes, 4)
	for _, c := range changes {
		assert.NotEqual(t, 3, c.SceneNumber)
	}
}

func TestCompareScenesCarriesOriginalURLs(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[1].ImagePrompt = "a deserted market"

	changes := CompareScenes(original, revised)
	c := changes[1]
	assert.Equal(t, "https://cdn/img2.png", c.OriginalImageURL)
	assert.Equal(t, "https://cdn/vo2.mp3", c.OriginalVoiceoverURL)
	assert.Equal(t, "https://cdn/clip2.mp4", c.OriginalVideoURL)
}

func TestApplyCarryForward(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	for i := range revised {
		revised[i].ImageURL = ""
		revised[i].VoiceoverURL = ""
		revised[i].SceneClipURL = ""
	}
	revised[2].VoiceOverText = "Silence is golden"

	changes := CompareScenes(original, revised)
	applyCarryForward(revised, changes)

	// Scene 3: voiceover is stale, image and clip are reusable.
	assert.Equal(t, "https://cdn/img3.png", revised[2].ImageURL)
	assert.Empty(t, revised[2].VoiceoverURL)
	assert.Equal(t, "https://cdn/clip3.mp4", revised[2].SceneClipURL)

	// Untouched scenes get everything back.
	assert.Equal(t, "https://cdn/vo1.mp3", revised[0].VoiceoverURL)
	assert.Equal(t, "https://cdn/clip5.mp4", revised[4].SceneClipURL)
}

func TestCompareScenesIsDeterministic(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[0].ImagePrompt = "a stormy beach"
	revised[3].VoiceOverText = "Climb higher"

	first := CompareScenes(original, revised)
	second := CompareScenes(original, revised)
	assert.Equal(t, first, second)
}
