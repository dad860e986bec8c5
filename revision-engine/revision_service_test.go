package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAIService returns a canned response and records what it was asked.
type fakeAIService struct {
	response     string
	err          error
	systemPrompt string
	userPrompt   string
	calls        int
}

func (f *fakeAIService) GenerateContentWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.systemPrompt = systemPrompt
	f.userPrompt = userPrompt
	return f.response, f.err
}

func wanTestScenes() []Scene {
	scenes := make([]Scene, 0, wanSceneCount)
	prompts := []string{
		"a startup office at dawn", "a whiteboard full of sketches",
		"two founders shaking hands", "a product demo on a laptop",
		"a cheering small crowd", "the product logo on a dark background",
	}
	for i := 1; i <= wanSceneCount; i++ {
		scenes = append(scenes, Scene{
			SceneNumber:       i,
			ImagePrompt:       prompts[i-1],
			VisualDescription: "slow push-in on the subject",
			VoiceOverText:     "Scene " + string(rune('0'+i)) + " narration",
			VoiceEmotion:      "neutral",
			VoiceID:           "Wise_Woman",
			ImageURL:          "https://cdn/wimg.png",
			VoiceoverURL:      "https://cdn/wvo.mp3",
			SceneClipURL:      "https://cdn/wclip.mp4",
		})
	}
	return scenes
}

func marshalClassicResponse(t *testing.T, scenes []Scene) string {
	t.Helper()
	forModel := make([]classicPromptScene, 0, len(scenes))
	for _, s := range scenes {
		forModel = append(forModel, classicPromptScene{
			SceneNumber:       s.SceneNumber,
			ImagePrompt:       s.ImagePrompt,
			VisualDescription: s.VisualDescription,
			VoiceOverText:     s.VoiceOverText,
			SoundEffects:      s.SoundEffects,
			MusicDirection:    s.MusicDirection,
		})
	}
	out, err := json.Marshal(map[string]any{"scenes": forModel})
	require.NoError(t, err)
	return string(out)
}

func marshalWanResponse(t *testing.T, scenes []WanScene) string {
	t.Helper()
	out, err := json.Marshal(map[string]any{"scenes": scenes})
	require.NoError(t, err)
	return string(out)
}

func TestReviseScenesClassicTargetedChange(t *testing.T) {
	original := classicTestScenes()
	revised := classicTestScenes()
	revised[2].VoiceOverText = "Wisdom lives here"

	ai := &fakeAIService{response: marshalClassicResponse(t, revised)}
	svc := NewRevisionService(ai)

	result, err := svc.ReviseScenes(context.Background(), "change scene 3's narration to mention wisdom", original, DialectClassic)
	require.NoError(t, err)
	require.Len(t, result.Changes, 5)
	assert.Equal(t, 1, ai.calls)

	c := result.Changes[2]
	assert.True(t, c.VoiceoverNeedsRegen)
	assert.False(t, c.ImageNeedsRegen)
	assert.False(t, c.VideoNeedsRegen)
	assert.Equal(t, "Wisdom lives here", c.RevisedVoiceover)

	// Reusable assets carried onto the stored revision set.
	assert.Equal(t, "https://cdn/img3.png", result.RevisedScenes[2].ImageURL)
	assert.Equal(t, "https://cdn/clip3.mp4", result.RevisedScenes[2].SceneClipURL)
	assert.False(t, result.MusicRegenerationRequested)
}

func TestReviseScenesClassicNoOp(t *testing.T) {
	original := classicTestScenes()
	ai := &fakeAIService{response: marshalClassicResponse(t, classicTestScenes())}
	svc := NewRevisionService(ai)

	result, err := svc.ReviseScenes(context.Background(), "it is perfect, change nothing", original, DialectClassic)
	require.NoError(t, err)
	assert.False(t, anyRegenNeeded(result.Changes))
	for i, s := range result.RevisedScenes {
		assert.Equal(t, original[i].ImageURL, s.ImageURL)
		assert.Equal(t, original[i].VoiceoverURL, s.VoiceoverURL)
		assert.Equal(t, original[i].SceneClipURL, s.SceneClipURL)
	}
}

func TestReviseScenesWanImageChange(t *testing.T) {
	original := wanTestScenes()
	revisedWan := wanScenesToModelFacing(wanTestScenes())
	revisedWan[0].NanoBananaPrompt = "a startup office at midnight"

	ai := &fakeAIService{response: marshalWanResponse(t, revisedWan)}
	svc := NewRevisionService(ai)

	result, err := svc.ReviseScenes(context.Background(), "make scene 1 happen at night", original, DialectWan)
	require.NoError(t, err)
	require.Len(t, result.Changes, 6)

	c := result.Changes[0]
	assert.True(t, c.ImageNeedsRegen)
	assert.True(t, c.VideoNeedsRegen)
	assert.False(t, c.VoiceoverNeedsRegen)
	assert.Equal(t, "a startup office at midnight", c.RevisedImagePrompt)

	// The model saw WAN field names, storage keeps generic ones.
	assert.Contains(t, ai.userPrompt, "nano_banana_prompt")
	assert.Equal(t, "a startup office at midnight", result.RevisedScenes[0].ImagePrompt)
}

func TestReviseScenesWanVoiceSwap(t *testing.T) {
	original := wanTestScenes()
	revisedWan := wanScenesToModelFacing(wanTestScenes())
	for i := range revisedWan {
		revisedWan[i].VoiceID = "Deep_Voice_Man"
	}

	ai := &fakeAIService{response: marshalWanResponse(t, revisedWan)}
	svc := NewRevisionService(ai)

	result, err := svc.ReviseScenes(context.Background(), "I don't like the voice, use a deeper one", original, DialectWan)
	require.NoError(t, err)

	for _, c := range result.Changes {
		assert.True(t, c.VoiceoverNeedsRegen, "scene %d", c.SceneNumber)
		assert.False(t, c.ImageNeedsRegen, "scene %d", c.SceneNumber)
		assert.False(t, c.VideoNeedsRegen, "scene %d", c.SceneNumber)
		assert.Equal(t, "Deep_Voice_Man", c.RevisedVoiceID)
	}
}

func TestReviseScenesWanMusicRequest(t *testing.T) {
	original := wanTestScenes()
	ai := &fakeAIService{response: marshalWanResponse(t, wanScenesToModelFacing(wanTestScenes()))}
	svc := NewRevisionService(ai)

	result, err := svc.ReviseScenes(context.Background(), "The video has no background music, please add some", original, DialectWan)
	require.NoError(t, err)

	// Music is a video-wide signal, independent of the per-scene diff.
	assert.True(t, result.MusicRegenerationRequested)
	assert.False(t, anyRegenNeeded(result.Changes))
}

func TestReviseScenesEmptyRequest(t *testing.T) {
	ai := &fakeAIService{}
	svc := NewRevisionService(ai)

	_, err := svc.ReviseScenes(context.Background(), "   ", classicTestScenes(), DialectClassic)
	require.Error(t, err)
	assert.Zero(t, ai.calls, "empty request must be rejected before the model call")
}

func TestReviseScenesModelError(t *testing.T) {
	ai := &fakeAIService{err: errors.New("rate limited")}
	svc := NewRevisionService(ai)

	_, err := svc.ReviseScenes(context.Background(), "tweak scene 2", classicTestScenes(), DialectClassic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestReviseScenesRejectsBadModelOutput(t *testing.T) {
	svc := NewRevisionService(&fakeAIService{response: "Sure! Here are the scenes..."})
	_, err := svc.ReviseScenes(context.Background(), "tweak scene 2", classicTestScenes(), DialectClassic)
	assert.ErrorIs(t, err, ErrParse)

	svc = NewRevisionService(&fakeAIService{response: marshalClassicResponse(t, classicTestScenes()[:4])})
	_, err = svc.ReviseScenes(context.Background(), "tweak scene 2", classicTestScenes(), DialectClassic)
	assert.ErrorIs(t, err, ErrArity)
}

func TestCompileClassicInstruction(t *testing.T) {
	scenes := classicTestScenes()
	instr := CompileClassicInstruction("brighten scene 2", scenes)

	assert.Equal(t, DialectClassic, instr.Dialect)
	assert.Equal(t, classicSceneCount, instr.SceneCount)
	assert.False(t, instr.MusicRegenerationRequested)
	assert.Contains(t, instr.UserPrompt, "brighten scene 2")
	assert.Contains(t, instr.UserPrompt, "a busy market")
	assert.Contains(t, instr.SystemPrompt, "FIELD PRESERVATION RULE")

	// Asset URLs never reach the model.
	assert.NotContains(t, instr.UserPrompt, "https://cdn/")
}

func TestCompileWanInstruction(t *testing.T) {
	scenes := wanScenesToModelFacing(wanTestScenes())
	instr := CompileWanInstruction("add music, it is silent", scenes)

	assert.Equal(t, DialectWan, instr.Dialect)
	assert.Equal(t, wanSceneCount, instr.SceneCount)
	assert.True(t, instr.MusicRegenerationRequested)
	assert.Contains(t, instr.UserPrompt, "nano_banana_prompt")
	assert.Contains(t, instr.SystemPrompt, "Deep_Voice_Man")
	assert.NotContains(t, instr.UserPrompt, "https://cdn/")
}

func TestDetectMusicRequest(t *testing.T) {
	positives := []string{
		"there is no music in the video",
		"No Background Music at all",
		"missing music on the last scene",
		"please ADD MUSIC",
		"this needs music badly",
		"it plays without music",
		"there's no sound here",
		"the whole thing is silent",
	}
	for _, request := range positives {
		assert.True(t, detectMusicRequest(request), "request %q", request)
	}

	negatives := []string{
		"make the music more dramatic",
		"change the voiceover in scene 2",
		"brighten the lighting",
		"",
	}
	for _, request := range negatives {
		assert.False(t, detectMusicRequest(request), "request %q", request)
	}
}

func TestDetectWorkflow(t *testing.T) {
	assert.Equal(t, DialectClassic, detectWorkflow(classicTestScenes()))
	assert.Equal(t, DialectWan, detectWorkflow(wanTestScenes()))
	assert.Equal(t, DialectClassic, detectWorkflow(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 20)
	assert.Equal(t, strings.Repeat("x", 10)+"...", truncate(long, 10))
}
