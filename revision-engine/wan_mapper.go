package main

// The WAN workflow stores scenes under generic field names but presents them
// to the generative model under tool-specific ones (nano_banana_prompt,
// elevenlabs_prompt, wan2_5_prompt). The mapping is a pure rename in both
// directions; no validation happens here. Classic scenes need no mapping.

// toModelFacing converts a stored WAN scene into the shape sent to the model.
func toModelFacing(s Scene) WanScene {
	return WanScene{
		SceneNumber:      s.SceneNumber,
		NanoBananaPrompt: s.ImagePrompt,
		ElevenLabsPrompt: s.VoiceOverText,
		Emotion:          s.VoiceEmotion,
		VoiceID:          s.VoiceID,
		Wan25Prompt:      s.VisualDescription,
	}
}

// toStorage converts a model-facing WAN scene back into the storage shape.
// sound_effects and music_direction stay empty in the WAN workflow.
func toStorage(w WanScene) Scene {
	return Scene{
		SceneNumber:       w.SceneNumber,
		ImagePrompt:       w.NanoBananaPrompt,
		VisualDescription: w.Wan25Prompt,
		VoiceOverText:     w.ElevenLabsPrompt,
		VoiceEmotion:      w.Emotion,
		VoiceID:           w.VoiceID,
		SoundEffects:      "",
		MusicDirection:    "",
	}
}

func wanScenesToModelFacing(scenes []Scene) []WanScene {
	out := make([]WanScene, 0, len(scenes))
	for _, s := range scenes {
		out = append(out, toModelFacing(s))
	}
	return out
}

func wanScenesToStorage(scenes []WanScene) []Scene {
	out := make([]Scene, 0, len(scenes))
	for _, w := range scenes {
		out = append(out, toStorage(w))
	}
	return out
}
