package main

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// CompareScenes determines which assets must be regenerated for each scene.
// Both sets must already be in the storage dialect. Scenes are matched by
// scene_number over 1..len(revised); a number missing on either side is
// logged and skipped, never fatal. The function is pure apart from logging:
// running it twice on the same inputs yields identical output.
//
// The animated clip is rendered from the still image, so an image change
// always invalidates the clip even when the motion description is untouched.
func CompareScenes(original, revised []Scene) []SceneChange {
	log.Info().
		Int("original", len(original)).
		Int("revised", len(revised)).
		Msg("comparing scenes for granular regeneration")

	originalByNumber := make(map[int]Scene, len(original))
	for _, s := range original {
		originalByNumber[s.SceneNumber] = s
	}
	revisedByNumber := make(map[int]Scene, len(revised))
	for _, s := range revised {
		revisedByNumber[s.SceneNumber] = s
	}

	changes := make([]SceneChange, 0, len(revised))
	for sceneNumber := 1; sceneNumber <= len(revised); sceneNumber++ {
		orig, okOrig := originalByNumber[sceneNumber]
		rev, okRev := revisedByNumber[sceneNumber]
		if !okOrig || !okRev {
			log.Warn().Int("scene", sceneNumber).Msg("scene missing in original or revised set, skipping")
			continue
		}

		imageNeedsRegen := strings.TrimSpace(orig.ImagePrompt) != strings.TrimSpace(rev.ImagePrompt)

		voiceoverNeedsRegen := strings.TrimSpace(orig.VoiceOverText) != strings.TrimSpace(rev.VoiceOverText) ||
			emotionOrDefault(orig.VoiceEmotion) != emotionOrDefault(rev.VoiceEmotion) ||
			voiceIDOrDefault(orig.VoiceID) != voiceIDOrDefault(rev.VoiceID)

		videoNeedsRegen := strings.TrimSpace(orig.VisualDescription) != strings.TrimSpace(rev.VisualDescription) ||
			imageNeedsRegen

		changes = append(changes, SceneChange{
			SceneNumber:          sceneNumber,
			ImageNeedsRegen:      imageNeedsRegen,
			VoiceoverNeedsRegen:  voiceoverNeedsRegen,
			VideoNeedsRegen:      videoNeedsRegen,
			OriginalImageURL:     orig.ImageURL,
			OriginalVoiceoverURL: orig.VoiceoverURL,
			OriginalVideoURL:     orig.SceneClipURL,
			RevisedImagePrompt:   strings.TrimSpace(rev.ImagePrompt),
			RevisedVoiceover:     strings.TrimSpace(rev.VoiceOverText),
			RevisedEmotion:       emotionOrDefault(rev.VoiceEmotion),
			RevisedVoiceID:       voiceIDOrDefault(rev.VoiceID),
			RevisedVideoPrompt:   strings.TrimSpace(rev.VisualDescription),
		})

		if imageNeedsRegen || voiceoverNeedsRegen || videoNeedsRegen {
			log.Info().
				Int("scene", sceneNumber).
				Bool("image", imageNeedsRegen).
				Bool("voiceover", voiceoverNeedsRegen).
				Bool("video", videoNeedsRegen).
				Msg("scene needs regeneration")
		} else {
			log.Info().Int("scene", sceneNumber).Msg("scene unchanged, reusing all assets")
		}
	}

	images, voiceovers, videos := 0, 0, 0
	for _, c := range changes {
		if c.ImageNeedsRegen {
			images++
		}
		if c.VoiceoverNeedsRegen {
			voiceovers++
		}
		if c.VideoNeedsRegen {
			videos++
		}
	}
	log.Info().
		Int("images", images).
		Int("voiceovers", voiceovers).
		Int("videos", videos).
		Int("scenes", len(changes)).
		Msg("regeneration summary")

	return changes
}

// applyCarryForward copies the original asset URLs onto the revised scenes
// for every asset whose regeneration flag is false, so the stored revision
// set can reuse them directly. Stale URLs are left off the revised scenes.
func applyCarryForward(revised []Scene, changes []SceneChange) {
	changeByNumber := make(map[int]SceneChange, len(changes))
	for _, c := range changes {
		changeByNumber[c.SceneNumber] = c
	}

	for i := range revised {
		c, ok := changeByNumber[revised[i].SceneNumber]
		if !ok {
			continue
		}
		if !c.ImageNeedsRegen {
			revised[i].ImageURL = c.OriginalImageURL
		}
		if !c.VoiceoverNeedsRegen {
			revised[i].VoiceoverURL = c.OriginalVoiceoverURL
		}
		if !c.VideoNeedsRegen {
			revised[i].SceneClipURL = c.OriginalVideoURL
		}
	}
}

func emotionOrDefault(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultVoiceEmotion
	}
	return v
}

func voiceIDOrDefault(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultVoiceID
	}
	return v
}
