package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// RevisionService runs one selective revision end to end: compile the
// instruction for the selected dialect, call the generative model once,
// validate its answer, map it back to the storage dialect, and diff it
// against the originals. It holds no mutable state, so one instance can
// serve concurrent revision requests.
type RevisionService struct {
	ai AIService
}

func NewRevisionService(ai AIService) *RevisionService {
	return &RevisionService{ai: ai}
}

// RevisionResult is the outcome of one revision request.
type RevisionResult struct {
	RevisedScenes              []Scene
	Changes                    []SceneChange
	MusicRegenerationRequested bool
}

// ReviseScenes produces the per-scene regeneration plan for a revision
// request against a stored scene set. The dialect is fixed by the caller,
// never inferred from the request text. A validation failure of the model
// output returns the taxonomy error and no result; the caller decides
// whether to re-prompt.
func (r *RevisionService) ReviseScenes(ctx context.Context, revisionRequest string, originalScenes []Scene, dialect Dialect) (*RevisionResult, error) {
	if strings.TrimSpace(revisionRequest) == "" {
		return nil, fmt.Errorf("revision request is empty")
	}

	var instruction *RevisionInstruction
	if dialect == DialectWan {
		instruction = CompileWanInstruction(revisionRequest, wanScenesToModelFacing(originalScenes))
	} else {
		instruction = CompileClassicInstruction(revisionRequest, originalScenes)
	}

	log.Info().
		Str("dialect", string(dialect)).
		Int("scenes", len(originalScenes)).
		Bool("music_requested", instruction.MusicRegenerationRequested).
		Str("request", truncate(revisionRequest, 100)).
		Msg("sending revision request to model")

	raw, err := r.ai.GenerateContentWithSystem(ctx, instruction.SystemPrompt, instruction.UserPrompt)
	if err != nil {
		return nil, fmt.Errorf("revision model call failed: %w", err)
	}

	parser := NewRevisionParser(dialect)
	var revised []Scene
	if dialect == DialectWan {
		wanScenes, err := parser.ParseWanScenes(raw)
		if err != nil {
			return nil, err
		}
		warnOnUnknownVoiceSettings(wanScenes)
		revised = wanScenesToStorage(wanScenes)
	} else {
		revised, err = parser.ParseClassicScenes(raw)
		if err != nil {
			return nil, err
		}
	}

	log.Info().Int("scenes", len(revised)).Msg("revised scenes accepted")

	changes := CompareScenes(originalScenes, revised)
	applyCarryForward(revised, changes)

	return &RevisionResult{
		RevisedScenes:              revised,
		Changes:                    changes,
		MusicRegenerationRequested: instruction.MusicRegenerationRequested,
	}, nil
}

// warnOnUnknownVoiceSettings logs when the model stepped outside the allowed
// voice lists despite the instruction. Not a rejection: the batch is still
// structurally valid and downstream generation handles unknown voices.
func warnOnUnknownVoiceSettings(scenes []WanScene) {
	for _, w := range scenes {
		if !slices.Contains(allowedVoiceEmotions, emotionOrDefault(w.Emotion)) {
			log.Warn().Int("scene", w.SceneNumber).Str("emotion", w.Emotion).Msg("emotion outside allowed list")
		}
		if !slices.Contains(allowedVoiceIDs, voiceIDOrDefault(w.VoiceID)) {
			log.Warn().Int("scene", w.SceneNumber).Str("voice_id", w.VoiceID).Msg("voice id outside allowed list")
		}
	}
}
