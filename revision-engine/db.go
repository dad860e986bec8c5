package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rs/zerolog/log"
)

// getScenesForVideo loads a video's scenes ordered by scene_number.
func getScenesForVideo(videoID, userID string) ([]Scene, error) {
	cursor, err := scenesCollection.Find(
		context.Background(),
		bson.M{"video_id": videoID, "user_id": userID},
		options.Find().SetSort(bson.D{{Key: "scene_number", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenes for video %s: %w", videoID, err)
	}
	defer cursor.Close(context.Background())

	var docs []SceneDocument
	if err = cursor.All(context.Background(), &docs); err != nil {
		return nil, fmt.Errorf("failed to decode scenes for video %s: %w", videoID, err)
	}

	scenes := make([]Scene, 0, len(docs))
	for _, doc := range docs {
		scenes = append(scenes, doc.Scene)
	}
	return scenes, nil
}

// detectWorkflow picks the dialect for a stored scene set. WAN videos always
// carry 6 scenes, classic ones 5.
func detectWorkflow(scenes []Scene) Dialect {
	if len(scenes) == wanSceneCount {
		return DialectWan
	}
	return DialectClassic
}

// storeRevisedScenes inserts the accepted revised scene set under the new
// revision video id. Reusable asset URLs are expected to already be carried
// forward onto the scenes.
func storeRevisedScenes(scenes []Scene, videoID, userID string) error {
	docs := make([]interface{}, 0, len(scenes))
	now := time.Now()
	for _, s := range scenes {
		docs = append(docs, SceneDocument{
			VideoID:   videoID,
			UserID:    userID,
			Scene:     s,
			CreatedAt: now,
		})
	}

	if _, err := scenesCollection.InsertMany(context.Background(), docs); err != nil {
		return fmt.Errorf("failed to store revised scenes for video %s: %w", videoID, err)
	}
	log.Info().Str("video_id", videoID).Int("scenes", len(scenes)).Msg("revised scenes stored")
	return nil
}

// updateSceneAssetURL sets one asset URL on one scene, addressed by
// scene_number. field must be one of image_url, voiceover_url,
// scene_clip_url.
func updateSceneAssetURL(videoID, userID string, sceneNumber int, field, url string) error {
	result, err := scenesCollection.UpdateOne(
		context.Background(),
		bson.M{"video_id": videoID, "user_id": userID, "scene_number": sceneNumber},
		bson.M{"$set": bson.M{field: url}},
	)
	if err != nil {
		return fmt.Errorf("failed to update %s for scene %d of video %s: %w", field, sceneNumber, videoID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("scene %d of video %s not found", sceneNumber, videoID)
	}
	return nil
}

// storeMusicPrompt queues the default background music prompt for a video.
func storeMusicPrompt(videoID, userID string) error {
	record := MusicRecord{
		VideoID:     videoID,
		UserID:      userID,
		MusicPrompt: defaultMusicPrompt,
		Status:      "pending_generation",
		CreatedAt:   time.Now(),
	}
	if _, err := musicCollection.InsertOne(context.Background(), record); err != nil {
		return fmt.Errorf("failed to store music prompt for video %s: %w", videoID, err)
	}
	log.Info().Str("video_id", videoID).Msg("music prompt stored for generation")
	return nil
}

// getVideoByID looks up a video record.
func getVideoByID(videoID string) (*Video, error) {
	var video Video
	err := videosCollection.FindOne(context.Background(), bson.M{"video_id": videoID}).Decode(&video)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// getRevisionTask looks up a revision task by its task id.
func getRevisionTask(taskID string) (*RevisionTask, error) {
	var task RevisionTask
	err := revisionsCollection.FindOne(context.Background(), bson.M{"task_id": taskID}).Decode(&task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func markTaskProcessing(taskID string) {
	now := time.Now()
	updateTask(taskID, bson.M{"status": StatusProcessing, "started_at": now})
}

func markTaskCompleted(taskID string, result *RevisionResult, processingSeconds float64) {
	now := time.Now()
	updateTask(taskID, bson.M{
		"status":                       StatusCompleted,
		"scene_changes":                result.Changes,
		"music_regeneration_requested": result.MusicRegenerationRequested,
		"processing_time_seconds":      processingSeconds,
		"completed_at":                 now,
	})
}

func markTaskFailed(taskID, errorMsg string) {
	now := time.Now()
	updateTask(taskID, bson.M{
		"status":        StatusFailed,
		"error_message": errorMsg,
		"completed_at":  now,
	})
}

func updateTask(taskID string, fields bson.M) {
	_, err := revisionsCollection.UpdateOne(
		context.Background(),
		bson.M{"task_id": taskID},
		bson.M{"$set": fields},
	)
	if err != nil {
		log.Error().Err(err).Str("task_id", taskID).Msg("failed to update revision task")
	}
}
