package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultCallbackEndpoint is the frontend's static callback function; custom
// callback URLs from webhooks are intentionally ignored.
const defaultCallbackEndpoint = "https://base44.app/api/apps/68b4aa46f5d6326ab93c3ed0/functions/n8nVideoCallback"

const callbackTimeout = 30 * time.Second

// CallbackService notifies the frontend when a video finishes or fails.
// Delivery is best effort: a single POST with a fixed timeout, a boolean
// result, and no automatic retry. It never raises into the caller's flow.
type CallbackService struct {
	client   *http.Client
	endpoint string
	appID    string
}

func NewCallbackService(appID string) *CallbackService {
	return &CallbackService{
		client:   &http.Client{Timeout: callbackTimeout},
		endpoint: defaultCallbackEndpoint,
		appID:    appID,
	}
}

// SendVideoCallback posts the final video URL. Revision callbacks use a
// smaller payload; regular ones carry the video id under both snake_case and
// camelCase keys for frontend compatibility.
func (c *CallbackService) SendVideoCallback(finalVideoURL, videoID, chatID, userID string, isRevision bool) bool {
	var payload map[string]interface{}
	if isRevision {
		payload = map[string]interface{}{
			"video_id":    videoID,
			"chat_id":     chatID,
			"video_url":   finalVideoURL,
			"is_revision": true,
		}
	} else {
		payload = map[string]interface{}{
			"video_url": finalVideoURL,
			"video_id":  videoID,
			"videoId":   videoID,
			"chat_id":   chatID,
			"user_id":   userID,
		}
	}

	log.Info().
		Str("video_id", videoID).
		Bool("is_revision", isRevision).
		Str("video_url", finalVideoURL).
		Msg("sending video callback")

	return c.post(payload)
}

// SendErrorCallback notifies the frontend that processing failed.
func (c *CallbackService) SendErrorCallback(errorMessage, videoID, chatID, userID string, isRevision bool) bool {
	payload := map[string]interface{}{
		"error":    errorMessage,
		"video_id": videoID,
		"chat_id":  chatID,
		"user_id":  userID,
	}
	if isRevision {
		payload["is_revision"] = true
	} else {
		payload["videoId"] = videoID
		payload["status"] = "failed"
	}

	log.Info().
		Str("video_id", videoID).
		Bool("is_revision", isRevision).
		Str("error", errorMessage).
		Msg("sending error callback")

	return c.post(payload)
}

func (c *CallbackService) post(payload map[string]interface{}) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal callback payload")
		return false
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		log.Error().Err(err).Msg("failed to build callback request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "video-revision-engine/1.0")
	req.Header.Set("Base44-App-Id", c.appID)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("callback request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("callback rejected by frontend")
		return false
	}

	log.Info().Msg("callback delivered")
	return true
}
