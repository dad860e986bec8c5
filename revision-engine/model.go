package main

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SceneDocument is a Scene persisted under its owning video.
type SceneDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoID string             `bson:"video_id" json:"video_id"`
	UserID  string             `bson:"user_id" json:"user_id"`
	Scene   `bson:",inline"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Video tracks a generated video and its final composed artifact.
type Video struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoID       string             `bson:"video_id" json:"video_id"`
	ChatID        string             `bson:"chat_id" json:"chat_id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	Workflow      string             `bson:"workflow" json:"workflow"`
	FinalVideoURL string             `bson:"final_video_url,omitempty" json:"final_video_url,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// RevisionTask is one revision request and its lifecycle.
type RevisionTask struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID          string             `bson:"task_id" json:"task_id"`
	VideoID         string             `bson:"video_id" json:"video_id"`
	ParentVideoID   string             `bson:"parent_video_id" json:"parent_video_id"`
	ChatID          string             `bson:"chat_id" json:"chat_id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	UserEmail       string             `bson:"user_email,omitempty" json:"user_email,omitempty"`
	RevisionRequest string             `bson:"revision_request" json:"revision_request"`
	Workflow        string             `bson:"workflow,omitempty" json:"workflow,omitempty"`
	Status          string             `bson:"status" json:"status"`
	ErrorMessage    string             `bson:"error_message,omitempty" json:"error_message,omitempty"`

	MusicRegenerationRequested bool          `bson:"music_regeneration_requested,omitempty" json:"music_regeneration_requested,omitempty"`
	SceneChanges               []SceneChange `bson:"scene_changes,omitempty" json:"scene_changes,omitempty"`

	ProcessingTime float64    `bson:"processing_time_seconds,omitempty" json:"processing_time_seconds,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	StartedAt      *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt    *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// MusicRecord holds the video-wide background music prompt queued for
// generation when a WAN revision asks for music.
type MusicRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoID     string             `bson:"video_id" json:"video_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	MusicPrompt string             `bson:"music_prompt" json:"music_prompt"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// API request/response structures

type ReviseVideoRequest struct {
	VideoID         string `json:"video_id"`
	ParentVideoID   string `json:"parent_video_id"`
	ChatID          string `json:"chat_id"`
	UserID          string `json:"user_id"`
	UserEmail       string `json:"user_email"`
	RevisionRequest string `json:"revision_request"`
}

type UpdateSceneAssetRequest struct {
	UserID string `json:"user_id"`
	Field  string `json:"field"`
	URL    string `json:"url"`
}

type ReviseVideoResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id,omitempty"`
	VideoID string `json:"video_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
