package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.mongodb.org/mongo-driver/bson"
)

// Global services and database
var (
	mongoClient         *mongo.Client
	database            *mongo.Database
	scenesCollection    *mongo.Collection
	revisionsCollection *mongo.Collection
	videosCollection    *mongo.Collection
	musicCollection     *mongo.Collection

	revisionService *RevisionService
	callbackService *CallbackService
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

func main() {
	godotenv.Load()
	setupLogging()

	if err := initializeMongoDB(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	if err := initializeServices(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	r := gin.Default()
	r.Use(corsMiddleware())

	r.POST("/revise-video", reviseVideoHandler)
	r.GET("/revisions/:taskId", getRevisionStatusHandler)
	r.GET("/videos/:videoId/scenes", getVideoScenesHandler)
	r.PATCH("/videos/:videoId/scenes/:sceneNumber/asset", updateSceneAssetHandler)
	r.GET("/health", healthHandler)

	port := getPort()
	log.Info().Str("port", port).Str("mongodb", getMongoURI()).Msg("video revision engine starting")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func initializeMongoDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(getMongoURI()))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	mongoClient = client
	database = client.Database(getMongoDB())
	scenesCollection = database.Collection("scenes")
	revisionsCollection = database.Collection("revisions")
	videosCollection = database.Collection("videos")
	musicCollection = database.Collection("music")

	if err := createIndexes(); err != nil {
		return err
	}

	log.Info().Msg("MongoDB connected")
	return nil
}

func createIndexes() error {
	ctx := context.Background()

	_, err := scenesCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "scene_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "video_id", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = revisionsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "parent_video_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = videosCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "video_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func initializeServices() error {
	ai, err := NewOpenAIService(os.Getenv("OPENAI_API_KEY"), getEnv("OPENAI_MODEL", ""))
	if err != nil {
		return err
	}
	revisionService = NewRevisionService(ai)
	callbackService = NewCallbackService(getEnv("CALLBACK_APP_ID", ""))
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// reviseVideoHandler accepts a revision webhook, records the task, and
// processes it in the background.
func reviseVideoHandler(c *gin.Context) {
	var req ReviseVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ReviseVideoResponse{Success: false, Error: "invalid JSON request body"})
		return
	}

	req.RevisionRequest = strings.TrimSpace(req.RevisionRequest)
	missing := ""
	switch {
	case req.VideoID == "":
		missing = "video_id"
	case req.ParentVideoID == "":
		missing = "parent_video_id"
	case req.ChatID == "":
		missing = "chat_id"
	case req.UserID == "":
		missing = "user_id"
	case req.RevisionRequest == "":
		missing = "revision_request"
	}
	if missing != "" {
		c.JSON(http.StatusBadRequest, ReviseVideoResponse{Success: false, Error: missing + " is required"})
		return
	}

	task := &RevisionTask{
		TaskID:          uuid.New().String(),
		VideoID:         req.VideoID,
		ParentVideoID:   req.ParentVideoID,
		ChatID:          req.ChatID,
		UserID:          req.UserID,
		UserEmail:       req.UserEmail,
		RevisionRequest: req.RevisionRequest,
		Status:          StatusPending,
		CreatedAt:       time.Now(),
	}

	if _, err := revisionsCollection.InsertOne(context.Background(), task); err != nil {
		log.Error().Err(err).Msg("failed to create revision task")
		c.JSON(http.StatusInternalServerError, ReviseVideoResponse{Success: false, Error: "failed to create revision task"})
		return
	}

	go processRevision(task)

	log.Info().
		Str("task_id", task.TaskID).
		Str("video_id", task.VideoID).
		Str("parent_video_id", task.ParentVideoID).
		Msg("revision task accepted")

	c.JSON(http.StatusOK, ReviseVideoResponse{
		Success: true,
		TaskID:  task.TaskID,
		VideoID: task.VideoID,
		Status:  StatusProcessing,
		Message: "Revision processing started",
	})
}

// processRevision runs one revision task to completion in the background.
// Any failure marks the task failed and sends the revision error callback;
// a partially valid revision is never applied.
func processRevision(task *RevisionTask) {
	startTime := time.Now()
	markTaskProcessing(task.TaskID)

	fail := func(msg string, err error) {
		log.Error().Err(err).Str("task_id", task.TaskID).Msg(msg)
		full := msg
		if err != nil {
			full = msg + ": " + err.Error()
		}
		markTaskFailed(task.TaskID, full)
		callbackService.SendErrorCallback("Revision failed, please retry", task.VideoID, task.ChatID, task.UserID, true)
	}

	originalScenes, err := getScenesForVideo(task.ParentVideoID, task.UserID)
	if err != nil {
		fail("failed to load original scenes", err)
		return
	}
	if len(originalScenes) == 0 {
		fail("no scenes found for parent video "+task.ParentVideoID, nil)
		return
	}

	dialect := detectWorkflow(originalScenes)
	updateTask(task.TaskID, bson.M{"workflow": string(dialect)})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := revisionService.ReviseScenes(ctx, task.RevisionRequest, originalScenes, dialect)
	if err != nil {
		fail("revision rejected", err)
		return
	}

	if err := storeRevisedScenes(result.RevisedScenes, task.VideoID, task.UserID); err != nil {
		fail("failed to store revised scenes", err)
		return
	}

	if result.MusicRegenerationRequested {
		if err := storeMusicPrompt(task.VideoID, task.UserID); err != nil {
			log.Warn().Err(err).Str("task_id", task.TaskID).Msg("music prompt not stored")
		}
	}

	markTaskCompleted(task.TaskID, result, time.Since(startTime).Seconds())
	log.Info().
		Str("task_id", task.TaskID).
		Str("workflow", string(dialect)).
		Float64("seconds", time.Since(startTime).Seconds()).
		Msg("revision plan computed")

	// Nothing stale means the parent's composed video can be served as-is.
	if !anyRegenNeeded(result.Changes) {
		if parent, err := getVideoByID(task.ParentVideoID); err == nil && parent.FinalVideoURL != "" {
			callbackService.SendVideoCallback(parent.FinalVideoURL, task.VideoID, task.ChatID, task.UserID, true)
		}
	}
}

func getRevisionStatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	task, err := getRevisionTask(taskID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "revision task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func getVideoScenesHandler(c *gin.Context) {
	videoID := c.Param("videoId")
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	scenes, err := getScenesForVideo(videoID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video_id": videoID,
		"workflow": string(detectWorkflow(scenes)),
		"scenes":   scenes,
	})
}

// updateSceneAssetHandler records a regenerated asset URL on one scene. The
// regeneration pipeline calls this once per completed asset.
func updateSceneAssetHandler(c *gin.Context) {
	videoID := c.Param("videoId")
	sceneNumber, err := strconv.Atoi(c.Param("sceneNumber"))
	if err != nil || sceneNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sceneNumber must be a positive integer"})
		return
	}

	var req UpdateSceneAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON request body"})
		return
	}
	if req.UserID == "" || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and url are required"})
		return
	}
	switch req.Field {
	case "image_url", "voiceover_url", "scene_clip_url":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "field must be one of image_url, voiceover_url, scene_clip_url"})
		return
	}

	if err := updateSceneAssetURL(videoID, req.UserID, sceneNumber, req.Field, req.URL); err != nil {
		log.Error().Err(err).Str("video_id", videoID).Int("scene", sceneNumber).Msg("asset update failed")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	mongoStatus := "healthy"
	if err := mongoClient.Ping(ctx, nil); err != nil {
		mongoStatus = "unhealthy: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "Video Revision Engine",
		"mongodb":   mongoStatus,
	})
}
