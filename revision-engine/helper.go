package main

import "os"

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getPort() string {
	return getEnv("PORT", "8090")
}

func getMongoURI() string {
	return getEnv("MONGODB_URI", "mongodb://localhost:27017")
}

func getMongoDB() string {
	return getEnv("MONGODB_DATABASE", "video_revision")
}

// truncate shortens a string for log lines.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// anyRegenNeeded reports whether any asset of any scene is stale.
func anyRegenNeeded(changes []SceneChange) bool {
	for _, c := range changes {
		if c.ImageNeedsRegen || c.VoiceoverNeedsRegen || c.VideoNeedsRegen {
			return true
		}
	}
	return false
}
