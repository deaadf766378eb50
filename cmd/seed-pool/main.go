// Loads curated posts into the candidate pool so cold-start recommendations
// have something real to draw from before streaming ingestion has run.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"corgi/internal/database"
	"corgi/internal/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// seedPost is one entry in the curated posts file.
type seedPost struct {
	PostID            string   `json:"post_id"`
	AuthorID          string   `json:"author_id"`
	AuthorUsername    string   `json:"author_username"`
	AuthorDisplayName string   `json:"author_display_name"`
	AuthorAvatar      string   `json:"author_avatar"`
	Content           string   `json:"content"`
	URL               string   `json:"url"`
	Language          string   `json:"language"`
	Topics            []string `json:"topics"`
	FavouritesCount   int      `json:"favourites_count"`
	ReblogsCount      int      `json:"reblogs_count"`
	RepliesCount      int      `json:"replies_count"`
	PostedAt          string   `json:"posted_at"`
}

func main() {
	filePath := flag.String("file", "./data/curated_posts.json", "path to the curated posts file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.Connect(database.LoadConfig())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *filePath, err)
	}

	var posts []seedPost
	if err := json.Unmarshal(data, &posts); err != nil {
		log.Fatal("Failed to parse curated posts file:", err)
	}

	created, updated := 0, 0
	for _, p := range posts {
		postedAt, err := time.Parse(time.RFC3339, p.PostedAt)
		if err != nil {
			log.Printf("Skipping %s: invalid posted_at %q", p.PostID, p.PostedAt)
			continue
		}

		candidate := models.CandidatePost{
			PostID:            p.PostID,
			AuthorID:          p.AuthorID,
			AuthorUsername:    p.AuthorUsername,
			AuthorDisplayName: p.AuthorDisplayName,
			AuthorAvatar:      p.AuthorAvatar,
			Content:           p.Content,
			URL:               p.URL,
			Language:          p.Language,
			Topics:            p.Topics,
			FavouritesCount:   p.FavouritesCount,
			ReblogsCount:      p.ReblogsCount,
			RepliesCount:      p.RepliesCount,
			Source:            models.PoolSourceCurated,
			PostedAt:          postedAt,
			IsActive:          true,
		}

		var existing models.CandidatePost
		err = db.Where("post_id = ?", p.PostID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&candidate).Error; err != nil {
				log.Printf("Failed to create candidate %s: %v", p.PostID, err)
				continue
			}
			created++
		} else if err == nil {
			candidate.ID = existing.ID
			if err := db.Model(&existing).Updates(&candidate).Error; err != nil {
				log.Printf("Failed to update candidate %s: %v", p.PostID, err)
				continue
			}
			updated++
		} else {
			log.Printf("Failed to query candidate %s: %v", p.PostID, err)
		}
	}

	log.Printf("✅ Seeded candidate pool: %d created, %d updated", created, updated)
}
