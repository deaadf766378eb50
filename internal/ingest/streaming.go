// Package ingest keeps the candidate pool fresh by consuming a Mastodon
// public streaming endpoint over websocket.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"corgi/internal/mastodon"
	"corgi/internal/models"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// StreamConsumer maintains the websocket connection to an upstream public
// stream and upserts incoming statuses into the candidate pool.
type StreamConsumer struct {
	db        *gorm.DB
	streamURL string
	dialer    *websocket.Dialer
}

// NewStreamConsumer creates a new streaming consumer
func NewStreamConsumer(db *gorm.DB, streamURL string) *StreamConsumer {
	return &StreamConsumer{
		db:        db,
		streamURL: streamURL,
		dialer:    websocket.DefaultDialer,
	}
}

// streamEvent is one frame from the Mastodon streaming API. The payload is a
// JSON document serialized into a string.
type streamEvent struct {
	Stream  []string `json:"stream"`
	Event   string   `json:"event"`
	Payload string   `json:"payload"`
}

// StartConsuming connects to the public stream and processes events until
// ctx is cancelled, reconnecting with a fixed backoff on failure.
func (sc *StreamConsumer) StartConsuming(ctx context.Context) error {
	log.Printf("Connecting to Mastodon public stream: %s", sc.streamURL)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := sc.connectAndConsume(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("Stream connection error: %v. Reconnecting in 10 seconds...", err)

				select {
				case <-time.After(10 * time.Second):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// connectAndConsume handles a single websocket connection.
func (sc *StreamConsumer) connectAndConsume(ctx context.Context) error {
	conn, _, err := sc.dialer.DialContext(ctx, sc.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}
	defer conn.Close()

	log.Println("Successfully connected to Mastodon public stream")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					log.Printf("Failed to send ping: %v", err)
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			_, message, err := conn.ReadMessage()
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}

			if err := sc.processStreamMessage(message); err != nil {
				log.Printf("Error processing stream event: %v", err)
				// Keep consuming; one bad event is not fatal.
			}
		}
	}
}

// processStreamMessage handles a single frame from the stream.
func (sc *StreamConsumer) processStreamMessage(data []byte) error {
	var event streamEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal stream event: %w", err)
	}

	// Only new statuses feed the pool; edits and deletes are ignored.
	if event.Event != "update" || event.Payload == "" {
		return nil
	}

	status, err := mastodon.FromUpstream(json.RawMessage(event.Payload))
	if err != nil {
		return fmt.Errorf("failed to normalize streamed status: %w", err)
	}

	return sc.upsertCandidate(status)
}

// upsertCandidate writes a streamed status into the candidate pool,
// refreshing engagement counters if the post is already known.
func (sc *StreamConsumer) upsertCandidate(status *mastodon.Status) error {
	postedAt, err := time.Parse(time.RFC3339, status.CreatedAt)
	if err != nil {
		postedAt = time.Now().UTC()
	}

	topics := make([]string, 0, len(status.Tags))
	for _, tag := range status.Tags {
		topics = append(topics, tag.Name)
	}

	var existing models.CandidatePost
	err = sc.db.Where("post_id = ?", status.ID).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		candidate := models.CandidatePost{
			PostID:            status.ID,
			AuthorID:          status.Account.ID,
			AuthorUsername:    status.Account.Username,
			AuthorDisplayName: status.Account.DisplayName,
			AuthorAvatar:      status.Account.Avatar,
			AuthorFollowers:   status.Account.FollowersCount,
			AuthorFollowing:   status.Account.FollowingCount,
			AuthorStatuses:    status.Account.StatusesCount,
			Content:           status.Content,
			URL:               status.URL,
			Language:          status.Language,
			Topics:            topics,
			FavouritesCount:   status.FavouritesCount,
			ReblogsCount:      status.ReblogsCount,
			RepliesCount:      status.RepliesCount,
			Source:            models.PoolSourceStreaming,
			PostedAt:          postedAt,
			IsActive:          true,
		}

		if err := sc.db.Create(&candidate).Error; err != nil {
			return fmt.Errorf("failed to create candidate: %w", err)
		}

		return nil
	} else if err != nil {
		return fmt.Errorf("failed to query candidate: %w", err)
	}

	return sc.db.Model(&existing).Updates(map[string]interface{}{
		"favourites_count": status.FavouritesCount,
		"reblogs_count":    status.ReblogsCount,
		"replies_count":    status.RepliesCount,
		"is_active":        true,
	}).Error
}
