//go:build ignore

// Публикует тестовые события набора в Redis Stream для проверки воркера аудита:
//
//	go run scripts/test_publish.go -redis localhost:6379 -count 3
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/poi-service/internal/domain"
	redisRepo "github.com/poi-service/internal/repository/redis"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	stream := flag.String("stream", "stream:poi:dataset", "Stream name")
	count := flag.Int("count", 1, "Number of loaded events to publish before a cleared event")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	publisher := redisRepo.NewStreamRepository(client, *stream, zap.NewNop())

	for i := 0; i < *count; i++ {
		event := domain.NewDatasetLoadedEvent(uuid.New(), 3, []string{"landmark", "museum"}, time.Now())
		if err := publisher.Publish(ctx, event); err != nil {
			log.Fatalf("Failed to publish: %v", err)
		}
		log.Printf("published %s %s", event.Type, event.EventID)
	}

	event := domain.NewDatasetClearedEvent(time.Now())
	if err := publisher.Publish(ctx, event); err != nil {
		log.Fatalf("Failed to publish: %v", err)
	}
	log.Printf("published %s %s", event.Type, event.EventID)
}
