package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
)
var redisCtx = context.Background()

func GetRedisDB() *redis.Client {
	return rdb
}

// ConnectRedisWithRetry connects the shared redis client. Redis is a cache
// here, not a source of truth: every caller must tolerate rdb being nil.
func ConnectRedisWithRetry() {
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		log.Printf("REDIS_ADDRESS not set; running without redis cache")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	var attempt int
	for {
		attempt++
		if err := client.Ping(redisCtx).Err(); err == nil {
			rdb = client
			log.Printf("connected to redis (attempt=%d)", attempt)
			return
		} else if attempt >= 5 {
			log.Printf("giving up on redis after %d attempts: %v; running without cache", attempt, err)
			return
		} else {
			log.Printf("failed to connect redis (attempt=%d): %v", attempt, err)
			time.Sleep(time.Second * time.Duration(attempt))
		}
	}
}

func GetRedisObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(redisCtx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	err = json.Unmarshal([]byte(val), &dest)
	if err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	objInByte, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(redisCtx, key, objInByte, exp).Err()
}

func RemoveRedisKey(keys ...string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(redisCtx, keys...).Err()
}
