package cache

import (
	"context"
	"fmt"
	"time"

	"toytopia_back_end/internal/database"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// --- Refresh Tokens ---

// StoreRefreshToken stocke un refresh token pour un utilisateur
func StoreRefreshToken(userID, refreshToken string, duration time.Duration) error {
	key := fmt.Sprintf("refresh:%s", userID)
	return database.Redis.Set(ctx, key, refreshToken, duration).Err()
}

// GetRefreshToken récupère le refresh token d'un utilisateur
func GetRefreshToken(userID string) (string, error) {
	key := fmt.Sprintf("refresh:%s", userID)
	return database.Redis.Get(ctx, key).Result()
}

// DeleteRefreshToken supprime le refresh token (logout)
func DeleteRefreshToken(userID string) error {
	key := fmt.Sprintf("refresh:%s", userID)
	return database.Redis.Del(ctx, key).Err()
}

// --- Réinitialisation de mot de passe ---

// StoreResetToken stocke un token de réinitialisation (usage unique, TTL court)
func StoreResetToken(token, userID string, duration time.Duration) error {
	key := fmt.Sprintf("reset:%s", token)
	return database.Redis.Set(ctx, key, userID, duration).Err()
}

// ConsumeResetToken récupère puis invalide le token de réinitialisation
func ConsumeResetToken(token string) (string, error) {
	key := fmt.Sprintf("reset:%s", token)
	userID, err := database.Redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("token de réinitialisation inconnu ou expiré")
	}
	if err != nil {
		return "", err
	}
	database.Redis.Del(ctx, key)
	return userID, nil
}

// --- Rate Limiting ---

// IncrementRateLimit incrémente le compteur de rate limit
func IncrementRateLimit(key string, window time.Duration) (int64, error) {
	pipe := database.Redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// GetRateLimit récupère le compteur de rate limit
func GetRateLimit(key string) (int64, error) {
	val, err := database.Redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
