package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	requestWindow = time.Hour
	messageWindow = time.Minute
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Limiter throttles the two spam-prone write paths: connection requests
// per hour and chat messages per minute.
type Limiter struct {
	store           WindowStore
	requestsPerHour int
	messagesPerMin  int
}

func NewLimiter(store WindowStore, requestsPerHour, messagesPerMin int) *Limiter {
	if requestsPerHour < 0 {
		requestsPerHour = 0
	}
	if messagesPerMin < 0 {
		messagesPerMin = 0
	}

	return &Limiter{
		store:           store,
		requestsPerHour: requestsPerHour,
		messagesPerMin:  messagesPerMin,
	}
}

func (l *Limiter) AllowRequest(ctx context.Context, userID int64) (int64, bool, error) {
	return l.allow(ctx, requestKey(userID), requestWindow, l.requestsPerHour, userID)
}

func (l *Limiter) AllowMessage(ctx context.Context, userID int64) (int64, bool, error) {
	return l.allow(ctx, messageKey(userID), messageWindow, l.messagesPerMin, userID)
}

func (l *Limiter) allow(ctx context.Context, key string, window time.Duration, limit int, userID int64) (int64, bool, error) {
	if userID <= 0 {
		return 0, false, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}
	if limit <= 0 {
		return 0, true, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, key, window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(limit) {
		return ceilSeconds(ttl), false, nil
	}

	return 0, true, nil
}

func requestKey(userID int64) string {
	return "rate:requests:1h:" + strconv.FormatInt(userID, 10)
}

func messageKey(userID int64) string {
	return "rate:messages:min:" + strconv.FormatInt(userID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
