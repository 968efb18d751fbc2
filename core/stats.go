package core

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis key layout for activity counters.
const (
	PostViewKeyPrefix = "blog:views:post:"
	SignupCountKey    = "blog:signups"
	LoginCountKey     = "blog:logins"
)

// PostViewKey returns the view-counter key for a post id.
func PostViewKey(postID int64) string {
	return PostViewKeyPrefix + strconv.FormatInt(postID, 10)
}

// PostViewCount は投稿ごとの閲覧数を表す。
type PostViewCount struct {
	PostID int64 `json:"post_id"`
	Views  int64 `json:"views"`
}

// StatsOverview は管理者向けの集計値。
type StatsOverview struct {
	Signups  int64           `json:"signups"`
	Logins   int64           `json:"logins"`
	TopPosts []PostViewCount `json:"top_posts"`
}

// StatsService は Redis から閲覧数とアカウント活動の集計を取得する。
type StatsService struct {
	redis RedisClientRaw
}

func NewStatsService(redis RedisClientRaw) *StatsService {
	return &StatsService{redis: redis}
}

// RecordPostView increments the view counter of a post.
func (s *StatsService) RecordPostView(ctx context.Context, postID int64) error {
	return s.redis.Incr(ctx, PostViewKey(postID)).Err()
}

// RecordSignup increments the signup total.
func (s *StatsService) RecordSignup(ctx context.Context) error {
	return s.redis.Incr(ctx, SignupCountKey).Err()
}

// RecordLogin increments the login total.
func (s *StatsService) RecordLogin(ctx context.Context) error {
	return s.redis.Incr(ctx, LoginCountKey).Err()
}

// Overview returns activity totals and the most-viewed posts (capped at 10).
func (s *StatsService) Overview(ctx context.Context) (StatsOverview, error) {
	signups, err := s.counter(ctx, SignupCountKey)
	if err != nil {
		return StatsOverview{}, err
	}
	logins, err := s.counter(ctx, LoginCountKey)
	if err != nil {
		return StatsOverview{}, err
	}

	iter := s.redis.Scan(ctx, 0, PostViewKeyPrefix+"*", 100).Iterator()
	var top []PostViewCount
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := strconv.ParseInt(strings.TrimPrefix(key, PostViewKeyPrefix), 10, 64)
		if err != nil {
			continue
		}
		views, err := s.counter(ctx, key)
		if err != nil {
			continue
		}
		top = append(top, PostViewCount{PostID: id, Views: views})
	}
	if err := iter.Err(); err != nil {
		return StatsOverview{}, err
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Views != top[j].Views {
			return top[i].Views > top[j].Views
		}
		return top[i].PostID < top[j].PostID
	})
	if len(top) > 10 {
		top = top[:10]
	}

	return StatsOverview{Signups: signups, Logins: logins, TopPosts: top}, nil
}

// counter reads an integer key, treating a missing key as zero.
func (s *StatsService) counter(ctx context.Context, key string) (int64, error) {
	val, err := s.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}
