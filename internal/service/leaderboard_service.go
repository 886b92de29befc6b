package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/repository"
)

const (
	leaderboardKey  = "leaderboard:global"
	leaderboardSize = 50
)

// Entry is one leaderboard row. Earnings are normalized to USD so profiles
// in different currencies rank on the same scale.
type Entry struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"userId"`
	DisplayName   string  `json:"displayName"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	EarningsUSD   float64 `json:"earningsUsd"`
	Currency      string  `json:"currency"`
	TotalSessions int64   `json:"totalSessions"`
	CurrentStreak int     `json:"currentStreak"`
	Title         string  `json:"title"`
	Icon          string  `json:"icon"`
}

// LeaderboardService ranks users by lifetime earnings. The global board is
// cached in Redis for a short TTL; the friends board is computed per request.
type LeaderboardService struct {
	users         *repository.UserRepository
	friends       *repository.FriendRepository
	fx            *FXService
	notifications *NotificationService
	cache         *redis.Client
	ttl           time.Duration
	log           zerolog.Logger
}

func NewLeaderboardService(
	users *repository.UserRepository,
	friends *repository.FriendRepository,
	fx *FXService,
	notifications *NotificationService,
	cache *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		users:         users,
		friends:       friends,
		fx:            fx,
		notifications: notifications,
		cache:         cache,
		ttl:           ttl,
		log:           log,
	}
}

// Global returns the top earners across all users, freshest-cache-first.
func (s *LeaderboardService) Global(ctx context.Context) ([]Entry, error) {
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, leaderboardKey).Bytes(); err == nil {
			var entries []Entry
			if err := json.Unmarshal(payload, &entries); err == nil {
				return entries, nil
			}
		}
	}

	users, err := s.users.TopByEarnings(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := s.rank(ctx, users)

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, leaderboardKey, payload, s.ttl).Err(); err != nil {
				s.log.Warn().Err(err).Msg("cache leaderboard failed")
			}
		}
	}
	return entries, nil
}

// Friends ranks the signed-in user together with their accepted friends.
func (s *LeaderboardService) Friends(ctx context.Context, user models.User) ([]Entry, error) {
	if user.ID == "" {
		return nil, ErrNotSignedIn
	}

	ids, err := s.friends.ListFriendIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}
	ids = append(ids, user.ID)

	users, err := s.users.TopByEarningsAmong(ctx, ids, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load friend leaderboard: %w", err)
	}
	return s.rank(ctx, users), nil
}

// rank converts every profile's earnings to USD, orders by the converted
// amount and assigns ranks and titles.
func (s *LeaderboardService) rank(ctx context.Context, users []models.User) []Entry {
	rates, err := s.fx.Rates(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("rates unavailable, ranking on raw earnings")
	}

	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, Entry{
			UserID:        u.ID,
			DisplayName:   u.DisplayName,
			AvatarURL:     u.AvatarURL,
			EarningsUSD:   ConvertWithRates(rates, u.TotalEarnings, u.Currency, "USD"),
			Currency:      u.Currency,
			TotalSessions: u.TotalSessions,
			CurrentStreak: u.CurrentStreak,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EarningsUSD > entries[j].EarningsUSD
	})
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Title, entries[i].Icon = rankTitle(entries[i].Rank, entries[i].EarningsUSD)
	}
	return entries
}

// rankTitle mirrors the tiering shown next to each row: the podium gets its
// own names, then position bands, then earnings bands.
func rankTitle(rank int, earningsUSD float64) (string, string) {
	switch {
	case rank == 1:
		return "Porcelain Emperor", "👑"
	case rank == 2:
		return "Flush Master", "🥈"
	case rank == 3:
		return "Toilet Titan", "🥉"
	case rank <= 10:
		return "Bathroom Baron", "🏆"
	case rank <= 25:
		return "Restroom Royalty", "👸"
	case rank <= 50:
		return "Loo Legend", "⭐"
	case earningsUSD >= 100:
		return "Poop Prodigy", "💎"
	case earningsUSD >= 50:
		return "Toilet Trainee", "🎯"
	default:
		return "Bathroom Beginner", "🚽"
	}
}

// NotifyOvertakes pushes an alert to every user the mover just passed. Ranks
// are read from the fresh board, so a notified user's old rank is their new
// rank minus one.
func (s *LeaderboardService) NotifyOvertakes(ctx context.Context, mover models.User, beforeTotal float64, afterTotal float64) {
	if afterTotal <= beforeTotal {
		return
	}

	rates, err := s.fx.Rates(ctx)
	if err != nil {
		rates = nil
	}
	beforeUSD := ConvertWithRates(rates, beforeTotal, mover.Currency, "USD")
	afterUSD := ConvertWithRates(rates, afterTotal, mover.Currency, "USD")

	users, err := s.users.TopByEarnings(ctx, leaderboardSize)
	if err != nil {
		s.log.Warn().Err(err).Msg("overtake check skipped, leaderboard unavailable")
		return
	}
	entries := s.rank(ctx, users)

	for _, e := range entries {
		if e.UserID == mover.ID {
			continue
		}
		if e.EarningsUSD <= beforeUSD || e.EarningsUSD >= afterUSD {
			continue
		}
		if err := s.notifications.RankOvertaken(ctx, e.UserID, mover.DisplayName, e.Rank, e.Rank-1); err != nil {
			s.log.Warn().Err(err).Str("user_id", e.UserID).Msg("overtake notification failed")
		}
	}

	// The cached board is stale the moment a session lands.
	if s.cache != nil {
		if err := s.cache.Del(ctx, leaderboardKey).Err(); err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache invalidation failed")
		}
	}
}
