package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall-api/internal/dto"
	"github.com/examhall/examhall-api/internal/repository"
)

// DashboardService produces aggregated statistics for student dashboards.
type DashboardService interface {
	StudentSummary(ctx context.Context, studentID uint) (dto.StudentSummaryResponse, error)
}

type dashboardService struct {
	results  repository.ResultRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. The cache client may
// be nil; summaries are then recomputed on every call.
func NewDashboardService(results repository.ResultRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		results:  results,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) StudentSummary(ctx context.Context, studentID uint) (dto.StudentSummaryResponse, error) {
	cacheKey := fmt.Sprintf("summary:student:%d", studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentSummaryResponse{}, err
	}

	response := dto.StudentSummaryResponse{TotalExamsTaken: len(results)}
	if len(results) > 0 {
		totalPercentage := 0.0
		for _, result := range results {
			if result.TotalMarks > 0 {
				totalPercentage += float64(result.ObtainedMarks) / float64(result.TotalMarks) * 100
			}
		}
		response.AverageScore = int(math.Round(totalPercentage / float64(len(results))))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}
