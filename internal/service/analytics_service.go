package service

import (
	"context"
	"fmt"
	"time"

	"leadflow/internal/auth"
	"leadflow/internal/model"
	"leadflow/internal/policy"
	"leadflow/internal/repository"
)

// Analytics is the role-scoped dashboard rollup.
type Analytics struct {
	Total              int64                      `json:"total"`
	ByStatus           map[model.LeadStatus]int64 `json:"byStatus"`
	PendingFollowUps   int64                      `json:"pendingFollowUps"`
	ConvertedThisMonth int64                      `json:"convertedThisMonth"`
	NewThisWeek        int64                      `json:"newThisWeek"`
	PipelineValue      string                     `json:"pipelineValue"`
	ActiveAgents       int64                      `json:"activeAgents"`
	AgentsUnder        int64                      `json:"agentsUnder"`
}

// AnalyticsService computes read-only counts.
type AnalyticsService interface {
	Summary(ctx context.Context, p auth.Principal) (*Analytics, error)
}

type analyticsService struct {
	leadRepo repository.LeadRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(leadRepo repository.LeadRepository, userRepo repository.UserRepository) AnalyticsService {
	return &analyticsService{leadRepo: leadRepo, userRepo: userRepo, now: time.Now}
}

// Summary scopes lead counts with the same rule as lead listing. Agent
// head-counts are only filled in for admins and managers.
func (s *analyticsService) Summary(ctx context.Context, p auth.Principal) (*Analytics, error) {
	stats, err := s.leadRepo.Stats(ctx, repository.LeadFilter{AssignedTo: policy.LeadScope(p)}, s.now())
	if err != nil {
		return nil, fmt.Errorf("lead stats: %w", err)
	}

	out := &Analytics{
		Total:              stats.Total,
		ByStatus:           stats.ByStatus,
		PendingFollowUps:   stats.PendingFollowUps,
		ConvertedThisMonth: stats.ConvertedThisMonth,
		NewThisWeek:        stats.NewThisWeek,
		PipelineValue:      stats.PipelineValue.StringFixed(2),
	}

	if p.Role == model.RoleAdmin || p.Role == model.RoleManager {
		total, active, err := s.userRepo.CountAgents(ctx)
		if err != nil {
			return nil, fmt.Errorf("count agents: %w", err)
		}
		out.AgentsUnder = total
		out.ActiveAgents = active
	}
	return out, nil
}
