package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Age band boundaries in years. Members younger than childAgeLimit are
// children, younger than youthAgeLimit are youth, the rest adults.
const (
	childAgeLimit = 15
	youthAgeLimit = 45
)

type DashboardService interface {
	// GetDashboard assembles jurisdiction counts, member counts scoped to the
	// requesting user's branch hierarchy, and church-wide gender and age
	// splits.
	GetDashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardResponse, error)
}

type dashboardService struct {
	statsRepo repository.StatisticsRepository
	userRepo  repository.UserRepository
}

func NewDashboardService(statsRepo repository.StatisticsRepository, userRepo repository.UserRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo, userRepo: userRepo}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	jurisdictions, err := s.statsRepo.CountJurisdictions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	childCutoff := now.AddDate(-childAgeLimit, 0, 0)
	youthCutoff := now.AddDate(-youthAgeLimit, 0, 0)

	tally, err := s.statsRepo.CountMembers(ctx, user.BranchID, childCutoff, youthCutoff)
	if err != nil {
		return nil, err
	}

	resp := model.DashboardResponse{
		Jurisdictions: jurisdictions,
		Members: model.MemberCounts{
			BranchMembers:   tally.BranchMembers,
			DistrictMembers: tally.DistrictMembers,
			AreaMembers:     tally.AreaMembers,
			ChurchMembers:   tally.ChurchMembers,
		},
		GenderDistribution: model.GenderDistribution{
			MalePercentage:   percentage(tally.MaleCount, tally.ChurchMembers),
			FemalePercentage: percentage(tally.FemaleCount, tally.ChurchMembers),
		},
		AgeDemographics: model.AgeDemographics{
			ChildrenPercentage: percentage(tally.ChildrenCount, tally.ChurchMembers),
			YouthPercentage:    percentage(tally.YouthCount, tally.ChurchMembers),
			AdultPercentage:    percentage(tally.AdultCount, tally.ChurchMembers),
		},
	}
	return &resp, nil
}

// percentage returns count/total as a percent rounded to two decimals, with 0
// for an empty total.
func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}
