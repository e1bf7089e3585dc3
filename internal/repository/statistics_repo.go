package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatisticsRepository interface {
	CountJurisdictions(ctx context.Context) (model.JurisdictionCounts, error)
	// CountMembers tallies members church-wide and, when branchID is set,
	// within that branch, its district and its area. The cutoffs split the
	// age bands: born after childCutoff counts as a child, between the two
	// cutoffs as youth, on or before youthCutoff as adult.
	CountMembers(ctx context.Context, branchID *uuid.UUID, childCutoff, youthCutoff time.Time) (model.MemberTally, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) CountJurisdictions(ctx context.Context) (model.JurisdictionCounts, error) {
	var counts model.JurisdictionCounts
	db := GetDB(ctx, r.db)

	if err := db.Model(&model.Area{}).Count(&counts.Areas).Error; err != nil {
		return counts, fmt.Errorf("failed to count areas: %w", err)
	}
	if err := db.Model(&model.District{}).Count(&counts.Districts).Error; err != nil {
		return counts, fmt.Errorf("failed to count districts: %w", err)
	}
	if err := db.Model(&model.Branch{}).Count(&counts.Branches).Error; err != nil {
		return counts, fmt.Errorf("failed to count branches: %w", err)
	}
	return counts, nil
}

func (r *statisticsRepository) CountMembers(ctx context.Context, branchID *uuid.UUID, childCutoff, youthCutoff time.Time) (model.MemberTally, error) {
	var tally model.MemberTally
	db := GetDB(ctx, r.db)

	// uuid.Nil matches no branch, so a user without a branch gets zero
	// scoped counts while the church-wide figures still come through.
	scope := uuid.Nil
	if branchID != nil {
		scope = *branchID
	}

	err := db.Model(&model.Member{}).
		Select(`COUNT(*) AS church_members,
			COUNT(*) FILTER (WHERE branch_id = ?) AS branch_members,
			COUNT(*) FILTER (WHERE branch_id IN (
				SELECT id FROM branches WHERE deleted_at IS NULL AND district_id = (
					SELECT district_id FROM branches WHERE id = ?))) AS district_members,
			COUNT(*) FILTER (WHERE branch_id IN (
				SELECT b.id FROM branches b
				JOIN districts d ON d.id = b.district_id
				WHERE b.deleted_at IS NULL AND d.area_id = (
					SELECT d2.area_id FROM branches b2
					JOIN districts d2 ON d2.id = b2.district_id
					WHERE b2.id = ?))) AS area_members,
			COUNT(*) FILTER (WHERE gender = ?) AS male_count,
			COUNT(*) FILTER (WHERE gender = ?) AS female_count,
			COUNT(*) FILTER (WHERE date_of_birth > ?) AS children_count,
			COUNT(*) FILTER (WHERE date_of_birth <= ? AND date_of_birth > ?) AS youth_count,
			COUNT(*) FILTER (WHERE date_of_birth <= ?) AS adult_count`,
			scope, scope, scope,
			model.GenderMale, model.GenderFemale,
			childCutoff, childCutoff, youthCutoff, youthCutoff).
		Scan(&tally).Error
	if err != nil {
		return tally, fmt.Errorf("failed to tally members: %w", err)
	}
	return tally, nil
}
