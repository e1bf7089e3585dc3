package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	svc   DashboardService
	stats *fakeStatisticsRepo
	users *fakeUserRepo
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		stats: &fakeStatisticsRepo{},
		users: newFakeUserRepo(),
	}
	f.svc = NewDashboardService(f.stats, f.users)
	return f
}

func TestGetDashboardComputesPercentages(t *testing.T) {
	f := newDashboardFixture()
	branchID := uuid.New()
	user := f.users.add(model.User{Username: "kboateng", BranchID: &branchID})

	f.stats.jurisdictions = model.JurisdictionCounts{Areas: 2, Districts: 5, Branches: 12}
	f.stats.tally = model.MemberTally{
		ChurchMembers:   3,
		BranchMembers:   1,
		DistrictMembers: 2,
		AreaMembers:     3,
		MaleCount:       1,
		FemaleCount:     2,
		ChildrenCount:   1,
		YouthCount:      1,
		AdultCount:      1,
	}

	resp, err := f.svc.GetDashboard(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, model.JurisdictionCounts{Areas: 2, Districts: 5, Branches: 12}, resp.Jurisdictions)
	assert.Equal(t, model.MemberCounts{
		BranchMembers:   1,
		DistrictMembers: 2,
		AreaMembers:     3,
		ChurchMembers:   3,
	}, resp.Members)

	// 1/3 and 2/3 round to two decimals
	assert.Equal(t, 33.33, resp.GenderDistribution.MalePercentage)
	assert.Equal(t, 66.67, resp.GenderDistribution.FemalePercentage)
	assert.Equal(t, 33.33, resp.AgeDemographics.ChildrenPercentage)
	assert.Equal(t, 33.33, resp.AgeDemographics.YouthPercentage)
	assert.Equal(t, 33.33, resp.AgeDemographics.AdultPercentage)

	require.NotNil(t, f.stats.lastBranchID)
	assert.Equal(t, branchID, *f.stats.lastBranchID)
}

func TestGetDashboardAgeCutoffs(t *testing.T) {
	f := newDashboardFixture()
	user := f.users.add(model.User{Username: "kboateng"})

	_, err := f.svc.GetDashboard(context.Background(), user.ID)
	require.NoError(t, err)

	now := time.Now()
	assert.WithinDuration(t, now.AddDate(-15, 0, 0), f.stats.childCutoff, time.Minute)
	assert.WithinDuration(t, now.AddDate(-45, 0, 0), f.stats.youthCutoff, time.Minute)
}

func TestGetDashboardWithoutBranch(t *testing.T) {
	f := newDashboardFixture()
	user := f.users.add(model.User{Username: "kboateng"})

	f.stats.tally = model.MemberTally{
		ChurchMembers:   10,
		BranchMembers:   4,
		DistrictMembers: 6,
		AreaMembers:     8,
		MaleCount:       5,
		FemaleCount:     5,
	}

	resp, err := f.svc.GetDashboard(context.Background(), user.ID)
	require.NoError(t, err)

	// no branch means no scoped counts, church-wide figures still come through
	assert.Nil(t, f.stats.lastBranchID)
	assert.Equal(t, model.MemberCounts{ChurchMembers: 10}, resp.Members)
	assert.Equal(t, 50.0, resp.GenderDistribution.MalePercentage)
}

func TestGetDashboardEmptyChurch(t *testing.T) {
	f := newDashboardFixture()
	user := f.users.add(model.User{Username: "kboateng"})

	resp, err := f.svc.GetDashboard(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.GenderDistribution.MalePercentage)
	assert.Equal(t, 0.0, resp.GenderDistribution.FemalePercentage)
	assert.Equal(t, 0.0, resp.AgeDemographics.ChildrenPercentage)
	assert.Equal(t, 0.0, resp.AgeDemographics.YouthPercentage)
	assert.Equal(t, 0.0, resp.AgeDemographics.AdultPercentage)
}

func TestGetDashboardUnknownUser(t *testing.T) {
	f := newDashboardFixture()

	_, err := f.svc.GetDashboard(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
