package model

// DashboardResponse aggregates jurisdiction and membership metrics for the
// admin landing page. Counts are scoped to the requesting user's branch and
// its parent district and area; percentages cover the whole church.
type DashboardResponse struct {
	Jurisdictions      JurisdictionCounts `json:"jurisdictions"`
	Members            MemberCounts       `json:"members"`
	GenderDistribution GenderDistribution `json:"gender_distribution"`
	AgeDemographics    AgeDemographics    `json:"age_demographics"`
}

type JurisdictionCounts struct {
	Areas     int64 `json:"areas"`
	Districts int64 `json:"districts"`
	Branches  int64 `json:"branches"`
}

type MemberCounts struct {
	BranchMembers   int64 `json:"branch_members"`
	DistrictMembers int64 `json:"district_members"`
	AreaMembers     int64 `json:"area_members"`
	ChurchMembers   int64 `json:"church_members"`
}

type GenderDistribution struct {
	MalePercentage   float64 `json:"male_percentage"`
	FemalePercentage float64 `json:"female_percentage"`
}

type AgeDemographics struct {
	ChildrenPercentage float64 `json:"children_percentage"`
	YouthPercentage    float64 `json:"youth_percentage"`
	AdultPercentage    float64 `json:"adult_percentage"`
}

// MemberTally is the raw aggregate row the dashboard percentages are computed
// from. Members under 15 count as children, 15 to under 45 as youth, 45 and
// over as adults.
type MemberTally struct {
	ChurchMembers   int64
	BranchMembers   int64
	DistrictMembers int64
	AreaMembers     int64
	MaleCount       int64
	FemaleCount     int64
	ChildrenCount   int64
	YouthCount      int64
	AdultCount      int64
}
