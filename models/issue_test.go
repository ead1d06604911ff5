package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssueDefaults(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Pothole on Main St", "Deep pothole near the crossing", CategoryPothole,
		Location{Latitude: 12.9, Longitude: 77.6, Address: "Main St"}, "Asha", "a@x.com", "", now)

	assert.Equal(t, StatusPending, issue.Status)
	assert.Empty(t, issue.StatusHistory)
	assert.Empty(t, issue.Updates)
	assert.Equal(t, ClaimNone, issue.ClaimStatus)
	assert.Empty(t, issue.ClaimedByNGO)
	assert.Equal(t, PriorityMedium, issue.Priority)
	assert.False(t, issue.Escalated)
	assert.NotNil(t, issue.Attachments)
}

func TestApplyStatusAppendsHistory(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Broken streetlight", "Dark corner", CategoryStreetlight, Location{}, "Ravi", "", PriorityHigh, now)

	before := len(issue.StatusHistory)
	change := issue.ApplyStatus(StatusInProgress, "admin", now.Add(time.Hour))

	assert.Len(t, issue.StatusHistory, before+1)
	assert.Equal(t, StatusInProgress, change.Status)
	assert.Equal(t, "admin", change.Actor)
	// status always mirrors the last appended entry
	assert.Equal(t, issue.Status, issue.StatusHistory[len(issue.StatusHistory)-1].Status)

	issue.ApplyStatus(StatusResolved, "admin", now.Add(2*time.Hour))
	assert.Len(t, issue.StatusHistory, before+2)
	assert.Equal(t, StatusResolved, issue.Status)
	// earlier entries are untouched
	assert.Equal(t, StatusInProgress, issue.StatusHistory[before].Status)
}

func TestApplyClaim(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Overflowing trash", "Bin not collected", CategoryTrash, Location{}, "Meera", "m@x.com", "", now)

	change := issue.ApplyClaim("GreenCity", now.Add(time.Minute))

	assert.Equal(t, "GreenCity", issue.ClaimedByNGO)
	assert.Equal(t, ClaimClaimed, issue.ClaimStatus)
	assert.Equal(t, StatusCommunityInProgress, issue.Status)
	assert.Equal(t, "GreenCity", change.Actor)
	require.Len(t, issue.StatusHistory, 1)
	assert.Equal(t, StatusCommunityInProgress, issue.StatusHistory[0].Status)
}

func TestAddUpdateAppends(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Water leak", "Pipe burst", CategoryWater, Location{}, "Kiran", "", "", now)

	issue.AddUpdate("Crew dispatched", "admin", now)
	issue.AddUpdate("Pipe replaced", "admin", now.Add(time.Hour))

	require.Len(t, issue.Updates, 2)
	assert.Equal(t, "Crew dispatched", issue.Updates[0].Text)
	assert.Equal(t, "Pipe replaced", issue.Updates[1].Text)
}

func TestEscalatable(t *testing.T) {
	now := time.Now()

	pending11d := NewIssue("old pending", "d", CategoryOther, Location{}, "r", "", "", now.Add(-11*24*time.Hour))
	assert.True(t, pending11d.Escalatable(now))

	pending9d := NewIssue("recent pending", "d", CategoryOther, Location{}, "r", "", "", now.Add(-9*24*time.Hour))
	assert.False(t, pending9d.Escalatable(now))

	resolved11d := NewIssue("old resolved", "d", CategoryOther, Location{}, "r", "", "", now.Add(-11*24*time.Hour))
	resolved11d.ApplyStatus(StatusResolved, "admin", now)
	assert.False(t, resolved11d.Escalatable(now))
}

func TestShouldCreditSolved(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Pothole on Main St", "Deep pothole", CategoryPothole, Location{}, "Asha", "a@x.com", "", now)
	issue.ApplyClaim("GreenCity", now)

	issue.ApplyStatus(StatusSolved, "GreenCity", now.Add(time.Hour))
	assert.True(t, issue.ShouldCreditSolved("GreenCity"))
	assert.False(t, issue.ShouldCreditSolved("BlueTown"), "a different claimant earns nothing")

	issue.ApplyStatus(StatusCommunityInProgress, "GreenCity", now.Add(2*time.Hour))
	assert.False(t, issue.ShouldCreditSolved("GreenCity"), "only solved/resolved statuses count")

	unclaimed := NewIssue("Streetlight out", "Dark corner", CategoryStreetlight, Location{}, "Ravi", "", "", now)
	unclaimed.ApplyStatus(StatusResolved, "admin", now)
	assert.False(t, unclaimed.ShouldCreditSolved("GreenCity"))
	assert.False(t, unclaimed.ShouldCreditSolved(""), "an unclaimed issue credits nobody")
}

func TestReportTriageClaimScenario(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Pothole on Main St", "Deep pothole near the crossing", CategoryPothole,
		Location{Address: "Main St"}, "Asha", "a@x.com", "", now)
	require.Equal(t, StatusPending, issue.Status)
	require.Empty(t, issue.StatusHistory)
	require.Empty(t, issue.Updates)

	issue.ApplyStatus(StatusInProgress, "admin", now.Add(time.Hour))
	require.Len(t, issue.StatusHistory, 1)
	assert.Equal(t, StatusInProgress, issue.StatusHistory[0].Status)
	assert.Equal(t, "admin", issue.StatusHistory[0].Actor)
	assert.Equal(t, StatusInProgress, issue.Status)

	issue.ApplyClaim("GreenCity", now.Add(2*time.Hour))
	assert.Equal(t, "GreenCity", issue.ClaimedByNGO)
	assert.Equal(t, ClaimClaimed, issue.ClaimStatus)
	assert.Equal(t, StatusCommunityInProgress, issue.Status)
	require.Len(t, issue.StatusHistory, 2)
	assert.Equal(t, "GreenCity", issue.StatusHistory[1].Actor)
}

func TestIsSolvedStatus(t *testing.T) {
	assert.True(t, IsSolvedStatus(StatusSolved))
	assert.True(t, IsSolvedStatus(StatusResolved))
	assert.False(t, IsSolvedStatus(StatusPending))
	assert.False(t, IsSolvedStatus(StatusCommunityInProgress))
}

func TestEnumValidation(t *testing.T) {
	for _, s := range []string{"pending", "in-progress", "resolved", "rejected", "claimed", "community-in-progress", "solved"} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("Pending"))
	assert.False(t, ValidStatus("done"))

	for _, c := range []string{"pothole", "streetlight", "trash", "water", "other"} {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("Road"))

	assert.True(t, ValidPriority("low"))
	assert.True(t, ValidPriority("medium"))
	assert.True(t, ValidPriority("high"))
	assert.False(t, ValidPriority("urgent"))
}
