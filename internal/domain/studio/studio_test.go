package studio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberSetStatus(t *testing.T) {
	now := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	m := Member{Status: MemberActive}

	require.NoError(t, m.SetStatus(MemberCancelled, now))
	require.NotNil(t, m.CancelledAt)
	assert.Equal(t, now, *m.CancelledAt)

	require.NoError(t, m.SetStatus(MemberActive, now))
	assert.Nil(t, m.CancelledAt)

	assert.ErrorIs(t, m.SetStatus("vip", now), ErrInvalidMemberStatus)
	assert.Equal(t, MemberActive, m.Status)
}

func TestGoalPercentAndTouch(t *testing.T) {
	g := Goal{Target: 10, Progress: 4, Status: GoalOpen}
	assert.InDelta(t, 40, g.Percent(), 0.001)
	g.Touch()
	assert.Equal(t, GoalOpen, g.Status)

	g.Progress = 12
	assert.InDelta(t, 100, g.Percent(), 0.001)
	g.Touch()
	assert.Equal(t, GoalAchieved, g.Status)

	assert.Zero(t, Goal{Progress: 5}.Percent())
}

func TestClassEnroll(t *testing.T) {
	c := Class{Capacity: 2}
	require.NoError(t, c.Enroll())
	require.NoError(t, c.Enroll())
	assert.ErrorIs(t, c.Enroll(), ErrClassFull)
	assert.InDelta(t, 1.0, c.FillRate(), 0.001)
	assert.ErrorIs(t, Class{Capacity: 0}.Validate(), ErrClassCapacity)
}

func TestPromotionWindow(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := Promotion{DiscountPercent: 20, StartsAt: start, EndsAt: start.AddDate(0, 0, 7)}
	require.NoError(t, p.Validate())

	assert.ErrorIs(t, p.Redeem(start.Add(-time.Minute)), ErrPromotionExpired)
	require.NoError(t, p.Redeem(start.Add(time.Hour)))
	assert.Equal(t, 1, p.Redemptions)

	assert.ErrorIs(t, Promotion{DiscountPercent: 0, StartsAt: start, EndsAt: start}.Validate(), ErrInvalidDiscount)
	assert.ErrorIs(t, Promotion{DiscountPercent: 10, StartsAt: start, EndsAt: start.Add(-time.Hour)}.Validate(), ErrPromotionWindow)
	assert.Equal(t, "SPRING20", NormalizeCode(" spring20 "))
}
