package earnings

import (
	"testing"
	"time"

	riderModel "parcel-delivery/models/rider"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommissionSameRegion(t *testing.T) {
	require.Equal(t, 300.0, Commission(1000, "Dhaka", "Dhaka"))
	require.Equal(t, 150.0, Commission(500, "Dhaka", "Dhaka"))
}

func TestCommissionCrossRegion(t *testing.T) {
	require.Equal(t, 400.0, Commission(1000, "Dhaka", "Sylhet"))
	require.Equal(t, 200.0, Commission(500, "Dhaka", "Sylhet"))
}

func TestCommissionRegionMatchIsCaseInsensitive(t *testing.T) {
	require.Equal(t, 300.0, Commission(1000, "dhaka", "DHAKA"))
	require.Equal(t, 300.0, Commission(1000, " Dhaka ", "dhaka"))
}

func TestCommissionRounds(t *testing.T) {
	// 0.30 * 333 = 99.9
	require.Equal(t, 100.0, Commission(333, "a", "a"))
	// 0.40 * 101 = 40.4
	require.Equal(t, 40.0, Commission(101, "a", "b"))
}

// applyAccrue mirrors what Mongo does with the accrue update document.
func applyAccrue(t *testing.T, r *riderModel.Rider, update bson.M) {
	t.Helper()

	inc := update["$inc"].(bson.M)
	r.TotalEarnings += inc["total_earnings"].(float64)
	r.PendingEarnings += inc["pending_earnings"].(float64)

	push := update["$push"].(bson.M)
	entry := push["earnings_history"].(riderModel.EarningsEntry)
	r.EarningsHistory = append(r.EarningsHistory, entry)
}

// applyCashout mirrors what Mongo does with the cashout update document and
// its array filter.
func applyCashout(t *testing.T, r *riderModel.Rider, parcelID primitive.ObjectID, update bson.M) {
	t.Helper()

	inc := update["$inc"].(bson.M)
	r.PendingEarnings += inc["pending_earnings"].(float64)
	r.CashedOutEarnings += inc["cashed_out_earnings"].(float64)

	for i := range r.EarningsHistory {
		e := &r.EarningsHistory[i]
		if e.ParcelID == parcelID && e.Status == riderModel.EarningsStatusPending {
			e.Status = riderModel.EarningsStatusCashedOut
		}
	}
}

func TestAccrueUpdateKeepsLedgerBalanced(t *testing.T) {
	r := &riderModel.Rider{}
	nowT := time.Now()

	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	applyAccrue(t, r, AccrueUpdate(p1, 150, nowT))
	applyAccrue(t, r, AccrueUpdate(p2, 400, nowT))

	require.Equal(t, 550.0, r.TotalEarnings)
	require.Equal(t, 550.0, r.PendingEarnings)
	require.Equal(t, 0.0, r.CashedOutEarnings)
	require.Len(t, r.EarningsHistory, 2)
	require.Equal(t, riderModel.EarningsStatusPending, r.EarningsHistory[0].Status)
	require.Equal(t, r.TotalEarnings, r.PendingEarnings+r.CashedOutEarnings)
}

func TestCashoutUpdateMovesPendingToCashedOut(t *testing.T) {
	r := &riderModel.Rider{}
	nowT := time.Now()

	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	applyAccrue(t, r, AccrueUpdate(p1, 150, nowT))
	applyAccrue(t, r, AccrueUpdate(p2, 400, nowT))
	applyCashout(t, r, p1, CashoutUpdate(150))

	require.Equal(t, 550.0, r.TotalEarnings)
	require.Equal(t, 400.0, r.PendingEarnings)
	require.Equal(t, 150.0, r.CashedOutEarnings)
	require.Equal(t, r.TotalEarnings, r.PendingEarnings+r.CashedOutEarnings)

	require.Equal(t, riderModel.EarningsStatusCashedOut, r.EarningsHistory[0].Status)
	require.Equal(t, riderModel.EarningsStatusPending, r.EarningsHistory[1].Status)

	require.Nil(t, r.PendingEntryForParcel(p1))
	require.NotNil(t, r.PendingEntryForParcel(p2))
}

func TestDeliverThenCashoutScenario(t *testing.T) {
	// Same-region parcel, cost 500: the rider accrues 150 pending, and a
	// cashout moves all of it to cashed out.
	r := &riderModel.Rider{}
	parcelID := primitive.NewObjectID()

	amount := Commission(500, "Dhaka", "Dhaka")
	require.Equal(t, 150.0, amount)

	applyAccrue(t, r, AccrueUpdate(parcelID, amount, time.Now()))
	require.Equal(t, 150.0, r.PendingEarnings)

	applyCashout(t, r, parcelID, CashoutUpdate(amount))
	require.Equal(t, 0.0, r.PendingEarnings)
	require.Equal(t, 150.0, r.CashedOutEarnings)
	require.Equal(t, r.TotalEarnings, r.PendingEarnings+r.CashedOutEarnings)
}

func TestCashoutArrayFiltersMatchPendingEntry(t *testing.T) {
	parcelID := primitive.NewObjectID()
	filters := CashoutArrayFilters(parcelID)

	require.Len(t, filters, 1)
	filter := filters[0].(bson.M)
	require.Equal(t, parcelID, filter["entry.parcel_id"])
	require.Equal(t, riderModel.EarningsStatusPending, filter["entry.status"])
}

func TestHasEarningForParcelGuardsDoubleEntry(t *testing.T) {
	r := &riderModel.Rider{}
	parcelID := primitive.NewObjectID()

	require.False(t, r.HasEarningForParcel(parcelID))

	applyAccrue(t, r, AccrueUpdate(parcelID, 300, time.Now()))
	require.True(t, r.HasEarningForParcel(parcelID))
}

func TestBuildSummaryBucketsNest(t *testing.T) {
	// Saturday, 15 March 2025. The ISO week starts Monday, 10 March.
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	entry := func(ts time.Time, amount float64) riderModel.EarningsEntry {
		return riderModel.EarningsEntry{
			ParcelID: primitive.NewObjectID(),
			Amount:   amount,
			Status:   riderModel.EarningsStatusPending,
			Date:     ts,
		}
	}

	r := &riderModel.Rider{
		TotalEarnings:     1000,
		PendingEarnings:   700,
		CashedOutEarnings: 300,
		EarningsHistory: []riderModel.EarningsEntry{
			entry(time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC), 100),  // today
			entry(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), 50),   // this week
			entry(time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC), 25),    // Sunday before, this month only
			entry(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC), 10),    // this year only
			entry(time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC), 500), // last year
			entry(time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC), 999),  // after "now", ignored
		},
	}

	s := BuildSummary(r, at)

	require.Equal(t, 1000.0, s.Total)
	require.Equal(t, 700.0, s.Pending)
	require.Equal(t, 300.0, s.CashedOut)

	require.Equal(t, 100.0, s.Today)
	require.Equal(t, 150.0, s.Week)  // today + this week
	require.Equal(t, 175.0, s.Month) // + the March 9 entry
	require.Equal(t, 185.0, s.Year)  // + the January entry
}

func TestBuildSummaryEmptyLedger(t *testing.T) {
	s := BuildSummary(&riderModel.Rider{}, time.Now())

	require.Zero(t, s.Total)
	require.Zero(t, s.Today)
	require.Zero(t, s.Week)
	require.Zero(t, s.Month)
	require.Zero(t, s.Year)
}
