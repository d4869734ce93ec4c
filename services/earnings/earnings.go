package earnings

import (
	"math"
	"strings"
	"time"

	riderModel "parcel-delivery/models/rider"

	"github.com/jinzhu/now"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission rates. Same-region deliveries pay the rider 30% of the parcel
// cost, cross-region deliveries 40%.
const (
	SameRegionRate  = 0.30
	CrossRegionRate = 0.40
)

// Commission returns the rider commission for a parcel, rounded to the
// nearest whole unit. Region comparison is case-insensitive.
func Commission(cost float64, senderRegion, receiverRegion string) float64 {
	rate := CrossRegionRate
	if strings.EqualFold(strings.TrimSpace(senderRegion), strings.TrimSpace(receiverRegion)) {
		rate = SameRegionRate
	}
	return math.Round(cost * rate)
}

// AccrueUpdate builds the rider update that records a new pending
// commission: total and pending balances move together with the pushed
// history entry, so pending + cashed_out stays equal to total.
func AccrueUpdate(parcelID primitive.ObjectID, amount float64, at time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{
			"total_earnings":   amount,
			"pending_earnings": amount,
		},
		"$push": bson.M{
			"earnings_history": riderModel.EarningsEntry{
				ParcelID: parcelID,
				Amount:   amount,
				Status:   riderModel.EarningsStatusPending,
				Date:     at,
			},
		},
	}
}

// CashoutUpdate builds the rider update that moves a pending commission to
// cashed out and flips the matching history entry. Meant to be used with an
// array filter matching the parcel's pending entry.
func CashoutUpdate(amount float64) bson.M {
	return bson.M{
		"$inc": bson.M{
			"pending_earnings":    -amount,
			"cashed_out_earnings": amount,
		},
		"$set": bson.M{
			"earnings_history.$[entry].status": riderModel.EarningsStatusCashedOut,
		},
	}
}

// CashoutArrayFilters matches the pending history entry for the parcel
// being cashed out.
func CashoutArrayFilters(parcelID primitive.ObjectID) []interface{} {
	return []interface{}{
		bson.M{
			"entry.parcel_id": parcelID,
			"entry.status":    riderModel.EarningsStatusPending,
		},
	}
}

// Summary is the earnings breakdown returned to a rider.
type Summary struct {
	Total     float64 `json:"total"`
	CashedOut float64 `json:"cashed_out"`
	Pending   float64 `json:"pending"`
	Today     float64 `json:"today"`
	Week      float64 `json:"week"`
	Month     float64 `json:"month"`
	Year      float64 `json:"year"`
}

// BuildSummary computes the time-bucketed earnings figures from the rider's
// ledger as of the given instant. Buckets nest: an entry earned today also
// counts toward the week, month and year figures. Weeks start on Monday.
func BuildSummary(r *riderModel.Rider, at time.Time) Summary {
	cfg := &now.Config{
		WeekStartDay: time.Monday,
		TimeLocation: at.Location(),
	}
	n := cfg.With(at)

	dayStart := n.BeginningOfDay()
	weekStart := n.BeginningOfWeek()
	monthStart := n.BeginningOfMonth()
	yearStart := n.BeginningOfYear()

	s := Summary{
		Total:     r.TotalEarnings,
		CashedOut: r.CashedOutEarnings,
		Pending:   r.PendingEarnings,
	}

	for _, e := range r.EarningsHistory {
		if e.Date.After(at) {
			continue
		}
		if !e.Date.Before(dayStart) {
			s.Today += e.Amount
		}
		if !e.Date.Before(weekStart) {
			s.Week += e.Amount
		}
		if !e.Date.Before(monthStart) {
			s.Month += e.Amount
		}
		if !e.Date.Before(yearStart) {
			s.Year += e.Amount
		}
	}

	return s
}
