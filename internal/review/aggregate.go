// Package review keeps product ratings consistent with their reviews.
package review

import catalog "brewleaf/internal/catalog/models"

// Aggregate returns the mean of ratings rounded half-up to one decimal place,
// and the number of ratings. No ratings yields a zero aggregate.
//
// The rounding is done in integers: round(sum/n, 1) = floor((20*sum + n) / (2*n)) / 10.
func Aggregate(ratings []int) catalog.Aggregate {
	n := len(ratings)
	if n == 0 {
		return catalog.Aggregate{}
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	tenths := (20*sum + int64(n)) / (2 * int64(n))
	return catalog.Aggregate{Rating: float64(tenths) / 10, Count: n}
}
