package num

import (
	"strconv"
	"time"
)

// Round rounds v to the given number of decimal places. It rounds the exact
// binary value through its decimal form, so 1.2345 becomes 1.234 and an exact
// tie goes to the even digit.
func Round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Seconds reports d in seconds rounded to places decimals
func Seconds(d time.Duration, places int) float64 {
	return Round(d.Seconds(), places)
}
