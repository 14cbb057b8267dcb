package content

import "math"

const (
	// MaxStars is the number of stars rendered for every review.
	MaxStars = 5
	// DefaultStars は rating が無い・解釈できない場合の星の数。
	DefaultStars = 5
)

// StarCount は表示用の星の数を返す。nil・0・NaN/Inf は未評価とみなして DefaultStars、
// それ以外は四捨五入して [0,5] に収める。
func StarCount(rating *float64) int {
	if rating == nil || *rating == 0 || math.IsNaN(*rating) || math.IsInf(*rating, 0) {
		return DefaultStars
	}
	stars := int(math.Round(*rating))
	if stars < 0 {
		return 0
	}
	if stars > MaxStars {
		return MaxStars
	}
	return stars
}

// ClampSubmittedRating normalises a visitor-submitted rating into [1,5]. Zero means "not given" and becomes 5.
func ClampSubmittedRating(rating int) int {
	if rating == 0 {
		return DefaultStars
	}
	if rating < 1 {
		return 1
	}
	if rating > MaxStars {
		return MaxStars
	}
	return rating
}
