package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is an immutable rating and comment left by a user on a course.
type Review struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewStats summarises the reviews of one course. Average is nil when the
// course has no reviews, which is distinct from a zero average.
type ReviewStats struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

// HasRating reports whether at least one review contributed to the stats.
func (s ReviewStats) HasRating() bool { return s.Average != nil }

// ComputeReviewStats aggregates every review for courseID.
func ComputeReviewStats(reviews []Review, courseID string) ReviewStats {
	sum, count := 0, 0
	for _, r := range reviews {
		if r.CourseID == courseID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return ReviewStats{}
	}
	avg := float64(sum) / float64(count)
	return ReviewStats{Average: &avg, Count: count}
}

// HasUserRated reports whether userID has reviewed courseID.
func HasUserRated(reviews []Review, userID, courseID string) bool {
	for _, r := range reviews {
		if r.CourseID == courseID && r.UserID == userID {
			return true
		}
	}
	return false
}
