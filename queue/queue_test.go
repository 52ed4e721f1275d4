package queue

import (
	"testing"
	"time"
)

func TestCoolDownBucket(t *testing.T) {
	base := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		duration time.Duration
		a, b     time.Time
		same     bool
	}{
		{
			name:     "same hour bucket",
			duration: time.Hour,
			a:        base,
			b:        base.Add(30 * time.Minute),
			same:     true,
		},
		{
			name:     "different hour bucket",
			duration: time.Hour,
			a:        base,
			b:        base.Add(61 * time.Minute),
			same:     false,
		},
		{
			name:     "one minute bucket",
			duration: time.Minute,
			a:        base,
			b:        base.Add(30 * time.Second),
			same:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bucketA := CoolDownBucket(tc.duration, tc.a)
			bucketB := CoolDownBucket(tc.duration, tc.b)
			if (bucketA == bucketB) != tc.same {
				t.Errorf("buckets %d and %d, same = %v, want %v", bucketA, bucketB, bucketA == bucketB, tc.same)
			}
		})
	}
}

func TestCoolDownBucketMonotonic(t *testing.T) {
	base := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	prev := CoolDownBucket(time.Minute, base)
	for i := 1; i <= 10; i++ {
		next := CoolDownBucket(time.Minute, base.Add(time.Duration(i)*time.Minute))
		if next <= prev {
			t.Fatalf("bucket did not increase: %d then %d", prev, next)
		}
		prev = next
	}
}

func TestCoolDownBucketPanicsOnZeroDuration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero duration")
		}
	}()
	CoolDownBucket(0, time.Now())
}
