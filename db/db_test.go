package db

import (
	"testing"
	"time"
)

func TestTimeFormatNormalizesToUtc(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{
			name:  "offset zone is converted",
			input: time.Date(2025, 6, 1, 9, 30, 0, 0, ist),
			want:  "2025-06-01T04:00:00Z",
		},
		{
			name:  "utc stays as is",
			input: time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC),
			want:  "2025-06-01T04:00:00Z",
		},
		{
			name:  "zero time",
			input: time.Time{},
			want:  "0001-01-01T00:00:00Z",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeFormat(tc.input); got != tc.want {
				t.Errorf("TimeFormat() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTimeParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid rfc3339",
			input: "2025-06-01T04:00:00Z",
			want:  time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC),
		},
		{
			name:  "offset input normalized to utc",
			input: "2025-06-01T09:30:00+05:30",
			want:  time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC),
		},
		{
			// Empty text columns stand in for NULL; they parse to the
			// zero time without error.
			name:  "empty column",
			input: "",
			want:  time.Time{},
		},
		{
			name:    "not rfc3339",
			input:   "01/06/2025 04:00",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TimeParse(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("TimeParse() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !got.Equal(tc.want) {
				t.Errorf("TimeParse() = %v, want %v", got, tc.want)
			}
			if !tc.wantErr && got.Location() != time.UTC {
				t.Errorf("TimeParse() location = %v, want UTC", got.Location())
			}
		})
	}
}
