package utils

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToInstant(t *testing.T) {
	ref := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   interface{}
		want    time.Time
		wantErr bool
	}{
		{
			name:  "native time",
			input: ref,
			want:  ref,
		},
		{
			name:  "pointer to time",
			input: &ref,
			want:  ref,
		},
		{
			name:  "bson datetime",
			input: primitive.NewDateTimeFromTime(ref),
			want:  ref,
		},
		{
			name:  "epoch milliseconds",
			input: ref.UnixMilli(),
			want:  ref,
		},
		{
			name:  "epoch seconds",
			input: ref.Unix(),
			want:  ref,
		},
		{
			name:  "epoch milliseconds as float",
			input: float64(ref.UnixMilli()),
			want:  ref,
		},
		{
			name:  "rfc3339 string",
			input: "2025-06-15T10:30:00Z",
			want:  ref,
		},
		{
			name:  "datetime string",
			input: "2025-06-15 10:30:00",
			want:  ref,
		},
		{
			name:  "date-only string",
			input: "2025-06-15",
			want:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage string",
			input:   "not a date",
			wantErr: true,
		},
		{
			name:    "nil",
			input:   nil,
			wantErr: true,
		},
		{
			name:    "nil time pointer",
			input:   (*time.Time)(nil),
			wantErr: true,
		},
		{
			name:    "unsupported type",
			input:   []string{"2025-06-15"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInstant(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrBadInstant) {
					t.Fatalf("expected ErrBadInstant, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToInstantEpochCutoff(t *testing.T) {
	// Just below the cutoff reads as seconds, just above as milliseconds
	secs, err := ToInstant(int64(1e11 - 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secs.Year() < 5000 {
		t.Errorf("expected far-future year for seconds near cutoff, got %d", secs.Year())
	}

	millis, err := ToInstant(int64(1e11 + 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if millis.Year() != 1973 {
		t.Errorf("expected 1973 for milliseconds just past cutoff, got %d", millis.Year())
	}
}
