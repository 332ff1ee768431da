package history

import (
	"errors"
	"testing"
)

func TestStorageError(t *testing.T) {
	err := NewStorageError("sqlite", "store", ErrClosed)
	if got := err.Error(); got != "history sqlite: store: history store closed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrClosed) {
		t.Error("StorageError does not unwrap to its cause")
	}
}

func TestRetentionError(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name string
		err  *RetentionError
		want string
	}{
		{
			name: "both limits",
			err:  &RetentionError{RetentionDays: 30, MaxRecords: 1000, Cause: cause},
			want: "pruning history (older than 30d, beyond 1000 records): disk full",
		},
		{
			name: "age only",
			err:  &RetentionError{RetentionDays: 7, Cause: cause},
			want: "pruning history (older than 7d): disk full",
		},
		{
			name: "no limits",
			err:  &RetentionError{Cause: cause},
			want: "pruning history: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("RetentionError does not unwrap to its cause")
			}
		})
	}
}
