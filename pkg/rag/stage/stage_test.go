package stage

import (
	"errors"
	"fmt"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		turn    int
		want    Stage
		wantErr bool
	}{
		{turn: -3, wantErr: true},
		{turn: 0, wantErr: true},
		{turn: 1, want: Initial},
		{turn: 2, want: Followup},
		{turn: 3, want: Subsequent},
		{turn: 4, want: Subsequent},
		{turn: 1000, want: Subsequent},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("turn_%d", tt.turn), func(t *testing.T) {
			got, err := Resolve(tt.turn)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%d) = %s, want %s", tt.turn, got, tt.want)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	for i := 1; i <= 10; i++ {
		a, _ := Resolve(i)
		b, _ := Resolve(i)
		if a != b {
			t.Fatalf("Resolve(%d) not deterministic: %s vs %s", i, a, b)
		}
	}
}
