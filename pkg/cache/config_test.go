package cache

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TTL != 5*time.Minute {
		t.Errorf("TTL = %v, want 5m", cfg.TTL)
	}
	if cfg.MaxSize != 1000 {
		t.Errorf("MaxSize = %d, want 1000", cfg.MaxSize)
	}
	if !cfg.Enabled {
		t.Error("Enabled = false, want true")
	}
}

func TestConfig_Merge(t *testing.T) {
	disabled := false

	tests := []struct {
		name      string
		overrides Overrides
		want      Config
	}{
		{
			name:      "no overrides",
			overrides: Overrides{},
			want:      DefaultConfig(),
		},
		{
			name:      "ttl only",
			overrides: Overrides{TTL: time.Minute},
			want:      Config{TTL: time.Minute, MaxSize: 1000, Enabled: true},
		},
		{
			name:      "max size only",
			overrides: Overrides{MaxSize: 50},
			want:      Config{TTL: 5 * time.Minute, MaxSize: 50, Enabled: true},
		},
		{
			name:      "disable",
			overrides: Overrides{Enabled: &disabled},
			want:      Config{TTL: 5 * time.Minute, MaxSize: 1000, Enabled: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultConfig().Merge(tt.overrides)
			if got != tt.want {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
