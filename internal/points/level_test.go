package points

import "testing"

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"zero points is level 1", 0, 1},
		{"just below first threshold", 999, 1},
		{"exactly at first threshold", 1000, 2},
		{"mid second level", 1500, 2},
		{"exactly at second threshold", 2000, 3},
		{"well into third level", 2500, 3},
		{"ten thousand", 10000, 11},
		{"negative total clamps to level 1", -250, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFor(tt.total); got != tt.want {
				t.Errorf("LevelFor(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}
