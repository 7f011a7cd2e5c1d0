package match

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Hey Jude", "Hey Jude", 100},
		{"case insensitive", "hey jude", "HEY JUDE", 100},
		{"both empty", "", "", 100},
		{"one empty", "Hey Jude", "", 0},
		{"disjoint", "abcd", "wxyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	t.Run("single edit", func(t *testing.T) {
		// one substitution over ten runes
		if got := Ratio("helloworld", "hellaworld"); got < 89.9 || got > 90.1 {
			t.Errorf("Ratio = %v, want ~90", got)
		}
	})
}

func TestTokenSetRatio(t *testing.T) {
	t.Run("token order ignored", func(t *testing.T) {
		if got := TokenSetRatio("Jude Hey", "Hey Jude"); got != 100 {
			t.Errorf("TokenSetRatio = %v, want 100", got)
		}
	})

	t.Run("extra tokens tolerated", func(t *testing.T) {
		got := TokenSetRatio("Hey Jude", "Hey Jude The Beatles")
		if got != 100 {
			t.Errorf("TokenSetRatio = %v, want 100", got)
		}
	})

	t.Run("empty side", func(t *testing.T) {
		if got := TokenSetRatio("Hey Jude", ""); got != 0 {
			t.Errorf("TokenSetRatio = %v, want 0", got)
		}
	})
}

func TestSimilarity(t *testing.T) {
	t.Run("containment floors at 85", func(t *testing.T) {
		got := Similarity("Hey Jude", "Hey Jude - Remastered 2015")
		if got < 85 {
			t.Errorf("Similarity = %v, want >= 85", got)
		}
	})

	t.Run("unrelated strings stay low", func(t *testing.T) {
		got := Similarity("Hey Jude", "Paranoid Android")
		if got >= 50 {
			t.Errorf("Similarity = %v, want < 50", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := "Come Together", "Come Together (2019 Mix)"
		if Similarity(a, b) != Similarity(b, a) {
			t.Error("expected symmetric similarity")
		}
	})
}
