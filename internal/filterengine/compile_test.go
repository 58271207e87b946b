package filterengine

import "testing"

func TestCompilePatternLiteralFastPath(t *testing.T) {
	cp, err := compilePattern("ActivityManager")
	if err != nil {
		t.Fatalf("compilePattern: %v", err)
	}
	if !cp.isLiteral {
		t.Error("expected plain alphabetic pattern to take the literal fast path")
	}
	if !cp.Match([]byte("W/ActivityManager: leaked")) {
		t.Error("expected literal substring match")
	}
	if cp.Match([]byte("nothing relevant")) {
		t.Error("expected no match")
	}
}

func TestCompilePatternRegexFallback(t *testing.T) {
	cp, err := compilePattern(`E/\w+Manager`)
	if err != nil {
		t.Fatalf("compilePattern: %v", err)
	}
	if cp.isLiteral {
		t.Error("pattern with metacharacters should not take the literal fast path")
	}
	if !cp.Match([]byte("E/ActivityManager: crash")) {
		t.Error("expected regex match")
	}
}

func TestCompilePatternInvalidRegex(t *testing.T) {
	if _, err := compilePattern("(unterminated"); err == nil {
		t.Error("expected error for unterminated group")
	}
}

func TestCompileSearchCaseInsensitive(t *testing.T) {
	cp, err := compileSearch("Timeout")
	if err != nil {
		t.Fatalf("compileSearch: %v", err)
	}
	if !cp.MatchString("connection timeout after 30s") {
		t.Error("expected case-insensitive search match")
	}
	if !cp.Match([]byte("TIMEOUT EXCEEDED")) {
		t.Error("expected case-insensitive search match on bytes")
	}
}

func TestLiteralOf(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"", false},
		{"plain", true},
		{"has.dot", false},
		{"a|b", false},
		{"CamelCase123", true},
	}
	for _, tt := range tests {
		_, ok := literalOf(tt.pattern)
		if ok != tt.want {
			t.Errorf("literalOf(%q) ok = %v, want %v", tt.pattern, ok, tt.want)
		}
	}
}
