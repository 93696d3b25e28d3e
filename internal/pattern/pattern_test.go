package pattern

import "testing"

func TestMatchFolderPatterns(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		input    string
		expected bool
	}{
		{"exact folder", "node_modules/", "node_modules", true},
		{"folder prefix does not match", "node_modules/", "node_modules_old", false},
		{"different folder", "node_modules/", "dist", false},
		{"dist folder", "dist/", "dist", true},
		{"no wildcards in folder patterns", "node*/", "node_modules", false},
		{"dot folder", "__pycache__/", "__pycache__", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.pattern, tt.input); got != tt.expected {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatchFileGlobs(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		input    string
		expected bool
	}{
		{"star suffix match", "*.log", "app.log", true},
		{"star suffix mismatch", "*.log", "app.txt", false},
		{"star matches empty", "*.log", ".log", true},
		{"star does not cross suffix", "*.log", "app.log.1", false},
		{"question mark one char", "test?.txt", "test1.txt", true},
		{"question mark any char", "test?.txt", "testa.txt", true},
		{"question mark requires char", "test?.txt", "test.txt", false},
		{"exact file", "test.txt", "test.txt", true},
		{"exact file mismatch", "test.txt", "test.log", false},
		{"multiple stars", "*cache*", "my-cache-dir", true},
		{"star in middle", "a*b", "aXXXb", true},
		{"star in middle mismatch", "a*b", "aXXXc", false},
		{"empty pattern empty text", "", "", true},
		{"empty pattern nonempty text", "", "a", false},
		{"lone star", "*", "anything", true},
		{"unicode name", "*.日志", "app.日志", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.pattern, tt.input); got != tt.expected {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.expected)
			}
		})
	}
}

func TestMatchAnyFirstMatchWins(t *testing.T) {
	patterns := []string{"*.log", "*.tmp", "core.*"}

	if !MatchAny(patterns, "debug.log") {
		t.Error("expected debug.log to match pattern list")
	}
	if !MatchAny(patterns, "core.1234") {
		t.Error("expected core.1234 to match pattern list")
	}
	if MatchAny(patterns, "main.go") {
		t.Error("did not expect main.go to match pattern list")
	}
	if MatchAny(nil, "anything") {
		t.Error("empty pattern list must match nothing")
	}
}

func TestIsFolderPattern(t *testing.T) {
	if !IsFolderPattern("node_modules/") {
		t.Error("trailing separator should mark a folder pattern")
	}
	if IsFolderPattern("*.log") {
		t.Error("glob should not be a folder pattern")
	}
}
