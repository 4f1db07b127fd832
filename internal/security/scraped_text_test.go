package security

import "testing"

func TestSanitizeStripsMarkup(t *testing.T) {
	s := NewScrapedTextSanitizer()

	tests := []struct{ in, want string }{
		{"Hauling OB", "Hauling OB"},
		{"<b>Hauling</b> OB", "Hauling OB"},
		{`<script>alert(1)</script>Loading`, "Loading"},
		{`  <img src=x onerror=alert(1)> Dumping  `, "Dumping"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := s.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	s := NewScrapedTextSanitizer()

	once := s.Sanitize("<i>Maintenance</i> shift")
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}
