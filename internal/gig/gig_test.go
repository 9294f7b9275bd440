package gig

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestFileSafeName(t *testing.T) {
	may1 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		gig  *Gig
		want string
	}{
		{
			name: "strips punctuation",
			gig:  New("g1", "Joe's Bar & Grill!!", may1),
			want: "2023-05-01 Joes Bar Grill",
		},
		{
			name: "keeps allowed punctuation",
			gig:  New("g2", "Spring Gala, Part 2 - St. Paul", may1),
			want: "2023-05-01 Spring Gala, Part 2 - St. Paul",
		},
		{
			name: "collapses spaces",
			gig:  New("g3", "  Summer   Bash  ", may1),
			want: "2023-05-01 Summer Bash",
		},
		{
			name: "control whitespace is stripped, not collapsed",
			gig:  New("g3b", "Summer\tBash\nNight", may1),
			want: "2023-05-01 SummerBashNight",
		},
		{
			name: "empty name",
			gig:  New("g4", "", may1),
			want: "2023-05-01",
		},
		{
			name: "unicode removed",
			gig:  New("g5", "Café Olé ☀", may1),
			want: "2023-05-01 Caf Ol",
		},
		{
			name: "path separators removed",
			gig:  New("g6", "../etc/passwd", may1),
			want: "2023-05-01 ..etcpasswd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gig.FileSafeName(); got != tt.want {
				t.Errorf("FileSafeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileSafeName_Invariants(t *testing.T) {
	allowed := regexp.MustCompile(`^[A-Za-z0-9 ,.-]*$`)
	names := []string{
		"Joe's Bar & Grill!!",
		"\t\tleading tabs",
		"trailing   ",
		"a  b   c    d",
		"emoji 🎺🎷 night",
		"mixed nbsp line",
		"",
	}
	date := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	for _, n := range names {
		g := New("id", n, date)
		got := g.FileSafeName()

		if !allowed.MatchString(got) {
			t.Errorf("FileSafeName(%q) = %q contains disallowed characters", n, got)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("FileSafeName(%q) = %q contains doubled spaces", n, got)
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("FileSafeName(%q) = %q has surrounding whitespace", n, got)
		}
		if again := g.FileSafeName(); again != got {
			t.Errorf("FileSafeName(%q) not deterministic: %q then %q", n, got, again)
		}
	}
}

func TestNew_TruncatesToDay(t *testing.T) {
	g := New("id", "name", time.Date(2023, 5, 1, 22, 30, 0, 0, time.FixedZone("X", -5*3600)))

	want := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	if !g.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", g.Date, want)
	}
}
