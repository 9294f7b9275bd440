package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/gig-o-download/internal/gig"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{name: "empty filter", filter: NewFilter(nil, nil), want: true},
		{name: "filter with date from", filter: NewFilter(timePtr(time.Now()), nil), want: false},
		{name: "filter with date to", filter: NewFilter(nil, timePtr(time.Now())), want: false},
		{name: "filter with name", filter: &Filter{Names: []string{"gala"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply_DateRange(t *testing.T) {
	catalog := []*gig.Gig{
		gig.New("1", "New Year", date(2023, 1, 1)),
		gig.New("2", "Midsummer", date(2023, 6, 15)),
		gig.New("3", "Next Year", date(2024, 1, 1)),
	}

	tests := []struct {
		name    string
		from    *time.Time
		to      *time.Time
		wantIDs []string
	}{
		{
			name:    "from and to are inclusive",
			from:    timePtr(date(2023, 1, 1)),
			to:      timePtr(date(2023, 12, 31)),
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "exclusive of start day",
			from:    timePtr(date(2023, 1, 2)),
			to:      timePtr(date(2023, 12, 31)),
			wantIDs: []string{"2"},
		},
		{
			name:    "no start bound",
			to:      timePtr(date(2023, 6, 15)),
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "no end bound",
			from:    timePtr(date(2023, 6, 15)),
			wantIDs: []string{"2", "3"},
		},
		{
			name:    "no bounds",
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:    "end bound with time of day still covers the day",
			from:    timePtr(date(2024, 1, 1)),
			to:      timePtr(time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)),
			wantIDs: []string{"3"},
		},
		{
			name:    "empty range",
			from:    timePtr(date(2025, 1, 1)),
			to:      timePtr(date(2025, 12, 31)),
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFilter(tt.from, tt.to).Apply(catalog)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Apply() returned %d gigs, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("Apply()[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

// The 2023-01-01 gig falls on the start bound; a start of 2023-01-02 leaves
// only the mid-year gig.
func TestFilter_Apply_SingleMatch(t *testing.T) {
	catalog := []*gig.Gig{
		gig.New("1", "A", date(2023, 1, 1)),
		gig.New("2", "B", date(2023, 6, 15)),
		gig.New("3", "C", date(2024, 1, 1)),
	}

	got := NewFilter(timePtr(date(2023, 1, 2)), timePtr(date(2023, 12, 31))).Apply(catalog)
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Apply() = %v, want only gig 2", got)
	}
}

func TestFilter_Matches_Names(t *testing.T) {
	g := gig.New("1", "Spring Gala at the Pavilion", date(2023, 4, 1))

	tests := []struct {
		names []string
		want  bool
	}{
		{names: []string{"gala"}, want: true},
		{names: []string{"PAVILION"}, want: true},
		{names: []string{"parade", "spring"}, want: true},
		{names: []string{"parade"}, want: false},
	}

	for _, tt := range tests {
		f := &Filter{Names: tt.names}
		if got := f.Matches(g); got != tt.want {
			t.Errorf("Matches() with names %v = %v, want %v", tt.names, got, tt.want)
		}
	}
}

func TestFilter_String(t *testing.T) {
	f := NewFilter(timePtr(date(2023, 1, 1)), timePtr(date(2023, 12, 31)))
	f.Names = []string{"gala"}

	want := "From: 2023-01-01 | To: 2023-12-31 | Names: gala"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got := NewFilter(nil, nil).String(); got != "No active filters" {
		t.Errorf("String() = %q, want %q", got, "No active filters")
	}
}
