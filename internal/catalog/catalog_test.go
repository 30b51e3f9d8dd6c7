package catalog

import (
	"testing"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := c.All()
	if len(all) == 0 {
		t.Fatal("expected bundled spaces")
	}
	for _, s := range all {
		if s.Name == "" || s.Location == "" || len(s.TimeSlots) == 0 || s.Price <= 0 {
			t.Errorf("incomplete space %+v", s)
		}
	}

	s, ok := c.ByID(5)
	if !ok || s.Location != "Cebu City" {
		t.Fatalf("expected space 5 in Cebu City, got %+v (found=%v)", s, ok)
	}
	if s.OperatingHours.Weekdays == "" {
		t.Error("expected operating hours to be parsed")
	}
	if _, ok := c.ByID(999); ok {
		t.Fatal("expected unknown id to be missing")
	}
}

func TestSearch(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		q    string
		want []int
	}{
		{"", []int{1, 2, 3, 4, 5, 6}},
		{"   ", []int{1, 2, 3, 4, 5, 6}},
		{"quezon", []int{2, 4}},
		{"STUDY", []int{1, 5, 6}},
		{"pods", []int{3}},
		{"baguio", nil},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got := c.Search(tt.q)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d spaces, got %d", len(tt.want), len(got))
			}
			for i, s := range got {
				if s.ID != tt.want[i] {
					t.Fatalf("expected ids %v, got space %d at %d", tt.want, s.ID, i)
				}
			}
		})
	}
}

func TestHasSlot(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if !c.HasSlot(1, "8-10am") {
		t.Error("expected space 1 to offer 8-10am")
	}
	if c.HasSlot(1, "4-6pm") {
		t.Error("expected space 1 not to offer 4-6pm")
	}
	if c.HasSlot(999, "8-10am") {
		t.Error("expected unknown space to offer nothing")
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"malformed":    "- id: [",
		"zero id":      "- id: 0\n  name: Nowhere\n",
		"duplicate id": "- id: 1\n  name: A\n- id: 1\n  name: B\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
