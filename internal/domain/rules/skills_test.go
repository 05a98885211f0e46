package rules

import (
	"reflect"
	"testing"
)

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{" Python ", "GUITAR", "python", "", "  "})
	want := []string{"python", "guitar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected normalized skills: got %v want %v", got, want)
	}
}

func TestIntersectKeepsFirstArgumentOrder(t *testing.T) {
	got := Intersect([]string{"python", "spanish", "chess"}, []string{"chess", "python"})
	want := []string{"python", "chess"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected intersection: got %v want %v", got, want)
	}
}

func TestIntersectEmpty(t *testing.T) {
	if got := Intersect([]string{"python"}, nil); len(got) != 0 {
		t.Fatalf("expected empty intersection, got %v", got)
	}
}
