package util

import "testing"

func TestFuzzyScoreNoMatch(t *testing.T) {
	if score, pos := FuzzyScore("xyz", "banana"); score != 0 || pos != nil {
		t.Fatalf("expected no match, got score=%d pos=%v", score, pos)
	}
	if score, _ := FuzzyScore("", "banana"); score != 0 {
		t.Fatalf("empty pattern should not match, got %d", score)
	}
}

func TestFuzzyScoreCaseInsensitive(t *testing.T) {
	score, pos := FuzzyScore("GET", "get project_destination endpoint")
	if score == 0 {
		t.Fatal("expected match")
	}
	want := []int{0, 1, 2}
	for i := range want {
		if pos[i] != want[i] {
			t.Fatalf("positions: want %v got %v", want, pos)
		}
	}
}

func TestFuzzyScorePrefersTightMatch(t *testing.T) {
	tight, _ := FuzzyScore("bus", "bus stop")
	loose, _ := FuzzyScore("bus", "brush")
	if tight <= loose {
		t.Errorf("expected consecutive match to score higher: tight=%d loose=%d", tight, loose)
	}
}

func TestFuzzyScoreRunePositions(t *testing.T) {
	_, pos := FuzzyScore("öb", "Öko-Bilanz")
	if len(pos) != 2 {
		t.Fatalf("expected 2 positions, got %v", pos)
	}
	if pos[0] != 0 || pos[1] != 4 {
		t.Errorf("expected rune offsets [0 4], got %v", pos)
	}
}

func TestFuzzyMatchMultiTerm(t *testing.T) {
	if score, _ := FuzzyMatch("bus data", "Design internal data bus"); score == 0 {
		t.Error("expected terms in any order to match")
	}
	if score, _ := FuzzyMatch("bus kafka", "Design internal data bus"); score != 0 {
		t.Error("expected missing term to fail the match")
	}
}

func TestFuzzyRankOrder(t *testing.T) {
	items := []string{"zz endpoint", "endpoint", "apple"}
	matches := FuzzyRank("end", items)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Index != 1 {
		t.Errorf("expected earliest match ranked first, got index %d", matches[0].Index)
	}

	all := FuzzyRank("  ", items)
	if len(all) != 3 || all[2].Index != 2 {
		t.Errorf("blank pattern should keep source order, got %+v", all)
	}
}
