package focal

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/refracthq/refract/internal/model"
)

func keywordList(words ...string) []model.Keyword {
	kws := make([]model.Keyword, 0, len(words))
	for i, w := range words {
		kws = append(kws, model.Keyword{Keyword: w, Count: len(words) - i})
	}
	return kws
}

func TestSelector_RanksByTriggerCount(t *testing.T) {
	s := NewSelector()
	sentences := []string{
		"The deploy went fine.",
		"The cache broke the deploy pipeline.",
		"Nothing interesting here.",
	}
	keywords := keywordList("cache", "deploy", "pipeline")

	got := s.Select(sentences, keywords)

	if len(got.Focal) != 2 {
		t.Fatalf("Expected 2 focal points, got %d", len(got.Focal))
	}
	if got.Focal[0].Summary != "The cache broke the deploy pipeline." {
		t.Errorf("Expected three-trigger sentence first, got %q", got.Focal[0].Summary)
	}
	if got.Focal[0].ID != "F1" || got.Focal[1].ID != "F2" {
		t.Errorf("Expected IDs F1, F2, got %s, %s", got.Focal[0].ID, got.Focal[1].ID)
	}
	if len(got.Focal[0].Triggers) != 3 {
		t.Errorf("Expected 3 triggers on F1, got %v", got.Focal[0].Triggers)
	}
}

func TestSelector_TriggersListedInKeywordRankOrder(t *testing.T) {
	s := NewSelector()
	// deploy appears before cache in the sentence but ranks below it
	sentences := []string{"A deploy flushed the cache."}
	keywords := keywordList("cache", "deploy")

	got := s.Select(sentences, keywords)

	if len(got.Focal) != 1 {
		t.Fatalf("Expected 1 focal point, got %d", len(got.Focal))
	}
	want := []string{"cache", "deploy"}
	if !reflect.DeepEqual(got.Focal[0].Triggers, want) {
		t.Errorf("Expected triggers %v, got %v", want, got.Focal[0].Triggers)
	}
}

func TestSelector_TieBreaksOnRuneLength(t *testing.T) {
	s := NewSelector()
	// both match one trigger; the second is longer in runes even though
	// the first is longer in bytes
	sentences := []string{
		"cache ééé",
		"cache abcd",
	}
	keywords := keywordList("cache")

	got := s.Select(sentences, keywords)

	if len(got.Focal) != 2 {
		t.Fatalf("Expected 2 focal points, got %d", len(got.Focal))
	}
	if got.Focal[0].Summary != "cache abcd" {
		t.Errorf("Expected rune-longer sentence first, got %q", got.Focal[0].Summary)
	}
}

func TestSelector_FullTieKeepsSentenceOrder(t *testing.T) {
	s := NewSelector()
	sentences := []string{
		"cache one",
		"cache two",
	}
	keywords := keywordList("cache")

	got := s.Select(sentences, keywords)

	if got.Focal[0].Summary != "cache one" || got.Focal[1].Summary != "cache two" {
		t.Errorf("Expected original order on full tie, got %q then %q",
			got.Focal[0].Summary, got.Focal[1].Summary)
	}
}

func TestSelector_CapsAtFive(t *testing.T) {
	s := NewSelector()
	var sentences []string
	for i := 0; i < 7; i++ {
		sentences = append(sentences, fmt.Sprintf("cache sentence number %d", i))
	}
	keywords := keywordList("cache")

	got := s.Select(sentences, keywords)

	if len(got.Focal) != 5 {
		t.Fatalf("Expected 5 focal points, got %d", len(got.Focal))
	}
	for i, fp := range got.Focal {
		want := fmt.Sprintf("F%d", i+1)
		if fp.ID != want {
			t.Errorf("Expected ID %s, got %s", want, fp.ID)
		}
	}
}

func TestSelector_UnanchoredSubstringMatch(t *testing.T) {
	s := NewSelector()
	sentences := []string{"The categories page is broken."}
	keywords := keywordList("cat")

	got := s.Select(sentences, keywords)

	if len(got.Focal) != 1 {
		t.Fatalf("Expected substring match on categories, got %d focal points", len(got.Focal))
	}
	if got.Focal[0].Triggers[0] != "cat" {
		t.Errorf("Expected trigger cat, got %v", got.Focal[0].Triggers)
	}
}

func TestSelector_MatchIsCaseInsensitive(t *testing.T) {
	s := NewSelector()
	sentences := []string{"CACHE eviction is eager."}
	keywords := keywordList("cache")

	got := s.Select(sentences, keywords)

	if len(got.Focal) != 1 {
		t.Fatalf("Expected case-insensitive match, got %d focal points", len(got.Focal))
	}
	if got.Focal[0].Summary != "CACHE eviction is eager." {
		t.Errorf("Expected original casing preserved in summary, got %q", got.Focal[0].Summary)
	}
}

func TestSelector_MicroEmittedWithoutSentenceMatches(t *testing.T) {
	s := NewSelector()
	sentences := []string{"Totally unrelated words only."}
	keywords := keywordList("cache", "deploy", "pipeline")

	got := s.Select(sentences, keywords)

	if got.Focal == nil || len(got.Focal) != 0 {
		t.Errorf("Expected empty non-nil focal list, got %v", got.Focal)
	}
	if len(got.Micro) != 3 {
		t.Fatalf("Expected 3 micro focal points, got %d", len(got.Micro))
	}
	for i, m := range got.Micro {
		want := fmt.Sprintf("K%d", i+1)
		if m.ID != want {
			t.Errorf("Expected micro ID %s, got %s", want, m.ID)
		}
	}
}

func TestSelector_MicroCapsAtSix(t *testing.T) {
	s := NewSelector()
	keywords := keywordList("one", "two", "three", "four", "five", "six", "seven", "eight")

	got := s.Select(nil, keywords)

	if len(got.Micro) != 6 {
		t.Fatalf("Expected 6 micro focal points, got %d", len(got.Micro))
	}
	if got.Micro[5].ID != "K6" || got.Micro[5].Keyword != "six" {
		t.Errorf("Expected K6 six last, got %s %s", got.Micro[5].ID, got.Micro[5].Keyword)
	}
}

func TestSelector_NoKeywords(t *testing.T) {
	s := NewSelector()

	got := s.Select([]string{"Some sentence."}, nil)

	if got.Focal == nil || got.Micro == nil {
		t.Fatal("Expected non-nil empty lists")
	}
	if len(got.Focal) != 0 || len(got.Micro) != 0 {
		t.Errorf("Expected no focal points without keywords, got %v / %v", got.Focal, got.Micro)
	}
}
