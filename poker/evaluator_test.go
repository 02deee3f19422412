package poker

import (
	rand "math/rand/v2"
	"testing"
)

func mustEvaluate(t *testing.T, cards string) Strength {
	t.Helper()
	s, err := Evaluate(MustPack(MustParseCards(cards)...))
	if err != nil {
		t.Fatalf("Evaluate(%s): %v", cards, err)
	}
	return s
}

func TestKnownStrengths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		cards string
		want  Strength
		class Class
	}{
		{"worst high card", "7c 5d 4h 3s 2c", 1, HighCard},
		{"best high card", "Ac Kd Qh Js 9c", 1277, HighCard},
		{"worst pair", "2c 2d 5h 4s 3c", 1278, Pair},
		{"best two pair", "Ac Ad Kh Ks Qc", 4995, TwoPair},
		{"wheel", "Ac 2d 3h 4s 5c", 5854, Straight},
		{"broadway", "Ac Kd Qh Js Tc", 5863, Straight},
		{"worst flush", "7h 5h 4h 3h 2h", 5864, Flush},
		{"aces full of kings", "Ac Ad Ah Ks Kc", 7296, FullHouse},
		{"quad aces king kicker", "Ac Ad Ah As Kc", 7452, FourOfAKind},
		{"steel wheel", "As 2s 3s 4s 5s", 7453, StraightFlush},
		{"royal flush", "As Ks Qs Js Ts", MaxStrength, StraightFlush},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := mustEvaluate(t, tc.cards)
			if got != tc.want {
				t.Errorf("Evaluate(%s) = %d, want %d", tc.cards, got, tc.want)
			}
			if got.Class() != tc.class {
				t.Errorf("Evaluate(%s) class = %s, want %s", tc.cards, got.Class(), tc.class)
			}

			rank, err := Rank5(FiveCards(MustParseCards(tc.cards)))
			if err != nil {
				t.Fatalf("Rank5(%s): %v", tc.cards, err)
			}
			if rank != got {
				t.Errorf("Rank5(%s) = %d, Evaluate = %d", tc.cards, rank, got)
			}
		})
	}
}

func TestHandOrdering(t *testing.T) {
	t.Parallel()
	// Each hand beats the one before it.
	hands := []string{
		"Kc Qd 9h 7s 5c",
		"Ac 2d 4h 6s 8c",
		"2c 2d 4h 6s 8c",
		"2c 2d Ah Ks Qc",
		"Ac Ad 4h 3s 2c",
		"3c 3d 2h 2s Ac",
		"Ac Ad 3h 3s 2c",
		"Ac Ad Kh Ks 2c",
		"2c 2d 2h 4s 3c",
		"Ac Ad Ah Ks Qc",
		"Ac 2d 3h 4s 5c",
		"2c 3d 4h 5s 6c",
		"Ac Kd Qh Js Tc",
		"7h 5h 4h 3h 2h",
		"Ah Kh Qh Jh 9h",
		"2c 2d 2h 3s 3c",
		"Kc Kd Kh As Ac",
		"Ac Ad Ah 2s 2c",
		"2c 2d 2h 2s 3c",
		"Ac Ad Ah As Kc",
		"Ah 2h 3h 4h 5h",
		"Ah Kh Qh Jh Th",
	}

	prev := Strength(0)
	for _, h := range hands {
		s := mustEvaluate(t, h)
		if s <= prev {
			t.Errorf("%s (%d) should beat the previous hand (%d)", h, s, prev)
		}
		prev = s
	}
}

func TestAllFiveCardHands(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("enumerates every five-card hand")
	}

	classCounts := make(map[Class]int)
	distinct := make(map[Strength]bool)
	for set := range Combinations(FullDeck, 5) {
		s, err := Evaluate(set)
		if err != nil {
			t.Fatalf("Evaluate(%s): %v", set, err)
		}
		cards := set.Cards()
		if r := rank5(cards[0], cards[1], cards[2], cards[3], cards[4]); r != s {
			t.Fatalf("rank5(%s) = %d, Evaluate = %d", set, r, s)
		}
		classCounts[s.Class()]++
		distinct[s] = true
	}

	if len(distinct) != int(MaxStrength) {
		t.Errorf("Expected %d distinct strengths, got %d", MaxStrength, len(distinct))
	}

	want := map[Class]int{
		StraightFlush: 40,
		FourOfAKind:   624,
		FullHouse:     3744,
		Flush:         5108,
		Straight:      10200,
		ThreeOfAKind:  54912,
		TwoPair:       123552,
		Pair:          1098240,
		HighCard:      1302540,
	}
	for class, n := range want {
		if classCounts[class] != n {
			t.Errorf("%s: got %d hands, want %d", class, classCounts[class], n)
		}
	}
}

func TestBestFiveAgreesWithEvaluate(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 2000; i++ {
		n := 5 + rng.IntN(3)
		deck := NewDeck(rng)
		cards := deck.Deal(n)

		best, strength, err := BestFive(cards)
		if err != nil {
			t.Fatalf("BestFive(%v): %v", cards, err)
		}
		evaluated, err := Evaluate(MustPack(cards...))
		if err != nil {
			t.Fatalf("Evaluate(%v): %v", cards, err)
		}
		if strength != evaluated {
			t.Fatalf("BestFive(%v) = %d, Evaluate = %d", cards, strength, evaluated)
		}

		rank, err := Rank5(best)
		if err != nil {
			t.Fatalf("Rank5(%v): %v", best, err)
		}
		if rank != strength {
			t.Fatalf("best five %v ranks %d, want %d", best, rank, strength)
		}
		if best.Set()&^MustPack(cards...) != 0 {
			t.Fatalf("best five %v uses cards outside %v", best, cards)
		}
	}
}

func TestEvaluateRejectsWrongCounts(t *testing.T) {
	t.Parallel()
	if _, err := Evaluate(MustPack(MustParseCards("As Ks Qs Js")...)); err == nil {
		t.Error("Expected an error for four cards")
	}
	if _, err := Evaluate(MustPack(MustParseCards("As Ks Qs Js Ts 9s 8s 7s")...)); err == nil {
		t.Error("Expected an error for eight cards")
	}
	if _, _, err := BestFive(MustParseCards("As Ks Qs Js")); err == nil {
		t.Error("Expected BestFive to reject four cards")
	}
	if _, _, err := BestFive(MustParseCards("As Ks Qs Js As")); err == nil {
		t.Error("Expected BestFive to reject a repeated card")
	}
	if _, err := Rank5(FiveCards{}); err == nil {
		t.Error("Expected Rank5 to reject blank cards")
	}
}

func TestSevenCardPicksBestHand(t *testing.T) {
	t.Parallel()
	best, s, err := BestFive(MustParseCards("Ah Kh 2c 3d Qh Jh Th"))
	if err != nil {
		t.Fatal(err)
	}
	if s != MaxStrength {
		t.Errorf("Expected royal flush, got %s", s)
	}
	if best.Set() != MustPack(MustParseCards("Ah Kh Qh Jh Th")...) {
		t.Errorf("Unexpected best five %s", best)
	}
}

func TestStrengthDescriptions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cards string
		want  string
	}{
		{"As Ks Qs Js Ts", "Royal Flush"},
		{"9h 8h 7h 6h 5h", "Straight Flush – Nine High"},
		{"Ah 2h 3h 4h 5h", "Straight Flush – Five High"},
		{"Ac Ad Ah As 3c", "Four of a Kind – Aces"},
		{"Kc Kd Kh 6s 6c", "Full House – Kings over Sixes"},
		{"6c 6d 6h Ks Kc", "Full House – Sixes over Kings"},
		{"Ad 9d 7d 4d 2d", "Flush – Ace High"},
		{"Tc 9d 8h 7s 6c", "Straight – Ten High"},
		{"7c 7d 7h Ks 2c", "Three of a Kind – Sevens"},
		{"6c 6d 5h 5s 2c", "Two Pair – Sixes over Fives"},
		{"Ac Ad 9h 5s 2c", "Pair – Aces"},
		{"Kc Jd 9h 5s 2c", "High Card – King"},
	}

	for _, tc := range tests {
		if got := mustEvaluate(t, tc.cards).String(); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.cards, got, tc.want)
		}
	}
	if got := Strength(0).String(); got != "Invalid" {
		t.Errorf("Strength(0).String() = %q", got)
	}
}

func TestClassicRoundTrip(t *testing.T) {
	t.Parallel()
	for s := MinStrength; s <= MaxStrength; s++ {
		classic := s.Classic()
		if classic < 1 || classic > 7462 {
			t.Fatalf("Classic(%d) = %d out of range", s, classic)
		}
		back, err := FromClassic(classic)
		if err != nil || back != s {
			t.Fatalf("FromClassic(%d) = %d, %v; want %d", classic, back, err, s)
		}
	}
	if MaxStrength.Classic() != 1 {
		t.Errorf("Royal flush should be classic rank 1, got %d", MaxStrength.Classic())
	}
	if _, err := FromClassic(0); err == nil {
		t.Error("Expected an error for classic rank 0")
	}
	if _, err := FromClassic(7463); err == nil {
		t.Error("Expected an error for classic rank 7463")
	}
}

func TestStrengthCompare(t *testing.T) {
	t.Parallel()
	a := mustEvaluate(t, "Ac Ad 9h 5s 2c")
	b := mustEvaluate(t, "Kc Kd 9h 5s 2c")
	if a.Compare(b) != 1 || b.Compare(a) != -1 || a.Compare(a) != 0 {
		t.Errorf("Compare(%d, %d) is inconsistent", a, b)
	}
}

func BenchmarkEvaluate7(b *testing.B) {
	set := MustPack(MustParseCards("As Kh Qd Jc 9s 4h 2c")...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Evaluate(set)
	}
}

func BenchmarkRank5(b *testing.B) {
	hand := FiveCards(MustParseCards("As Ah Qd Qc 9s"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Rank5(hand)
	}
}
