package memory

import (
	"strings"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/domain/color"
)

// monoColors in canonical symbol order. Multi-color rows derive their
// symbol, slug and name from this ordering.
var monoColors = []struct {
	symbol string
	name   string
	mask   int
}{
	{"w", "White", color.MaskWhite},
	{"u", "Blue", color.MaskBlue},
	{"b", "Black", color.MaskBlack},
	{"r", "Red", color.MaskRed},
	{"g", "Green", color.MaskGreen},
}

// SeedColors returns all 32 color-identity rows, one per mask value, so
// any OR of mono-color masks resolves to a canonical row.
func SeedColors() []color.Color {
	out := make([]color.Color, 0, 32)
	for mask := 0; mask < 32; mask++ {
		if mask == color.MaskColorless {
			out = append(out, color.Color{
				ID:     "color-c",
				Symbol: color.SymbolColorless,
				Slug:   "colorless",
				Name:   "Colorless",
				Mask:   color.MaskColorless,
			})
			continue
		}

		symbols := make([]string, 0, 5)
		names := make([]string, 0, 5)
		for _, mono := range monoColors {
			if mask&mono.mask != 0 {
				symbols = append(symbols, mono.symbol)
				names = append(names, mono.name)
			}
		}
		symbol := strings.Join(symbols, "")
		out = append(out, color.Color{
			ID:     "color-" + symbol,
			Symbol: symbol,
			Slug:   strings.ToLower(strings.Join(names, "-")),
			Name:   strings.Join(names, "/"),
			Mask:   mask,
		})
	}
	return out
}

// SeedAchievements returns the well-known catalog entries the league
// logic depends on.
func SeedAchievements() []achievement.Achievement {
	entries := []struct {
		slug   string
		name   string
		points int
	}{
		{achievement.SlugParticipation, "Participation", 3},
		{achievement.SlugEndDraw, "Ended in a Draw", 1},
		{achievement.SlugBroughtSnack, "Brought a Snack", 1},
		{achievement.SlugLentDeck, "Lent a Deck", 1},
		{achievement.SlugSubmittedDecklist, "Submitted a Decklist", 1},
		{achievement.SlugKnockedOut, "Knocked Someone Out", 1},
		{achievement.SlugPrizePool, "Added to the Prize Pool", 1},
		{achievement.SlugLastInTurnOrder, "Won from Last in Turn Order", 2},
		{achievement.SlugCommanderDamage, "Won with Commander Damage", 2},
		{achievement.WinColorsSlug(1), "Won with 1 Color", 1},
		{achievement.WinColorsSlug(2), "Won with 2 Colors", 2},
		{achievement.WinColorsSlug(3), "Won with 3 Colors", 3},
		{achievement.WinColorsSlug(4), "Won with 4 Colors", 4},
		{achievement.WinColorsSlug(5), "Won with 5 Colors", 5},
	}

	out := make([]achievement.Achievement, 0, len(entries))
	for _, entry := range entries {
		points := entry.points
		out = append(out, achievement.Achievement{
			ID:         "ach-" + entry.slug,
			Name:       entry.name,
			Slug:       entry.slug,
			PointValue: &points,
		})
	}
	return out
}
