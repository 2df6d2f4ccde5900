package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
)

// AggregatedLine is one deduplicated ingredient across every recipe in a
// user's cart, with amounts summed.
type AggregatedLine struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int
}

// ShoppingListService computes the consolidated shopping list for a user's
// cart and renders the downloadable plain-text export.
type ShoppingListService interface {
	Aggregate(ctx context.Context, userID string) ([]AggregatedLine, error)
	BuildExport(ctx context.Context, user *models.User) (string, error)
}

type shoppingListService struct {
	relationRepo repository.RelationRepository
}

func NewShoppingListService(relationRepo repository.RelationRepository) ShoppingListService {
	return &shoppingListService{relationRepo: relationRepo}
}

// Aggregate groups the cart's ingredient lines by exact (name, unit)
// identity, sums amounts, and sorts by name ascending. An empty cart is a
// client error, not an empty list: the product disallows empty exports.
func (s *shoppingListService) Aggregate(ctx context.Context, userID string) ([]AggregatedLine, error) {
	lines, err := s.relationRepo.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	type identity struct {
		name string
		unit string
	}
	totals := make(map[identity]int, len(lines))
	for _, line := range lines {
		totals[identity{line.Name, line.MeasurementUnit}] += line.Amount
	}

	aggregated := make([]AggregatedLine, 0, len(totals))
	for id, total := range totals {
		aggregated = append(aggregated, AggregatedLine{
			Name:            id.name,
			MeasurementUnit: id.unit,
			TotalAmount:     total,
		})
	}
	sort.Slice(aggregated, func(i, j int) bool {
		if aggregated[i].Name != aggregated[j].Name {
			return aggregated[i].Name < aggregated[j].Name
		}
		return aggregated[i].MeasurementUnit < aggregated[j].MeasurementUnit
	})

	return aggregated, nil
}

// BuildExport renders the shopping list as the downloadable text document:
// header, numbered ingredient section, the cart's recipes, footer.
func (s *shoppingListService) BuildExport(ctx context.Context, user *models.User) (string, error) {
	aggregated, err := s.Aggregate(ctx, user.ID)
	if err != nil {
		return "", err
	}
	recipes, err := s.relationRepo.CartRecipes(ctx, user.ID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	var b strings.Builder
	b.WriteString("Foodgram - Shopping List\n")
	fmt.Fprintf(&b, "Date: %s UTC\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "User: %s\n", user.Username)
	b.WriteString("\nIngredients:\n")

	for i, line := range aggregated {
		fmt.Fprintf(&b, "%d. %s - %d %s\n",
			i+1, titleCase(line.Name), line.TotalAmount, line.MeasurementUnit)
	}

	b.WriteString("\nRecipes:\n")
	for _, recipe := range recipes {
		authorName := ""
		if recipe.Author != nil {
			authorName = recipe.Author.FullName()
		}
		fmt.Fprintf(&b, "- %s (author: %s)\n", recipe.Name, authorName)
	}

	fmt.Fprintf(&b, "\nFoodgram - Your culinary assistant © %d\n", now.Year())

	return b.String(), nil
}

// titleCase uppercases the first letter for display. Grouping never uses
// this; identity stays the exact stored name.
func titleCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
