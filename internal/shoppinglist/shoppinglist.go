// Package shoppinglist turns a user's cart rows into the downloadable
// shopping list document.
package shoppinglist

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	Filename    = "shopping_cart.txt"
	ContentType = "text/plain; charset=utf-8"

	header          = "Shopping list compiled at:"
	productsHeader  = "Products:"
	recipesHeader   = "For the following recipes:"
	timestampLayout = "15:04 02.01.2006"
)

// Row is one ingredient line of one recipe in the cart
type Row struct {
	RecipeName      string
	IngredientName  string
	MeasurementUnit string
	Amount          int
}

// Item is an ingredient with its amounts summed across the cart
type Item struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// Aggregate groups rows by ingredient name and sums their amounts. The unit
// of a group comes from its first row; units are never converted. Items are
// sorted by name (byte order) and recipes keep their first-appearance order.
func Aggregate(rows []Row) ([]Item, []string) {
	index := make(map[string]int)
	items := make([]Item, 0)
	seen := make(map[string]struct{})
	recipes := make([]string, 0)

	for _, row := range rows {
		if i, ok := index[row.IngredientName]; ok {
			items[i].Amount += row.Amount
		} else {
			index[row.IngredientName] = len(items)
			items = append(items, Item{
				Name:            row.IngredientName,
				MeasurementUnit: row.MeasurementUnit,
				Amount:          row.Amount,
			})
		}

		if _, ok := seen[row.RecipeName]; !ok {
			seen[row.RecipeName] = struct{}{}
			recipes = append(recipes, row.RecipeName)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	return items, recipes
}

// Render builds the text document for rows, stamped with now
func Render(rows []Row, now time.Time) string {
	items, recipes := Aggregate(rows)

	lines := make([]string, 0, len(items)+len(recipes)+4)
	lines = append(lines, header, now.Format(timestampLayout), productsHeader)
	for i, item := range items {
		lines = append(lines, strconv.Itoa(i+1)+". "+Capitalize(item.Name)+
			" - "+strconv.Itoa(item.Amount)+" ("+item.MeasurementUnit+")")
	}
	lines = append(lines, recipesHeader)
	lines = append(lines, recipes...)

	return strings.Join(lines, "\n")
}

// Capitalize upper-cases the first rune and lower-cases the rest
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
