package shoppinglist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var compiledAt = time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC)

func soupAndStew() []Row {
	return []Row{
		{RecipeName: "Soup", IngredientName: "salt", MeasurementUnit: "g", Amount: 5},
		{RecipeName: "Soup", IngredientName: "water", MeasurementUnit: "ml", Amount: 200},
		{RecipeName: "Stew", IngredientName: "salt", MeasurementUnit: "g", Amount: 3},
		{RecipeName: "Stew", IngredientName: "onion", MeasurementUnit: "pcs", Amount: 2},
	}
}

func TestRenderSoupAndStew(t *testing.T) {
	got := Render(soupAndStew(), compiledAt)

	want := strings.Join([]string{
		"Shopping list compiled at:",
		"09:07 05.03.2024",
		"Products:",
		"1. Onion - 2 (pcs)",
		"2. Salt - 8 (g)",
		"3. Water - 200 (ml)",
		"For the following recipes:",
		"Soup",
		"Stew",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestAggregateSumsByName(t *testing.T) {
	rows := []Row{
		{RecipeName: "A", IngredientName: "flour", MeasurementUnit: "g", Amount: 100},
		{RecipeName: "B", IngredientName: "flour", MeasurementUnit: "g", Amount: 250},
		{RecipeName: "C", IngredientName: "flour", MeasurementUnit: "g", Amount: 1},
		{RecipeName: "C", IngredientName: "egg", MeasurementUnit: "pcs", Amount: 2},
	}

	items, _ := Aggregate(rows)
	require.Len(t, items, 2)
	assert.Equal(t, Item{Name: "egg", MeasurementUnit: "pcs", Amount: 2}, items[0])
	assert.Equal(t, Item{Name: "flour", MeasurementUnit: "g", Amount: 351}, items[1])

	doc := Render(rows, compiledAt)
	assert.Equal(t, 1, strings.Count(doc, "Flour - "))
	assert.Contains(t, doc, "Flour - 351 (g)")
}

func TestAggregateUnitFromFirstRow(t *testing.T) {
	rows := []Row{
		{RecipeName: "A", IngredientName: "milk", MeasurementUnit: "ml", Amount: 100},
		{RecipeName: "B", IngredientName: "milk", MeasurementUnit: "cup", Amount: 1},
	}

	items, _ := Aggregate(rows)
	require.Len(t, items, 1)
	assert.Equal(t, "ml", items[0].MeasurementUnit)
	assert.Equal(t, 101, items[0].Amount)
}

func TestRenderIsDeterministic(t *testing.T) {
	rows := soupAndStew()
	first := Render(rows, compiledAt)
	second := Render(rows, compiledAt.Add(3*time.Hour))

	firstLines := strings.Split(first, "\n")
	secondLines := strings.Split(second, "\n")
	require.Equal(t, len(firstLines), len(secondLines))

	// everything except the timestamp line matches
	firstLines[1], secondLines[1] = "", ""
	assert.Equal(t, firstLines, secondLines)
}

func TestRecipesListedOnce(t *testing.T) {
	rows := []Row{
		{RecipeName: "Pie", IngredientName: "apple", MeasurementUnit: "pcs", Amount: 3},
		{RecipeName: "Pie", IngredientName: "sugar", MeasurementUnit: "g", Amount: 50},
		{RecipeName: "Jam", IngredientName: "sugar", MeasurementUnit: "g", Amount: 500},
		{RecipeName: "Pie", IngredientName: "butter", MeasurementUnit: "g", Amount: 20},
	}

	_, recipes := Aggregate(rows)
	assert.Equal(t, []string{"Pie", "Jam"}, recipes)

	doc := Render(rows, compiledAt)
	tail := doc[strings.Index(doc, "For the following recipes:"):]
	assert.Equal(t, "For the following recipes:\nPie\nJam", tail)
}

func TestRenderEmpty(t *testing.T) {
	items, recipes := Aggregate(nil)
	assert.Empty(t, items)
	assert.Empty(t, recipes)

	doc := Render(nil, compiledAt)
	assert.Equal(t, "Shopping list compiled at:\n09:07 05.03.2024\nProducts:\nFor the following recipes:", doc)
}

func TestRenderIndexContinuity(t *testing.T) {
	names := []string{"zucchini", "apple", "milk", "bread", "carrot", "apple", "milk"}
	rows := make([]Row, 0, len(names))
	for _, n := range names {
		rows = append(rows, Row{RecipeName: "R", IngredientName: n, MeasurementUnit: "g", Amount: 1})
	}

	lines := strings.Split(Render(rows, compiledAt), "\n")
	products := lines[3 : len(lines)-2]
	require.Len(t, products, 5)
	for i, line := range products {
		assert.True(t, strings.HasPrefix(line, fmt.Sprintf("%d. ", i+1)), line)
	}
}

func TestRenderCapitalizesNames(t *testing.T) {
	rows := []Row{{RecipeName: "X", IngredientName: "garlic", MeasurementUnit: "clove", Amount: 1}}

	doc := Render(rows, compiledAt)
	assert.Contains(t, doc, "1. Garlic - 1 (clove)")
	assert.NotContains(t, doc, "garlic")
}

func TestCapitalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"garlic", "Garlic"},
		{"GARLIC", "Garlic"},
		{"olive Oil", "Olive oil"},
		{"яблоко", "Яблоко"},
		{"ÉCHALOTE", "Échalote"},
		{"7up", "7up"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Capitalize(tc.in), tc.in)
	}
}
