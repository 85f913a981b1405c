package models_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/inventory-console/internal/domain/models"
)

func TestSearchFilterEncodeSubsets(t *testing.T) {
	keys := []string{
		models.FilterName,
		models.FilterCategory,
		models.FilterQuantity,
		models.FilterCondition,
		models.FilterRestockLevel,
	}
	values := []string{"Widget", "Tools", "10", "NEW", "2"}

	for mask := 0; mask < 1<<len(keys); mask++ {
		var fields models.FormFields
		var want []string
		setters := []*string{&fields.Name, &fields.Category, &fields.Quantity, &fields.Condition, &fields.RestockLevel}
		for i := range keys {
			if mask&(1<<i) != 0 {
				*setters[i] = values[i]
				want = append(want, keys[i]+"="+values[i])
			}
		}

		query := models.NewSearchFilter(fields).Encode(true)

		assert.Equal(t, strings.Join(want, "&"), query, "mask %05b", mask)
		assert.False(t, strings.HasPrefix(query, "&"), "leading separator for mask %05b", mask)
		assert.False(t, strings.HasSuffix(query, "&"), "trailing separator for mask %05b", mask)
		assert.NotContains(t, query, "&&", "doubled separator for mask %05b", mask)
		if mask != 0 {
			assert.Len(t, strings.Split(query, "&"), len(want))
		}
	}
}

func TestSearchFilterSkipsBlankFields(t *testing.T) {
	t.Run("Empty form yields empty query", func(t *testing.T) {
		filter := models.NewSearchFilter(models.FormFields{})

		assert.Equal(t, 0, filter.Len())
		assert.Equal(t, "", filter.Encode(true))
	})

	t.Run("Whitespace fields are excluded", func(t *testing.T) {
		filter := models.NewSearchFilter(models.FormFields{Name: "   ", Category: "\t", Condition: "USED"})

		assert.Equal(t, []models.FilterTerm{{Key: models.FilterCondition, Value: "USED"}}, filter.Terms())
		assert.Equal(t, "condition=USED", filter.Encode(true))
	})

	t.Run("Identifier never becomes a filter", func(t *testing.T) {
		filter := models.NewSearchFilter(models.FormFields{ID: "7"})

		assert.Equal(t, "", filter.Encode(false))
	})
}

func TestSearchFilterEscaping(t *testing.T) {
	fields := models.FormFields{Name: "Nuts & Bolts", Category: "a=b"}

	t.Run("Escaped by default", func(t *testing.T) {
		assert.Equal(t, "name=Nuts+%26+Bolts&category=a%3Db", models.NewSearchFilter(fields).Encode(true))
	})

	t.Run("Raw when escaping is disabled", func(t *testing.T) {
		assert.Equal(t, "name=Nuts & Bolts&category=a=b", models.NewSearchFilter(fields).Encode(false))
	})
}
