package pantry

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tomato", "tomato"},
		{"  Olive  Oil ", "olive oil"},
		{"BASIL", "basil"},
	}
	for _, tt := range tests {
		if got := key(tt.in); got != tt.want {
			t.Errorf("key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRowToItem(t *testing.T) {
	t.Run("FullRow", func(t *testing.T) {
		item, ok := rowToItem([]interface{}{"Tomato", "4", "count"})
		if !ok {
			t.Fatal("Expected row to parse")
		}
		if item.Name != "Tomato" || item.Quantity != 4 || item.Unit != "count" {
			t.Errorf("Unexpected item: %+v", item)
		}
	})

	t.Run("NumericQuantityCell", func(t *testing.T) {
		item, ok := rowToItem([]interface{}{"Milk", 1.5, "l"})
		if !ok {
			t.Fatal("Expected row to parse")
		}
		if item.Quantity != 1.5 {
			t.Errorf("Expected quantity 1.5, got %v", item.Quantity)
		}
	})

	t.Run("NameOnly", func(t *testing.T) {
		item, ok := rowToItem([]interface{}{"Pasta"})
		if !ok {
			t.Fatal("Expected row to parse")
		}
		if item.Quantity != 0 || item.Unit != "" {
			t.Errorf("Expected zero quantity and empty unit, got %+v", item)
		}
	})

	t.Run("BlankRow", func(t *testing.T) {
		if _, ok := rowToItem([]interface{}{"  "}); ok {
			t.Error("Expected blank name row to be skipped")
		}
		if _, ok := rowToItem(nil); ok {
			t.Error("Expected empty row to be skipped")
		}
	})

	t.Run("UnparsableQuantity", func(t *testing.T) {
		item, ok := rowToItem([]interface{}{"Rice", "a few", "g"})
		if !ok {
			t.Fatal("Expected row to parse")
		}
		if item.Quantity != 0 {
			t.Errorf("Expected unparsable quantity to read as 0, got %v", item.Quantity)
		}
	})
}
