package ingredient

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Ingredient
		wantOK bool
	}{
		{
			name:   "GluedUnit",
			line:   "200g chicken",
			want:   Ingredient{Name: "chicken", Quantity: 200, Unit: "g", HasQuantity: true},
			wantOK: true,
		},
		{
			name:   "SpacedUnit",
			line:   "1.5 kg potatoes",
			want:   Ingredient{Name: "potatoes", Quantity: 1.5, Unit: "kg", HasQuantity: true},
			wantOK: true,
		},
		{
			name:   "CountWithoutUnit",
			line:   "2 eggs",
			want:   Ingredient{Name: "eggs", Quantity: 2, HasQuantity: true},
			wantOK: true,
		},
		{
			name:   "UnitAlias",
			line:   "2 cups rice",
			want:   Ingredient{Name: "rice", Quantity: 2, Unit: "cup", HasQuantity: true},
			wantOK: true,
		},
		{
			name:   "AdjectiveIsNotAUnit",
			line:   "2 red onions",
			want:   Ingredient{Name: "red onions", Quantity: 2, HasQuantity: true},
			wantOK: true,
		},
		{
			name:   "NoQuantity",
			line:   "fresh basil",
			want:   Ingredient{Name: "fresh basil"},
			wantOK: true,
		},
		{
			name:   "DecimalComma",
			line:   "0,5 l milk",
			want:   Ingredient{Name: "milk", Quantity: 0.5, Unit: "l", HasQuantity: true},
			wantOK: true,
		},
		{
			name:   "Blank",
			line:   "   ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}
