package product

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateList(t *testing.T) {
	ok := Product{ID: "p1", Title: "Mug", Price: decimal.RequireFromString("3.50")}
	free := Product{ID: "p2", Title: "Sticker", Price: decimal.Zero}

	tests := []struct {
		name    string
		ps      []Product
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", []Product{ok, free}, false},
		{"missing id", []Product{{Title: "Mug"}}, true},
		{"missing title", []Product{{ID: "p1"}}, true},
		{"negative price", []Product{{ID: "p1", Title: "Mug", Price: decimal.NewFromInt(-1)}}, true},
		{"duplicate id", []Product{ok, {ID: "p1", Title: "Cup"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateList(tt.ps)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Fatalf("err not ErrInvalid: %v", err)
			}
		})
	}
}
