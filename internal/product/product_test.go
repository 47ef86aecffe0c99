package product_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"ProductTable/internal/product"
)

func TestID_UnmarshalStringAndNumber(t *testing.T) {
	var got []struct {
		ID product.ID `json:"id"`
	}
	if err := json.Unmarshal([]byte(`[{"id":"p1"},{"id":42},{"id":7.5}]`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []product.ID{"p1", "42", "7.5"}
	for i, w := range want {
		if got[i].ID != w {
			t.Fatalf("id[%d]=%q want=%q", i, got[i].ID, w)
		}
	}
}

func TestID_UnmarshalRejectsBool(t *testing.T) {
	var id product.ID
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Fatalf("expected error for bool id")
	}
}

func TestProduct_PriceIsJSONNumber(t *testing.T) {
	p := product.Product{ID: "p1", Title: "Keyboard", Price: decimal.RequireFromString("49.90")}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"id":"p1","title":"Keyboard","price":49.9}` {
		t.Fatalf("json=%s", raw)
	}

	var back product.Product
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Price.Equal(p.Price) {
		t.Fatalf("price=%s want=%s", back.Price, p.Price)
	}
}

func TestFilterByTitle_CaseInsensitive(t *testing.T) {
	ps := []product.Product{
		{ID: "1", Title: "Blue Shirt"},
		{ID: "2", Title: "Jeans"},
		{ID: "3", Title: "T-SHIRT"},
	}

	tests := []struct {
		query string
		want  []product.ID
	}{
		{"shirt", []product.ID{"1", "3"}},
		{"SHIRT", []product.ID{"1", "3"}},
		{"", []product.ID{"1", "2", "3"}},
		{"sock", []product.ID{}},
	}

	for _, tt := range tests {
		got := product.IDs(product.FilterByTitle(ps, tt.query))
		if len(got) != len(tt.want) {
			t.Fatalf("query %q: got %v want %v", tt.query, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("query %q: got %v want %v", tt.query, got, tt.want)
			}
		}
	}
}
