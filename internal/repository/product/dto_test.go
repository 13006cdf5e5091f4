package product

import (
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	domprod "github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
)

func TestBuildHashItem_OmitsAbsentValues(t *testing.T) {
	doc := &domprod.Document{
		ProductID:          "P1",
		Title:              "Campus Runner",
		Brand:              "Campus",
		BrandNormalized:    "campus",
		CategoryNormalized: "sports_shoes",
		StarRating:         ptr(4.5),
	}

	item := buildHashItem("k", doc)
	want := map[string]string{
		"product_id":          "P1",
		"title":               "Campus Runner",
		"brand":               "Campus",
		"brand_normalized":    "campus",
		"category_normalized": "sports_shoes",
		"star_rating":         "4.5",
	}
	if len(item.Fields) != len(want) {
		t.Fatalf("fields = %v, want %v", item.Fields, want)
	}
	for k, v := range want {
		if item.Fields[k] != v {
			t.Errorf("%s = %q, want %q", k, item.Fields[k], v)
		}
	}
	for _, absent := range []string{"colour", "mrp", "selling_price", "size"} {
		if _, ok := item.Fields[absent]; ok {
			t.Errorf("%s should be omitted", absent)
		}
	}
}

func TestBuildHashItem_LargePriceNotScientific(t *testing.T) {
	item := buildHashItem("k", &domprod.Document{ProductID: "P", MRP: ptr(1500000)})
	if item.Fields["mrp"] != "1500000" {
		t.Errorf("mrp = %q", item.Fields["mrp"])
	}
}

func TestVectorToBytes(t *testing.T) {
	b := vectorToBytes([]float32{1.0})
	if string(b) != "\x00\x00\x80\x3f" {
		t.Errorf("unexpected encoding: %x", b)
	}
}

func TestBuildIndex_Schema(t *testing.T) {
	def, err := buildIndex(domain.NewIndexLayout("catalog:"), testVectorDim, HNSWConfig{M: 16, EFConstruct: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	types := make(map[string]db.IndexFieldType, len(def.Fields))
	for _, f := range def.Fields {
		types[f.Name] = f.Type
	}
	expect := map[string]db.IndexFieldType{
		"title":               db.IndexFieldText,
		"product_details":     db.IndexFieldText,
		"brand_normalized":    db.IndexFieldTag,
		"category_normalized": db.IndexFieldTag,
		"colour_normalized":   db.IndexFieldTag,
		"selling_price":       db.IndexFieldNumeric,
		"mrp":                 db.IndexFieldNumeric,
		"star_rating":         db.IndexFieldNumeric,
		"embedding":           db.IndexFieldVector,
	}
	if len(types) != len(expect) {
		t.Fatalf("fields = %v", types)
	}
	for name, typ := range expect {
		if types[name] != typ {
			t.Errorf("%s type = %v, want %v", name, types[name], typ)
		}
	}

	vec := def.Fields[len(def.Fields)-1]
	if vec.VectorDim != 384 || vec.VectorDistance != db.DistanceCosine || vec.VectorAlgo != db.VectorHNSW {
		t.Errorf("vector field = %+v", vec)
	}
}

func TestBuildIndex_RejectsZeroDim(t *testing.T) {
	if _, err := buildIndex(domain.NewIndexLayout(""), 0, HNSWConfig{}); err == nil {
		t.Fatal("expected error")
	}
}
