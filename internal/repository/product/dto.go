package product

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	domprod "github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
)

// buildHashItem converts a document into an HSET payload. Absent values are
// omitted rather than stored as placeholders.
func buildHashItem(key string, doc *domprod.Document) db.HashSetItem {
	fields := make(map[string]string, 16)

	put := func(name, v string) {
		if v != "" {
			fields[name] = v
		}
	}
	putNum := func(name string, v *float64) {
		if v != nil {
			fields[name] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}

	put(domprod.FieldProductID, doc.ProductID)
	put(domprod.FieldTitle, doc.Title)
	put(domprod.FieldProductDetails, doc.ProductDetails)
	put(domprod.FieldBrand, doc.Brand)
	put(domprod.FieldCategory, doc.Category)
	put(domprod.FieldColour, doc.Colour)
	put(domprod.FieldBrandNormalized, doc.BrandNormalized)
	put(domprod.FieldCategoryNormalized, doc.CategoryNormalized)
	put(domprod.FieldColourNormalized, doc.ColourNormalized)
	put(domprod.FieldSize, doc.Size)
	put(domprod.FieldCompetitor, doc.Competitor)
	put(domprod.FieldImageURL, doc.ImageURL)
	put(domprod.FieldProductURL, doc.ProductURL)
	putNum(domprod.FieldSellingPrice, doc.SellingPrice)
	putNum(domprod.FieldMRP, doc.MRP)
	putNum(domprod.FieldStarRating, doc.StarRating)

	item := db.HashSetItem{Key: key, Fields: fields}
	if len(doc.Embedding) > 0 {
		item.Blobs = map[string][]byte{domprod.FieldEmbedding: vectorToBytes(doc.Embedding)}
	}
	return item
}

// vectorToBytes serializes []float32 as FLOAT32 little-endian, the layout FT vector fields expect.
func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
