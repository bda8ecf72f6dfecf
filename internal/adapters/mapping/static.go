package mapping

// GIDPrefix is the fully-qualified spelling Shopify uses for variant ids.
const GIDPrefix = "gid://shopify/ProductVariant/"

// staticTable maps Shopify variant ids to Printful sync variant ids for the
// live catalog. Seeded once at init with both the bare-numeric and gid://
// spellings; entries are only ever overwritten, never deleted.
var staticTable = map[string]int64{
	// White glossy mug
	"52249775178046": 4980193865, // White glossy mug / Default Title

	// Framed canvas (Black)
	"51871373918526": 4858094038, // Framed canvas / Black / 8x10
	"51871373951294": 4858094039, // Framed canvas / Black / 12x16
	"51871373984062": 4858094040, // Framed canvas / Black / 18x24

	// Framed canvas (Brown)
	"51871374016830": 4858094041, // Framed canvas / Brown / 8x10
	"51871374049598": 4858094042, // Framed canvas / Brown / 12x16
	"51871374082366": 4858094043, // Framed canvas / Brown / 18x24

	// Framed photo paper poster (Black)
	"51871562105150": 4858132933, // Framed poster / Black / 8x10
	"51871562137918": 4858132934, // Framed poster / Black / 12x16
	"51871562170686": 4858132935, // Framed poster / Black / 18x24

	// Framed photo paper poster (Red Oak)
	"51871562203454": 4858132936, // Framed poster / Red Oak / 8x10
	"51871562236222": 4858132937, // Framed poster / Red Oak / 12x16
	"51871562268990": 4858132938, // Framed poster / Red Oak / 18x24

	// Tote bag
	"51871440765246": 4858115991, // Tote bag / Black
	"51871440798014": 4858115992, // Tote bag / Yellow
}

func init() {
	bare := make([]string, 0, len(staticTable))
	for k := range staticTable {
		bare = append(bare, k)
	}
	for _, k := range bare {
		staticTable[GIDPrefix+k] = staticTable[k]
	}
}

// StaticTable returns a copy of the seeded table (debug surface).
func StaticTable() map[string]int64 {
	out := make(map[string]int64, len(staticTable))
	for k, v := range staticTable {
		out[k] = v
	}
	return out
}
