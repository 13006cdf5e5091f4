package category

import "sync"

// DefaultEntries is the built-in catalog vocabulary. Footwear order matters:
// specific kinds come before the generic "shoes" bucket.
var DefaultEntries = []Entry{
	// tops
	{"shirt", []string{"shirts", "formal shirts", "casual shirts", "shirts, tops & tunic", "shirts,tops&tshirts"}},
	{"tshirt", []string{"tshirts", "tops & tshirts"}},
	{"top", []string{"tops", "tops & tunics", "kurtis & tunics"}},
	{"blouse", []string{"blouses"}},
	{"bodysuit", []string{"bodysuits"}},

	// ethnic wear
	{"saree", []string{"sarees"}},
	{"kurta", []string{"kurtas", "kurta pyjama sets", "kurta sets", "kurta suit sets", "kurta-bottom set"}},
	{"kurti", []string{"kurtas & kurtis"}},
	{"ethnic_set", []string{
		"ethnic suit sets", "ethnic wear sets", "2-piece ethnic suit", "3p-suit sets",
		"fusion wear sets", "skd set", "sets",
	}},
	{"lehenga", []string{"lehenga choli sets"}},
	{"salwar", []string{"salwars & churidars", "pyjamas & churidars", "churidars & leggings"}},
	{"dupattas", []string{"dupattas"}},
	{"sherwani", []string{"sherwani sets"}},
	{"ethnic_jacket", []string{"ethnic jackets"}},

	// dresses & jumpsuits
	{"dress", []string{"dresses", "dresses & frocks", "dresses & gowns", "dresses & jumpsuits"}},
	{"jumpsuit", []string{"jumpsuit & playsuits", "jumpsuits & playsuits", "jumpsuits &playsuits", "dungarees &playsuits"}},
	{"dungarees", []string{"dungarees"}},

	// bottoms
	{"jeans", []string{"jeans", "jeans & jeggings", "jeans & pants"}},
	{"trousers", []string{"trousers & pants", "pants", "track pants"}},
	{"shorts", []string{"shorts", "shorts & 3/4ths", "pyjamas & shorts"}},
	{"skirt", []string{"skirt", "skirts", "skirts & ghagras"}},
	{"leggings", []string{"leggings"}},

	// outerwear
	{"jacket", []string{"jackets", "jackets & coats", "jackets & shrugs", "jackets & boleros", "shrugs & jackets"}},
	{"blazer", []string{"blazers & waistcoats"}},
	{"sweatshirt", []string{"sweatshirt & hoodies", "sweatshirts & hoodie", "sweatshirts & hoodies", "sweatshirts &jackets"}},
	{"sweater", []string{"sweaters & cardigans"}},
	{"rainwear", []string{"rainwear and windcheaters", "rainwear&windcheater"}},

	// footwear
	{"sports_shoes", []string{"sports shoes", "sports&outdoor shoes", "men_sports", "women_sports"}},
	{"sneakers", []string{"sneakers"}},
	{"formal_shoes", []string{"formal shoes"}},
	{"boots", []string{"boots", "men_boots", "women_boots"}},
	{"sandals", []string{"sandals", "flat sandals", "heeled sandals", "casual sandals", "men_sandals", "women_sandals"}},
	{"slippers", []string{"flip flop & slippers", "flip flops & slipper", "men_slippers", "women_slippers"}},
	{"shoes", []string{"shoes", "casual shoes", "flat shoes", "heeled shoes", "footwear"}},

	// innerwear & sleepwear
	{"innerwear", []string{
		"innerwear", "bras", "bras & bralettes", "briefs", "boxers", "trunks",
		"panties", "panties & bloomers", "camisoles & slips", "shapewear",
	}},
	{"nightwear", []string{
		"night & lounge wear sets", "night&loungewearsets", "nightshirts & nighti",
		"nightshirts&nighties", "nightsuit sets", "sleepsuits & nightsuit",
	}},
	{"thermal", []string{"thermal wear"}},

	// accessories & jewellery
	{"jewellery", []string{
		"fashion jewellery", "fashionjewellerysets", "traditional jewellery",
		"traditionaljewellery", "jewellery sets",
	}},
	{"earrings", []string{"earrings"}},
	{"necklaces", []string{"necklaces & pendants", "pendants"}},
	{"rings", []string{"rings"}},
	{"bracelets", []string{"bracelets & bangles"}},
	{"watches", []string{"watches"}},
	{"sunglasses", []string{"sunglasses"}},
	{"hair_accessories", []string{"hair accessories"}},
	{"shawls", []string{"shawls & wraps"}},
	{"stoles", []string{"stoles & scarves"}},

	// bags & travel
	{"handbags", []string{"handbags", "bags & purses"}},
	{"clutches", []string{"clutches & wristlets"}},
	{"backpacks", []string{"backpacks", "laptop bags"}},
	{"luggage", []string{"luggage & trolley bags"}},
	{"wallets", []string{"wallets"}},
	{"belts", []string{"belts"}},
	{"travel_accessories", []string{"travel accessories"}},

	// kids / home / misc
	{"baby", []string{"baby bedding & furniture"}},
	{"home", []string{"towels & bath robes"}},
	{"swimwear", []string{"swimwear"}},
}

var defaultMap = sync.OnceValue(func() *Map {
	m, err := NewMap(DefaultEntries)
	if err != nil {
		panic("category: invalid default map: " + err.Error())
	}
	return m
})

// Default returns the built-in category map.
func Default() *Map { return defaultMap() }
