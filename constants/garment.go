package constants

import (
	"strings"
)

type GarmentType string

const (
	Shirt    GarmentType = "Shirt"
	TShirt   GarmentType = "TShirt"
	Polo     GarmentType = "Polo"
	Blouse   GarmentType = "Blouse"
	Dress    GarmentType = "Dress"
	Trouser  GarmentType = "Trouser"
	Jeans    GarmentType = "Jeans"
	Shorts   GarmentType = "Shorts"
	Skirt    GarmentType = "Skirt"
	Jacket   GarmentType = "Jacket"
	Hoodie   GarmentType = "Hoodie"
	Knitwear GarmentType = "Knitwear"
	Other    GarmentType = "Other"
)

var allGarmentTypes = []GarmentType{
	Shirt,
	TShirt,
	Polo,
	Blouse,
	Dress,
	Trouser,
	Jeans,
	Shorts,
	Skirt,
	Jacket,
	Hoodie,
	Knitwear,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allGarmentTypes))
	for i, gt := range allGarmentTypes {
		result[i] = string(gt)
	}
	return result
}

func Canonicalize(input string) (GarmentType, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]GarmentType{
		"t-shirt":     TShirt,
		"t shirt":     TShirt,
		"tee":         TShirt,
		"polo shirt":  Polo,
		"woven shirt": Shirt,
		"pant":        Trouser,
		"pants":       Trouser,
		"chino":       Trouser,
		"denim":       Jeans,
		"jean":        Jeans,
		"short":       Shorts,
		"blazer":      Jacket,
		"coat":        Jacket,
		"sweatshirt":  Hoodie,
		"hooded top":  Hoodie,
		"sweater":     Knitwear,
		"jumper":      Knitwear,
		"pullover":    Knitwear,
		"cardigan":    Knitwear,
	}

	if gt, ok := synonyms[normalized]; ok {
		return gt, true
	}

	// check if it matches any garment type string
	for _, gt := range allGarmentTypes {
		if normalized == strings.ToLower(string(gt)) {
			return gt, true
		}
	}

	return Other, false
}
