package classify

import (
	"context"
	"strings"

	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
)

// keywordTable order decides priority: specific garments come before
// the generic terms they contain (polo and sweatshirt before shirt,
// dress shirt before dress). Keywords are matched by containment over
// the uppercased document, so terms that hide inside common tech pack
// vocabulary (PANT in PANTONE, COAT in COATED) stay out of the table.
var keywordTable = []struct {
	label    constants.GarmentType
	keywords []string
}{
	{constants.Polo, []string{"POLO"}},
	{constants.Hoodie, []string{"HOODIE", "HOODED", "SWEATSHIRT"}},
	{constants.TShirt, []string{"T-SHIRT", "TSHIRT", "TEE SHIRT"}},
	{constants.Shirt, []string{"DRESS SHIRT"}},
	{constants.Jeans, []string{"JEANS", "DENIM"}},
	{constants.Shorts, []string{"SHORTS", "BERMUDA"}},
	{constants.Trouser, []string{"TROUSER", "CHINO", "PANTS"}},
	{constants.Skirt, []string{"SKIRT"}},
	{constants.Blouse, []string{"BLOUSE"}},
	{constants.Dress, []string{"DRESS"}},
	{constants.Jacket, []string{"JACKET", "BLAZER", "PARKA"}},
	{constants.Knitwear, []string{"KNITWEAR", "SWEATER", "PULLOVER", "CARDIGAN", "JUMPER"}},
	{constants.Shirt, []string{"SHIRT"}},
}

// KeywordStrategy is the default classifier: a fixed ordered keyword
// table over the uppercased document. It never errors, so stock
// pipeline runs stay reproducible.
type KeywordStrategy struct{}

func NewKeywordStrategy() *KeywordStrategy {
	return &KeywordStrategy{}
}

func (*KeywordStrategy) Name() string { return "keyword" }

func (*KeywordStrategy) Classify(_ context.Context, input string) (string, bool, error) {
	upper := strings.ToUpper(input)
	if strings.TrimSpace(upper) == "" {
		return "", false, nil
	}
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(upper, kw) {
				return string(entry.label), true, nil
			}
		}
	}
	return "", false, nil
}
