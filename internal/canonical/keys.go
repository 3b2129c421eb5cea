package canonical

// aliasIndex maps every known source key to its canonical field name.
var aliasIndex = map[string]string{}

func init() {
	tables := map[string][]string{
		"id":                idKeys,
		"name":              nameKeys,
		"brand":             brandKeys,
		"category":          categoryKeys,
		"barcode":           barcodeKeys,
		"availableQuantity": quantityKeys,
		"reorderThreshold":  reorderKeys,
		"unitPrice":         priceKeys,
		"supplier":          supplierKeys,
		"serialNumbers":     serialKeys,
		"features":          featureKeys,
		"createdAt":         createdAtKeys,
		"updatedAt":         updatedAtKeys,
	}
	for canonicalName, aliases := range tables {
		for _, alias := range aliases {
			aliasIndex[alias] = canonicalName
		}
	}
}

// CanonicalKey translates a source field name to the canonical one, so change
// sets expressed in any known alias overlay the right canonical field.
func CanonicalKey(key string) (string, bool) {
	name, ok := aliasIndex[key]
	return name, ok
}
