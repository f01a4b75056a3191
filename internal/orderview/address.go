package orderview

import "github.com/Additional-Code/relay/internal/dto"

// EquivalentAddresses reports whether two address records describe the same
// location. PhoneNumber and Instructions are stripped before comparison; the
// strip happens on local copies, so neither argument is ever modified. If the
// two records carry different sets of populated fields the comparison fails on
// cardinality alone.
func EquivalentAddresses(a, b dto.AddressRecord) bool {
	aFields := identifyingFields(a)
	bFields := identifyingFields(b)

	if len(aFields) != len(bFields) {
		return false
	}

	for name, value := range aFields {
		other, ok := bFields[name]
		if !ok || other != value {
			return false
		}
	}

	return true
}

// identifyingFields projects the non-volatile, populated fields of a record.
func identifyingFields(r dto.AddressRecord) map[string]string {
	fields := map[string]string{
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"line_1":     r.Line1,
		"line_2":     r.Line2,
		"city":       r.City,
		"postcode":   r.Postcode,
		"country":    r.Country,
	}

	for name, value := range fields {
		if value == "" {
			delete(fields, name)
		}
	}

	return fields
}
