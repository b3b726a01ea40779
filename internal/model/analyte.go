package model

import "strings"

// Analyte identifies a matrix worksheet. Matrix sheets are named after the
// analyte with its CAS registry number in parens, for example:
//     Ammonia (7664417)
//     Chlorides (16887006)
type Analyte struct {
	Name  string
	CAS   string
	Sheet string
}

// ParseAnalyte splits a sheet name of the form name(cas) into its name and
// CAS number. The (cas) part is optional. Examples:
//   Ammonia (7664417)   => Ammonia, 7664417
//   Hardness            => Hardness, ""
//   Chlorides (16887006 => Chlorides, 16887006 // a missing closing paren is tolerated
func ParseAnalyte(sheet string) Analyte {
	a := Analyte{Sheet: sheet}
	name := strings.TrimSpace(sheet)

	indexOpeningParen := strings.Index(name, "(")
	if indexOpeningParen == -1 {
		a.Name = name
		return a
	}

	indexClosingParen := strings.Index(name, ")")
	switch {
	case indexClosingParen > indexOpeningParen:
		a.CAS = strings.TrimSpace(name[indexOpeningParen+1 : indexClosingParen])
	default:
		a.CAS = strings.TrimSpace(name[indexOpeningParen+1:])
	}
	a.Name = strings.TrimSpace(name[:indexOpeningParen])

	return a
}
