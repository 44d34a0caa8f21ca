package domain

import (
	"fmt"
	"strings"
)

// Realm is a character's origin region, stored as a compact code and shown
// to users as an accented display string.
type Realm string

const (
	RealmIndrun       Realm = "Indrun"
	RealmFadalor      Realm = "Fadalor"
	RealmLargoGelido  Realm = "LargoGelido"
	RealmYataiGuarani Realm = "YataiGuarani"
	RealmTrondor      Realm = "Trondor"
)

// realmDisplay is the single canonical code↔display table; both conversion
// directions go through it so the two sides cannot drift apart.
var realmDisplay = map[Realm]string{
	RealmIndrun:       "Indrún",
	RealmFadalor:      "Fadalór",
	RealmLargoGelido:  "Largo Gélido",
	RealmYataiGuarani: "Yatai Guarani",
	RealmTrondor:      "Trondór",
}

// Realms lists every valid realm code.
func Realms() []Realm {
	return []Realm{RealmIndrun, RealmFadalor, RealmLargoGelido, RealmYataiGuarani, RealmTrondor}
}

// Valid reports whether r belongs to the closed realm set.
func (r Realm) Valid() bool {
	_, ok := realmDisplay[r]
	return ok
}

// Display returns the accented display string for r. Unknown codes fall back
// to the raw code so logging a bad value stays readable.
func (r Realm) Display() string {
	if s, ok := realmDisplay[r]; ok {
		return s
	}
	return string(r)
}

// RealmFromDisplay maps user-facing realm text back to its code. The match is
// case-insensitive and accepts either the display string or the code itself,
// so clients that drop accents still resolve. Anything outside the set is an
// error; this is the boundary that rejects invalid realms.
func RealmFromDisplay(text string) (Realm, error) {
	for code, display := range realmDisplay {
		if strings.EqualFold(text, display) || strings.EqualFold(text, string(code)) {
			return code, nil
		}
	}
	return "", fmt.Errorf("unknown realm %q", text)
}
