package specification

import (
	"strings"

	"golang.org/x/text/cases"
)

// normalize recorta espacios; una cadena vacía significa "sin filtro".
func normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// fold aplica case folding Unicode. Un Caser no se comparte entre goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern arma el patrón ILIKE para una búsqueda por subcadena literal.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func ilikeContains(column, value string) func(*Args) string {
	return func(a *Args) string {
		return column + " ILIKE " + a.Add(containsPattern(value)) + ` ESCAPE '\'`
	}
}
