package trainroute

import (
	"fmt"
	"regexp"
)

// Routes returns every ordered station pair (i,j), i != j, in row-major
// order. The capacity prefix of a configuration refers to this order.
func Routes(stations int) []Route {
	if stations < 2 {
		return nil
	}
	routes := make([]Route, 0, stations*(stations-1))
	for i := 0; i < stations; i++ {
		for j := 0; j < stations; j++ {
			if i != j {
				routes = append(routes, Route{From: i, To: j})
			}
		}
	}
	return routes
}

// GetRouteIndex is the position of (i,j) in Routes(n).
func GetRouteIndex(i, j, n int) int {
	if j > i {
		j--
	}
	return i*(n-1) + j
}

func StationName(i int) string {
	return fmt.Sprintf("S%d", i+1)
}

func TrainName(t int) string {
	return fmt.Sprintf("T%d", t+1)
}

var (
	jsonNumbers  = regexp.MustCompile(`\s*([-]?[0-9]+(\.[0-9]+)?(e[-+]?[0-9]+)?),\s+([-]?[0-9]+(\.[0-9]+)?(e[-+]?[0-9]+)?)(,)?`)
	jsonBrackets = regexp.MustCompile(`\[(([-]?[0-9]+(\.[0-9]+)?(e[-+]?[0-9]+)?,)+[-]?[0-9]+(\.[0-9]+)?(e[-+]?[0-9]+)?)\s+\](,?)(\s+)`)
)

// SanitizeJsonArrayLineBreaks puts numeric arrays of indented JSON on a single line.
func SanitizeJsonArrayLineBreaks(json string) string {
	res := json
	for jsonNumbers.MatchString(res) {
		res = jsonNumbers.ReplaceAllString(res, "$1,$4$7")
	}
	for jsonBrackets.MatchString(res) {
		res = jsonBrackets.ReplaceAllString(res, "[$1]$7$8")
	}
	return res
}
