package Planner

import (
	"fmt"
	"strings"

	"MagicPlanner/Models"
)

// Greeting welcomes the account holder with the grammatical gender of the account.
func Greeting(a Models.Account) string {
	if !a.Male {
		return fmt.Sprintf("Dobro došla %s!", a.Name)
	}
	return fmt.Sprintf("Dobro došao %s!", vocative(a.Name))
}

// vocative appends "e" to male names that do not end in a, e, i, o, u, k or h.
func vocative(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	if strings.ContainsRune("aeioukh", runes[len(runes)-1]) {
		return name
	}
	return name + "e"
}
