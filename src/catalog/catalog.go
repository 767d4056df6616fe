// Package catalog holds the fixed service offering. Services are static
// configuration, not rows: the set changes with a deploy, never at runtime.
package catalog

import "sort"

type Service struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

var services = map[string]Service{
	"corte-dama":      {Code: "corte-dama", Name: "Corte de dama", DurationMinutes: 60, Price: 250},
	"corte-caballero": {Code: "corte-caballero", Name: "Corte de caballero", DurationMinutes: 30, Price: 150},
	"tinte":           {Code: "tinte", Name: "Tinte", DurationMinutes: 120, Price: 850},
	"peinado":         {Code: "peinado", Name: "Peinado", DurationMinutes: 45, Price: 300},
	"manicure":        {Code: "manicure", Name: "Manicure", DurationMinutes: 45, Price: 200},
	"unas-gel":        {Code: "unas-gel", Name: "Uñas de gel", DurationMinutes: 60, Price: 450},
	"pedicure":        {Code: "pedicure", Name: "Pedicure", DurationMinutes: 90, Price: 350},
}

// Lookup returns the service for a code.
func Lookup(code string) (Service, bool) {
	s, ok := services[code]
	return s, ok
}

// List returns all services sorted by code, for the public catalog endpoint.
func List() []Service {
	out := make([]Service, 0, len(services))
	for _, s := range services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
