// locations — статический трёхуровневый справочник страна -> регион -> город.
// Данные фиксированы на этапе сборки; никакой БД за ними нет.
package locations

import "sort"

var data = map[string]map[string][]string{
	"United States": {
		"New York":   {"New York City", "Buffalo", "Rochester", "Syracuse", "Albany"},
		"California": {"Los Angeles", "San Francisco", "San Diego", "San Jose", "Sacramento"},
		"Texas":      {"Houston", "Austin", "Dallas", "San Antonio", "Fort Worth"},
		"Florida":    {"Miami", "Orlando", "Tampa", "Jacksonville"},
		"Illinois":   {"Chicago", "Springfield", "Peoria"},
	},
	"United Kingdom": {
		"England":          {"London", "Manchester", "Birmingham", "Liverpool", "Leeds"},
		"Scotland":         {"Glasgow", "Edinburgh", "Aberdeen"},
		"Wales":            {"Cardiff", "Swansea", "Newport"},
		"Northern Ireland": {"Belfast", "Derry"},
	},
	"Canada": {
		"Ontario":          {"Toronto", "Ottawa", "Mississauga", "Hamilton"},
		"British Columbia": {"Vancouver", "Victoria", "Surrey"},
		"Quebec":           {"Montreal", "Quebec City", "Laval"},
		"Alberta":          {"Calgary", "Edmonton"},
	},
	"Nigeria": {
		"Lagos":  {"Ikeja", "Lekki", "Victoria Island", "Yaba", "Surulere"},
		"Abuja":  {"Garki", "Wuse", "Maitama", "Asokoro"},
		"Rivers": {"Port Harcourt", "Obio-Akpor"},
		"Kano":   {"Kano", "Gwale"},
		"Oyo":    {"Ibadan"},
	},
	"Ghana": {
		"Greater Accra": {"Accra", "Tema", "Madina"},
		"Ashanti":       {"Kumasi", "Obuasi"},
		"Central":       {"Cape Coast"},
		"Western":       {"Takoradi"},
	},
	"South Africa": {
		"Gauteng":       {"Johannesburg", "Pretoria", "Soweto"},
		"Western Cape":  {"Cape Town", "Stellenbosch"},
		"KwaZulu-Natal": {"Durban", "Pietermaritzburg"},
	},
	"Germany": {
		"Berlin":  {"Berlin"},
		"Bavaria": {"Munich", "Nuremberg"},
		"Hamburg": {"Hamburg"},
	},
	"France": {
		"Île-de-France":              {"Paris"},
		"Provence-Alpes-Côte d'Azur": {"Marseille", "Nice"},
		"Auvergne-Rhône-Alpes":       {"Lyon"},
	},
}

// Countries возвращает отсортированный список стран.
func Countries() []string {
	out := make([]string, 0, len(data))
	for c := range data {
		out = append(out, c)
	}
	sort.Strings(out)

	return out
}

// States возвращает отсортированный список регионов страны.
// Второе значение — false для неизвестной страны.
func States(country string) ([]string, bool) {
	states, ok := data[country]
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(states))
	for s := range states {
		out = append(out, s)
	}
	sort.Strings(out)

	return out, true
}

// Cities возвращает список городов региона в исходном порядке справочника.
// Второе значение — false для неизвестной пары страна/регион.
func Cities(country, state string) ([]string, bool) {
	states, ok := data[country]
	if !ok {
		return nil, false
	}

	cities, ok := states[state]
	if !ok {
		return nil, false
	}

	out := make([]string, len(cities))
	copy(out, cities)

	return out, true
}
