package travel

import "math"

type coord struct {
	lat, lon float64
}

// Major airport coordinates used for great-circle mileage.
var airports = map[string]coord{
	"SFO": {37.6213, -122.3790},
	"MIA": {25.7959, -80.2870},
	"GRU": {-23.4356, -46.4731},
	"JFK": {40.6413, -73.7781},
	"LAX": {33.9425, -118.4081},
	"ORD": {41.9742, -87.9073},
	"DFW": {32.8998, -97.0403},
	"ATL": {33.6407, -84.4277},
	"DEN": {39.8561, -104.6737},
	"SEA": {47.4502, -122.3088},
	"BOS": {42.3656, -71.0096},
	"EWR": {40.6895, -74.1745},
	"IAH": {29.9902, -95.3368},
	"PHX": {33.4373, -112.0078},
	"LAS": {36.0840, -115.1537},
	"MCO": {28.4312, -81.3081},
	"CLT": {35.2144, -80.9473},
	"MSP": {44.8848, -93.2223},
	"DTW": {42.2124, -83.3534},
	"PHL": {39.8744, -75.2424},
	"DCA": {38.8512, -77.0402},
	"IAD": {38.9531, -77.4565},
	"SAN": {32.7338, -117.1933},
	"AUS": {30.1975, -97.6664},
	"PDX": {45.5898, -122.5951},
	"HNL": {21.3187, -157.9224},
	"NRT": {35.7647, 140.3864},
	"HND": {35.5494, 139.7798},
	"LHR": {51.4700, -0.4543},
	"CDG": {49.0097, 2.5479},
	"FCO": {41.8003, 12.2389},
	"AMS": {52.3105, 4.7683},
	"FRA": {50.0379, 8.5622},
	"BCN": {41.2974, 2.0833},
	"MAD": {40.4983, -3.5676},
	"LIS": {38.7742, -9.1342},
	"EZE": {-34.8222, -58.5358},
	"SCL": {-33.3930, -70.7858},
	"MEX": {19.4363, -99.0721},
	"CUN": {21.0365, -86.8771},
	"GIG": {-22.8100, -43.2506},
	"BSB": {-15.8711, -47.9186},
	"CGH": {-23.6261, -46.6564},
	"CNF": {-19.6244, -43.9719},
	"SSA": {-12.9086, -38.3225},
	"REC": {-8.1264, -34.9231},
	"POA": {-29.9944, -51.1714},
	"CWB": {-25.5285, -49.1758},
	"VCP": {-23.0074, -47.1345},
	"ICN": {37.4602, 126.4407},
	"SIN": {1.3644, 103.9915},
	"HKG": {22.3080, 113.9185},
	"SYD": {-33.9461, 151.1772},
	"DXB": {25.2532, 55.3657},
}

type cityInfo struct {
	city, country string
}

// Airport codes mapped to cities/countries for display.
var airportCities = map[string]cityInfo{
	"SFO": {"San Francisco", "USA"},
	"MIA": {"Miami", "USA"},
	"GRU": {"São Paulo", "Brazil"},
	"CGH": {"São Paulo", "Brazil"},
	"VCP": {"Campinas", "Brazil"},
	"GIG": {"Rio de Janeiro", "Brazil"},
	"BSB": {"Brasília", "Brazil"},
	"CNF": {"Belo Horizonte", "Brazil"},
	"JFK": {"New York", "USA"},
	"LAX": {"Los Angeles", "USA"},
	"ORD": {"Chicago", "USA"},
	"DFW": {"Dallas", "USA"},
	"ATL": {"Atlanta", "USA"},
	"DEN": {"Denver", "USA"},
	"SEA": {"Seattle", "USA"},
	"BOS": {"Boston", "USA"},
	"NRT": {"Tokyo", "Japan"},
	"HND": {"Tokyo", "Japan"},
	"LHR": {"London", "UK"},
	"CDG": {"Paris", "France"},
	"FCO": {"Rome", "Italy"},
	"AMS": {"Amsterdam", "Netherlands"},
	"BCN": {"Barcelona", "Spain"},
	"LIS": {"Lisbon", "Portugal"},
	"MEX": {"Mexico City", "Mexico"},
	"CUN": {"Cancún", "Mexico"},
	"EZE": {"Buenos Aires", "Argentina"},
	"SCL": {"Santiago", "Chile"},
	"ICN": {"Seoul", "South Korea"},
	"SIN": {"Singapore", "Singapore"},
	"HKG": {"Hong Kong", "China"},
	"SYD": {"Sydney", "Australia"},
	"DXB": {"Dubai", "UAE"},
}

// US hub airports that usually mean a connection, not a destination.
var usHubs = map[string]bool{
	"MIA": true, "DFW": true, "ORD": true, "ATL": true, "IAH": true,
	"CLT": true, "DEN": true, "PHX": true, "JFK": true, "EWR": true,
	"LAX": true,
}

const earthRadiusMiles = 3959

// Miles returns the great-circle distance between two airport codes,
// or 0 when either code is unknown.
func Miles(origin, destination string) int {
	o, ok := airports[origin]
	if !ok {
		return 0
	}
	d, ok := airports[destination]
	if !ok {
		return 0
	}
	return haversineMiles(o.lat, o.lon, d.lat, d.lon)
}

func haversineMiles(lat1, lon1, lat2, lon2 float64) int {
	lat1, lon1 = lat1*math.Pi/180, lon1*math.Pi/180
	lat2, lon2 = lat2*math.Pi/180, lon2*math.Pi/180
	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return int(math.Round(earthRadiusMiles * c))
}

// CityCountry resolves an airport code to a display city and country.
// Unknown codes come back as the code itself with an empty country.
func CityCountry(code string) (string, string) {
	if info, ok := airportCities[code]; ok {
		return info.city, info.country
	}
	return code, ""
}
