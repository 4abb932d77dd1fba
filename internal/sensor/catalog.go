package sensor

// catalog holds the fixed startup state of the station. Bounds follow common
// freshwater guideline ranges; seeds sit inside the safe band so the walk has
// room in both directions.
var catalog = []Reading{
	{ID: "ph", Name: "pH", Value: 7.2, Min: 6.5, Max: 8.5, Unit: "", Precision: 2, Noise: 0.1},
	{ID: "temperature", Name: "Temperature", Value: 26.0, Min: 22.0, Max: 30.0, Unit: "°C", Precision: 1, Noise: 0.15},
	{ID: "turbidity", Name: "Turbidity", Value: 2.4, Min: 0.0, Max: 5.0, Unit: "NTU", Precision: 2, Noise: 0.1},
	{ID: "tds", Name: "TDS", Value: 250.0, Min: 50.0, Max: 500.0, Unit: "ppm", Precision: 0, Noise: 5.0},
	{ID: "oxygen", Name: "Dissolved Oxygen", Value: 7.5, Min: 4.0, Max: 12.0, Unit: "mg/L", Precision: 2, Noise: 0.2},
	{ID: "conductivity", Name: "Conductivity", Value: 420.0, Min: 100.0, Max: 1000.0, Unit: "µS/cm", Precision: 0, Noise: 10.0},
}

// Catalog returns a fresh copy of the startup sensor set, in display order.
func Catalog() []Reading {
	out := make([]Reading, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the catalog sensor identifiers in display order.
func IDs() []string {
	out := make([]string, len(catalog))
	for i, r := range catalog {
		out[i] = r.ID
	}
	return out
}
