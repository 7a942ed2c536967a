package billing

// FreeMinutes maps vehicle category to wash service type to granted minutes.
type FreeMinutes map[string]map[string]int

// DefaultFreeMinutes is the grace period table used when configuration omits one.
func DefaultFreeMinutes() FreeMinutes {
	return FreeMinutes{
		"carro": {
			"Lavado general":  30,
			"Lavado con cera": 45,
			"Lavado interior": 45,
			"Lavado de motor": 30,
			"Polishado":       60,
		},
		"moto": {
			"Lavado general":        20,
			"Lavado y desengrasado": 30,
			"Lavado de motor":       20,
			"Polishado":             45,
		},
		"camion": {
			"Lavado general exterior":   45,
			"Lavado de cabina interior": 45,
			"Lavado de chasis":          30,
			"Lavado de motor":           30,
			"Polishado de cabina":       60,
		},
	}
}

// Lookup returns the minutes granted for the pair; matching ignores case and surrounding space.
func (f FreeMinutes) Lookup(category, serviceType string) int {
	services, ok := f[NormalizeCategory(category)]
	if !ok {
		for key, candidate := range f {
			if NormalizeCategory(key) == NormalizeCategory(category) {
				services, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return 0
	}
	if minutes, okExact := services[serviceType]; okExact {
		return clampMinutes(minutes)
	}
	want := NormalizeCategory(serviceType)
	for name, minutes := range services {
		if NormalizeCategory(name) == want {
			return clampMinutes(minutes)
		}
	}
	return 0
}

func clampMinutes(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return minutes
}
