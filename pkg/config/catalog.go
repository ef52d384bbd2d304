package config

import "time"

// Scene scale factors. Distances in kilometres are divided by
// kilometresPerUnit and then by the orbit scale for the body's level.
const (
	orbitScale          = 50.0
	satelliteOrbitScale = 10.0
	planetScale         = 1000.0
	starScale           = 5500.0
	kilometresPerUnit   = 2500.0
	hoursPerDay         = 24.0
	earthRadius         = 6371 / planetScale
)

func planetAxis(km float64) float64 {
	return km / kilometresPerUnit / orbitScale
}

func moonAxis(km float64) float64 {
	return km / kilometresPerUnit / satelliteOrbitScale * 4
}

// DefaultConfig returns the solar system catalog with default simulation
// and server settings.
func DefaultConfig() *SystemConfig {
	return &SystemConfig{
		Star: BodyConfig{
			Name:         "Sun",
			Radius:       696340 / starScale,
			RotationDays: 27,
			LabelColor:   "gold",
		},
		Planets:    defaultPlanets(),
		Belts:      defaultBelts(),
		Spacecraft: SpacecraftConfig{Name: "Apollo 21", Speed: 0.4, PathPoints: 512},
		Simulation: SimulationConfig{
			Speed:          86400,
			FrameRate:      60,
			MaxDelta:       0.1,
			TracePoints:    75,
			TraceThreshold: 0.21,
			OrbitPoints:    1024,
			StartRunning:   true,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			AllowedOrigins:  []string{"*"},
			SnapshotRate:    10,
			CommandRate:     20,
			CommandBurst:    40,
			MaxRequestBytes: 4096,
			StallTimeout:    5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Client: ClientConfig{
			ServerURL:             "http://localhost:8080",
			RequestTimeout:        10 * time.Second,
			ReconnectDelay:        3 * time.Second,
			MaxReconnectAttempts:  5,
			RetryAttempts:         3,
			RetryBaseDelay:        time.Second,
			BreakerMaxRequests:    1,
			BreakerInterval:       time.Minute,
			BreakerTimeout:        30 * time.Second,
			BreakerMaxConsecutive: 5,
		},
	}
}

func defaultBelts() []BeltConfig {
	return []BeltConfig{
		{SemiMajor: 370, SemiMinor: 380, Count: 40},
		{SemiMajor: 660, SemiMinor: 690, Count: 40},
		{SemiMajor: 1000, SemiMinor: 970, Count: 70},
		{SemiMajor: 1500, SemiMinor: 1550, Count: 50},
		{SemiMajor: 2100, SemiMinor: 1900, Count: 50},
	}
}

func defaultPlanets() []PlanetConfig {
	return []PlanetConfig{
		{BodyConfig: BodyConfig{
			Name: "Mercury", Radius: 2440 / planetScale,
			SemiMajor: planetAxis(69820000), SemiMinor: planetAxis(49000000),
			PeriodDays: 88, RotationDays: 59,
			OrbitColor: "cyan", LabelColor: "red",
			ShortDescription: "The first planet in our solar system",
			Title:            "Mercury",
			Paragraphs: []string{
				"Mercury's surface temperatures are both extremely hot and cold. Because the planet is so close to the Sun, day temperatures can reach highs of 800°F (430°C). Without an atmosphere to retain that heat at night, temperatures can dip as low as -290°F (-180°C).",
				"Despite its proximity to the Sun, Mercury is not the hottest planet in our solar system; that title belongs to nearby Venus, thanks to its dense atmosphere. But Mercury is the fastest planet, zipping around the Sun every 88 Earth days.",
			},
		}},
		{BodyConfig: BodyConfig{
			Name: "Venus", Radius: 6052 / planetScale,
			SemiMajor: planetAxis(108208000), SemiMinor: planetAxis(107476000),
			PeriodDays: 225, RotationDays: 243,
			OrbitColor: "orange", LabelColor: "purple",
			ShortDescription: "The second planet in our solar system",
			Title:            "Twin Sister",
			Paragraphs: []string{
				"Venus is the second planet from the Sun, and our closest planetary neighbor. It's the hottest planet in our solar system, and is sometimes called Earth's twin.",
				"Similar in structure and size to Earth, Venus spins slowly in the opposite direction from most planets. Its thick atmosphere traps heat in a runaway greenhouse effect, making it the hottest planet in our solar system with surface temperatures hot enough to melt lead. Glimpses below the clouds reveal volcanoes and deformed mountains.",
			},
		}},
		{
			BodyConfig: BodyConfig{
				Name: "Earth", Radius: earthRadius,
				SemiMajor: planetAxis(149598000), SemiMinor: planetAxis(147095000),
				PeriodDays: 365, RotationDays: 23.59 / hoursPerDay,
				OrbitColor: "green", LabelColor: "white",
				ShortDescription: "The third planet in our solar system",
				Title:            "Our home - Earth",
				Paragraphs: []string{
					"Earth, our home planet, is the third planet from the Sun, and the only place we know of so far that's inhabited by living things. It's also the only planet in our solar system with liquid water on the surface.",
					"Earth is only the fifth largest planet in the solar system. Just slightly larger than nearby Venus, Earth is the biggest of the four planets closest to the Sun, all of which are made of rock and metal.",
				},
				Locations: []LocationConfig{
					{Name: "Skopje", Latitude: 41.9981, Longitude: 21.4254, Size: 0.06},
					{Name: "London", Latitude: 51.5072, Longitude: 0.1276, Size: 0.1},
					{Name: "Berlin", Latitude: 52.52, Longitude: 13.405, Size: 0.08},
					{Name: "Paris", Latitude: 48.8566, Longitude: 2.3522, Size: 0.12},
					{Name: "Madrid", Latitude: 40.4168, Longitude: -3.7038, Size: 0.009},
					{Name: "Washington D.C", Latitude: 38.8898, Longitude: -77.009, Size: 0.14},
					{Name: "Los Angeles", Latitude: 34.0549, Longitude: -118.2436, Size: 0.18},
					{Name: "Dallas", Latitude: 32.7767, Longitude: -96.8088, Size: 0.14},
					{Name: "Ottawa", Latitude: 45.4215, Longitude: -75.6972, Size: 0.12},
					{Name: "Mexico City", Latitude: 19.432608, Longitude: -99.133209, Size: 0.13},
					{Name: "Brasilia", Latitude: -15.79388, Longitude: -47.8827, Size: 0.124},
					{Name: "Buenos Aires", Latitude: -34.603722, Longitude: -58.381592, Size: 0.148},
					{Name: "Moscow", Latitude: 55.7558, Longitude: 37.6173, Size: 0.18},
					{Name: "Sydney", Latitude: -33.8688, Longitude: 151.2093, Size: 0.1},
					{Name: "New Delhi", Latitude: 28.6139, Longitude: 77.209, Size: 0.182},
					{Name: "Beijing", Latitude: 39.9042, Longitude: 116.4074, Size: 0.178},
					{Name: "Tokyo", Latitude: 35.6764, Longitude: 139.65, Size: 0.164},
					{Name: "Cairo", Latitude: 30.0444, Longitude: 31.2357, Size: 0.136},
					{Name: "Cape Town", Latitude: -33.9249, Longitude: 18.4241, Size: 0.122},
					{Name: "Addis Ababa", Latitude: 9.0192, Longitude: 38.7525, Size: 0.146},
				},
			},
			CloudSize: 1.01,
			Satellites: []SatelliteConfig{
				{BodyConfig: BodyConfig{
					Name: "Moon", Radius: 1737.4 / planetScale,
					SemiMajor: earthRadius * 2 * 30 / satelliteOrbitScale, SemiMinor: earthRadius * 2 * 30 / satelliteOrbitScale,
					PeriodDays: 27.3, RotationDays: 29.5,
					OrbitColor: "aqua", LabelColor: "fuchsia",
				}, YOffset: 1.1},
			},
		},
		{BodyConfig: BodyConfig{
			Name: "Mars", Radius: 3390 / planetScale,
			SemiMajor: planetAxis(227959000), SemiMinor: planetAxis(206650000),
			PeriodDays: 687, RotationDays: 24.6 / hoursPerDay,
			OrbitColor: "red", LabelColor: "orange",
			ShortDescription: "The fourth planet in our solar system",
			Title:            "Red Planet",
			Paragraphs: []string{
				"Mars is no place for the faint-hearted. It's dry, rocky, and bitter cold. The fourth planet from the Sun, Mars is one of Earth's two closest planetary neighbors (Venus is the other). Mars is one of the easiest planets to spot in the night sky; it looks like a bright red point of light.",
				"Despite being inhospitable to humans, robotic explorers like NASA's Perseverance rover are serving as pathfinders to eventually get humans to the surface of the Red Planet.",
			},
			Locations: []LocationConfig{
				{Name: "Colony Alpha", Latitude: 24.321, Longitude: 52.1045, Size: 0.04},
			},
		}},
		{
			BodyConfig: BodyConfig{
				Name: "Jupiter", Radius: 69911 / planetScale,
				SemiMajor: planetAxis(777847900), SemiMinor: planetAxis(740595000),
				PeriodDays: 4333, RotationDays: 10 / hoursPerDay,
				OrbitColor: "yellow", LabelColor: "cyan",
				ShortDescription: "The fifth planet in our solar system",
				Title:            "Giant Among Giants",
				Paragraphs: []string{
					"Jupiter is the fifth planet from our Sun and is, by far, the largest planet in the solar system, more than twice as massive as all the other planets combined.",
					"Jupiter's stripes and swirls are actually cold, windy clouds of ammonia and water, floating in an atmosphere of hydrogen and helium. Jupiter's iconic Great Red Spot is a giant storm bigger than Earth that has raged for hundreds of years.",
				},
			},
			Satellites: []SatelliteConfig{
				{BodyConfig: BodyConfig{
					Name: "Ganymede", Radius: 2631 / planetScale,
					SemiMajor: moonAxis(1071600), SemiMinor: moonAxis(1069200),
					PeriodDays: 7.2, RotationDays: 7.2,
					OrbitColor: "aqua", LabelColor: "teal",
				}, YOffset: 0.5},
				{BodyConfig: BodyConfig{
					Name: "Europa", Radius: 1561 / planetScale,
					SemiMajor: moonAxis(676938), SemiMinor: moonAxis(664862),
					PeriodDays: 3.6, RotationDays: 3.6,
				}, YOffset: 1},
			},
		},
		{
			BodyConfig: BodyConfig{
				Name: "Saturn", Radius: 58232 / planetScale,
				SemiMajor: planetAxis(1432041000), SemiMinor: planetAxis(1357554000),
				PeriodDays: 10756, RotationDays: 10.7 / hoursPerDay,
				OrbitColor: "brown", LabelColor: "grey",
				ShortDescription: "The sixth planet in our solar system",
				Title:            "Saturn",
				Paragraphs: []string{
					"Saturn is the sixth planet from the Sun and the second largest planet in our solar system. Adorned with a dazzling system of icy rings, Saturn is unique among the planets.",
					"It is not the only planet to have rings, but none are as spectacular or as complex as Saturn's. Like fellow gas giant Jupiter, Saturn is a massive ball made mostly of hydrogen and helium. The farthest planet from Earth discovered by the unaided human eye, Saturn has been known since ancient times. The planet is named for the Roman god of agriculture and wealth, who was also the father of Jupiter.",
				},
			},
			Ring: &RingConfig{InnerRadius: 50, OuterRadius: 160, TiltX: 5, TiltY: 0, TiltZ: 0.1},
			Satellites: []SatelliteConfig{
				{BodyConfig: BodyConfig{
					Name: "Titan", Radius: 2574.7 / planetScale,
					SemiMajor: moonAxis(1221870), SemiMinor: moonAxis(1257060),
					PeriodDays: 15.94, RotationDays: 15.94,
					OrbitColor: "brown", LabelColor: "maroon",
				}, YOffset: 1.2},
			},
		},
		{
			BodyConfig: BodyConfig{
				Name: "Uranus", Radius: 25362 / planetScale,
				SemiMajor: planetAxis(2867043000), SemiMinor: planetAxis(2732696000),
				PeriodDays: 30687, RotationDays: 17 / hoursPerDay,
				OrbitColor: "lime", LabelColor: "aqua",
				ShortDescription: "The seventh planet in our solar system",
				Title:            "Uranus",
				Paragraphs: []string{
					"Uranus is a very cold and windy planet. It is surrounded by faint rings, and more than two dozen small moons as it rotates at a nearly 90-degree angle from the plane of its orbit. This unique tilt makes Uranus appear to spin on its side.",
					"Uranus is blue-green in color due to large amounts of methane, which absorbs red light but allows blues to be reflected back into space. The atmosphere is mostly hydrogen and helium, but also includes large amounts of water, ammonia and methane.",
				},
			},
			Ring: &RingConfig{InnerRadius: 55, OuterRadius: 60, TiltX: 4.5, TiltY: 0.5, TiltZ: 0.1},
		},
		{
			BodyConfig: BodyConfig{
				Name: "Neptune", Radius: 24622 / planetScale,
				SemiMajor: planetAxis(4514953000), SemiMinor: planetAxis(4471050000),
				PeriodDays: 60190, RotationDays: 16 / hoursPerDay,
				OrbitColor: "gold", LabelColor: "crimson",
				ShortDescription: "The first planet discovered with math",
				Title:            "Big Blue",
				Paragraphs: []string{
					"Dark, cold and whipped by supersonic winds, giant Neptune is the eighth and most distant major planet orbiting our Sun. More than 30 times as far from the Sun as Earth, Neptune is not visible to the naked eye. In 2011, Neptune completed its first 165-year orbit since its discovery.",
					"The planet's rich blue color comes from methane in its atmosphere, which absorbs red wavelengths of light, but allows blue ones to be reflected back into space.",
				},
			},
			Ring: &RingConfig{InnerRadius: 34, OuterRadius: 65, TiltX: 5.1, TiltY: 0.3, TiltZ: 0.1},
		},
	}
}
