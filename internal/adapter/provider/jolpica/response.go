package jolpica

// Raw Ergast-style payloads. The schedule endpoint nests everything under
// MRData; only the fields the corrector consumes are decoded.

type apiResponse struct {
	MRData apiMRData `json:"MRData"`
}

type apiMRData struct {
	RaceTable apiRaceTable `json:"RaceTable"`
}

type apiRaceTable struct {
	Season string    `json:"season"`
	Races  []apiRace `json:"Races"`
}

type apiRace struct {
	Round    string     `json:"round"`
	RaceName string     `json:"raceName"`
	Circuit  apiCircuit `json:"Circuit"`
}

type apiCircuit struct {
	CircuitID   string      `json:"circuitId"`
	CircuitName string      `json:"circuitName"`
	Location    apiLocation `json:"Location"`
}

type apiLocation struct {
	Locality string `json:"locality"`
	Country  string `json:"country"`
}
