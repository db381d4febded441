package models

type GeocodeResult struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address"`
}

type StaticMapResult struct {
	URL string `json:"url"`
}
