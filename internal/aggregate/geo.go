package aggregate

import (
	"sort"

	"github.com/zipdash/appointment-analytics/internal/model"
)

// ZipProviderCount is one cell of the zip-by-provider heatmap.
type ZipProviderCount struct {
	Zip        string
	ProviderID string
	Count      int
}

// HeatmapByZip counts appointments per zip and provider, feeding the
// provider-proximity heatmap. Rows without a zip do not appear.
func HeatmapByZip(rows []model.EnrichedAppointment, f *Filter) []ZipProviderCount {
	type key struct{ zip, provider string }
	counts := make(map[key]int)
	for _, row := range filtered(rows, f) {
		if row.Zip == "" {
			continue
		}
		counts[key{zip: row.Zip, provider: row.ProviderID}]++
	}

	out := make([]ZipProviderCount, 0, len(counts))
	for k, count := range counts {
		out = append(out, ZipProviderCount{Zip: k.zip, ProviderID: k.provider, Count: count})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Zip != out[b].Zip {
			return out[a].Zip < out[b].Zip
		}
		return out[a].ProviderID < out[b].ProviderID
	})
	return out
}

// ZipCentroid is the mean coordinate of a zip's address rows, the anchor
// point for map markers.
type ZipCentroid struct {
	Zip       string
	State     string
	Latitude  float64
	Longitude float64
}

// ZipCentroids averages latitude/longitude per zip over the address rows
// that carry coordinates. Zips with no located row do not appear.
func ZipCentroids(addresses []model.Address) []ZipCentroid {
	type acc struct {
		state   string
		latSum  float64
		longSum float64
		located int
	}
	byZip := make(map[string]*acc)
	for _, addr := range addresses {
		if addr.Zip == "" || addr.Latitude == nil || addr.Longitude == nil {
			continue
		}
		a, ok := byZip[addr.Zip]
		if !ok {
			a = &acc{state: addr.State}
			byZip[addr.Zip] = a
		}
		a.latSum += *addr.Latitude
		a.longSum += *addr.Longitude
		a.located++
	}

	out := make([]ZipCentroid, 0, len(byZip))
	for zip, a := range byZip {
		out = append(out, ZipCentroid{
			Zip:       zip,
			State:     a.state,
			Latitude:  a.latSum / float64(a.located),
			Longitude: a.longSum / float64(a.located),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Zip < out[b].Zip })
	return out
}
