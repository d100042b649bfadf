package scoring

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed sectors.yaml
var sectorsYAML []byte

// defaultSectorVolatility is the neutral score applied to unknown or missing
// sectors.
const defaultSectorVolatility = 0.5

// sectorVolatility maps sector labels to volatility weights in [0,1].
var sectorVolatility = mustLoadSectors()

func mustLoadSectors() map[string]float64 {
	table := make(map[string]float64)
	if err := yaml.Unmarshal(sectorsYAML, &table); err != nil {
		panic(fmt.Sprintf("scoring: invalid embedded sector table: %v", err))
	}
	for sector, v := range table {
		if v < 0 || v > 1 {
			panic(fmt.Sprintf("scoring: sector %q volatility %v outside [0,1]", sector, v))
		}
	}
	return table
}

// SectorVolatility returns the volatility weight for a sector label, falling
// back to the neutral default for unknown or empty sectors.
func SectorVolatility(sector string) float64 {
	if v, ok := sectorVolatility[sector]; ok {
		return v
	}
	return defaultSectorVolatility
}
