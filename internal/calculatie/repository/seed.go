package repository

import (
	"fmt"
	"os"

	"groenportaal_backend/internal/calculatie/transport"

	"gopkg.in/yaml.v3"
)

type seedBestand struct {
	Normuren []struct {
		Scope             string  `yaml:"scope"`
		ActiviteitKey     string  `yaml:"activiteitKey"`
		Activiteit        string  `yaml:"activiteit"`
		Eenheid           string  `yaml:"eenheid"`
		NormuurPerEenheid float64 `yaml:"normuurPerEenheid"`
	} `yaml:"normuren"`
	Correctiefactoren []struct {
		Type   string  `yaml:"type"`
		Waarde string  `yaml:"waarde"`
		Factor float64 `yaml:"factor"`
	} `yaml:"correctiefactoren"`
}

// LoadSeedCatalog parses the YAML seed file with the system-default normuren
// and correctiefactoren.
func LoadSeedCatalog(path string) ([]transport.Normuur, []transport.Correctiefactor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read seed file: %w", err)
	}

	var bestand seedBestand
	if err := yaml.Unmarshal(data, &bestand); err != nil {
		return nil, nil, fmt.Errorf("parse seed file: %w", err)
	}

	normuren := make([]transport.Normuur, 0, len(bestand.Normuren))
	for _, n := range bestand.Normuren {
		normuren = append(normuren, transport.Normuur{
			Scope:             transport.Scope(n.Scope),
			ActiviteitKey:     n.ActiviteitKey,
			Activiteit:        n.Activiteit,
			Eenheid:           n.Eenheid,
			NormuurPerEenheid: n.NormuurPerEenheid,
		})
	}

	factoren := make([]transport.Correctiefactor, 0, len(bestand.Correctiefactoren))
	for _, f := range bestand.Correctiefactoren {
		factoren = append(factoren, transport.Correctiefactor{
			Type:   f.Type,
			Waarde: f.Waarde,
			Factor: f.Factor,
		})
	}

	return normuren, factoren, nil
}
