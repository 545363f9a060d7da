package charts

import "bikepulse/pkg/contracts/domain"

// DefaultAssetsHost is where go-echarts loads its scripts from unless overridden.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Style is the single place colors and sizes are decided.
type Style struct {
	// Weather palettes are applied by position in each chart's category order.
	WeatherDaily  []string
	WeatherHourly []string
	BoxDaily      string
	BoxHourly     string
	Outlier       string

	DayType   map[domain.DayType]string
	Weekday   string
	TimeOfDay map[domain.TimeOfDay]string
	Rush      map[string]string

	Width  string
	Height string

	// AssetsHost overrides where the echarts scripts are fetched from.
	AssetsHost string
}

// ScriptHost returns the effective assets host.
func (s Style) ScriptHost() string {
	if s.AssetsHost != "" {
		return s.AssetsHost
	}
	return DefaultAssetsHost
}

// DefaultStyle returns the dashboard palette.
func DefaultStyle() Style {
	return Style{
		WeatherDaily:  []string{"#440154", "#31688e", "#35b779", "#fde725"},
		WeatherHourly: []string{"#000004", "#721f81", "#f1605d", "#fcfdbf"},
		BoxDaily:      "#6788ee",
		BoxHourly:     "#a11a5b",
		Outlier:       "#555555",
		DayType: map[domain.DayType]string{
			domain.DayTypeWorkday: "#1f77b4",
			domain.DayTypeHoliday: "#ff7f0e",
		},
		Weekday: "#2ca02c",
		TimeOfDay: map[domain.TimeOfDay]string{
			domain.Morning:   "#8dd3c7",
			domain.Afternoon: "#bebada",
			domain.Evening:   "#fb8072",
			domain.Night:     "#80b1d3",
		},
		Rush: map[string]string{
			"Morning rush": "red",
			"Evening rush": "green",
		},
		Width:  "900px",
		Height: "420px",
	}
}

func pick(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[i%len(palette)]
}
