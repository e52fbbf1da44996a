package ui

// Icon is a Font Awesome class list, e.g. "fas fa-sun".
type Icon string

const (
	IconSun          Icon = "fas fa-sun"
	IconCloud        Icon = "fas fa-cloud"
	IconCloudRain    Icon = "fas fa-cloud-rain"
	IconDrizzle      Icon = "fas fa-cloud-drizzle"
	IconThunderstorm Icon = "fas fa-thunderstorm"
	IconSnowflake    Icon = "fas fa-snowflake"
	IconSmog         Icon = "fas fa-smog"
	IconWind         Icon = "fas fa-wind"
	IconTornado      Icon = "fas fa-tornado"
)

var icons = map[string]Icon{
	"Clear":        IconSun,
	"Clouds":       IconCloud,
	"Rain":         IconCloudRain,
	"Drizzle":      IconDrizzle,
	"Thunderstorm": IconThunderstorm,
	"Snow":         IconSnowflake,
	"Mist":         IconSmog,
	"Smoke":        IconSmog,
	"Haze":         IconSmog,
	"Dust":         IconSmog,
	"Fog":          IconSmog,
	"Sand":         IconSmog,
	"Ash":          IconSmog,
	"Squall":       IconWind,
	"Tornado":      IconTornado,
}

// IconFor maps a weather category to its icon. Unknown categories get the
// Clear icon.
func IconFor(category string) Icon {
	if icon, ok := icons[category]; ok {
		return icon
	}
	return IconSun
}
