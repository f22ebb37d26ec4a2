package pulse

import (
	"strings"

	"github.com/Adda-Baaj/geopulse/internal/domain"
)

// CrisisQuery replaces every other filter while crisis mode is on.
const CrisisQuery = `(War OR "Nuclear Alert" OR Invasion OR "Mass Casualties" OR "Military Strike" OR "State of Emergency")`

// CrisisTag is the primary tag of items fetched in crisis mode.
const CrisisTag = "Crisis"

// RegionKeywords holds the keyword disjunction searched for each region.
var RegionKeywords = map[domain.Region]string{
	domain.RegionGlobal:        `geopolitics OR "foreign policy" OR "Security Council" OR "International Relations"`,
	domain.RegionMiddleEast:    `Israel OR Gaza OR Iran OR "Middle East" OR Syria OR Yemen OR "Saudi Arabia"`,
	domain.RegionEasternEurope: `Ukraine OR Russia OR NATO OR "Eastern Europe" OR Belarus OR Baltics`,
	domain.RegionAsiaPacific:   `China OR Taiwan OR "South China Sea" OR "North Korea" OR Japan OR Philippines`,
	domain.RegionAmericas:      `"United States" OR Brazil OR Venezuela OR NAFTA OR "Latin America" OR Mexico`,
	domain.RegionAfrica:        `Sudan OR Congo OR "South Africa" OR Niger OR Ethiopia OR "Horn of Africa"`,
	domain.RegionArctic:        `Arctic OR "Polar Region" OR "Ice Melt" OR "Northern Sea Route" OR Greenland`,
	domain.RegionSouthAsia:     `India OR Pakistan OR Afghanistan OR Kashmir OR Bangladesh`,
	domain.RegionCentralAsia:   `Kazakhstan OR Uzbekistan OR Kyrgyzstan OR Tajikistan OR Turkmenistan`,
	domain.RegionLatinAmerica:  `Brazil OR Argentina OR Venezuela OR Colombia OR "Latin America"`,
}

var querySanitizer = strings.NewReplacer("<", "", ">", "", "{", "", "}", "")

// SanitizeQuery strips the characters <>{} and surrounding whitespace.
func SanitizeQuery(q string) string {
	return strings.TrimSpace(querySanitizer.Replace(q))
}

// BuildQuery turns request filters into the provider search string.
// Crisis mode wins over everything; free text replaces the region keywords.
func BuildQuery(opts domain.FetchOptions) string {
	if opts.IsCrisisMode {
		return CrisisQuery
	}
	if q := SanitizeQuery(opts.Query); q != "" {
		return q
	}
	if kw, ok := RegionKeywords[opts.Region]; ok {
		return kw
	}
	return RegionKeywords[domain.RegionGlobal]
}

// primaryTag is the tag prepended to live items for the request.
func primaryTag(opts domain.FetchOptions) string {
	if opts.IsCrisisMode {
		return CrisisTag
	}
	if opts.Region == "" {
		return string(domain.RegionGlobal)
	}
	return string(opts.Region)
}
