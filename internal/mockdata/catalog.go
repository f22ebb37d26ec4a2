package mockdata

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
)

// Package mockdata holds the deterministic fallback feed served when live
// providers are disabled or unavailable.

// MinItems is the fewest items a filtered mock response may hold before it is padded.
const MinItems = 4

// Pad tags used when a filter matches too little.
const (
	GlobalTag       = string(domain.RegionGlobal)
	GeneralCategory = "general"
)

var sources = []string{"Reuters", "AP News", "Al Jazeera", "BBC", "Bloomberg", "Foreign Policy"}

type headline struct {
	title    string
	region   domain.Region
	category string
	video    bool
}

var headlines = []headline{
	{"Global energy summit concludes with new carbon tax agreement", domain.RegionGlobal, "business", false},
	{"Tensions rise in South China Sea as naval exercises begin", domain.RegionAsiaPacific, "world", false},
	{"European Union announces new trade sanctions package", domain.RegionEasternEurope, "business", false},
	{"Cybersecurity firm detects massive botnet targeting critical infrastructure", domain.RegionGlobal, "technology", false},
	{"Middle East peace talks show tentative signs of progress", domain.RegionMiddleEast, "world", false},
	{"Satellite imagery reveals new military construction in Arctic region", domain.RegionArctic, "science", true},
	{"OPEC+ decides to maintain current oil output levels despite pressure", domain.RegionMiddleEast, "business", false},
	{"Tech giants testify before Congress on AI safety regulations", domain.RegionAmericas, "technology", false},
	{"Rare earth mineral discovery in Africa sparks geopolitical interest", domain.RegionAfrica, "science", false},
	{"NATO conducts large-scale joint operations drill in Eastern Europe", domain.RegionEasternEurope, "world", true},
	{"Food security crisis looms as grain deal negotiations stall", domain.RegionGlobal, "health", false},
	{"Semiconductor supply chain diversification accelerates across Asia", domain.RegionAsiaPacific, "technology", false},
	{"Diplomatic row escalates over border dispute in Central Asia", domain.RegionCentralAsia, "nation", false},
	{"UN report warns of accelerating climate migration patterns", domain.RegionGlobal, "science", false},
	{"Space debris collision risks threaten commercial satellite networks", domain.RegionGlobal, "technology", false},
	{"Brazil hosts major summit on Amazon preservation efforts", domain.RegionLatinAmerica, "science", false},
	{"India launches ambitious new space exploration mission", domain.RegionSouthAsia, "science", true},
	{"Red Sea shipping insurers raise premiums after new drone attacks", domain.RegionMiddleEast, "business", false},
	{"Gulf states expand desalination capacity amid record heat", domain.RegionMiddleEast, "health", false},
	{"Baltic grid completes switch away from Russian power network", domain.RegionEasternEurope, "technology", false},
	{"Kyiv reports overnight air defence activity across several regions", domain.RegionEasternEurope, "nation", true},
	{"Taiwan election campaign centres on cross-strait relations", domain.RegionAsiaPacific, "nation", false},
	{"Pacific island leaders seek climate finance at regional forum", domain.RegionAsiaPacific, "general", false},
	{"Mexico and United States agree new border water sharing terms", domain.RegionAmericas, "nation", false},
	{"Canadian wildfire season strains cross-border firefighting pact", domain.RegionAmericas, "general", true},
	{"Federal Reserve signals caution as global growth slows", domain.RegionAmericas, "business", false},
	{"Sudan ceasefire monitors report violations in Darfur", domain.RegionAfrica, "world", false},
	{"Sahel juntas formalise new regional security alliance", domain.RegionAfrica, "nation", false},
	{"Horn of Africa drought pushes millions toward food aid", domain.RegionAfrica, "health", true},
	{"Greenland mining licences draw scrutiny from Washington and Beijing", domain.RegionArctic, "business", false},
	{"Northern Sea Route traffic hits seasonal record", domain.RegionArctic, "world", false},
	{"Arctic Council resumes limited scientific cooperation", domain.RegionArctic, "general", false},
	{"Kashmir line of control sees renewed artillery exchanges", domain.RegionSouthAsia, "world", false},
	{"Pakistan secures new IMF tranche after budget reforms", domain.RegionSouthAsia, "business", false},
	{"Bangladesh monsoon floods displace coastal communities", domain.RegionSouthAsia, "health", false},
	{"Kazakhstan opens new rail corridor linking China and Europe", domain.RegionCentralAsia, "business", false},
	{"Uzbekistan and Tajikistan sign water management accord", domain.RegionCentralAsia, "general", false},
	{"Central Asian republics host joint counterterrorism exercise", domain.RegionCentralAsia, "sports", true},
	{"Argentina unveils sweeping currency stabilisation plan", domain.RegionLatinAmerica, "business", false},
	{"Venezuela and Guyana border talks resume under regional mediation", domain.RegionLatinAmerica, "world", false},
	{"Colombia peace process enters new phase with rebel group", domain.RegionLatinAmerica, "nation", false},
	{"Olympic committee weighs security measures amid regional tensions", domain.RegionGlobal, "sports", false},
	{"World Cup qualifiers relocated over conflict zone concerns", domain.RegionGlobal, "sports", false},
	{"Film festival boycott call highlights cultural diplomacy rifts", domain.RegionGlobal, "entertainment", true},
	{"Streaming platforms pull state media channels after sanctions", domain.RegionGlobal, "entertainment", false},
	{"Global health agency declares new pandemic preparedness treaty draft", domain.RegionGlobal, "health", false},
	{"Concert tour cancelled as airspace closures widen", domain.RegionMiddleEast, "entertainment", false},
	{"Chess olympiad moves venue over travel sanctions", domain.RegionEasternEurope, "sports", false},
	{"Bollywood studios expand co-productions with Gulf investors", domain.RegionSouthAsia, "entertainment", false},
	{"K-drama exports become soft power tool in regional diplomacy", domain.RegionAsiaPacific, "entertainment", false},
	{"Copa America host city reviews stadium security plans", domain.RegionLatinAmerica, "sports", false},
}

// Catalog returns the fixed mock feed anchored at now. Item i is i hours
// older than item 0, so the result is already sorted newest first.
func Catalog(now time.Time) []domain.PulseItem {
	now = now.UTC().Truncate(time.Second)
	out := make([]domain.PulseItem, len(headlines))
	for i, h := range headlines {
		typ := domain.ItemTypeArticle
		if h.video {
			typ = domain.ItemTypeVideo
		}
		out[i] = domain.PulseItem{
			ID:          "mock-" + strconv.Itoa(i),
			Title:       h.title,
			Source:      sources[i%len(sources)],
			PublishedAt: now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			URL:         domain.UnlinkedURL,
			ImageURL:    placeholderImage(h.title),
			Type:        typ,
			Tags:        []string{string(h.region), h.category},
		}
	}
	return out
}

func placeholderImage(title string) string {
	words := strings.Fields(title)
	if len(words) > 3 {
		words = words[:3]
	}
	return "https://placehold.co/600x400/0f172a/white?text=" + url.QueryEscape(strings.Join(words, " "))
}
