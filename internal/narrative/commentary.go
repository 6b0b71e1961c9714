// Package narrative renders forecast-event commentary from a data-driven
// template table keyed by event kind and ticker.
package narrative

import (
	"regexp"
	"strings"

	"github.com/ayo-labs/copilot/internal/domain"
)

// Commentary is the four-part story attached to a forecast event.
type Commentary struct {
	Hook     string `json:"hook"`
	Context  string `json:"context"`
	Question string `json:"question"`
	Stakes   string `json:"stakes"`
}

// kind classifies a forecast event by keywords in its title.
type kind int

const (
	kindDefault kind = iota
	kindEarnings
	kindLaunch
	kindSales
	kindAnalyst
)

// kindKeywords maps title substrings to a kind. First match wins, in the
// listed order.
var kindKeywords = []struct {
	substr string
	kind   kind
}{
	{"earnings", kindEarnings},
	{"launch", kindLaunch},
	{"collab", kindLaunch},
	{"sales", kindSales},
	{"holiday", kindSales},
	{"analyst", kindAnalyst},
	{"rating", kindAnalyst},
}

func classify(title string) kind {
	t := strings.ToLower(title)
	for _, kw := range kindKeywords {
		if strings.Contains(t, kw.substr) {
			return kw.kind
		}
	}
	return kindDefault
}

// earningsContext holds the per-ticker earnings narrative inputs.
type earningsContext struct {
	lastQuarter string
	keyMetric   string
}

var earningsByTicker = map[string]earningsContext{
	"NKE": {
		lastQuarter: "Last quarter, Nike missed revenue targets by 10%. Inventory was piling up.",
		keyMetric:   "digital growth >15%",
	},
	"AAPL": {
		lastQuarter: "Last quarter, iPhone sales were mixed: strong in US, weak in China.",
		keyMetric:   "China revenue stabilization",
	},
	"TSLA": {
		lastQuarter: "Last quarter, Tesla beat on deliveries but margins compressed.",
		keyMetric:   "Cybertruck production ramp",
	},
	"NFLX": {
		lastQuarter: "Last quarter, Netflix crushed it. The password crackdown worked.",
		keyMetric:   "subscriber additions >5M",
	},
}

var defaultEarnings = earningsContext{
	lastQuarter: "Last quarter had mixed results.",
	keyMetric:   "revenue growth",
}

var launchByTicker = map[string]string{
	"NKE":  "Nike collabs with celebrities usually sell out in minutes. Remember the Travis Scott drop? Stock jumped 3% that week.",
	"AAPL": "Apple product launches are cultural events. The iPhone 15 launch drove a 5% stock bump.",
	"TSLA": "Elon's product launches are unpredictable. Cybertruck reveal crashed the stock 6%. But Model 3 launch sent it to the moon.",
	"NFLX": "Netflix doesn't do hardware, but big show launches move the stock. Squid Game season 2 could drive 10M+ new subs.",
}

var brandNameByTicker = map[string]string{
	"NKE":  "Nike",
	"AAPL": "Apple",
	"TSLA": "Tesla",
	"NFLX": "Netflix",
}

var (
	priceTargetRe = regexp.MustCompile(`\$(\d+)`)
	upsideRe      = regexp.MustCompile(`\+(\d+)%`)
)

// ForEvent renders commentary for one forecast event.
func ForEvent(ticker string, ev domain.Event) Commentary {
	switch classify(ev.Title) {
	case kindEarnings:
		return earningsCommentary(ticker, ev)
	case kindLaunch:
		return launchCommentary(ticker, ev)
	case kindSales:
		return salesCommentary(ticker, ev)
	case kindAnalyst:
		return analystCommentary(ticker, ev)
	default:
		return Commentary{
			Hook:     ev.Title + " is coming up.",
			Context:  "This could move the stock.",
			Question: "Will it beat expectations?",
			Stakes:   ev.ExpectedImpact,
		}
	}
}

// Short returns the card-sized variant shown in timeline previews.
func (c Commentary) Short() string {
	return c.Context + " " + c.Question
}

func earningsCommentary(ticker string, ev domain.Event) Commentary {
	ec, ok := earningsByTicker[ticker]
	if !ok {
		ec = defaultEarnings
	}

	priceTarget := firstGroup(priceTargetRe, ev.ExpectedImpact, "???")
	upside := firstGroup(upsideRe, ev.ExpectedImpact, "??")

	return Commentary{
		Hook:     "Earnings day is the moment of truth.",
		Context:  ec.lastQuarter,
		Question: "This time, analysts are watching " + ec.keyMetric + ". Will the turnaround continue?",
		Stakes:   "If they beat: stock could jump to $" + priceTarget + " (+" + upside + "%). If they miss: expect another selloff.",
	}
}

func launchCommentary(ticker string, ev domain.Event) Commentary {
	ctx, ok := launchByTicker[ticker]
	if !ok {
		ctx = "Product launches can be stock catalysts."
	}
	return Commentary{
		Hook:     "New product drop incoming.",
		Context:  ctx,
		Question: "Will it sell out? Will Gen Z care?",
		Stakes:   ev.ExpectedImpact + ". Hype matters more than you think.",
	}
}

func salesCommentary(ticker string, ev domain.Event) Commentary {
	name, ok := brandNameByTicker[ticker]
	if !ok {
		name = ticker
	}
	return Commentary{
		Hook:     "Holiday sales numbers are about to drop.",
		Context:  "Last year, " + name + " crushed Black Friday. This year, the economy's shakier.",
		Question: "Did consumers show up? Or did they tighten their wallets?",
		Stakes:   ev.ExpectedImpact + ". Digital growth is the key metric: if it's >15%, bullish.",
	}
}

func analystCommentary(ticker string, ev domain.Event) Commentary {
	return Commentary{
		Hook:     "Wall Street analysts are updating their ratings.",
		Context:  "Analysts have been split on " + ticker + ". Some see a turnaround, others see more pain ahead.",
		Question: "Will they upgrade or downgrade?",
		Stakes:   ev.ExpectedImpact + ". A surprise upgrade could trigger a 5%+ pop.",
	}
}

func firstGroup(re *regexp.Regexp, s, fallback string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return fallback
	}
	return m[1]
}
