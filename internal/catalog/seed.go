/**
 * @description
 * Built-in market catalog used by cmd/seed to bootstrap a fresh deployment.
 * Pools are pre-seeded on both sides so odds are defined before the first
 * cast lands.
 *
 * @dependencies
 * - backend/internal/models
 */

package catalog

import (
	"time"

	"github.com/blockcast-project/backend/internal/models"
)

// Seed returns the initial market set. Expiries are offsets from now so a
// fresh seed always yields open markets.
func Seed(now time.Time) []models.Market {
	return []models.Market{
		{
			ID:          "mkt-naira-rebound",
			Claim:       "The Nigerian naira will strengthen against the US dollar this quarter",
			Category:    "Finance",
			Subcategory: "Currencies",
			Source:      "Central Bank of Nigeria",
			Description: "Resolves yes if the official NGN/USD rate closes the quarter below its opening level.",
			Country:     "Nigeria",
			Confidence:  models.ConfidenceMedium,
			YesPool:     models.Dollars(420),
			NoPool:      models.Dollars(880),
			Trending:    true,
			ExpiresAt:   now.Add(45 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
		{
			ID:          "mkt-lagos-bond",
			Claim:       "Lagos State will oversubscribe its next infrastructure bond",
			Category:    "Finance",
			Subcategory: "Bonds",
			Source:      "Nigeria Debt Management Office",
			Description: "Resolves yes if total bids exceed the offered amount on the close of the next Lagos State bond auction.",
			Country:     "Nigeria",
			Confidence:  models.ConfidenceHigh,
			YesPool:     models.Dollars(1150),
			NoPool:      models.Dollars(350),
			ExpiresAt:   now.Add(30 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
		{
			ID:          "mkt-btc-ath",
			Claim:       "Bitcoin will set a new all-time high before the end of the year",
			Category:    "Finance",
			Subcategory: "Crypto",
			Source:      "CoinGecko",
			Description: "Resolves yes if BTC/USD prints above its previous record close on any major exchange.",
			Country:     "Global",
			Confidence:  models.ConfidenceLow,
			YesPool:     models.Dollars(2600),
			NoPool:      models.Dollars(1900),
			Trending:    true,
			ExpiresAt:   now.Add(120 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
		{
			ID:          "mkt-kenya-fuel",
			Claim:       "Kenya will cut retail fuel prices in the next monthly review",
			Category:    "Politics",
			Subcategory: "Energy Policy",
			Source:      "EPRA Kenya",
			Description: "Resolves yes if the Energy and Petroleum Regulatory Authority lowers the pump price cap for super petrol.",
			Country:     "Kenya",
			Confidence:  models.ConfidenceMedium,
			YesPool:     models.Dollars(300),
			NoPool:      models.Dollars(540),
			ExpiresAt:   now.Add(21 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
		{
			ID:          "mkt-afcon-host",
			Claim:       "The next AFCON host nation will reach the quarter-finals",
			Category:    "Sports",
			Subcategory: "Football",
			Source:      "CAF",
			Description: "Resolves yes if the tournament hosts win their round-of-16 fixture.",
			Country:     "Morocco",
			Confidence:  models.ConfidenceMedium,
			YesPool:     models.Dollars(760),
			NoPool:      models.Dollars(410),
			Trending:    true,
			ExpiresAt:   now.Add(60 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
		{
			ID:          "mkt-starlink-sa",
			Claim:       "Starlink will receive an operating licence in South Africa this year",
			Category:    "Technology",
			Subcategory: "Telecoms",
			Source:      "ICASA",
			Description: "Resolves yes on a published ICASA licence grant to SpaceX's Starlink service.",
			Country:     "South Africa",
			Confidence:  models.ConfidenceLow,
			YesPool:     models.Dollars(220),
			NoPool:      models.Dollars(680),
			ExpiresAt:   now.Add(180 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
		{
			ID:          "mkt-accra-flood",
			Claim:       "Accra will record above-average rainfall this wet season",
			Category:    "Climate",
			Subcategory: "Weather",
			Source:      "Ghana Meteorological Agency",
			Description: "Resolves yes if cumulative May-July rainfall exceeds the 10-year mean for the Greater Accra region.",
			Country:     "Ghana",
			Confidence:  models.ConfidenceMedium,
			YesPool:     models.Dollars(180),
			NoPool:      models.Dollars(150),
			ExpiresAt:   now.Add(90 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
		{
			ID:          "mkt-eth-etf-inflow",
			Claim:       "US spot Ether ETFs will post net inflows for four consecutive weeks",
			Category:    "Finance",
			Subcategory: "Crypto",
			Source:      "Farside Investors",
			Description: "Resolves yes on four straight weeks of positive aggregate net flow across all US spot ETH ETFs.",
			Country:     "United States",
			Confidence:  models.ConfidenceLow,
			YesPool:     models.Dollars(540),
			NoPool:      models.Dollars(610),
			ExpiresAt:   now.Add(75 * 24 * time.Hour),
			Status:      models.MarketStatusActive,
		},
	}
}
