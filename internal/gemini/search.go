package gemini

import "strings"

// searchKeywords is the deterministic keyword gate for automatic web-search
// grounding. A message whose lowercased text contains any of these triggers
// grounding without an explicit /search. The list covers time-sensitive
// topics: news, prices and exchange rates, weather, current events, health
// crises, and elections.
var searchKeywords = []string{
	"tin tức", "news", "mới nhất", "hiện tại", "hôm nay",
	"giá", "price", "tỷ giá", "thời tiết", "weather",
	"tìm kiếm", "search", "thông tin về", "what is",
	"covid", "virus", "dịch bệnh", "bầu cử", "election",
}

// ShouldSearch reports whether the message should be answered with
// web-search grounding enabled. Deterministic and case-insensitive.
func ShouldSearch(msg string) bool {
	lower := strings.ToLower(msg)
	for _, kw := range searchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
