package domain

// Explanation is the fixed-shape record the generator must produce.
// Definition and RealTalk are mandatory; the rest are present only when
// supporting context existed and are never defaulted to placeholder text.
type Explanation struct {
	Definition      string   `json:"definition"`
	RealTalk        string   `json:"real_talk"`
	WhereItShowsUp  string   `json:"where_it_shows_up,omitempty"`
	WhyItMatters    string   `json:"why_it_matters,omitempty"`
	BrandContext    string   `json:"brand_context,omitempty"`
	CategoryContext string   `json:"category_context,omitempty"`
	RelatedTerms    []string `json:"related_terms,omitempty"`
}
