package hierarchy

import "context"

// Stats aggregates counts over the flat list.
type Stats struct {
	Total    int `json:"total"`
	Main     int `json:"main"`
	Sub      int `json:"sub"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Promo    int `json:"promo"`
}

// Stats computes the counts in one pass.
func (s *Service) Stats(ctx context.Context) Stats {
	var st Stats
	for _, r := range s.records(ctx) {
		st.Total++
		if r.IsRoot() {
			st.Main++
		} else {
			st.Sub++
		}
		if r.IsActive {
			st.Active++
		} else {
			st.Inactive++
		}
		if r.IsPromo() {
			st.Promo++
		}
	}
	return st
}
