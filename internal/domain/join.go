package domain

import "sort"

// TitleIndex maps link id to display title.
func TitleIndex(links []ClaimLink) map[string]string {
	idx := make(map[string]string, len(links))
	for _, l := range links {
		idx[l.LinkID] = l.DisplayTitle()
	}
	return idx
}

// JoinClaims decorates each claim with the title of its link and returns the
// result ordered by ClaimedAt, newest first. Ties keep their input order.
// Claims whose link is absent from titles get UnknownReward.
//
// JoinClaims does not modify its inputs.
func JoinClaims(claims []Claim, titles map[string]string) []ClaimView {
	out := make([]ClaimView, 0, len(claims))
	for _, c := range claims {
		name, ok := titles[c.LinkID]
		if !ok {
			name = UnknownReward
		}
		out = append(out, ClaimView{Claim: c, RewardName: name})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ClaimedAt.After(out[j].ClaimedAt)
	})
	return out
}
