package insights

// Rank is a title a child holds once lifetime stars reach MinStars.
type Rank struct {
	MinStars int
	Name     string
}

// Ranks is ordered by ascending MinStars.
var Ranks = []Rank{
	{0, "New Star"},
	{5, "Star Starter"},
	{20, "Rising Star"},
	{50, "Star Explorer"},
	{100, "Superstar"},
	{200, "Star Champion"},
	{500, "Star Legend"},
}

// RankFor returns the highest rank whose threshold total reaches.
func RankFor(total int) string {
	name := Ranks[0].Name
	for _, r := range Ranks {
		if total >= r.MinStars {
			name = r.Name
		}
	}
	return name
}
