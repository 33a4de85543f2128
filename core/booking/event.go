package booking

// FeedEvent is one blocked date range parsed from an external calendar feed.
// Feed events carry no guest identity; Summary is the only free-text signal.
type FeedEvent struct {
	UID      string  `json:"uid"`
	Summary  string  `json:"summary"`
	Start    Date    `json:"start"`
	End      Date    `json:"end"`
	Platform Channel `json:"platform"`
}

// FeedDescriptor names one external calendar feed.
type FeedDescriptor struct {
	Platform Channel `json:"platform"`
	URL      string  `json:"url"`
}
