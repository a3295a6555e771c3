package domain

// CreatedListing records one successful listing creation.
type CreatedListing struct {
	Label     string `json:"label"`
	ListingID string `json:"listing_id"`
	Permalink string `json:"permalink,omitempty"`
}

// FailedListing records one failed listing creation. Failures are isolated
// per job and never abort sibling jobs.
type FailedListing struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// Tally is the outcome of a batch publish. Created and Errors together cover
// every job in the plan exactly once, in job order.
type Tally struct {
	Created []CreatedListing `json:"created"`
	Errors  []FailedListing  `json:"errors"`
	Skipped []string         `json:"skipped,omitempty"`
}
