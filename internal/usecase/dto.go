package usecase

type ScrapeInput struct {
	City       string   `json:"city"`
	Categories []string `json:"categories"`
}

type ScrapeLinkInput struct {
	URL string `json:"url"`
}

type ScrapeOutput struct {
	Count   int     `json:"count"`
	Usage   float64 `json:"usage"`
	Message string  `json:"message"`
}

type CreateLeadInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Category string `json:"category"`
}

type CreateLeadOutput struct {
	ID string `json:"id"`
}
