package reservations

// Config holds configuration for the reservation API client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com/v1.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8000/api" validate:"required,url"`
	// APIToken is sent as a bearer token.
	APIToken string `mapstructure:"api_token" default:""`
	// PerPage is the page size used when listing reservations.
	PerPage int `mapstructure:"per_page" default:"50" validate:"gte=1,lte=500"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20" validate:"gte=1"`
}
