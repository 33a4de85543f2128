package pricing

// Config holds the tariff constants.
type Config struct {
	BaseRate       float64 `mapstructure:"base_rate" default:"2250" validate:"gte=0"`
	IncludedGuests int     `mapstructure:"included_guests" default:"4" validate:"gte=0"`
	ACSurcharge    float64 `mapstructure:"ac_surcharge" default:"500" validate:"gte=0"`
	ExtraGuest     float64 `mapstructure:"extra_guest" default:"500" validate:"gte=0"`
	Pet            float64 `mapstructure:"pet" default:"300" validate:"gte=0"`
}

// Rates converts the configuration into calculator rates.
func (c Config) Rates() Rates {
	return Rates{
		BaseRate:       c.BaseRate,
		IncludedGuests: c.IncludedGuests,
		ACSurcharge:    c.ACSurcharge,
		ExtraGuest:     c.ExtraGuest,
		Pet:            c.Pet,
	}
}
