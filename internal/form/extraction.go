package form

// Extraction is the subset of the form that can be read off an invitation
// document.
type Extraction struct {
	EventName          string `json:"eventName"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	TargetAudience     string `json:"targetAudience"`
	IsOnline           bool   `json:"isOnline"`
	LocationOrPlatform string `json:"locationOrPlatform"`
	ContactName        string `json:"contactName"`
	ContactPhone       string `json:"contactPhone"`
	ContactEmail       string `json:"contactEmail"`
}

// Patch sets all nine fields, blanks included.
func (e Extraction) Patch() Patch {
	return Patch{
		EventName:          Ptr(e.EventName),
		Date:               Ptr(e.Date),
		Time:               Ptr(e.Time),
		TargetAudience:     Ptr(e.TargetAudience),
		IsOnline:           Ptr(e.IsOnline),
		LocationOrPlatform: Ptr(e.LocationOrPlatform),
		ContactName:        Ptr(e.ContactName),
		ContactPhone:       Ptr(e.ContactPhone),
		ContactEmail:       Ptr(e.ContactEmail),
	}
}
