package models

// Campaign is a participant-set container. The claim workflow only ever
// grows Participants, never shrinks it.
type Campaign struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

// User identifies an account. PushToken, when set, is the notification
// endpoint for best-effort claim outcome notices.
type User struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	PushToken   *string `json:"pushToken,omitempty"`
	Admin       bool    `json:"admin"`
}
