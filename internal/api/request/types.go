package request

// AddPlayerRequest is the request body for adding a player to the roster
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// UpdateSettingsRequest is the request body for changing settings
type UpdateSettingsRequest struct {
	AllowRepeats *bool `json:"allow_repeats"`
}

// StartSessionRequest is the request body for starting a round.
// AllowRepeats falls back to the saved settings when omitted.
type StartSessionRequest struct {
	Player       string `json:"player"`
	AllowRepeats *bool  `json:"allow_repeats,omitempty"`
}

// ResumeSessionRequest is the request body for resuming a round
type ResumeSessionRequest struct {
	Player string `json:"player"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	Guess string `json:"guess"`
}

// HelpRequest is the request body for spending a help token
type HelpRequest struct {
	Draft string `json:"draft"`
}
