/*
Package recommend produces personalized reading suggestions by prompting a
language model with the user's stated interests.

The model is a best-effort collaborator: when it is unreachable or returns
nothing usable, the service degrades to a fixed fallback message instead of
failing the request.
*/
package recommend

// Suggestion is one recommended title with the model's reasoning.
type Suggestion struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason string `json:"reason"`
}

// Result is the response payload for a recommendation request.
// Exactly one of Suggestions or Message is populated.
type Result struct {
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// FallbackMessage is returned when the model cannot be consulted.
const FallbackMessage = "Recommendations are temporarily unavailable. Please try again later."
