package model

// GenerateRequest represents a password generation request.
// Pointers distinguish a missing field (nil -> configured default) from an explicit zero value.
type GenerateRequest struct {
	Length  *int  `json:"length"`
	Symbols *bool `json:"symbols"`
	Count   *int  `json:"count,omitempty"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
	Symbols  bool   `json:"symbols"`
}

// BatchResponse carries several passwords generated with the same settings.
type BatchResponse struct {
	Passwords []string `json:"passwords"`
	Length    int      `json:"length"`
	Symbols   bool     `json:"symbols"`
}

// AlphabetResponse describes the characters a request would sample from.
type AlphabetResponse struct {
	Alphabet string `json:"alphabet"`
	Size     int    `json:"size"`
	Symbols  bool   `json:"symbols"`
}
