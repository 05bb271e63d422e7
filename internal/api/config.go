package api

// Config holds server configuration.
type Config struct {
	Port           int
	WordlistDir    string   // directory holding the dictionary source
	AllowedOrigins []string // CORS allowed origins (empty = allow all)
}
