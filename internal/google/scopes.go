package google

// DefaultOAuthScopes are the Google OAuth scopes the bot needs.
//
// Full calendar access covers every gateway operation: listing and
// mutating events plus free/busy queries across attendee calendars.
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/calendar",
}
