package model

// OauthToken is the token document returned by the Reddit token endpoint.
// The refresh token is only present on the initial authorization-code exchange;
// refresh responses may omit it.
type OauthToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SubmitResponse is the envelope Reddit wraps around submit and sticky calls
// when api_type=json is requested.
type SubmitResponse struct {
	Details SubmitDetails `json:"json"`
}

type SubmitDetails struct {
	Errors [][]interface{} `json:"errors"`
	Data   SubmitData      `json:"data"`
}

// SubmitData carries the identifiers of a created submission. Name is the
// fullname (t3_xxx) used by moderation endpoints.
type SubmitData struct {
	URL  string `json:"url"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RedditListing is a page of the authenticated user's submissions, used to
// seed the local ledger on first run.
type RedditListing struct {
	Data ListingData `json:"data"`
}

type ListingData struct {
	Children []ListingChild `json:"children"`
	After    *string        `json:"after"`
}

type ListingChild struct {
	Data ListingChildData `json:"data"`
}

type ListingChildData struct {
	Name         string  `json:"name"`
	URL          string  `json:"url"`
	TimestampUTC float64 `json:"created_utc"`
	Stickied     bool    `json:"stickied"`
}

// AuthorizeForm is the operator-submitted form that starts the Reddit
// authorization handshake.
type AuthorizeForm struct {
	ClientID     string `json:"clientId" binding:"required"`
	ResponseType string `json:"responseType"`
	State        string `json:"state"`
	RedirectURL  string `json:"redirectUrl" binding:"required,min=3"`
	Duration     string `json:"duration"`
	Scope        string `json:"scope"`
}

// ReqLogin is the operator password login request.
type ReqLogin struct {
	Password string `json:"password" binding:"required"`
}
