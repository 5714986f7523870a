package domain

// Context keys set by the auth middleware once a bearer token checks out.
const (
	RequesterIdCtxKey       = "nb-requesterId"
	RequesterTokenCtxKey    = "nb-requesterToken"
	RequesterTokenExpCtxKey = "nb-requesterTokenExp"
)
