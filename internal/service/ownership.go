package service

import "go.mongodb.org/mongo-driver/bson/primitive"

// permits reports whether the authenticated caller owns the resource.
// Comparison is by string identity on the ObjectID hex. Callers must check
// resource existence first: NotFound takes precedence over Forbidden.
func permits(resourceAuthor primitive.ObjectID, callerID string) bool {
	return resourceAuthor.Hex() == callerID
}
